package display

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/gamemaker/internal/render"
)

const upperHalf = '▀'

// TouchSink receives touches translated from terminal mouse events.
type TouchSink interface {
	Set(pressed bool, x, y int)
}

// Terminal presents frames in a tcell screen.
//
// Each terminal cell shows two vertically stacked panel pixels: the upper
// one as the foreground of an upper half block and the lower one as the
// background. Frames larger than the terminal are sampled down by an
// integer factor.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex

	// Geometry of the last presented frame, used to map mouse cells back
	// to panel pixels.
	panelW int
	panelH int
	scale  int
}

// NewTerminal creates a terminal display on the controlling tty.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalWithScreen(screen), nil
}

// NewTerminalWithScreen wraps an existing tcell screen, such as a
// simulation screen in tests. The screen must not be initialized yet.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen, scale: 1}
}

// Init initializes the screen and enables mouse reporting.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnableMouse()
	t.screen.HideCursor()
	return nil
}

// Shutdown restores the terminal. A pending Listen loop returns.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

// Scale returns the current downsampling factor.
func (t *Terminal) Scale() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scale
}

// Present paints the frame and shows it.
func (t *Terminal) Present(pix []uint16, width, height int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	cols, rows := t.screen.Size()
	s := fitScale(width, height, cols, rows)
	t.panelW, t.panelH, t.scale = width, height, s

	at := func(x, y int) tcell.Color {
		if x >= width || y >= height {
			return tcell.ColorBlack
		}
		r, g, b := render.Color(pix[y*width+x]).RGB8()
		return tcell.NewRGBColor(int32(r), int32(g), int32(b))
	}

	cellsW := (width + s - 1) / s
	cellsH := (height + 2*s - 1) / (2 * s)
	for cy := 0; cy < cellsH && cy < rows; cy++ {
		for cx := 0; cx < cellsW && cx < cols; cx++ {
			px := cx * s
			top := at(px, 2*cy*s)
			bottom := at(px, (2*cy+1)*s)
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			t.screen.SetContent(cx, cy, upperHalf, nil, style)
		}
	}
	t.screen.Show()
	return nil
}

// CellToPanel maps a terminal cell to the panel pixel it displays.
func (t *Terminal) CellToPanel(cx, cy int) (x, y int, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	x = cx * t.scale
	y = 2 * cy * t.scale
	if cx < 0 || cy < 0 || x >= t.panelW || y >= t.panelH {
		return 0, 0, false
	}
	return x, y, true
}

// Listen pumps terminal events until the screen is shut down. Mouse
// button presses inside the panel are reported to sink; 'q', Escape or
// Ctrl-C invoke quit.
func (t *Terminal) Listen(sink TouchSink, quit func()) {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventMouse:
			cx, cy := ev.Position()
			x, y, ok := t.CellToPanel(cx, cy)
			pressed := ev.Buttons()&tcell.Button1 != 0
			if sink != nil {
				if ok {
					sink.Set(pressed, x, y)
				} else if !pressed {
					sink.Set(false, 0, 0)
				}
			}
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyEscape || ev.Rune() == 'q' {
				if quit != nil {
					quit()
				}
			}
		case *tcell.EventResize:
			t.mu.Lock()
			t.screen.Clear()
			t.mu.Unlock()
		}
	}
}

// fitScale picks the smallest integer factor that fits the panel into the
// terminal, counting two pixel rows per cell.
func fitScale(width, height, cols, rows int) int {
	s := 1
	if cols > 0 {
		s = max(s, (width+cols-1)/cols)
	}
	if rows > 0 {
		s = max(s, (height+2*rows-1)/(2*rows))
	}
	return s
}
