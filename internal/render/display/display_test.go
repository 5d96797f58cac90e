package display

import (
	"bytes"
	"image/png"
	"sync"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/gamemaker/internal/render"
)

func TestMemoryPresent(t *testing.T) {
	m := NewMemory()
	pix := []uint16{uint16(render.White), 0, 0, uint16(render.Danger)}

	if err := m.Present(pix, 2, 2); err != nil {
		t.Fatalf("Present: %v", err)
	}
	pix[0] = 0 // frame must be copied

	if m.Count() != 1 {
		t.Errorf("Count = %d, want 1", m.Count())
	}
	if got := m.At(0, 0); got != render.White {
		t.Errorf("At(0,0) = %#04x, want white", got)
	}
	if got := m.At(1, 1); got != render.Danger {
		t.Errorf("At(1,1) = %#04x, want danger", got)
	}
	if got := m.At(5, 5); got != render.Black {
		t.Errorf("out of range At = %#04x, want black", got)
	}
}

func TestMemoryPresentShortFrame(t *testing.T) {
	m := NewMemory()
	if err := m.Present(make([]uint16, 3), 2, 2); err == nil {
		t.Error("expected error for short frame")
	}
	if m.Count() != 0 {
		t.Errorf("Count = %d, want 0", m.Count())
	}
}

func TestMemoryWritePNG(t *testing.T) {
	m := NewMemory()
	if err := m.Present([]uint16{uint16(render.Danger), uint16(render.Success)}, 2, 1); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := m.WritePNG(&buf); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 1 {
		t.Fatalf("bounds = %v", b)
	}
	r, g, _, _ := img.At(0, 0).RGBA()
	if r>>8 != 0xFF || g != 0 {
		t.Errorf("pixel 0 = r%d g%d, want pure red", r>>8, g>>8)
	}
}

func TestFitScale(t *testing.T) {
	tests := []struct {
		name       string
		cols, rows int
		want       int
	}{
		{"exact", 320, 240, 1},
		{"narrow", 40, 100, 8},
		{"short", 320, 30, 8},
		{"unknown", 0, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fitScale(320, 480, tt.cols, tt.rows); got != tt.want {
				t.Errorf("fitScale = %d, want %d", got, tt.want)
			}
		})
	}
}

func newSimTerminal(t *testing.T, cols, rows int) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	term := NewTerminalWithScreen(sim)
	if err := term.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	sim.SetSize(cols, rows)
	return term, sim
}

func TestTerminalPresent(t *testing.T) {
	term, sim := newSimTerminal(t, 40, 30)
	defer term.Shutdown()

	r := render.New(320, 480, term)
	r.Pixel(0, 0, render.White)
	r.Pixel(0, 8, render.Danger)
	if err := r.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if term.Scale() != 8 {
		t.Fatalf("Scale = %d, want 8", term.Scale())
	}

	mainc, _, style, _ := sim.GetContent(0, 0)
	if mainc != upperHalf {
		t.Errorf("cell rune = %q, want upper half block", mainc)
	}
	fg, bg, _ := style.Decompose()
	if fg != tcell.NewRGBColor(255, 255, 255) {
		t.Errorf("fg = %v, want white", fg)
	}
	if bg != tcell.NewRGBColor(255, 0, 0) {
		t.Errorf("bg = %v, want red", bg)
	}
}

func TestTerminalCellToPanel(t *testing.T) {
	term, _ := newSimTerminal(t, 40, 30)
	defer term.Shutdown()

	if err := term.Present(make([]uint16, 320*480), 320, 480); err != nil {
		t.Fatal(err)
	}

	x, y, ok := term.CellToPanel(2, 3)
	if !ok || x != 16 || y != 48 {
		t.Errorf("CellToPanel(2,3) = %d,%d,%v want 16,48,true", x, y, ok)
	}
	if _, _, ok := term.CellToPanel(40, 0); ok {
		t.Error("cell past the panel should not map")
	}
	if _, _, ok := term.CellToPanel(-1, 0); ok {
		t.Error("negative cell should not map")
	}
}

type recordingSink struct {
	mu      sync.Mutex
	pressed bool
	x, y    int
	calls   int
}

func (s *recordingSink) Set(pressed bool, x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pressed, s.x, s.y = pressed, x, y
	s.calls++
}

func TestTerminalListen(t *testing.T) {
	term, sim := newSimTerminal(t, 40, 30)
	defer term.Shutdown()

	if err := term.Present(make([]uint16, 320*480), 320, 480); err != nil {
		t.Fatal(err)
	}

	sink := &recordingSink{}
	done := make(chan struct{})
	var once sync.Once
	go term.Listen(sink, func() { once.Do(func() { close(done) }) })

	sim.InjectMouse(2, 3, tcell.Button1, tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	<-done

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.calls != 1 || !sink.pressed || sink.x != 16 || sink.y != 48 {
		t.Errorf("sink = %+v, want one press at 16,48", sink)
	}
}
