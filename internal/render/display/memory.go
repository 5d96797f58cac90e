package display

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"sync"

	"github.com/dshills/gamemaker/internal/render"
)

// Memory is a display that retains the most recently presented frame.
type Memory struct {
	mu     sync.Mutex
	frame  []uint16
	width  int
	height int
	count  int
}

// NewMemory creates an empty memory display.
func NewMemory() *Memory {
	return &Memory{}
}

// Present copies the frame.
func (m *Memory) Present(pix []uint16, width, height int) error {
	if len(pix) < width*height {
		return fmt.Errorf("display: frame has %d pixels, want %d", len(pix), width*height)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if cap(m.frame) < width*height {
		m.frame = make([]uint16, width*height)
	}
	m.frame = m.frame[:width*height]
	copy(m.frame, pix)
	m.width = width
	m.height = height
	m.count++
	return nil
}

// Count returns the number of frames presented so far.
func (m *Memory) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// At returns the color at (x, y) of the last frame.
func (m *Memory) At(x, y int) render.Color {
	m.mu.Lock()
	defer m.mu.Unlock()
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return render.Black
	}
	return render.Color(m.frame[y*m.width+x])
}

// Image converts the last frame to an RGBA image.
func (m *Memory) Image() *image.RGBA {
	m.mu.Lock()
	defer m.mu.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, m.width, m.height))
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			r, g, b := render.Color(m.frame[y*m.width+x]).RGB8()
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 0xFF})
		}
	}
	return img
}

// WritePNG encodes the last frame as PNG.
func (m *Memory) WritePNG(w io.Writer) error {
	return png.Encode(w, m.Image())
}

// SavePNG writes the last frame to path.
func (m *Memory) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("display: create snapshot: %w", err)
	}
	if err := m.WritePNG(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("display: encode snapshot: %w", err)
	}
	return f.Close()
}
