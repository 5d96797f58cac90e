package input

import (
	"errors"
	"testing"
	"time"
)

func TestLatch(t *testing.T) {
	l := NewLatch()
	if p, _, _ := l.Read(); p {
		t.Fatal("idle latch reported a touch")
	}

	l.Set(true, 10, 20)
	if p, x, y := l.Read(); !p || x != 10 || y != 20 {
		t.Errorf("Read = %v,%d,%d want true,10,20", p, x, y)
	}
	// still held
	if p, _, _ := l.Read(); !p {
		t.Error("held press not reported")
	}

	l.Set(false, 0, 0)
	if p, _, _ := l.Read(); p {
		t.Error("released latch still pressed")
	}
}

func TestLatchQuickTap(t *testing.T) {
	l := NewLatch()
	l.Set(true, 5, 6)
	l.Set(false, 0, 0)

	if p, x, y := l.Read(); !p || x != 5 || y != 6 {
		t.Errorf("quick tap lost: %v,%d,%d", p, x, y)
	}
	if p, _, _ := l.Read(); p {
		t.Error("quick tap reported twice")
	}
}

func TestCalibrationApply(t *testing.T) {
	tests := []struct {
		name         string
		cal          Calibration
		x, y         int
		wantX, wantY int
	}{
		{"identity", Identity, 12, 34, 12, 34},
		{"scale and offset", Calibration{AX: 0.5, BX: 10, AY: 2, BY: -5}, 100, 50, 60, 95},
		{"swap", Calibration{AX: 1, AY: 1, SwapXY: true}, 1, 2, 2, 1},
		{"mirror", Calibration{AX: -1, BX: 319, AY: 1}, 19, 7, 300, 7},
		{"truncates", Calibration{AX: 0.3, AY: 0.3}, 10, 10, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := tt.cal.Apply(tt.x, tt.y)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("Apply(%d,%d) = %d,%d want %d,%d", tt.x, tt.y, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestCalibrationValidate(t *testing.T) {
	if err := Identity.Validate(); err != nil {
		t.Errorf("identity invalid: %v", err)
	}
	if err := (Calibration{AX: 0, AY: 1}).Validate(); err == nil {
		t.Error("zero ax accepted")
	}
}

func TestCalibrated(t *testing.T) {
	src := NewScript(Tap(10, 20), Sample{})
	r := NewCalibrated(src, Calibration{AX: 2, AY: 1, BY: 1})

	if p, x, y := r.Read(); !p || x != 20 || y != 21 {
		t.Errorf("Read = %v,%d,%d want true,20,21", p, x, y)
	}
	if p, x, y := r.Read(); p || x != 0 || y != 0 {
		t.Errorf("released Read = %v,%d,%d want false,0,0", p, x, y)
	}
}

func TestScript(t *testing.T) {
	s := NewScript(Tap(1, 2), Sample{X: 9, Y: 9}, Tap(3, 4))
	want := []Sample{Tap(1, 2), {}, Tap(3, 4), {}, {}}
	for i, w := range want {
		p, x, y := s.Read()
		if p != w.Pressed || x != w.X || y != w.Y {
			t.Errorf("read %d = %v,%d,%d want %+v", i, p, x, y, w)
		}
	}
	if s.Remaining() != 0 {
		t.Errorf("Remaining = %d", s.Remaining())
	}
}

type fakeBus struct {
	status []byte
	point  [4]byte
	err    error
	reads  int
}

func (b *fakeBus) ReadRegister(addr, reg byte, buf []byte) error {
	if b.err != nil {
		return b.err
	}
	switch reg {
	case ft6x36StatusReg:
		buf[0] = b.status[min(b.reads, len(b.status)-1)]
		b.reads++
	case ft6x36P1XHReg:
		copy(buf, b.point[:])
	}
	return nil
}

func TestFT6x36(t *testing.T) {
	tests := []struct {
		name    string
		bus     *fakeBus
		pressed bool
		x, y    int
	}{
		{"no touch", &fakeBus{status: []byte{0x00}}, false, 0, 0},
		{"confirmed", &fakeBus{status: []byte{0x01, 0x01}, point: [4]byte{0x81, 0x2C, 0x40, 0xF0}}, true, 0x12C, 0xF0},
		{"glitch", &fakeBus{status: []byte{0x01, 0x00}}, false, 0, 0},
		{"two points", &fakeBus{status: []byte{0x02}}, false, 0, 0},
		{"flags ignored", &fakeBus{status: []byte{0xF1, 0x01}, point: [4]byte{0x00, 0x05, 0x00, 0x06}}, true, 5, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFT6x36(tt.bus)
			var slept time.Duration
			f.sleep = func(d time.Duration) { slept += d }

			p, x, y := f.Read()
			if p != tt.pressed || x != tt.x || y != tt.y {
				t.Errorf("Read = %v,%d,%d want %v,%d,%d", p, x, y, tt.pressed, tt.x, tt.y)
			}
			if tt.pressed && slept != time.Millisecond {
				t.Errorf("settle delay = %v", slept)
			}
		})
	}
}

func TestFT6x36BusError(t *testing.T) {
	bus := &fakeBus{err: errors.New("nack")}
	f := NewFT6x36(bus)
	if p, _, _ := f.Read(); p {
		t.Error("bus error reported a touch")
	}
	if !errors.Is(f.LastErr, bus.err) {
		t.Errorf("LastErr = %v", f.LastErr)
	}
}
