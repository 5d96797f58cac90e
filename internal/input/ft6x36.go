package input

import (
	"fmt"
	"time"
)

// FT6x36 register map.
const (
	FT6x36Addr      = 0x38
	ft6x36StatusReg = 0x02
	ft6x36P1XHReg   = 0x03
)

// RegisterBus reads device registers over I2C.
type RegisterBus interface {
	ReadRegister(addr, reg byte, buf []byte) error
}

// FT6x36 reads the first touch point of a FocalTech FT6x36 capacitive
// controller. Coordinates are raw; wrap it in Calibrated for panel pixels.
//
// A single-point status is confirmed by a second status read after a short
// settle delay, which filters the spurious one-point reports the controller
// emits on release.
type FT6x36 struct {
	bus    RegisterBus
	settle time.Duration
	sleep  func(time.Duration)

	status [1]byte
	point  [4]byte

	// LastErr holds the most recent bus error. Read reports no touch when
	// the bus fails.
	LastErr error
}

// NewFT6x36 creates a controller reader on bus.
func NewFT6x36(bus RegisterBus) *FT6x36 {
	return &FT6x36{
		bus:    bus,
		settle: time.Millisecond,
		sleep:  time.Sleep,
	}
}

// Read implements Reader.
func (f *FT6x36) Read() (bool, int, int) {
	n, err := f.points()
	if err != nil || n != 1 {
		return false, 0, 0
	}
	f.sleep(f.settle)
	if n, err = f.points(); err != nil || n != 1 {
		return false, 0, 0
	}
	if err := f.bus.ReadRegister(FT6x36Addr, ft6x36P1XHReg, f.point[:]); err != nil {
		f.LastErr = fmt.Errorf("input: read touch point: %w", err)
		return false, 0, 0
	}
	x, y := DecodeFT6x36Point(f.point)
	return true, x, y
}

func (f *FT6x36) points() (int, error) {
	if err := f.bus.ReadRegister(FT6x36Addr, ft6x36StatusReg, f.status[:]); err != nil {
		f.LastErr = fmt.Errorf("input: read touch status: %w", err)
		return 0, f.LastErr
	}
	return int(f.status[0] & 0x0F), nil
}

// DecodeFT6x36Point extracts the 12-bit coordinates of a P1 register block.
// The upper nibble of each high byte carries event flags and is discarded.
func DecodeFT6x36Point(b [4]byte) (x, y int) {
	x = int(uint16(b[0])<<8|uint16(b[1])) & 0x0FFF
	y = int(uint16(b[2])<<8|uint16(b[3])) & 0x0FFF
	return x, y
}
