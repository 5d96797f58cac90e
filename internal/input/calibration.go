package input

import (
	"fmt"
	"math"
)

// Calibration maps raw controller coordinates to panel pixels:
//
//	x' = AX*x + BX
//	y' = AY*y + BY
//
// When SwapXY is set the raw axes are exchanged before scaling.
type Calibration struct {
	AX     float64 `toml:"ax" json:"ax" env:"AX"`
	BX     float64 `toml:"bx" json:"bx" env:"BX"`
	AY     float64 `toml:"ay" json:"ay" env:"AY"`
	BY     float64 `toml:"by" json:"by" env:"BY"`
	SwapXY bool    `toml:"swap_xy" json:"swap_xy" env:"SWAP_XY"`
}

// Identity is the calibration that leaves coordinates untouched.
var Identity = Calibration{AX: 1, AY: 1}

// Apply transforms a raw point. Results are truncated toward zero.
func (c Calibration) Apply(x, y int) (int, int) {
	if c.SwapXY {
		x, y = y, x
	}
	return int(c.AX*float64(x) + c.BX), int(c.AY*float64(y) + c.BY)
}

// Validate rejects calibrations that collapse an axis or are not finite.
func (c Calibration) Validate() error {
	for name, v := range map[string]float64{"ax": c.AX, "bx": c.BX, "ay": c.AY, "by": c.BY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("input: calibration %s is not finite", name)
		}
	}
	if c.AX == 0 || c.AY == 0 {
		return fmt.Errorf("input: calibration scale must be non-zero (ax=%g ay=%g)", c.AX, c.AY)
	}
	return nil
}

// Calibrated applies a Calibration to every pressed sample of a Reader.
type Calibrated struct {
	src Reader
	cal Calibration
}

// NewCalibrated wraps src.
func NewCalibrated(src Reader, cal Calibration) *Calibrated {
	return &Calibrated{src: src, cal: cal}
}

// Read implements Reader.
func (c *Calibrated) Read() (bool, int, int) {
	pressed, x, y := c.src.Read()
	if !pressed {
		return false, 0, 0
	}
	x, y = c.cal.Apply(x, y)
	return true, x, y
}
