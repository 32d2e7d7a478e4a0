package document

import (
	"errors"
	"fmt"
	"math"
)

// This file defines the stroke-width unit model. Strokes carry a single
// nominal width: the value as understood by the interactive on-screen
// renderer, in canvas units. Every rendering backend uses its own width
// unit, so each backend gets an explicit, named conversion from the nominal
// value; a backend-specific width must never be stored back into a Stroke.

// Brush bounds of the interactive drawing surface, in nominal units.
const (
	MinBrushWidth     = 1.0
	MaxBrushWidth     = 40.0
	DefaultBrushWidth = 8.0
)

// DefaultRasterRatio is the empirical calibration constant relating the
// nominal (on-screen) width unit to the export rasterizer's width unit.
// Strokes come out visibly thicker from the rasterizer than from the
// interactive painter at the same numeric width; scaling by this ratio makes
// the two outputs match. It is an approximation, not a derived conversion:
// cap, join and anti-aliasing footprints differ between the two engines and
// are not modeled here. Recalibrate in this one place only.
const DefaultRasterRatio = 0.7

// Conversion constants between canvas units (CSS-like px at 96 dpi) and mm,
// used by the print backend.
const (
	PxToMm = 25.4 / 96.0
	MmToPx = 1.0 / PxToMm
)

// ErrInvalidWidth reports a width that is not a positive finite number.
var ErrInvalidWidth = errors.New("stroke width must be positive and finite")

// ErrInvalidRatio reports a calibration ratio that is not a positive finite
// number. A zero or negative ratio would turn every valid width into the
// silent zero/negative width the conversions exist to rule out.
var ErrInvalidRatio = errors.New("calibration ratio must be positive and finite")

// Calibration converts nominal stroke widths into the width units of the
// rendering backends. The zero value is not usable; start from
// DefaultCalibration.
type Calibration struct {
	// RasterRatio is the nominal→raster scale factor (see DefaultRasterRatio).
	RasterRatio float64
	// PrintRatio is the nominal→print scale factor. Unlike RasterRatio this
	// is an exact unit conversion: print widths are in mm.
	PrintRatio float64
}

// DefaultCalibration returns the build-time calibration.
func DefaultCalibration() Calibration {
	return Calibration{RasterRatio: DefaultRasterRatio, PrintRatio: PxToMm}
}

// Raster converts a nominal width to the export rasterizer's width unit.
// The mapping is linear, so relative ordering between strokes of different
// widths is preserved. Non-positive or non-finite widths are rejected.
func (c Calibration) Raster(w float64) (float64, error) {
	if err := checkRatio(c.RasterRatio); err != nil {
		return 0, err
	}
	if err := CheckWidth(w); err != nil {
		return 0, err
	}
	return w * c.RasterRatio, nil
}

// Print converts a nominal width to the print backend's width unit (mm).
func (c Calibration) Print(w float64) (float64, error) {
	if err := checkRatio(c.PrintRatio); err != nil {
		return 0, err
	}
	if err := CheckWidth(w); err != nil {
		return 0, err
	}
	return w * c.PrintRatio, nil
}

// Validate checks both ratios, so misconfiguration surfaces before the
// first stroke is converted.
func (c Calibration) Validate() error {
	if err := checkRatio(c.RasterRatio); err != nil {
		return fmt.Errorf("raster ratio: %w", err)
	}
	if err := checkRatio(c.PrintRatio); err != nil {
		return fmt.Errorf("print ratio: %w", err)
	}
	return nil
}

func checkRatio(k float64) error {
	if math.IsNaN(k) || math.IsInf(k, 0) || k <= 0 {
		return fmt.Errorf("%w: %g", ErrInvalidRatio, k)
	}
	return nil
}

// CheckWidth validates a nominal width: it must be positive and finite.
func CheckWidth(w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		return fmt.Errorf("%w: %g", ErrInvalidWidth, w)
	}
	return nil
}

// ClampBrushWidth forces a width into the interactive surface's brush
// bounds. Non-finite values collapse to the minimum visible width. Used at
// the gesture boundary, where rejecting input is not an option.
func ClampBrushWidth(w float64) float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return MinBrushWidth
	}
	return math.Min(MaxBrushWidth, math.Max(MinBrushWidth, w))
}
