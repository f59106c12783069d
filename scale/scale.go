package scale

import (
	"fmt"

	"github.com/tsawler/takeoff/model"
)

// Result is a detected drawing scale.
type Result struct {
	DrawingUnits float64          `json:"drawing_units"` // inches on paper
	RealUnits    float64          `json:"real_units"`    // inches in the real world
	Factor       float64          `json:"scale_factor"`  // RealUnits / DrawingUnits
	Notation     string           `json:"notation"`
	Confidence   model.Confidence `json:"confidence"`
}

// NewResult builds a result from paper and real inches. It returns false
// unless both are positive.
func NewResult(drawing, realInches float64, notation string, confidence model.Confidence) (Result, bool) {
	if drawing <= 0 || realInches <= 0 {
		return Result{}, false
	}
	return Result{
		DrawingUnits: drawing,
		RealUnits:    realInches,
		Factor:       realInches / drawing,
		Notation:     notation,
		Confidence:   confidence,
	}, true
}

// IsValid reports whether the result carries a usable factor.
func (r Result) IsValid() bool {
	return r.Factor > 0
}

// String returns the notation and factor, e.g. `1/4"=1'-0" (x48)`.
func (r Result) String() string {
	return fmt.Sprintf("%s (x%g)", r.Notation, r.Factor)
}

// DefaultScale is the assumed scale for pages where none could be found:
// 1/8"=1'-0", a common floor plan scale, at low confidence.
func DefaultScale() Result {
	return Result{
		DrawingUnits: 0.125,
		RealUnits:    12,
		Factor:       96,
		Notation:     `estimated (1/8"=1'-0")`,
		Confidence:   model.ConfidenceLow,
	}
}
