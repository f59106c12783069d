package model

// PointsPerInch is the drawing unit: 1pt = 1/72 inch.
const PointsPerInch = 72.0

// SquareFeet converts an area in square points to real square feet at the
// given scale factor: pts / 72² · scale² / 144.
func SquareFeet(areaPts, scale float64) float64 {
	paperSqIn := areaPts / (PointsPerInch * PointsPerInch)
	return paperSqIn * scale * scale / 144
}

// LinearFeet converts a length in points to real feet at the given scale
// factor: pts / 72 · scale / 12.
func LinearFeet(lengthPts, scale float64) float64 {
	return lengthPts / PointsPerInch * scale / 12
}

// PaperInches converts points to inches on paper.
func PaperInches(pts float64) float64 {
	return pts / PointsPerInch
}
