package tracking

import (
	"license-plate-service/internal/core/domain"
)

// IoU computes intersection-over-union of two axis-aligned boxes. Boxes with
// zero area are rejected so the union denominator can never be zero.
func IoU(a, b domain.Box) (float64, error) {
	if a.Area() == 0 || b.Area() == 0 {
		return 0, domain.ErrDegenerateBox
	}

	ix := max(a.X, b.X)
	iy := max(a.Y, b.Y)
	ix2 := min(a.X+a.Width, b.X+b.Width)
	iy2 := min(a.Y+a.Height, b.Y+b.Height)

	if ix2 <= ix || iy2 <= iy {
		return 0, nil
	}

	inter := (ix2 - ix) * (iy2 - iy)
	union := a.Area() + b.Area() - inter
	return float64(inter) / float64(union), nil
}
