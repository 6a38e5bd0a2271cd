package targets

import "math"

// Contains reports whether p lands on the target. Circles use Euclidean
// distance to the center; rectangles are axis-aligned with inclusive edges.
func (t *Target) Contains(p Point) bool {
	if t == nil {
		return false
	}
	switch t.Shape {
	case ShapeRect:
		return math.Abs(p.X-t.X) <= t.Width/2 && math.Abs(p.Y-t.Y) <= t.Height/2
	default:
		return math.Hypot(p.X-t.X, p.Y-t.Y) <= t.Radius
	}
}
