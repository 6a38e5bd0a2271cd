package targets

import (
	"aimtrainer/internal/utility"
	"time"
)

// Generator produces target geometry inside the current bounds.
type Generator struct {
	rand   utility.Rand
	shape  Shape
	nextID int
}

func NewGenerator(shape Shape, r utility.Rand) *Generator {
	return &Generator{
		rand:   r,
		shape:  shape,
		nextID: 1,
	}
}

func (g *Generator) Shape() Shape {
	return g.shape
}

// Next spawns a target that fits entirely within b. The tier is only
// consulted for rectangles.
func (g *Generator) Next(b Bounds, tier SizeTier, now time.Time) *Target {
	t := &Target{
		ID:         g.nextID,
		Shape:      g.shape,
		Color:      utility.PaletteColor(g.rand),
		AppearedAt: now,
	}
	g.nextID++

	switch g.shape {
	case ShapeRect:
		ranges := RangesFor(tier)
		t.Width = g.between(ranges.Width)
		t.Height = g.between(ranges.Height)
		t.X = g.center(b.Width, t.Width/2)
		t.Y = g.center(b.Height, t.Height/2)
		t.Label = utility.Label(g.rand)
	default:
		t.Radius = g.between(RadiusRange)
		t.X = g.center(b.Width, t.Radius)
		t.Y = g.center(b.Height, t.Radius)
	}
	return t
}

// Reset restarts target numbering.
func (g *Generator) Reset() {
	g.nextID = 1
}

func (g *Generator) between(r Range) float64 {
	return r.Min + g.rand.Float64()*(r.Max-r.Min)
}

// center draws a coordinate in [half, extent-half]. When the shape is wider
// than the extent it is centered instead.
func (g *Generator) center(extent, half float64) float64 {
	span := extent - 2*half
	if span <= 0 {
		return extent / 2
	}
	return half + g.rand.Float64()*span
}
