package targets

import (
	"fmt"
	"strings"
	"time"
)

// Shape selects the target geometry variant.
type Shape string

const (
	ShapeCircle = Shape("circle")
	ShapeRect   = Shape("rect")
)

func ParseShape(s string) (Shape, error) {
	switch Shape(strings.ToLower(strings.TrimSpace(s))) {
	case ShapeCircle, "":
		return ShapeCircle, nil
	case ShapeRect:
		return ShapeRect, nil
	}
	return "", fmt.Errorf("unknown shape: %q", s)
}

// SizeTier picks the size ranges for rectangular targets.
type SizeTier string

const (
	TierSmall  = SizeTier("small")
	TierMedium = SizeTier("medium")
	TierLarge  = SizeTier("large")
)

func ParseSizeTier(s string) (SizeTier, error) {
	switch SizeTier(strings.ToLower(strings.TrimSpace(s))) {
	case TierSmall:
		return TierSmall, nil
	case TierMedium:
		return TierMedium, nil
	case TierLarge:
		return TierLarge, nil
	}
	return "", fmt.Errorf("unknown size tier: %q", s)
}

// Range is a half-open interval [Min, Max).
type Range struct {
	Min float64
	Max float64
}

type TierRanges struct {
	Width  Range
	Height Range
}

var tierRanges = map[SizeTier]TierRanges{
	TierSmall:  {Width: Range{40, 60}, Height: Range{30, 45}},
	TierMedium: {Width: Range{60, 100}, Height: Range{40, 70}},
	TierLarge:  {Width: Range{100, 140}, Height: Range{70, 100}},
}

// RangesFor returns the width/height ranges of a tier. Unknown tiers use medium.
func RangesFor(tier SizeTier) TierRanges {
	if r, ok := tierRanges[tier]; ok {
		return r
	}
	return tierRanges[TierMedium]
}

var RadiusRange = Range{25, 45}

// Bounds is the placement domain (canvas size).
type Bounds struct {
	Width  float64 `json:"w"`
	Height float64 `json:"h"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Target is a single spawned target. X and Y are the center.
type Target struct {
	ID         int       `json:"id"`
	Shape      Shape     `json:"shape"`
	X          float64   `json:"x"`
	Y          float64   `json:"y"`
	Radius     float64   `json:"r,omitempty"`
	Width      float64   `json:"w,omitempty"`
	Height     float64   `json:"h,omitempty"`
	Label      int       `json:"label,omitempty"`
	Color      string    `json:"color"`
	Hit        bool      `json:"hit"`
	AppearedAt time.Time `json:"appearedAt"`
}
