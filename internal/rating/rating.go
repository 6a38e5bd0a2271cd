package rating

// Rating is the skill label shown next to the stats.
type Rating struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var NotStarted = Rating{Label: "Click Start!", Color: "#a0d2eb"}

type Tier struct {
	Rating
	// MaxAvgReaction is an exclusive upper bound in ms.
	MaxAvgReaction float64
	// MinAccuracy is an inclusive lower bound in percent.
	MinAccuracy float64
}

var (
	Elite    = Rating{Label: "ELITE", Color: "#FFD700"}
	VeryFast = Rating{Label: "VERY FAST", Color: "#00FF00"}
	Fast     = Rating{Label: "FAST", Color: "#4CAF50"}
	Average  = Rating{Label: "AVERAGE", Color: "#2196F3"}
	Slow     = Rating{Label: "SLOW", Color: "#FF5252"}
)

// Tiers are evaluated in order; the first match wins and Slow is the fallback.
var Tiers = []Tier{
	{Rating: Elite, MaxAvgReaction: 150, MinAccuracy: 90},
	{Rating: VeryFast, MaxAvgReaction: 200, MinAccuracy: 80},
	{Rating: Fast, MaxAvgReaction: 300, MinAccuracy: 70},
	{Rating: Average, MaxAvgReaction: 500, MinAccuracy: 60},
}

// Classify maps the unrounded average reaction and accuracy to a Rating.
// With no samples the NotStarted sentinel is returned.
func Classify(samples int, avgReactionMs, accuracyPct float64) Rating {
	if samples == 0 {
		return NotStarted
	}
	for _, t := range Tiers {
		if avgReactionMs < t.MaxAvgReaction && accuracyPct >= t.MinAccuracy {
			return t.Rating
		}
	}
	return Slow
}
