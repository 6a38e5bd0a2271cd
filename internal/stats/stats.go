package stats

import "math"

// Session accumulates shots, hits and reaction samples for one play session.
// The controller records the shot before the hit, so hits never exceed shots.
type Session struct {
	hits       int
	totalShots int
	samples    []int64
}

// Snapshot is the display view of a Session.
type Snapshot struct {
	Hits            int   `json:"hits"`
	TotalShots      int   `json:"totalShots"`
	Accuracy        int   `json:"accuracy"`
	AverageReaction int64 `json:"averageReaction"`
	LatestReaction  int64 `json:"latestReaction"`
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) RecordShot() {
	s.totalShots++
}

func (s *Session) RecordHit(reactionMs int64) {
	if reactionMs < 0 {
		reactionMs = 0
	}
	s.hits++
	s.samples = append(s.samples, reactionMs)
}

func (s *Session) Hits() int {
	return s.hits
}

func (s *Session) TotalShots() int {
	return s.totalShots
}

func (s *Session) SampleCount() int {
	return len(s.samples)
}

// Samples returns a copy of the recorded reaction times, oldest first.
func (s *Session) Samples() []int64 {
	out := make([]int64, len(s.samples))
	copy(out, s.samples)
	return out
}

// AccuracyFraction is the unrounded hit percentage in [0, 100].
func (s *Session) AccuracyFraction() float64 {
	if s.totalShots == 0 {
		return 0
	}
	return 100 * float64(s.hits) / float64(s.totalShots)
}

func (s *Session) Accuracy() int {
	return int(math.Round(s.AccuracyFraction()))
}

// MeanReaction is the unrounded mean of the samples, 0 when empty.
func (s *Session) MeanReaction() float64 {
	if len(s.samples) == 0 {
		return 0
	}
	var sum int64
	for _, v := range s.samples {
		sum += v
	}
	return float64(sum) / float64(len(s.samples))
}

func (s *Session) AverageReaction() int64 {
	return int64(math.Round(s.MeanReaction()))
}

func (s *Session) LatestReaction() int64 {
	if len(s.samples) == 0 {
		return 0
	}
	return s.samples[len(s.samples)-1]
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Hits:            s.hits,
		TotalShots:      s.totalShots,
		Accuracy:        s.Accuracy(),
		AverageReaction: s.AverageReaction(),
		LatestReaction:  s.LatestReaction(),
	}
}

func (s *Session) Reset() {
	s.hits = 0
	s.totalShots = 0
	s.samples = nil
}
