package stats

import "time"

const DefaultHistorySize = 10

type Entry struct {
	At         time.Time `json:"at"`
	Time       string    `json:"time"`
	ReactionMs int64     `json:"reactionMs"`
}

// History is a bounded newest-first feed of hits. The oldest entry is
// dropped once the cap is reached.
type History struct {
	max     int
	entries []Entry
}

func NewHistory(max int) *History {
	if max <= 0 {
		max = DefaultHistorySize
	}
	return &History{max: max}
}

func (h *History) Add(at time.Time, reactionMs int64) {
	e := Entry{At: at, Time: at.Format("15:04:05"), ReactionMs: reactionMs}
	h.entries = append([]Entry{e}, h.entries...)
	if len(h.entries) > h.max {
		h.entries = h.entries[:h.max]
	}
}

// List returns a copy of the feed, newest first.
func (h *History) List() []Entry {
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *History) Len() int {
	return len(h.entries)
}

func (h *History) Clear() {
	h.entries = nil
}
