package events

import (
	"aimtrainer/internal/rating"
	"aimtrainer/internal/stats"
	"aimtrainer/internal/targets"
)

type StateChangeEvent struct {
	State string `json:"state"`
}

// ScoreEvent follows every counted click, hit or miss.
type ScoreEvent struct {
	Hit     bool           `json:"hit"`
	Stats   stats.Snapshot `json:"stats"`
	Rating  rating.Rating  `json:"rating"`
	History []stats.Entry  `json:"history"`
}

// FrameEvent is emitted on every render tick.
type FrameEvent struct {
	State      string            `json:"state"`
	Targets    []*targets.Target `json:"targets"`
	Cursor     *targets.Point    `json:"cursor,omitempty"`
	Hits       int               `json:"hits"`
	Accuracy   int               `json:"accuracy"`
	VisibleFor int64             `json:"visibleMs,omitempty"`
}

type Bus struct {
	StateChanges chan StateChangeEvent
	Scores       chan ScoreEvent
	Frames       chan FrameEvent
}

func NewBus() *Bus {
	return &Bus{
		StateChanges: make(chan StateChangeEvent, 10),
		Scores:       make(chan ScoreEvent, 32),
		Frames:       make(chan FrameEvent, 2),
	}
}

// The publishers never block. The game loop publishes from its tick and
// click paths, so a slow consumer loses events instead of stalling play.

func (b *Bus) PublishState(ev StateChangeEvent) bool {
	select {
	case b.StateChanges <- ev:
		return true
	default:
		return false
	}
}

func (b *Bus) PublishScore(ev ScoreEvent) bool {
	select {
	case b.Scores <- ev:
		return true
	default:
		return false
	}
}

func (b *Bus) PublishFrame(ev FrameEvent) bool {
	select {
	case b.Frames <- ev:
		return true
	default:
		return false
	}
}
