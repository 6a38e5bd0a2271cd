package stats

import (
	"testing"
	"time"
)

var base = time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

func TestHistory_NewestFirst(t *testing.T) {
	h := NewHistory(10)
	h.Add(base, 215)
	h.Add(base.Add(time.Second), 189)

	list := h.List()
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].ReactionMs != 189 || list[1].ReactionMs != 215 {
		t.Errorf("order = [%d %d], want [189 215]", list[0].ReactionMs, list[1].ReactionMs)
	}
	if list[0].Time != "09:30:01" {
		t.Errorf("Time = %q, want %q", list[0].Time, "09:30:01")
	}
}

func TestHistory_CapDropsOldest(t *testing.T) {
	h := NewHistory(10)
	for i := 1; i <= 11; i++ {
		h.Add(base.Add(time.Duration(i)*time.Second), int64(i))
	}

	list := h.List()
	if len(list) != 10 {
		t.Fatalf("len = %d, want 10", len(list))
	}
	if list[0].ReactionMs != 11 {
		t.Errorf("newest = %d, want 11", list[0].ReactionMs)
	}
	if list[9].ReactionMs != 2 {
		t.Errorf("oldest kept = %d, want 2", list[9].ReactionMs)
	}
}

func TestHistory_DefaultSize(t *testing.T) {
	h := NewHistory(0)
	for i := 0; i < 25; i++ {
		h.Add(base, int64(i))
	}
	if h.Len() != DefaultHistorySize {
		t.Errorf("Len = %d, want %d", h.Len(), DefaultHistorySize)
	}
}

func TestHistory_Clear(t *testing.T) {
	h := NewHistory(10)
	h.Add(base, 100)
	h.Clear()
	if h.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", h.Len())
	}
}
