package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(body)
}

func TestObserveShot(t *testing.T) {
	m := New()
	m.ObserveShot(true, 180)
	m.ObserveShot(true, 220)
	m.ObserveShot(false, 0)

	body := scrape(t, m)
	for _, want := range []string{
		`aimtrainer_shots_total{result="hit"} 2`,
		`aimtrainer_shots_total{result="miss"} 1`,
		`aimtrainer_reaction_ms_count 2`,
		`aimtrainer_reaction_ms_sum 400`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("scrape missing %q", want)
		}
	}
}

func TestObserveCommand(t *testing.T) {
	m := New()
	m.ObserveCommand("start")
	m.ObserveCommand("start")

	if body := scrape(t, m); !strings.Contains(body, `aimtrainer_commands_total{command="start"} 2`) {
		t.Error("scrape missing start command count")
	}
}

func TestGauges(t *testing.T) {
	m := New()
	m.Sessions.Inc()
	m.Sessions.Inc()
	m.Sessions.Dec()
	m.Viewers.Set(3)

	body := scrape(t, m)
	if !strings.Contains(body, "aimtrainer_sessions 1") {
		t.Error("scrape missing sessions gauge")
	}
	if !strings.Contains(body, "aimtrainer_websocket_clients 3") {
		t.Error("scrape missing websocket clients gauge")
	}
}

func TestNew_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()
	a.ObserveShot(false, 0)
	if strings.Contains(scrape(t, b), `aimtrainer_shots_total{result="miss"} 1`) {
		t.Error("registries should not share collectors")
	}
}
