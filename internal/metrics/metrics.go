package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Registry *prometheus.Registry
	Shots    *prometheus.CounterVec
	Reaction prometheus.Histogram
	Commands *prometheus.CounterVec
	Sessions prometheus.Gauge
	Viewers  prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		Shots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aimtrainer",
			Name:      "shots_total",
			Help:      "Counted clicks by result.",
		}, []string{"result"}),
		Reaction: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aimtrainer",
			Name:      "reaction_ms",
			Help:      "Reaction time of hits in milliseconds.",
			Buckets:   []float64{100, 150, 200, 250, 300, 400, 500, 750, 1000},
		}),
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aimtrainer",
			Name:      "commands_total",
			Help:      "Game loop commands received.",
		}, []string{"command"}),
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "aimtrainer",
			Name:      "sessions",
			Help:      "Live game sessions.",
		}),
		Viewers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "aimtrainer",
			Name:      "websocket_clients",
			Help:      "Connected websocket clients.",
		}),
	}
	reg.MustRegister(
		m.Shots, m.Reaction, m.Commands, m.Sessions, m.Viewers,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveShot(hit bool, reactionMs int64) {
	if !hit {
		m.Shots.WithLabelValues("miss").Inc()
		return
	}
	m.Shots.WithLabelValues("hit").Inc()
	m.Reaction.Observe(float64(reactionMs))
}

func (m *Metrics) ObserveCommand(command string) {
	m.Commands.WithLabelValues(command).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
