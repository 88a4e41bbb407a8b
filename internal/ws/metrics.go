package ws

import "github.com/prometheus/client_golang/prometheus"

var (
	subscribersGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "task_feed_subscribers",
		Help: "Current number of task feed websocket subscribers",
	})
	eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_feed_events_total",
			Help: "Task feed events sent, by event type",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(subscribersGauge)
	prometheus.MustRegister(eventsTotal)
}
