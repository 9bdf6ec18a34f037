package ws

import "github.com/prometheus/client_golang/prometheus"

var (
	wsConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_connections",
			Help: "Current number of active websocket connections.",
		},
	)
	wsDelivered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ws_events_delivered_total",
			Help: "Total realtime events delivered to subscribers.",
		},
	)
)

func init() {
	prometheus.MustRegister(wsConnections, wsDelivered)
}

func incConnections() { wsConnections.Inc() }
func decConnections() { wsConnections.Dec() }

func addDelivered(n int) { wsDelivered.Add(float64(n)) }
