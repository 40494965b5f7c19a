package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "group_chat"

// Metrics bundles every Prometheus collector of the service. Connections and
// waiters are the only unbounded-growth resources, so both are exported as
// gauges; a leak shows up on a dashboard long before it shows up in an OOM.
type Metrics struct {
	MessagesTotal   *prometheus.CounterVec
	ReactionsTotal  *prometheus.CounterVec
	StreamSessions  prometheus.Gauge
	PendingWaiters  prometheus.Gauge
	EventsDelivered prometheus.Counter
	SessionsDropped prometheus.Counter
	BusEventsTotal  *prometheus.CounterVec
}

// NewRegistry builds the process-wide Prometheus registry with the standard
// runtime collectors attached.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		MessagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Messages appended to the in-memory log.",
		}, []string{"kind"}),
		ReactionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reactions_total",
			Help:      "Reaction increments applied to stored messages.",
		}, []string{"kind"}),
		StreamSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stream_sessions",
			Help:      "Live streaming sessions registered with the hub.",
		}),
		PendingWaiters: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_waiters",
			Help:      "Long-poll requests currently suspended.",
		}),
		EventsDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_events_delivered_total",
			Help:      "Events successfully pushed into stream session buffers.",
		}),
		SessionsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_sessions_dropped_total",
			Help:      "Stream sessions evicted after a failed send.",
		}),
		BusEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bus_events_total",
			Help:      "Events observed on the internal audit bus.",
		}, []string{"topic"}),
	}

	reg.MustRegister(
		m.MessagesTotal,
		m.ReactionsTotal,
		m.StreamSessions,
		m.PendingWaiters,
		m.EventsDelivered,
		m.SessionsDropped,
		m.BusEventsTotal,
	)
	return m
}
