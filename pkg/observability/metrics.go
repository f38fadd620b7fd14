package observability

import (
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name.
const Namespace = "canvas"

// Metrics holds the Prometheus collectors fed by interaction hooks.
type Metrics struct {
	gestures  *prometheus.CounterVec
	taps      *prometheus.CounterVec
	dragged   *prometheus.HistogramVec
	clipboard *prometheus.CounterVec
	fallbacks *prometheus.CounterVec
	changes   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		gestures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "gesture_transitions_total",
				Help:      "Gesture router mode transitions",
			},
			[]string{"from", "to"},
		),
		taps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "taps_total",
				Help:      "Classified taps",
			},
			[]string{"kind"},
		),
		dragged: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "drag_nodes",
				Help:      "Nodes moved or resized per finished gesture",
				Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
			},
			[]string{"kind"},
		),
		clipboard: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "clipboard_nodes_total",
				Help:      "Nodes carried by clipboard operations",
			},
			[]string{"op"},
		),
		fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "clipboard_fallbacks_total",
				Help:      "Clipboard operations served by the internal clipboard",
			},
			[]string{"op"},
		),
		changes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "document_changes_total",
				Help:      "Committed document changes by kind",
			},
			[]string{"kind"},
		),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.gestures, m.taps, m.dragged, m.clipboard, m.fallbacks, m.changes}
}

// Hooks returns callbacks that record every interaction event.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnModeChange: func(e *domain.GestureEvent) {
			m.gestures.WithLabelValues(string(e.From), string(e.To)).Inc()
		},
		OnTap: func(e *domain.GestureEvent) {
			m.taps.WithLabelValues("single").Inc()
		},
		OnDoubleTap: func(e *domain.GestureEvent) {
			m.taps.WithLabelValues("double").Inc()
		},
		OnDragEnd: func(e *domain.DragEvent) {
			m.dragged.WithLabelValues("drag").Observe(float64(len(e.NodeIDs)))
		},
		OnResizeEnd: func(e *domain.DragEvent) {
			m.dragged.WithLabelValues("resize").Observe(float64(len(e.NodeIDs)))
		},
		OnCopy:  m.clipboardEvent,
		OnCut:   m.clipboardEvent,
		OnPaste: m.clipboardEvent,
	}
}

func (m *Metrics) clipboardEvent(e *domain.ClipboardEvent) {
	op := string(e.Type)
	m.clipboard.WithLabelValues(op).Add(float64(e.NodeCount))
	if e.Fallback {
		m.fallbacks.WithLabelValues(op).Inc()
	}
}

// ObserveDiff counts the upserts and removals of a committed change.
func (m *Metrics) ObserveDiff(d *domain.GraphDiff) {
	if d == nil {
		return
	}
	m.changes.WithLabelValues("node_upsert").Add(float64(len(d.UpsertedNodes)))
	m.changes.WithLabelValues("node_remove").Add(float64(len(d.RemovedNodes)))
	m.changes.WithLabelValues("edge_upsert").Add(float64(len(d.UpsertedEdges)))
	m.changes.WithLabelValues("edge_remove").Add(float64(len(d.RemovedEdges)))
}
