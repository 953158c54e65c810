package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DomainMetrics counts business events.
type DomainMetrics struct {
	ordersPlaced  prometheus.Counter
	bidsAccepted  prometheus.Counter
	auctionCloses *prometheus.CounterVec
	warnings      *prometheus.CounterVec
	effects       *prometheus.CounterVec
}

// NewDomainMetrics registers the business counters on reg. A nil registerer yields a
// no-op recorder.
func NewDomainMetrics(reg prometheus.Registerer) *DomainMetrics {
	if reg == nil {
		return &DomainMetrics{}
	}
	m := &DomainMetrics{
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auction_orders_placed_total",
			Help: "Orders placed successfully.",
		}),
		bidsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auction_bids_accepted_total",
			Help: "Delivery bids accepted.",
		}),
		auctionCloses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auction_windows_closed_total",
			Help: "Bidding windows closed, by reason.",
		}, []string{"reason"}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auction_warnings_total",
			Help: "Warnings issued, by source.",
		}, []string{"source"}),
		effects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auction_discipline_effects_total",
			Help: "Discipline effects applied, by kind.",
		}, []string{"effect"}),
	}
	reg.MustRegister(m.ordersPlaced, m.bidsAccepted, m.auctionCloses, m.warnings, m.effects)
	return m
}

func (m *DomainMetrics) OrderPlaced() {
	if m == nil || m.ordersPlaced == nil {
		return
	}
	m.ordersPlaced.Inc()
}

func (m *DomainMetrics) BidAccepted() {
	if m == nil || m.bidsAccepted == nil {
		return
	}
	m.bidsAccepted.Inc()
}

func (m *DomainMetrics) WindowClosed(reason string) {
	if m == nil || m.auctionCloses == nil {
		return
	}
	m.auctionCloses.WithLabelValues(normalizeLabel(reason)).Inc()
}

func (m *DomainMetrics) WarningIssued(source string) {
	if m == nil || m.warnings == nil {
		return
	}
	m.warnings.WithLabelValues(normalizeLabel(source)).Inc()
}

func (m *DomainMetrics) EffectApplied(kind string) {
	if m == nil || m.effects == nil {
		return
	}
	m.effects.WithLabelValues(normalizeLabel(kind)).Inc()
}
