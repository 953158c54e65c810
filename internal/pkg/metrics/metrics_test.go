package metrics_test

import (
	"errors"
	"testing"
	"time"

	"auctiondelivery/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobMetrics_Observe(t *testing.T) {
	// Arrange
	reg := prometheus.NewRegistry()
	m := metrics.NewJobMetrics(reg)

	// Act
	m.Observe("sweep", 10*time.Millisecond, nil)
	m.Observe("sweep", 10*time.Millisecond, errors.New("boom"))
	m.Observe("", time.Millisecond, nil)

	// Assert
	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 3)
}

func TestDomainMetrics_CountsByLabel(t *testing.T) {
	// Arrange
	reg := prometheus.NewRegistry()
	m := metrics.NewDomainMetrics(reg)

	// Act
	m.OrderPlaced()
	m.BidAccepted()
	m.BidAccepted()
	m.WindowClosed("quorum")
	m.WarningIssued("ORDER")
	m.EffectApplied("revoke_vip")

	// Assert
	count, err := testutil.GatherAndCount(reg, "auction_bids_accepted_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.InDelta(t, 2.0, counterValue(t, reg, "auction_bids_accepted_total"), 0.0001)
	assert.InDelta(t, 1.0, counterValue(t, reg, "auction_windows_closed_total"), 0.0001)
}

func TestNilRecorders_AreNoOps(t *testing.T) {
	var jobs *metrics.JobMetrics
	var domain *metrics.DomainMetrics

	assert.NotPanics(t, func() {
		jobs.Observe("x", time.Second, nil)
		domain.OrderPlaced()
		domain.WindowClosed("timeout")
		metrics.NewDomainMetrics(nil).WarningIssued("ORDER")
	})
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return f.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}
