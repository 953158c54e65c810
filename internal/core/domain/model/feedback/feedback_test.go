package feedback_test

import (
	"testing"
	"time"

	"auctiondelivery/internal/core/domain/model/feedback"
	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)

func TestNewRating(t *testing.T) {
	t.Run("vip_rating_weighs_two", func(t *testing.T) {
		r, err := feedback.NewRating(kernel.NewUUID(), kernel.NewUUID(), nil, 5, 4, true, " great ", now)

		require.NoError(t, err)
		assert.Equal(t, 2, r.Weight)
		assert.Equal(t, "great", r.Comment)
		assert.False(t, r.IsAbusive())
	})

	t.Run("scores_outside_one_to_five_are_rejected", func(t *testing.T) {
		for _, scores := range [][2]int{{0, 3}, {3, 6}, {-1, -1}} {
			_, err := feedback.NewRating(kernel.NewUUID(), kernel.NewUUID(), nil, scores[0], scores[1], false, "", now)

			require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		}
	})

	t.Run("double_one_is_abusive", func(t *testing.T) {
		r, err := feedback.NewRating(kernel.NewUUID(), kernel.NewUUID(), nil, 1, 1, false, "", now)

		require.NoError(t, err)
		assert.Equal(t, 1, r.Weight)
		assert.True(t, r.IsAbusive())
	})
}

func TestComplaint_Resolve(t *testing.T) {
	newComplaint := func(t *testing.T) *feedback.Complaint {
		c, err := feedback.NewComplaint(kernel.NewUUID(), kernel.NewUUID(), "delivery", "LATE", "40 minutes late", nil, true, now)
		require.NoError(t, err)
		return c
	}

	t.Run("uphold", func(t *testing.T) {
		// Given
		c := newComplaint(t)
		manager := kernel.NewUUID()

		// When
		err := c.Resolve(manager, feedback.Uphold, "confirmed by tracking", now)

		// Then
		require.NoError(t, err)
		assert.Equal(t, feedback.ComplaintUpheld, c.Status)
		assert.Equal(t, "DELIVERY", c.TargetType)
		assert.Equal(t, 2, c.Weight)
		require.NotNil(t, c.ResolvedAt)
	})

	t.Run("second_resolution_conflicts", func(t *testing.T) {
		c := newComplaint(t)
		require.NoError(t, c.Resolve(kernel.NewUUID(), feedback.Dismiss, "", now))

		err := c.Resolve(kernel.NewUUID(), feedback.Uphold, "", now)

		require.ErrorIs(t, err, feedback.ErrComplaintHandled)
		assert.Equal(t, feedback.ComplaintDismissed, c.Status)
	})

	t.Run("unknown_decision", func(t *testing.T) {
		c := newComplaint(t)

		require.ErrorIs(t, c.Resolve(kernel.NewUUID(), "ESCALATE", "", now), errs.ErrValueIsInvalid)
	})
}

func TestNewComplaint_AgainstSelf(t *testing.T) {
	id := kernel.NewUUID()

	_, err := feedback.NewComplaint(id, id, "CHEF", "COLD_FOOD", "", nil, false, now)

	require.Error(t, err)
}

func TestNewMemo(t *testing.T) {
	_, err := feedback.NewMemo(feedback.MemoDeliveryBidOverride, nil, nil, nil, "   ", now)
	require.ErrorIs(t, err, feedback.ErrMemoRequired)

	manager := kernel.NewUUID()
	m, err := feedback.NewMemo(feedback.MemoPerformanceBonus, &manager, nil, nil, "consistently five stars", now)
	require.NoError(t, err)
	assert.Equal(t, feedback.MemoPerformanceBonus, m.Type)
}

func TestKnowledgeEntry_ZeroRatingDeactivates(t *testing.T) {
	// Given
	entry := feedback.KnowledgeEntry{ID: kernel.NewUUID(), IsActive: true}

	// When
	entry.ApplyRecomputation(4.6, 1, 0, now)

	// Then
	assert.False(t, entry.IsActive)
	assert.InDelta(t, 4.6, entry.AvgRating, 1e-9)
	assert.Equal(t, 1, entry.FlagCount)
}

func TestNewKnowledgeRating(t *testing.T) {
	_, err := feedback.NewKnowledgeRating(kernel.NewUUID(), kernel.NewUUID(), 6, false, now)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	r, err := feedback.NewKnowledgeRating(kernel.NewUUID(), kernel.NewUUID(), 0, false, now)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Value)
}
