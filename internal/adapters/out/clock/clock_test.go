package clock_test

import (
	"testing"
	"time"

	"auctiondelivery/internal/adapters/out/clock"

	"github.com/stretchr/testify/assert"
)

func TestSystem_NowIsUTC(t *testing.T) {
	assert.Equal(t, time.UTC, clock.System{}.Now().Location())
}

func TestManual_Advance(t *testing.T) {
	// Arrange
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := clock.NewManual(start)

	// Act
	c.Advance(5 * time.Minute)

	// Assert
	assert.Equal(t, start.Add(5*time.Minute), c.Now())
}
