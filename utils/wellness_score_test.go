package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateWellnessScore(t *testing.T) {
	assert.Equal(t, 0.0, CalculateWellnessScore(0, 0, 0))

	// streak 5 -> 7.5, 20 days -> 1.0, 3 badges -> 3.0
	assert.InDelta(t, 11.5, CalculateWellnessScore(5, 20, 3), 1e-9)

	// Streak dominates quadratically.
	assert.Greater(t,
		CalculateWellnessScore(10, 0, 0),
		CalculateWellnessScore(5, 0, 0)*2,
	)
}

func TestDateKey(t *testing.T) {
	d := time.Date(2026, time.August, 3, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2026-08-03", DateKey(d))
}
