package services

import (
	"fmt"
	"testing"

	"healsyAPI/internal/challenge"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func badge(name string) *string {
	return &name
}

func newTestChallenge(durationDays, xpReward int, badgeName *string) *challenge.Challenge {
	return &challenge.Challenge{
		ID:           uuid.New(),
		Title:        "Morning Yoga",
		Description:  "Stretch for ten minutes every morning",
		Category:     challenge.CategoryBody,
		Difficulty:   challenge.DifficultyEasy,
		DurationDays: durationDays,
		XPReward:     xpReward,
		BadgeName:    badgeName,
	}
}

func newTestProgress(c *challenge.Challenge) challenge.Progress {
	return challenge.Progress{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		ChallengeID:   c.ID,
		CurrentDay:    1,
		CompletedDays: []string{},
		Streak:        0,
		XPEarned:      0,
		IsCompleted:   false,
		BadgesEarned:  []string{},
	}
}

func TestApplyDayCompletion_FirstDay(t *testing.T) {
	c := newTestChallenge(10, 100, nil)
	p := newTestProgress(c)

	result := ApplyDayCompletion(p, c, "2026-08-01")

	assert.Equal(t, challenge.OutcomeDayCompleted, result.Outcome)
	assert.Equal(t, 2, result.Progress.CurrentDay)
	assert.Equal(t, 1, result.Progress.Streak)
	assert.Equal(t, []string{"2026-08-01"}, result.Progress.CompletedDays)
	assert.Equal(t, 10.0, result.AwardedXP)
	assert.Equal(t, 10.0, result.Progress.XPEarned)
	assert.False(t, result.Progress.IsCompleted)
}

func TestApplyDayCompletion_SameDayTwiceIsNoOp(t *testing.T) {
	c := newTestChallenge(10, 100, nil)
	p := newTestProgress(c)

	first := ApplyDayCompletion(p, c, "2026-08-01")
	require.Equal(t, challenge.OutcomeDayCompleted, first.Outcome)

	second := ApplyDayCompletion(first.Progress, c, "2026-08-01")

	assert.Equal(t, challenge.OutcomeAlreadyDoneToday, second.Outcome)
	assert.Equal(t, 0.0, second.AwardedXP)
	assert.Equal(t, first.Progress.CurrentDay, second.Progress.CurrentDay)
	assert.Equal(t, first.Progress.Streak, second.Progress.Streak)
	assert.Equal(t, first.Progress.XPEarned, second.Progress.XPEarned)
}

func TestApplyDayCompletion_DoesNotMutateInput(t *testing.T) {
	c := newTestChallenge(10, 100, nil)
	p := newTestProgress(c)
	p.CompletedDays = []string{"2026-08-01"}
	p.CurrentDay = 2
	p.Streak = 1

	_ = ApplyDayCompletion(p, c, "2026-08-02")

	assert.Equal(t, []string{"2026-08-01"}, p.CompletedDays)
	assert.Equal(t, 2, p.CurrentDay)
	assert.Equal(t, 1, p.Streak)
}

func TestApplyDayCompletion_CurrentDayAfterNDistinctDays(t *testing.T) {
	c := newTestChallenge(30, 300, nil)
	p := newTestProgress(c)

	for n := 1; n <= 5; n++ {
		result := ApplyDayCompletion(p, c, fmt.Sprintf("2026-08-%02d", n))
		p = result.Progress
		assert.Equal(t, 1+n, p.CurrentDay)
	}
}

func TestApplyDayCompletion_StreakBonusStartsOnDaySeven(t *testing.T) {
	// duration 10, reward 100: daily xp 10, day 7 pays 10 + 5 bonus.
	c := newTestChallenge(10, 100, nil)
	p := newTestProgress(c)

	var lastAward float64
	for n := 1; n <= 7; n++ {
		result := ApplyDayCompletion(p, c, fmt.Sprintf("2026-08-%02d", n))
		p = result.Progress
		lastAward = result.AwardedXP
	}

	assert.Equal(t, 7, p.Streak)
	assert.Equal(t, 15.0, lastAward)
	// 6 plain days at 10 plus the boosted 7th.
	assert.Equal(t, 75.0, p.XPEarned)
}

func TestApplyDayCompletion_DailyXPUsesFloorDivision(t *testing.T) {
	// 100 / 7 floors to 14; the remainder is dropped, even on the last day.
	c := newTestChallenge(7, 100, nil)
	p := newTestProgress(c)

	result := ApplyDayCompletion(p, c, "2026-08-01")

	assert.Equal(t, 14.0, result.AwardedXP)
}

func TestApplyDayCompletion_CompletesChallengeAndAwardsBadge(t *testing.T) {
	c := newTestChallenge(3, 30, badge("Hydration Hero"))
	p := newTestProgress(c)

	days := []string{"2026-08-01", "2026-08-02", "2026-08-03"}
	var result DayCompletion
	for _, d := range days {
		result = ApplyDayCompletion(p, c, d)
		p = result.Progress
	}

	assert.Equal(t, challenge.OutcomeChallengeCompleted, result.Outcome)
	assert.True(t, p.IsCompleted)
	assert.Equal(t, 4, p.CurrentDay)
	assert.Equal(t, []string{"Hydration Hero"}, p.BadgesEarned)
}

func TestApplyDayCompletion_NoBadgeWhenChallengeDefinesNone(t *testing.T) {
	c := newTestChallenge(1, 50, nil)
	p := newTestProgress(c)

	result := ApplyDayCompletion(p, c, "2026-08-01")

	assert.Equal(t, challenge.OutcomeChallengeCompleted, result.Outcome)
	assert.True(t, result.Progress.IsCompleted)
	assert.Empty(t, result.Progress.BadgesEarned)
}

func TestApplyDayCompletion_XPNeverDecreases(t *testing.T) {
	c := newTestChallenge(14, 99, nil)
	p := newTestProgress(c)

	prevXP := 0.0
	for n := 1; n <= 14; n++ {
		result := ApplyDayCompletion(p, c, fmt.Sprintf("2026-08-%02d", n))
		p = result.Progress
		assert.GreaterOrEqual(t, p.XPEarned, prevXP)
		prevXP = p.XPEarned
	}
	assert.True(t, p.IsCompleted)
}

func TestApplyDayCompletion_CompletedExactlyWhenCurrentDayExceedsDuration(t *testing.T) {
	c := newTestChallenge(5, 50, nil)
	p := newTestProgress(c)

	for n := 1; n <= 5; n++ {
		result := ApplyDayCompletion(p, c, fmt.Sprintf("2026-08-%02d", n))
		p = result.Progress
		assert.Equal(t, p.CurrentDay > c.DurationDays, p.IsCompleted)
	}
}
