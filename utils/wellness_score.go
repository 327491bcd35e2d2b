package utils

import "math"

// CalculateWellnessScore blends streak, lifetime completed days and
// earned badges into the single number shown on the profile ring.
func CalculateWellnessScore(currentStreak, totalDays, badgesCount int) float64 {
	streakScore := math.Pow(float64(currentStreak), 2) * 0.3
	daysScore := float64(totalDays) * 0.05
	badgeScore := float64(badgesCount) * 1.0

	return streakScore + daysScore + badgeScore
}
