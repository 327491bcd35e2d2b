package stats

type WellnessStats struct {
	TodayStatus         bool    `json:"today_status"`
	ActiveChallenges    int     `json:"active_challenges"`
	CompletedChallenges int     `json:"completed_challenges"`
	TotalDaysCompleted  int     `json:"total_days_completed"`
	CurrentStreak       int     `json:"current_streak"`
	BadgesCount         int     `json:"badges_count"`
	TotalXP             float64 `json:"total_xp"`
	WellnessScore       float64 `json:"wellness_score"`
}
