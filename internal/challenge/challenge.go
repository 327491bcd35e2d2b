package challenge

import (
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryMind      Category = "mind"
	CategoryBody      Category = "body"
	CategoryNutrition Category = "nutrition"
	CategorySleep     Category = "sleep"
	CategorySkin      Category = "skin"
	CategoryWellness  Category = "wellness"
	CategoryFitness   Category = "fitness"
	CategoryHydration Category = "hydration"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Challenge is an immutable catalog entry authored by the content team.
type Challenge struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Title        string     `json:"title" db:"title"`
	Description  string     `json:"description" db:"description"`
	Category     Category   `json:"category" db:"category"`
	Difficulty   Difficulty `json:"difficulty" db:"difficulty"`
	DurationDays int        `json:"duration_days" db:"duration_days"`
	XPReward     int        `json:"xp_reward" db:"xp_reward"`
	IsPremium    bool       `json:"is_premium" db:"is_premium"`
	BadgeName    *string    `json:"badge_name,omitempty" db:"badge_name"`
	BadgeEmoji   *string    `json:"badge_emoji,omitempty" db:"badge_emoji"`
	DailyTasks   []string   `json:"daily_tasks" db:"daily_tasks"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// Progress tracks one user through one started challenge. CompletedDays
// holds "YYYY-MM-DD" strings, each calendar date at most once.
type Progress struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	ChallengeID   uuid.UUID `json:"challenge_id" db:"challenge_id"`
	StartDate     time.Time `json:"start_date" db:"start_date"`
	CurrentDay    int       `json:"current_day" db:"current_day"`
	CompletedDays []string  `json:"completed_days" db:"completed_days"`
	Streak        int       `json:"streak" db:"streak"`
	XPEarned      float64   `json:"xp_earned" db:"xp_earned"`
	IsCompleted   bool      `json:"is_completed" db:"is_completed"`
	BadgesEarned  []string  `json:"badges_earned" db:"badges_earned"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// ProgressWithChallenge is the joined shape the progress list endpoint returns.
type ProgressWithChallenge struct {
	Progress
	Challenge         *Challenge `json:"challenge"`
	CompletionPercent float64    `json:"completion_percent"`
}

// CatalogFilter narrows the catalog. Category and Difficulty use "all"
// as the disabled sentinel; Query is matched case-insensitively against
// title and description.
type CatalogFilter struct {
	Query       string `json:"query"`
	Category    string `json:"category"`
	Difficulty  string `json:"difficulty"`
	PremiumOnly bool   `json:"premium_only"`
}

type CompletionOutcome string

const (
	OutcomeDayCompleted       CompletionOutcome = "day_completed"
	OutcomeChallengeCompleted CompletionOutcome = "challenge_completed"
	OutcomeAlreadyDoneToday   CompletionOutcome = "already_completed_today"
)

// CompleteDayResponse is returned by the complete-day endpoint.
type CompleteDayResponse struct {
	Outcome   CompletionOutcome `json:"outcome"`
	AwardedXP float64           `json:"awarded_xp"`
	Progress  *Progress         `json:"progress"`
}
