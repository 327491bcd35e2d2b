package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"healsyAPI/internal/challenge"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrPremiumRequired   = errors.New("premium subscription required")
	ErrAlreadyStarted    = errors.New("challenge already started")
)

type ChallengeService struct {
	db          *pgxpool.Pool
	subsService *SubscriptionService
}

func NewChallengeService(db *pgxpool.Pool, subsService *SubscriptionService) *ChallengeService {
	return &ChallengeService{
		db:          db,
		subsService: subsService,
	}
}

// FilterChallenges returns the catalog entries matching the filter,
// preserving input order. The text query is a case-insensitive
// substring match against title and description; "all" disables the
// category and difficulty filters.
func FilterChallenges(items []*challenge.Challenge, f challenge.CatalogFilter) []*challenge.Challenge {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	matched := make([]*challenge.Challenge, 0, len(items))
	for _, c := range items {
		if query != "" &&
			!strings.Contains(strings.ToLower(c.Title), query) &&
			!strings.Contains(strings.ToLower(c.Description), query) {
			continue
		}
		if f.Category != "" && f.Category != "all" && string(c.Category) != f.Category {
			continue
		}
		if f.Difficulty != "" && f.Difficulty != "all" && string(c.Difficulty) != f.Difficulty {
			continue
		}
		if f.PremiumOnly && !c.IsPremium {
			continue
		}
		matched = append(matched, c)
	}
	return matched
}

// GetCatalog lists challenges matching the filter. The catalog is
// fetched in authoring order and filtered in memory; it is small and
// read-heavy.
func (s *ChallengeService) GetCatalog(ctx context.Context, f challenge.CatalogFilter) ([]*challenge.Challenge, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, title, description, category, difficulty, duration_days,
		       xp_reward, is_premium, badge_name, badge_emoji, daily_tasks, created_at
		FROM challenges
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	defer rows.Close()

	var items []*challenge.Challenge
	for rows.Next() {
		c := &challenge.Challenge{}
		if err := rows.Scan(
			&c.ID,
			&c.Title,
			&c.Description,
			&c.Category,
			&c.Difficulty,
			&c.DurationDays,
			&c.XPReward,
			&c.IsPremium,
			&c.BadgeName,
			&c.BadgeEmoji,
			&c.DailyTasks,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading challenges: %w", err)
	}

	return FilterChallenges(items, f), nil
}

func (s *ChallengeService) GetChallenge(ctx context.Context, challengeID uuid.UUID) (*challenge.Challenge, error) {
	c := &challenge.Challenge{}
	err := s.db.QueryRow(ctx, `
		SELECT id, title, description, category, difficulty, duration_days,
		       xp_reward, is_premium, badge_name, badge_emoji, daily_tasks, created_at
		FROM challenges
		WHERE id = $1
	`, challengeID).Scan(
		&c.ID,
		&c.Title,
		&c.Description,
		&c.Category,
		&c.Difficulty,
		&c.DurationDays,
		&c.XPReward,
		&c.IsPremium,
		&c.BadgeName,
		&c.BadgeEmoji,
		&c.DailyTasks,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	return c, nil
}

// StartChallenge creates the progress record for the caller. Premium
// challenges require an active subscription; restarting an unfinished
// challenge is rejected.
func (s *ChallengeService) StartChallenge(ctx context.Context, clerkID string, challengeID uuid.UUID) (*challenge.Progress, error) {
	userID, err := lookupUserID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}

	c, err := s.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	if c.IsPremium {
		active, err := s.subsService.IsActive(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to check subscription: %w", err)
		}
		if !active {
			return nil, ErrPremiumRequired
		}
	}

	var existing int
	err = s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM challenge_progress
		WHERE user_id = $1 AND challenge_id = $2 AND is_completed = false
	`, userID, challengeID).Scan(&existing)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing progress: %w", err)
	}
	if existing > 0 {
		return nil, ErrAlreadyStarted
	}

	p := &challenge.Progress{
		ID:            uuid.New(),
		UserID:        userID,
		ChallengeID:   challengeID,
		StartDate:     time.Now(),
		CurrentDay:    1,
		CompletedDays: []string{},
		Streak:        0,
		XPEarned:      0,
		IsCompleted:   false,
		BadgesEarned:  []string{},
	}

	err = s.db.QueryRow(ctx, `
		INSERT INTO challenge_progress
			(id, user_id, challenge_id, start_date, current_day, completed_days,
			 streak, xp_earned, is_completed, badges_earned, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING created_at, updated_at
	`, p.ID, p.UserID, p.ChallengeID, p.StartDate, p.CurrentDay, p.CompletedDays,
		p.Streak, p.XPEarned, p.IsCompleted, p.BadgesEarned,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to start challenge: %w", err)
	}

	return p, nil
}

// GetMyProgress lists the caller's progress rows joined with catalog
// data, newest first.
func (s *ChallengeService) GetMyProgress(ctx context.Context, clerkID string) ([]*challenge.ProgressWithChallenge, error) {
	userID, err := lookupUserID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT p.id, p.user_id, p.challenge_id, p.start_date, p.current_day,
		       p.completed_days, p.streak, p.xp_earned, p.is_completed,
		       p.badges_earned, p.created_at, p.updated_at,
		       c.id, c.title, c.description, c.category, c.difficulty,
		       c.duration_days, c.xp_reward, c.is_premium, c.badge_name,
		       c.badge_emoji, c.daily_tasks, c.created_at
		FROM challenge_progress p
		JOIN challenges c ON c.id = p.challenge_id
		WHERE p.user_id = $1
		ORDER BY p.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	defer rows.Close()

	var result []*challenge.ProgressWithChallenge
	for rows.Next() {
		pwc := &challenge.ProgressWithChallenge{Challenge: &challenge.Challenge{}}
		p := &pwc.Progress
		c := pwc.Challenge
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.ChallengeID, &p.StartDate, &p.CurrentDay,
			&p.CompletedDays, &p.Streak, &p.XPEarned, &p.IsCompleted,
			&p.BadgesEarned, &p.CreatedAt, &p.UpdatedAt,
			&c.ID, &c.Title, &c.Description, &c.Category, &c.Difficulty,
			&c.DurationDays, &c.XPReward, &c.IsPremium, &c.BadgeName,
			&c.BadgeEmoji, &c.DailyTasks, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}

		if c.DurationDays > 0 {
			pwc.CompletionPercent = float64(len(p.CompletedDays)) / float64(c.DurationDays) * 100
			if pwc.CompletionPercent > 100 {
				pwc.CompletionPercent = 100
			}
		}
		result = append(result, pwc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading progress: %w", err)
	}

	return result, nil
}
