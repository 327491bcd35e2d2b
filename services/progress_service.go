package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"healsyAPI/internal/challenge"
	"healsyAPI/internal/notification"
	"healsyAPI/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrProgressNotFound     = errors.New("progress not found")
	ErrChallengeIsCompleted = errors.New("challenge already completed")
)

type ProgressService struct {
	db           *pgxpool.Pool
	notifService *NotificationService
	pushProvider notification.PushProvider
}

func NewProgressService(db *pgxpool.Pool, notifService *NotificationService) *ProgressService {
	return &ProgressService{
		db:           db,
		notifService: notifService,
	}
}

// SetPushProvider injects the push transport once FCM is up. Pushes
// are skipped while the provider is nil.
func (s *ProgressService) SetPushProvider(p notification.PushProvider) {
	s.pushProvider = p
}

// DayCompletion is the result of applying one day-completion event.
type DayCompletion struct {
	Outcome   challenge.CompletionOutcome
	AwardedXP float64
	Progress  challenge.Progress
}

// ApplyDayCompletion advances progress by one day and computes the XP
// award. It is a pure transition on a copy of p; callers persist the
// returned record. The caller must reject terminal (is_completed)
// records before calling.
//
// Daily XP is floor(xp_reward / duration_days); the fractional
// remainder is lost and the last day gets no top-up. A streak of 7 or
// more earns a 50% bonus on top of the daily award. Streaks only
// increment here: skipping a day does not reset the counter.
func ApplyDayCompletion(p challenge.Progress, c *challenge.Challenge, today string) DayCompletion {
	for _, d := range p.CompletedDays {
		if d == today {
			return DayCompletion{
				Outcome:  challenge.OutcomeAlreadyDoneToday,
				Progress: p,
			}
		}
	}

	days := make([]string, len(p.CompletedDays), len(p.CompletedDays)+1)
	copy(days, p.CompletedDays)
	p.CompletedDays = append(days, today)

	p.CurrentDay++
	p.Streak++

	dailyXP := float64(c.XPReward / c.DurationDays)
	streakBonus := 0.0
	if p.Streak >= 7 {
		streakBonus = dailyXP * 0.5
	}
	awarded := dailyXP + streakBonus
	p.XPEarned += awarded

	outcome := challenge.OutcomeDayCompleted
	if p.CurrentDay > c.DurationDays {
		p.IsCompleted = true
		outcome = challenge.OutcomeChallengeCompleted
		if c.BadgeName != nil {
			badges := make([]string, len(p.BadgesEarned), len(p.BadgesEarned)+1)
			copy(badges, p.BadgesEarned)
			p.BadgesEarned = append(badges, *c.BadgeName)
		}
	}

	return DayCompletion{
		Outcome:   outcome,
		AwardedXP: awarded,
		Progress:  p,
	}
}

// CompleteDay applies today's completion to the given progress record
// and persists it. The write is a single transaction, so a store
// failure leaves the record untouched and the caller can simply retry.
func (s *ProgressService) CompleteDay(ctx context.Context, clerkID string, progressID uuid.UUID) (*challenge.CompleteDayResponse, error) {
	userID, err := lookupUserID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}

	p, err := s.getProgress(ctx, progressID, userID)
	if err != nil {
		return nil, err
	}

	if p.IsCompleted {
		return nil, ErrChallengeIsCompleted
	}

	c, err := s.getChallenge(ctx, p.ChallengeID)
	if err != nil {
		return nil, err
	}

	today := utils.DateKey(time.Now())
	result := ApplyDayCompletion(*p, c, today)

	if result.Outcome == challenge.OutcomeAlreadyDoneToday {
		return &challenge.CompleteDayResponse{
			Outcome:  result.Outcome,
			Progress: p,
		}, nil
	}

	if err := s.persistCompletion(ctx, userID, &result); err != nil {
		return nil, fmt.Errorf("failed to save day completion: %w", err)
	}

	if result.Outcome == challenge.OutcomeChallengeCompleted {
		s.sendCompletionPush(userID, c)
	}

	updated := result.Progress
	return &challenge.CompleteDayResponse{
		Outcome:   result.Outcome,
		AwardedXP: result.AwardedXP,
		Progress:  &updated,
	}, nil
}

func (s *ProgressService) persistCompletion(ctx context.Context, userID uuid.UUID, result *DayCompletion) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	p := &result.Progress

	tag, err := tx.Exec(ctx, `
		UPDATE challenge_progress
		SET current_day = $1,
		    completed_days = $2,
		    streak = $3,
		    xp_earned = $4,
		    is_completed = $5,
		    badges_earned = $6,
		    updated_at = NOW()
		WHERE id = $7
		  AND is_completed = false
		  AND NOT (completed_days @> ARRAY[$8]::text[])
	`, p.CurrentDay, p.CompletedDays, p.Streak, p.XPEarned, p.IsCompleted, p.BadgesEarned, p.ID, p.CompletedDays[len(p.CompletedDays)-1])
	if err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Another request (a second tab, a double tap) got here first.
		return fmt.Errorf("progress was modified concurrently")
	}

	_, err = tx.Exec(ctx, `
		UPDATE users
		SET xp = xp + $1,
		    total_days_completed = total_days_completed + 1,
		    updated_at = NOW()
		WHERE id = $2
	`, result.AwardedXP, userID)
	if err != nil {
		return fmt.Errorf("failed to update user totals: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *ProgressService) sendCompletionPush(userID uuid.UUID, c *challenge.Challenge) {
	if s.pushProvider == nil || s.notifService == nil {
		return
	}

	// Push delivery must never fail the completion request.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		tokens, err := s.notifService.GetUserDeviceTokens(ctx, userID)
		if err != nil {
			log.Printf("Could not load device tokens for %s: %v", userID, err)
			return
		}

		body := fmt.Sprintf("You finished \"%s\"!", c.Title)
		if c.BadgeEmoji != nil && c.BadgeName != nil {
			body = fmt.Sprintf("You finished \"%s\" and earned the %s %s badge!", c.Title, *c.BadgeEmoji, *c.BadgeName)
		}

		if err := s.pushProvider.SendPush(ctx, tokens, "Challenge complete! 🎉", body, map[string]any{
			"type":         "challenge_completed",
			"challenge_id": c.ID.String(),
		}); err != nil {
			log.Printf("Challenge completion push failed for %s: %v", userID, err)
		}
	}()
}

func (s *ProgressService) getProgress(ctx context.Context, progressID, userID uuid.UUID) (*challenge.Progress, error) {
	p := &challenge.Progress{}
	err := s.db.QueryRow(ctx, `
		SELECT id, user_id, challenge_id, start_date, current_day, completed_days,
		       streak, xp_earned, is_completed, badges_earned, created_at, updated_at
		FROM challenge_progress
		WHERE id = $1 AND user_id = $2
	`, progressID, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.ChallengeID,
		&p.StartDate,
		&p.CurrentDay,
		&p.CompletedDays,
		&p.Streak,
		&p.XPEarned,
		&p.IsCompleted,
		&p.BadgesEarned,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProgressNotFound
		}
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	return p, nil
}

func (s *ProgressService) getChallenge(ctx context.Context, challengeID uuid.UUID) (*challenge.Challenge, error) {
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
			return nil, fmt.Errorf("challenge not found")
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	return c, nil
}
