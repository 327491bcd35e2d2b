package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"healsyAPI/internal/subscription"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SubscriptionService struct {
	db *pgxpool.Pool
}

func NewSubscriptionService(db *pgxpool.Pool) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// planPeriod maps a plan type to its billing period. Unknown plans get
// the monthly period so a mistyped plan never locks a paying user out.
func planPeriod(planType string) time.Duration {
	switch planType {
	case "premium_yearly":
		return 365 * 24 * time.Hour
	default:
		return 30 * 24 * time.Hour
	}
}

// Activate upserts the user's subscription after a verified payment.
func (s *SubscriptionService) Activate(ctx context.Context, userID uuid.UUID, planType, paymentID string) (*subscription.Subscription, error) {
	sub := &subscription.Subscription{
		ID:               uuid.New(),
		UserID:           userID,
		PlanType:         planType,
		Status:           subscription.StatusActive,
		PaymentID:        paymentID,
		CurrentPeriodEnd: time.Now().Add(planPeriod(planType)),
	}

	err := s.db.QueryRow(ctx, `
		INSERT INTO subscriptions (id, user_id, plan_type, status, payment_id, current_period_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET plan_type = EXCLUDED.plan_type,
		    status = EXCLUDED.status,
		    payment_id = EXCLUDED.payment_id,
		    current_period_end = EXCLUDED.current_period_end,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at
	`, sub.ID, sub.UserID, sub.PlanType, sub.Status, sub.PaymentID, sub.CurrentPeriodEnd,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to activate subscription: %w", err)
	}

	return sub, nil
}

// IsActive reports whether the user has an unexpired active subscription.
func (s *SubscriptionService) IsActive(ctx context.Context, userID uuid.UUID) (bool, error) {
	var active bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM subscriptions
			WHERE user_id = $1 AND status = 'active' AND current_period_end > NOW()
		)
	`, userID).Scan(&active)
	if err != nil {
		return false, fmt.Errorf("failed to check subscription: %w", err)
	}
	return active, nil
}

// GetByUser returns the user's subscription, or nil when none exists.
func (s *SubscriptionService) GetByUser(ctx context.Context, userID uuid.UUID) (*subscription.Subscription, error) {
	sub := &subscription.Subscription{}
	err := s.db.QueryRow(ctx, `
		SELECT id, user_id, plan_type, status, payment_id, current_period_end, created_at, updated_at
		FROM subscriptions
		WHERE user_id = $1
	`, userID).Scan(
		&sub.ID,
		&sub.UserID,
		&sub.PlanType,
		&sub.Status,
		&sub.PaymentID,
		&sub.CurrentPeriodEnd,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return sub, nil
}
