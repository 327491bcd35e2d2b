package services

import (
	"context"
	"fmt"

	"healsyAPI/internal/notification"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationService struct {
	db *pgxpool.Pool
}

func NewNotificationService(db *pgxpool.Pool) *NotificationService {
	return &NotificationService{db: db}
}

// RegisterDevice stores a push token for the caller. Re-registering an
// existing token just refreshes its owner and platform.
func (s *NotificationService) RegisterDevice(ctx context.Context, clerkID string, req *notification.RegisterDeviceRequest) (*notification.DeviceToken, error) {
	userID, err := lookupUserID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}

	t := &notification.DeviceToken{
		ID:       uuid.New(),
		UserID:   userID,
		Token:    req.Token,
		Platform: req.Platform,
	}

	err = s.db.QueryRow(ctx, `
		INSERT INTO device_tokens (id, user_id, token, platform, registered_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (token) DO UPDATE
		SET user_id = EXCLUDED.user_id,
		    platform = EXCLUDED.platform,
		    registered_at = NOW()
		RETURNING id, registered_at
	`, t.ID, t.UserID, t.Token, t.Platform).Scan(&t.ID, &t.RegisteredAt)
	if err != nil {
		return nil, fmt.Errorf("failed to register device: %w", err)
	}

	return t, nil
}

// GetUserDeviceTokens lists the push tokens registered for a user.
func (s *NotificationService) GetUserDeviceTokens(ctx context.Context, userID uuid.UUID) ([]notification.DeviceToken, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, token, platform, registered_at
		FROM device_tokens
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list device tokens: %w", err)
	}
	defer rows.Close()

	var tokens []notification.DeviceToken
	for rows.Next() {
		var t notification.DeviceToken
		if err := rows.Scan(&t.ID, &t.UserID, &t.Token, &t.Platform, &t.RegisteredAt); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		tokens = append(tokens, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading device tokens: %w", err)
	}

	return tokens, nil
}
