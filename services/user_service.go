package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"healsyAPI/internal/stats"
	"healsyAPI/internal/user"
	"healsyAPI/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserService struct {
	db          *pgxpool.Pool
	subsService *SubscriptionService
}

func NewUserService(db *pgxpool.Pool, subsService *SubscriptionService) *UserService {
	return &UserService{db: db, subsService: subsService}
}

func (s *UserService) CreateUser(ctx context.Context, req *user.CreateUserRequest) (*user.User, error) {
	u := &user.User{
		ID:        uuid.New().String(),
		ClerkID:   req.ClerkID,
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		ImageURL:  req.ImageURL,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	query := `
	INSERT INTO users (id, clerk_id, email, username, first_name, last_name, image_url, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING id, clerk_id, email, username, first_name, last_name, image_url, email_verified, created_at, updated_at
	`

	err := s.db.QueryRow(
		ctx,
		query,
		u.ID,
		u.ClerkID,
		u.Email,
		u.Username,
		u.FirstName,
		u.LastName,
		u.ImageURL,
		u.CreatedAt,
		u.UpdatedAt,
	).Scan(
		&u.ID,
		&u.ClerkID,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.ImageURL,
		&u.EmailVerified,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

func (s *UserService) GetUserByClerkID(ctx context.Context, clerkID string) (*user.User, error) {
	query := `
	SELECT id, clerk_id, email, username, first_name, last_name, image_url, email_verified,
	       created_at, updated_at, xp, total_days_completed
	FROM users
	WHERE clerk_id = $1
	`

	u := &user.User{}
	err := s.db.QueryRow(ctx, query, clerkID).Scan(
		&u.ID,
		&u.ClerkID,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.ImageURL,
		&u.EmailVerified,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.XP,
		&u.TotalDaysCompleted,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if userID, err := uuid.Parse(u.ID); err == nil {
		active, err := s.subsService.IsActive(ctx, userID)
		if err == nil {
			u.IsPremium = active
		}
	}

	return u, nil
}

func (s *UserService) UpdateProfileByClerkID(ctx context.Context, clerkID string, req *user.UpdateProfileRequest) (*user.User, error) {
	setClauses := []string{}
	args := []interface{}{}
	argPos := 1

	if req.Username != "" {
		setClauses = append(setClauses, fmt.Sprintf("username = $%d", argPos))
		args = append(args, req.Username)
		argPos++
	}
	if req.FirstName != "" {
		setClauses = append(setClauses, fmt.Sprintf("first_name = $%d", argPos))
		args = append(args, req.FirstName)
		argPos++
	}
	if req.LastName != "" {
		setClauses = append(setClauses, fmt.Sprintf("last_name = $%d", argPos))
		args = append(args, req.LastName)
		argPos++
	}
	if req.ImageURL != "" {
		setClauses = append(setClauses, fmt.Sprintf("image_url = $%d", argPos))
		args = append(args, req.ImageURL)
		argPos++
	}

	if len(setClauses) == 0 {
		return s.GetUserByClerkID(ctx, clerkID)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, clerkID)

	query := fmt.Sprintf(`UPDATE users SET %s WHERE clerk_id = $%d`, strings.Join(setClauses, ", "), argPos)
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrUserNotFound
	}

	return s.GetUserByClerkID(ctx, clerkID)
}

func (s *UserService) UpdateEmailVerification(ctx context.Context, clerkID string, verified bool) error {
	_, err := s.db.Exec(ctx, `UPDATE users SET email_verified = $1, updated_at = NOW() WHERE clerk_id = $2`, verified, clerkID)
	if err != nil {
		return fmt.Errorf("failed to update email verification: %w", err)
	}
	return nil
}

// DeleteUserByClerkID removes the user row; challenge progress, photos
// and device tokens cascade at the schema level.
func (s *UserService) DeleteUserByClerkID(ctx context.Context, clerkID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE clerk_id = $1`, clerkID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// GetWellnessStats aggregates the caller's challenge progress into the
// profile stats card.
func (s *UserService) GetWellnessStats(ctx context.Context, clerkID string) (*stats.WellnessStats, error) {
	userID, err := lookupUserID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}

	st := &stats.WellnessStats{}
	today := utils.DateKey(time.Now())

	err = s.db.QueryRow(ctx, `
		SELECT
			COALESCE(COUNT(*) FILTER (WHERE NOT p.is_completed), 0),
			COALESCE(COUNT(*) FILTER (WHERE p.is_completed), 0),
			COALESCE(SUM(cardinality(p.completed_days)), 0),
			COALESCE(MAX(p.streak) FILTER (WHERE NOT p.is_completed), 0),
			COALESCE(SUM(cardinality(p.badges_earned)), 0),
			COALESCE(BOOL_OR(p.completed_days @> ARRAY[$2]::text[]), false)
		FROM challenge_progress p
		WHERE p.user_id = $1
	`, userID, today).Scan(
		&st.ActiveChallenges,
		&st.CompletedChallenges,
		&st.TotalDaysCompleted,
		&st.CurrentStreak,
		&st.BadgesCount,
		&st.TodayStatus,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate stats: %w", err)
	}

	err = s.db.QueryRow(ctx, `SELECT xp FROM users WHERE id = $1`, userID).Scan(&st.TotalXP)
	if err != nil {
		return nil, fmt.Errorf("failed to get user xp: %w", err)
	}

	st.WellnessScore = utils.CalculateWellnessScore(st.CurrentStreak, st.TotalDaysCompleted, st.BadgesCount)

	return st, nil
}
