package subscription

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusExpired  Status = "expired"
	StatusCanceled Status = "canceled"
)

type Subscription struct {
	ID               uuid.UUID `json:"id" db:"id"`
	UserID           uuid.UUID `json:"user_id" db:"user_id"`
	PlanType         string    `json:"plan_type" db:"plan_type"`
	Status           Status    `json:"status" db:"status"`
	PaymentID        string    `json:"payment_id" db:"payment_id"`
	CurrentPeriodEnd time.Time `json:"current_period_end" db:"current_period_end"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}
