package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type DeviceToken struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	Token        string    `json:"token" db:"token"`
	Platform     string    `json:"platform" db:"platform"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
}

type RegisterDeviceRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

// PushProvider abstracts the transport so services can send pushes
// without depending on Firebase directly.
type PushProvider interface {
	SendPush(ctx context.Context, tokens []DeviceToken, title, body string, data map[string]any) error
}
