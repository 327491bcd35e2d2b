package photo

import (
	"time"

	"github.com/google/uuid"
)

type ProgressPhoto struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	ChallengeID *uuid.UUID `json:"challenge_id,omitempty" db:"challenge_id"`
	ObjectKey   string     `json:"-" db:"object_key"`
	URL         string     `json:"url" db:"url"`
	UploadedAt  time.Time  `json:"uploaded_at" db:"uploaded_at"`
}
