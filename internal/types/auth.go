package types

import (
	"time"

	"github.com/princeprakhar/bookmind/internal/models"
)

// AuthResult is what a successful login hands back to the handler.
type AuthResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
}
