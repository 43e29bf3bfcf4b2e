package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the minimal identity jobs and results are attributed to.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
