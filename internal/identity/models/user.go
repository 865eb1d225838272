package models

import (
	"time"

	id "alphaseek/pkg/domain"
)

// User is the stable account behind the session scheme. Created on first
// successful login; the ID, not the email, is the row-ownership key from then
// on.
type User struct {
	ID          id.UserID `json:"id"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	LastLoginAt time.Time `json:"last_login_at"`
}
