package models

import "time"

// User is the owning principal for plans, items and lists. Placeholder
// users predate authentication; they are created implicitly and later
// migrated onto a real account.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email,omitempty"`
	Placeholder bool      `json:"placeholder"`
	MigratedTo  *string   `json:"migrated_to,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Migrated reports whether this placeholder has already been re-homed.
func (u *User) Migrated() bool {
	return u.MigratedTo != nil && *u.MigratedTo != ""
}
