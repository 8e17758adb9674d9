package models

import "time"

// User represents an administrative account a panel can be assigned to.
// Unlike panels and files, users are not mirrors of external state:
// deleting a user is destructive and removes dependent assignments.
type User struct {
	// UserID is the internal unique identifier of the user.
	UserID int64 `json:"user_id"`

	// Name is the display name of the user. It is embedded in issued
	// access tokens for audit purposes.
	Name string `json:"name"`

	// Email is the address one-time passcodes are delivered to.
	Email string `json:"email"`

	// CreatedAt is the timestamp when the user record was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
