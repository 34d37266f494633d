package domain

import "time"

// User is the authenticated family member's profile, as returned by the
// auth endpoints and cached next to the session token.
type User struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Name       string    `json:"name"`
	Role       string    `json:"role,omitempty"`
	TotalScore int       `json:"total_score"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

// AuthResponse is the body of /auth/login and /auth/register.
type AuthResponse struct {
	User
	Token string `json:"token"`
}
