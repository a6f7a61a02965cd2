package domain

import "time"

// Session is the result of a successful login. It is an explicit value bound
// to one username; nothing session-related lives in process globals.
type Session struct {
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
