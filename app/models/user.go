package models

import (
	"strings"
	"time"
)

// Role is the closed set of roles this application knows about.
// Anything else in the user directory is treated as unprovisioned.
type Role string

const (
	RoleTeacher   Role = "teacher"
	RoleCounselor Role = "counselor"
)

// ParseRole normalizes and validates a role string from the user directory.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleTeacher:
		return RoleTeacher, true
	case RoleCounselor:
		return RoleCounselor, true
	}
	return "", false
}

// User is a user-directory entry. Users are created and edited outside this
// application; we only ever read them.
type User struct {
	UID             string `json:"-"`
	Role            Role   `json:"role"`
	AssignedClass   string `json:"assignedClass"`
	AssignedSection string `json:"assignedSection"`
}

// Session holds the authenticated identity for one browser client. It lives
// in the server-side session store; the client only carries a signed token
// referencing Session.ID.
type Session struct {
	ID               string
	UID              string
	IDToken          string
	RefreshToken     string
	Role             Role
	AssignedClass    string
	AssignedSection  string
	CreatedAt        time.Time
	ExpiresAt        time.Time
	TokenRefreshedAt time.Time
}

// Expired reports whether the session's absolute lifetime has passed.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
