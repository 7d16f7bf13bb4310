package domain

import "time"

// Role classifies what a user is allowed to do across the platform.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleUser     Role = "user"
	RoleTeamLead Role = "team_lead"
)

// ValidRole reports whether the value is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleUser, RoleTeamLead:
		return true
	}
	return false
}

// User represents an authenticated identity in the platform.
//
// PasswordHash is empty for identities provisioned through an external
// provider; such users can never authenticate with a password.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Avatar       string    `json:"avatar,omitempty"`
	ExternalID   string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserRef carries the display attributes a task response embeds for its
// creator and assignee. Storage keeps only the id; the rest is joined at
// read time.
type UserRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// Ref projects the user into its display reference.
func (u *User) Ref() UserRef {
	if u == nil {
		return UserRef{}
	}
	return UserRef{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar}
}
