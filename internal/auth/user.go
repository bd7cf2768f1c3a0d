package auth

import (
	"encoding/json"
	"strings"
)

// FullName is a user's display name parts.
type FullName struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// User is the non-sensitive user record the auth service returns.
type User struct {
	ID       string   `json:"_id,omitempty"`
	Username string   `json:"username,omitempty"`
	Email    string   `json:"email,omitempty"`
	FullName FullName `json:"fullName"`
	Role     string   `json:"role,omitempty"`
}

// DisplayName prefers the first name and falls back to the username.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FullName.FirstName != "" {
		return u.FullName.FirstName
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

// FullDisplayName joins first and last name.
func (u *User) FullDisplayName() string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(u.FullName.FirstName + " " + u.FullName.LastName)
	if name == "" {
		return u.DisplayName()
	}
	return name
}

// IsArtist reports whether the user has the artist role.
func (u *User) IsArtist() bool {
	return u != nil && u.Role == RoleArtist
}

// RoleArtist is the role requested at registration for artist accounts.
const RoleArtist = "artist"

// RegisterInput is the registration payload.
type RegisterInput struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	FullName FullName `json:"fullName"`
	Role     string   `json:"role,omitempty"`
}

func decodeUser(raw json.RawMessage) (*User, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
