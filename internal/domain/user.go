package domain

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// Toggled returns the role an admin switch flips to.
func (r UserRole) Toggled() UserRole {
	if r == RoleUser {
		return RoleAdmin
	}
	return RoleUser
}

// User is the backend user record. Password login and Google sign-in write
// slightly different field sets, so both name/photo spellings are kept.
type User struct {
	ID             string    `json:"_id,omitempty"`
	UID            string    `json:"uid,omitempty"`
	Email          string    `json:"email" validate:"required,email"`
	UserName       string    `json:"userName,omitempty"`
	Name           string    `json:"name,omitempty"`
	UserImage      string    `json:"userImage,omitempty"`
	PhotoURL       string    `json:"photoURL,omitempty"`
	Role           UserRole  `json:"role"`
	Plan           string    `json:"plan,omitempty"`
	IsPremium      bool      `json:"isPremium"`
	TotalLessons   int       `json:"totalLessons,omitempty"`
	TotalFavorites int       `json:"totalFavorites,omitempty"`
	CreatedAt      time.Time `json:"createdAt,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt,omitempty"`
}

// DisplayName prefers userName and falls back to name.
func (u *User) DisplayName() string {
	if u.UserName != "" {
		return u.UserName
	}
	return u.Name
}

// Avatar prefers userImage and falls back to photoURL.
func (u *User) Avatar() string {
	if u.UserImage != "" {
		return u.UserImage
	}
	return u.PhotoURL
}
