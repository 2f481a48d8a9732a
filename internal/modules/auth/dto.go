package auth

import "lifelessons/internal/domain"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleRequest carries the ID token Google sign-in gave the client. The
// profile is read from the verified token, never from the request.
type GoogleRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

type UserPublic struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Photo     string          `json:"photo,omitempty"`
	Role      domain.UserRole `json:"role"`
	IsPremium bool            `json:"is_premium"`
}

type SessionResponse struct {
	Token     string     `json:"token"`
	ExpiresAt string     `json:"expires_at"`
	User      UserPublic `json:"user"`
}

func toUserPublic(u *domain.User) UserPublic {
	return UserPublic{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.DisplayName(),
		Photo:     u.Avatar(),
		Role:      u.Role,
		IsPremium: u.IsPremium,
	}
}
