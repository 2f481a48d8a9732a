package admin

import (
	"time"

	"lifelessons/internal/domain"
)

type ListUsersRequest struct {
	Refresh bool `form:"refresh"`
}

// UserRowDTO is one row of the user management table.
type UserRowDTO struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Photo     string          `json:"photo,omitempty"`
	Role      domain.UserRole `json:"role"`
	IsPremium bool            `json:"is_premium"`
	Protected bool            `json:"protected"`
	Busy      bool            `json:"busy"`
	CreatedAt string          `json:"created_at,omitempty"`
}

type UserListResponse struct {
	Users []UserRowDTO `json:"users"`
	Total int          `json:"total"`
}

func toRow(m *Manager, u domain.User) UserRowDTO {
	row := UserRowDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.DisplayName(),
		Photo:     u.Avatar(),
		Role:      u.Role,
		IsPremium: u.IsPremium,
		Protected: m.Protected(u.Email),
		Busy:      m.Busy(u.ID),
	}
	if !u.CreatedAt.IsZero() {
		row.CreatedAt = u.CreatedAt.Format(time.RFC3339)
	}
	return row
}

func toList(m *Manager, users []domain.User) UserListResponse {
	rows := make([]UserRowDTO, 0, len(users))
	for _, u := range users {
		rows = append(rows, toRow(m, u))
	}
	return UserListResponse{Users: rows, Total: len(rows)}
}
