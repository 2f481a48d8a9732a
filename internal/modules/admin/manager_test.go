package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifelessons/internal/domain"
)

func TestManager_BeginGuardsRow(t *testing.T) {
	m := NewManager("Admin@Gmail.com")
	m.Replace([]domain.User{
		{ID: "1", Email: "admin@gmail.com", Role: domain.RoleAdmin},
		{ID: "2", Email: "a@example.com", Role: domain.RoleUser},
		{ID: "3", Email: "b@example.com", Role: domain.RoleUser},
	})

	_, err := m.begin("1")
	assert.ErrorIs(t, err, ErrProtectedAccount)

	_, err = m.begin("missing")
	assert.ErrorIs(t, err, ErrUserNotFound)

	u, err := m.begin("2")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", u.Email)
	assert.True(t, m.Busy("2"))

	_, err = m.begin("2")
	assert.ErrorIs(t, err, ErrRowBusy)

	_, err = m.begin("3")
	assert.NoError(t, err, "other rows stay usable")

	m.end("2")
	assert.False(t, m.Busy("2"))
}

func TestManager_SnapshotIsCopied(t *testing.T) {
	src := []domain.User{{ID: "1", Role: domain.RoleUser}}
	m := NewManager("")
	m.Replace(src)
	src[0].Role = domain.RoleAdmin

	got := m.Users()
	assert.Equal(t, domain.RoleUser, got[0].Role)
	got[0].Role = domain.RoleAdmin
	assert.Equal(t, domain.RoleUser, m.Users()[0].Role)
	assert.False(t, m.Protected(""), "empty protected email matches nothing")
}

func TestManager_SetRoleAndRemove(t *testing.T) {
	m := NewManager("")
	m.Replace([]domain.User{{ID: "1"}, {ID: "2"}})

	row, ok := m.setRole("2", domain.RoleAdmin)
	require.True(t, ok)
	assert.Equal(t, domain.RoleAdmin, row.Role)

	m.remove("1")
	users := m.Users()
	require.Len(t, users, 1)
	assert.Equal(t, "2", users[0].ID)

	_, ok = m.setRole("1", domain.RoleAdmin)
	assert.False(t, ok)
}
