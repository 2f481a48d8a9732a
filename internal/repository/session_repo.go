package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"lifelessons/internal/session"
)

// SessionRepository persists signed-in sessions.
type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// SessionModel is the sessions table row.
type SessionModel struct {
	ID          string    `gorm:"column:id;primaryKey;size:36"`
	UID         string    `gorm:"column:uid;index"`
	Email       string    `gorm:"column:email;index"`
	DisplayName string    `gorm:"column:display_name"`
	PhotoURL    string    `gorm:"column:photo_url"`
	Provider    string    `gorm:"column:provider"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	ExpiresAt   time.Time `gorm:"column:expires_at;index"`
}

func (SessionModel) TableName() string { return "sessions" }

func toSessionModel(s *session.Session) SessionModel {
	id := s.Identity()
	return SessionModel{
		ID:          s.ID(),
		UID:         id.UID,
		Email:       id.Email,
		DisplayName: id.DisplayName,
		PhotoURL:    id.PhotoURL,
		Provider:    string(id.Provider),
		CreatedAt:   s.CreatedAt().UTC(),
		ExpiresAt:   s.ExpiresAt().UTC(),
	}
}

func toSession(m SessionModel) *session.Session {
	return session.Restore(m.ID, session.Identity{
		UID:         m.UID,
		Email:       m.Email,
		DisplayName: m.DisplayName,
		PhotoURL:    m.PhotoURL,
		Provider:    session.Provider(m.Provider),
	}, m.CreatedAt, m.ExpiresAt)
}

func (r *SessionRepository) Create(ctx context.Context, s *session.Session) error {
	m := toSessionModel(s)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return session.ErrSessionExists
		}
		return err
	}
	return nil
}

// Get returns the session or session.ErrSessionNotFound.
func (r *SessionRepository) Get(ctx context.Context, id string) (*session.Session, error) {
	var m SessionModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, session.ErrSessionNotFound
		}
		return nil, err
	}
	return toSession(m), nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&SessionModel{}).Error
}

// DeleteExpired removes sessions that expired before now and returns how many
// rows were removed.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", now.UTC()).
		Delete(&SessionModel{})
	return res.RowsAffected, res.Error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// modernc sqlite: "constraint failed: UNIQUE constraint failed: sessions.id (1555)"
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "PRIMARY KEY constraint failed")
}
