package comment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"lifelessons/internal/domain"
	"lifelessons/internal/workspace"
)

// UserResolver maps a workspace to its backend user record.
type UserResolver interface {
	Resolve(ctx context.Context, ws *workspace.Workspace) (*domain.User, error)
}

type Service struct {
	users  UserResolver
	hub    *Hub
	logger *slog.Logger
}

func NewService(users UserResolver, hub *Hub, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{users: users, hub: hub, logger: logger}
}

func threadSlot(lessonID string) string { return "comment.thread:" + lessonID }

// Thread returns the comment thread of lessonID for ws.
func (s *Service) Thread(ws *workspace.Workspace, lessonID string) *Thread {
	return workspace.SlotOf(ws, threadSlot(lessonID), func() *Thread { return NewThread(lessonID) })
}

func (s *Service) List(ctx context.Context, ws *workspace.Workspace, lessonID string) ([]domain.Comment, error) {
	list, err := Load(ctx, ws, lessonID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Comment{}
	}
	return list, nil
}

// Submit posts a comment as the signed-in person and returns the list as it
// stands afterwards.
func (s *Service) Submit(ctx context.Context, ws *workspace.Workspace, lessonID, text string) ([]domain.Comment, error) {
	if ws.Anonymous() {
		return nil, ErrNotSignedIn
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyComment
	}

	author, err := s.users.Resolve(ctx, ws)
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	list, err := s.Thread(ws, lessonID).Submit(ctx, ws, author, text)
	if err != nil {
		s.logger.Error("add comment failed", "lesson_id", lessonID, "error", err)
		return nil, err
	}
	if s.hub != nil {
		s.hub.Touch(lessonID)
	}
	return list, nil
}
