package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"lifelessons/internal/domain"
)

func (c *Client) FeaturedLessons(ctx context.Context) ([]domain.Lesson, error) {
	var out []domain.Lesson
	if err := c.do(ctx, "featuredLessons", http.MethodGet, "/featured-lessons", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Lessons returns the full lesson collection, private ones included.
func (c *Client) Lessons(ctx context.Context) ([]domain.Lesson, error) {
	var out []domain.Lesson
	if err := c.do(ctx, "lessons", http.MethodGet, "/lessons", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Lesson returns one lesson. An empty body is reported as ErrNotFound.
func (c *Client) Lesson(ctx context.Context, id string) (*domain.Lesson, error) {
	var out domain.Lesson
	path := "/lessons/" + url.PathEscape(id)
	if err := c.do(ctx, "lesson", http.MethodGet, path, nil, nil, &out); err != nil {
		if isEmptyBody(err) {
			return nil, &Error{Op: "lesson", Method: http.MethodGet, Path: path, Status: http.StatusOK, Err: ErrNotFound}
		}
		return nil, err
	}
	if out.ID == "" {
		return nil, &Error{Op: "lesson", Method: http.MethodGet, Path: path, Status: http.StatusOK, Err: ErrNotFound}
	}
	return &out, nil
}

func (c *Client) LessonsByCategoryTone(ctx context.Context, category, tone string) ([]domain.Lesson, error) {
	q := url.Values{}
	q.Set("category", category)
	q.Set("emotionalTone", tone)

	var out []domain.Lesson
	if err := c.do(ctx, "lessonsByCategoryTone", http.MethodGet, "/lessons", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LessonsByEmail returns the lessons authored by email.
func (c *Client) LessonsByEmail(ctx context.Context, email string) ([]domain.Lesson, error) {
	q := url.Values{}
	q.Set("email", email)

	var out []domain.Lesson
	if err := c.do(ctx, "lessonsByEmail", http.MethodGet, "/lessons", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) LikeLesson(ctx context.Context, id string) error {
	return c.do(ctx, "likeLesson", http.MethodPatch, "/lessons/"+url.PathEscape(id)+"/like", nil, nil, nil)
}

func (c *Client) FavoriteLesson(ctx context.Context, id string) error {
	return c.do(ctx, "favoriteLesson", http.MethodPatch, "/lessons/"+url.PathEscape(id)+"/favorite", nil, nil, nil)
}

func (c *Client) ReportLesson(ctx context.Context, r domain.LessonReport) error {
	return c.do(ctx, "reportLesson", http.MethodPost, "/lessonsReports", nil, r, nil)
}
