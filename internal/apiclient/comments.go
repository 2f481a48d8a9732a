package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"lifelessons/internal/domain"
)

func (c *Client) Comments(ctx context.Context, lessonID string) ([]domain.Comment, error) {
	q := url.Values{}
	q.Set("lessonId", lessonID)

	var out []domain.Comment
	if err := c.do(ctx, "comments", http.MethodGet, "/comments", q, nil, &out); err != nil {
		if isEmptyBody(err) {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateComment(ctx context.Context, cm domain.Comment) error {
	return c.do(ctx, "createComment", http.MethodPost, "/comments", nil, cm, nil)
}
