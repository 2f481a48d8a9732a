package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"lifelessons/internal/domain"
)

// Favorites returns the global favorites collection.
func (c *Client) Favorites(ctx context.Context) ([]domain.Favorite, error) {
	var out []domain.Favorite
	if err := c.do(ctx, "favorites", http.MethodGet, "/favorites", nil, nil, &out); err != nil {
		if isEmptyBody(err) {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

func (c *Client) FavoritesByUser(ctx context.Context, userID string) ([]domain.Favorite, error) {
	q := url.Values{}
	q.Set("userId", userID)

	var out []domain.Favorite
	if err := c.do(ctx, "favoritesByUser", http.MethodGet, "/favorites", q, nil, &out); err != nil {
		if isEmptyBody(err) {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

// CreateFavorite saves a lesson for a user. A duplicate is rejected by the
// backend and surfaces as ErrConflict.
func (c *Client) CreateFavorite(ctx context.Context, f domain.Favorite) error {
	return c.do(ctx, "createFavorite", http.MethodPost, "/favorites", nil, f, nil)
}
