package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"lifelessons/internal/domain"
)

// UserByEmail looks up the backend user record for email.
func (c *Client) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := url.Values{}
	q.Set("email", email)

	var out domain.User
	if err := c.do(ctx, "userByEmail", http.MethodGet, "/users", q, nil, &out); err != nil {
		if isEmptyBody(err) {
			return nil, &Error{Op: "userByEmail", Method: http.MethodGet, Path: "/users", Status: http.StatusOK, Err: ErrNotFound}
		}
		return nil, err
	}
	return &out, nil
}

// Users lists every user. The backend answers with an array, or with a single
// object when only one record exists.
func (c *Client) Users(ctx context.Context) ([]domain.User, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "users", http.MethodGet, "/users", nil, nil, &raw); err != nil {
		if isEmptyBody(err) {
			return nil, nil
		}
		return nil, err
	}
	users, err := decodeOneOrMany[domain.User](raw)
	if err != nil {
		return nil, &Error{Op: "users", Method: http.MethodGet, Path: "/users", Status: http.StatusOK, Err: fmt.Errorf("decode response: %w", err)}
	}
	return users, nil
}

type createUserResponse struct {
	InsertedID string `json:"insertedId"`
	Result     struct {
		Ops []domain.User `json:"ops"`
	} `json:"result"`
}

// CreateUser provisions a user. The created record is read from result.ops[0];
// older backends only return insertedId, in which case u is echoed back with
// that id.
func (c *Client) CreateUser(ctx context.Context, u domain.User) (*domain.User, error) {
	var out createUserResponse
	if err := c.do(ctx, "createUser", http.MethodPost, "/users", nil, u, &out); err != nil && !isEmptyBody(err) {
		return nil, err
	}
	if len(out.Result.Ops) > 0 {
		created := out.Result.Ops[0]
		return &created, nil
	}
	created := u
	if out.InsertedID != "" {
		created.ID = out.InsertedID
	}
	return &created, nil
}

// GoogleUser upserts the record of a Google sign-in.
func (c *Client) GoogleUser(ctx context.Context, u domain.User) (*domain.User, error) {
	var out struct {
		User *domain.User `json:"user"`
	}
	if err := c.do(ctx, "googleUser", http.MethodPost, "/users/google", nil, u, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return &u, nil
	}
	return out.User, nil
}

// PatchUser applies a partial update and returns the backend's view of the
// record. Fields the backend omits stay zero.
func (c *Client) PatchUser(ctx context.Context, id string, patch map[string]any) (*domain.User, error) {
	var out domain.User
	err := c.do(ctx, "patchUser", http.MethodPatch, "/users/"+url.PathEscape(id), nil, patch, &out)
	if err != nil && !isEmptyBody(err) {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, "deleteUser", http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil, nil)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks email/password credentials with the backend.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*domain.User, error) {
	var out struct {
		User *domain.User `json:"user"`
	}
	if err := c.do(ctx, "login", http.MethodPost, "/login", nil, req, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, &Error{Op: "login", Method: http.MethodPost, Path: "/login", Status: http.StatusOK, Err: ErrEmptyBody}
	}
	return out.User, nil
}

func isEmptyBody(err error) bool {
	return errors.Is(err, ErrEmptyBody)
}
