package backend

import (
	"context"
	"net/http"

	"github.com/yakoovad/club-portal/internal/model"
)

const profilePath = "/users/profile"

func (c *Client) GetProfile(ctx context.Context) (*model.Profile, error) {
	var p model.Profile
	if err := c.do(ctx, http.MethodGet, profilePath, nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreateProfile(ctx context.Context, req *model.CreateProfileRequest) (*model.Profile, error) {
	var p model.Profile
	if err := c.do(ctx, http.MethodPost, profilePath, nil, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req *model.UpdateProfileRequest) (*model.Profile, error) {
	var p model.Profile
	if err := c.do(ctx, http.MethodPut, profilePath, nil, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) ChangePassword(ctx context.Context, req *model.PasswordChange) error {
	return c.do(ctx, http.MethodPut, "/users/password", nil, req, nil)
}

func (c *Client) DeleteAccount(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, profilePath, nil, nil, nil)
}
