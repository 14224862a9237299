package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/yakoovad/club-portal/internal/model"
)

func (c *Client) DashboardSummary(ctx context.Context, teamID string) (*model.DashboardSummary, error) {
	var s model.DashboardSummary
	if err := c.do(ctx, http.MethodGet, "/dashboard/summary", url.Values{"teamId": {teamID}}, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Rankings(ctx context.Context, teamID string) (*model.Rankings, error) {
	var r model.Rankings
	if err := c.do(ctx, http.MethodGet, "/rankings", url.Values{"teamId": {teamID}}, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
