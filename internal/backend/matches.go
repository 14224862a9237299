package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/yakoovad/club-portal/internal/model"
)

func matchPath(matchID string, rest ...string) string {
	p := "/matches/" + url.PathEscape(matchID)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}

func (c *Client) ListMatches(ctx context.Context, filter *model.MatchFilter) ([]*model.MatchListItem, error) {
	q := url.Values{}
	q.Set("teamId", filter.TeamID)
	if filter.Year > 0 {
		q.Set("year", strconv.Itoa(filter.Year))
	}
	if filter.Month > 0 {
		q.Set("month", strconv.Itoa(filter.Month))
	}

	var items []*model.MatchListItem
	if err := c.do(ctx, http.MethodGet, "/matches", q, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) GetMatch(ctx context.Context, matchID string) (*model.MatchDetail, error) {
	var d model.MatchDetail
	if err := c.do(ctx, http.MethodGet, matchPath(matchID), nil, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) CreateMatch(ctx context.Context, req *model.CreateMatchRequest) (*model.Match, error) {
	var m model.Match
	if err := c.do(ctx, http.MethodPost, "/matches", nil, req, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) UpdateMatch(ctx context.Context, matchID string, req *model.UpdateMatchRequest) (*model.Match, error) {
	var m model.Match
	if err := c.do(ctx, http.MethodPut, matchPath(matchID), nil, req, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) DeleteMatch(ctx context.Context, matchID string) error {
	return c.do(ctx, http.MethodDelete, matchPath(matchID), nil, nil, nil)
}

func (c *Client) RecordMatch(ctx context.Context, matchID string, req *model.RecordMatchRequest) error {
	return c.do(ctx, http.MethodPost, matchPath(matchID, "record"), nil, req, nil)
}

func (c *Client) VoteAttendance(ctx context.Context, matchID string, status model.AttendanceStatus) (*model.MatchAttendance, error) {
	body := model.AttendanceVoteRequest{Status: status}

	var a model.MatchAttendance
	if err := c.do(ctx, http.MethodPost, matchPath(matchID, "attendance"), nil, body, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) ListAttendance(ctx context.Context, matchID string) ([]*model.MatchAttendance, error) {
	var attendances []*model.MatchAttendance
	if err := c.do(ctx, http.MethodGet, matchPath(matchID, "attendance"), nil, nil, &attendances); err != nil {
		return nil, err
	}
	return attendances, nil
}
