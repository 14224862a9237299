package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/yakoovad/club-portal/internal/model"
)

func teamPath(teamID string, rest ...string) string {
	p := "/teams/" + url.PathEscape(teamID)
	for _, r := range rest {
		p += "/" + url.PathEscape(r)
	}
	return p
}

// GetMyTeam maps both a JSON null body and a 404 to "no team".
func (c *Client) GetMyTeam(ctx context.Context) (*model.Membership, error) {
	var m *model.Membership
	err := c.do(ctx, http.MethodGet, "/teams/my-team", nil, nil, &m)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if m == nil || m.TeamID == "" {
		return nil, nil
	}
	return m, nil
}

func (c *Client) CreateTeam(ctx context.Context, req *model.CreateTeamRequest) (*model.Team, error) {
	var t model.Team
	if err := c.do(ctx, http.MethodPost, "/teams", nil, req, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) ListPublicTeams(ctx context.Context) ([]*model.Team, error) {
	var teams []*model.Team
	if err := c.do(ctx, http.MethodGet, "/teams/public", nil, nil, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

func (c *Client) ListMembers(ctx context.Context, teamID string) ([]*model.TeamMember, error) {
	var members []*model.TeamMember
	if err := c.do(ctx, http.MethodGet, teamPath(teamID, "members"), nil, nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (c *Client) UpdateMember(ctx context.Context, teamID, memberID string, patch *model.MemberPatch) (*model.TeamMember, error) {
	var m model.TeamMember
	if err := c.do(ctx, http.MethodPut, teamPath(teamID, "members", memberID), nil, patch, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) RemoveMember(ctx context.Context, teamID, memberID string) error {
	return c.do(ctx, http.MethodDelete, teamPath(teamID, "members", memberID), nil, nil, nil)
}

func (c *Client) LeaveTeam(ctx context.Context, teamID string) error {
	return c.do(ctx, http.MethodPost, teamPath(teamID, "leave"), nil, nil, nil)
}

func (c *Client) DeleteTeam(ctx context.Context, teamID string) error {
	return c.do(ctx, http.MethodDelete, teamPath(teamID), nil, nil, nil)
}

func (c *Client) CreateJoinRequest(ctx context.Context, req *model.CreateJoinRequest) (*model.JoinRequest, error) {
	var jr model.JoinRequest
	if err := c.do(ctx, http.MethodPost, "/join-requests", nil, req, &jr); err != nil {
		return nil, err
	}
	return &jr, nil
}

func (c *Client) ListMyJoinRequests(ctx context.Context) ([]*model.JoinRequest, error) {
	var requests []*model.JoinRequest
	if err := c.do(ctx, http.MethodGet, "/join-requests/me", nil, nil, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (c *Client) CancelJoinRequest(ctx context.Context, requestID string) error {
	return c.do(ctx, http.MethodDelete, "/join-requests/"+url.PathEscape(requestID), nil, nil, nil)
}

func (c *Client) ListTeamJoinRequests(ctx context.Context, teamID string) ([]*model.JoinRequest, error) {
	var requests []*model.JoinRequest
	if err := c.do(ctx, http.MethodGet, teamPath(teamID, "join-requests"), nil, nil, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (c *Client) ReviewJoinRequest(ctx context.Context, teamID, requestID string, status model.JoinRequestStatus) (*model.JoinRequest, error) {
	body := struct {
		Status model.JoinRequestStatus `json:"status"`
	}{Status: status}

	var jr model.JoinRequest
	if err := c.do(ctx, http.MethodPut, teamPath(teamID, "join-requests", requestID), nil, body, &jr); err != nil {
		return nil, err
	}
	return &jr, nil
}
