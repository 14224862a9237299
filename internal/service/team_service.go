package service

import (
	"context"

	"github.com/yakoovad/club-portal/internal/backend"
	"github.com/yakoovad/club-portal/internal/model"
	"github.com/yakoovad/club-portal/pkg/logger"
	"go.uber.org/zap"
)

// TeamService covers the team flows of a user who is not acting as staff:
// creating a team, browsing teams and managing their own join requests.
type TeamService struct {
	teams      backend.TeamAPI
	membership *MembershipService
}

func NewTeamService(teams backend.TeamAPI) *TeamService {
	return &TeamService{teams: teams}
}

func (t *TeamService) CreateTeam(ctx context.Context, sessionID string, req *model.CreateTeamRequest) (*model.Team, *Error) {
	l := logger.FromContext(ctx)
	l.Info("creating team", zap.String("team_name", req.Name))

	team, err := t.teams.CreateTeam(ctx, req)
	if err != nil {
		l.Error("failed to create team", zap.String("team_name", req.Name), zap.Error(err))
		return nil, fromBackend(err, "팀 생성에 실패했습니다.")
	}

	if err = t.membership.Joined(ctx, sessionID, team.ID); err != nil {
		l.Warn("failed to cache new team", zap.String("team_id", team.ID), zap.Error(err))
	}

	l.Debug("team created", zap.String("team_id", team.ID))
	return team, nil
}

func (t *TeamService) ListPublicTeams(ctx context.Context) ([]*model.Team, *Error) {
	teams, err := t.teams.ListPublicTeams(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list teams", zap.Error(err))
		return nil, fromBackend(err, "팀 목록을 불러오는데 실패했습니다.")
	}
	return teams, nil
}

// RequestToJoin files a join request. A second pending request for the
// same team comes back from upstream as a conflict and is returned as is.
func (t *TeamService) RequestToJoin(ctx context.Context, req *model.CreateJoinRequest) (*model.JoinRequest, *Error) {
	l := logger.FromContext(ctx)

	jr, err := t.teams.CreateJoinRequest(ctx, req)
	if backend.KindOf(err) == backend.KindConflict {
		l.Warn("join request already pending", zap.String("team_id", req.TeamID))
		return nil, fromBackend(err, "이미 가입 신청한 팀입니다.")
	}
	if err != nil {
		l.Error("failed to create join request", zap.String("team_id", req.TeamID), zap.Error(err))
		return nil, fromBackend(err, "가입 신청에 실패했습니다.")
	}
	return jr, nil
}

// MyPendingRequests lists the caller's requests still awaiting review.
func (t *TeamService) MyPendingRequests(ctx context.Context) ([]*model.JoinRequest, *Error) {
	requests, err := t.teams.ListMyJoinRequests(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list own join requests", zap.Error(err))
		return nil, fromBackend(err, "가입신청 목록을 불러오는데 실패했습니다.")
	}
	return model.PendingJoinRequests(requests), nil
}

func (t *TeamService) CancelJoinRequest(ctx context.Context, requestID string) *Error {
	if err := t.teams.CancelJoinRequest(ctx, requestID); err != nil {
		logger.FromContext(ctx).Error("failed to cancel join request", zap.String("request_id", requestID), zap.Error(err))
		return fromBackend(err, "가입 신청 취소에 실패했습니다.")
	}
	return nil
}

func (t *TeamService) WithMembership(m *MembershipService) *TeamService {
	t.membership = m
	return t
}
