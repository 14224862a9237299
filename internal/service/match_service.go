package service

import (
	"context"

	"github.com/yakoovad/club-portal/internal/backend"
	"github.com/yakoovad/club-portal/internal/broadcast"
	"github.com/yakoovad/club-portal/internal/model"
	"github.com/yakoovad/club-portal/pkg/logger"
	"go.uber.org/zap"
)

type MatchService struct {
	matches   backend.MatchAPI
	publisher broadcast.Publisher
}

func NewMatchService(matches backend.MatchAPI) *MatchService {
	return &MatchService{matches: matches}
}

// MatchView is a match detail with totals recomputed from its games and
// the caller's own vote and permissions.
type MatchView struct {
	*model.MatchDetail
	MyVote    *model.AttendanceStatus `json:"myVote"`
	CanEdit   bool                    `json:"canEdit"`
	CanRecord bool                    `json:"canRecord"`
}

func (m *MatchService) ListMatches(ctx context.Context, scope *model.Membership, year, month int) ([]*model.MatchListItem, *Error) {
	l := logger.FromContext(ctx)

	if month < 0 || month > 12 {
		return nil, NewError(ErrorCodeValidation, "올바르지 않은 월입니다.")
	}

	items, err := m.matches.ListMatches(ctx, &model.MatchFilter{TeamID: scope.TeamID, Year: year, Month: month})
	if err != nil {
		l.Error("failed to list matches", zap.String("team_id", scope.TeamID), zap.Error(err))
		return nil, fromBackend(err, "경기 목록을 불러오는데 실패했습니다.")
	}
	return items, nil
}

func (m *MatchService) GetMatch(ctx context.Context, scope *model.Membership, userID, matchID string) (*MatchView, *Error) {
	l := logger.FromContext(ctx)

	detail, err := m.matches.GetMatch(ctx, matchID)
	if err != nil {
		l.Error("failed to get match", zap.String("match_id", matchID), zap.Error(err))
		return nil, fromBackend(err, "경기 정보를 불러오는데 실패했습니다.")
	}
	if detail.TeamID != "" && detail.TeamID != scope.TeamID {
		l.Warn("match belongs to another team", zap.String("match_id", matchID))
		return nil, NewError(ErrorCodeNotFound, "경기를 찾을 수 없습니다.")
	}

	detail.ApplyTotals()

	return &MatchView{
		MatchDetail: detail,
		MyVote:      model.MyVote(detail.Attendances, userID),
		CanEdit:     model.CanEditMatches(scope.Role),
		CanRecord:   model.CanRecordMatches(scope.Role),
	}, nil
}

func (m *MatchService) CreateMatch(ctx context.Context, scope *model.Membership, req *model.CreateMatchRequest) (*model.Match, *Error) {
	l := logger.FromContext(ctx)

	if !model.CanCreateMatches(scope.Role) {
		return nil, errForbidden
	}
	req.TeamID = scope.TeamID

	match, err := m.matches.CreateMatch(ctx, req)
	if err != nil {
		l.Error("failed to create match", zap.Error(err))
		return nil, fromBackend(err, "경기 생성에 실패했습니다.")
	}
	l.Debug("match created", zap.String("match_id", match.ID))
	m.changed(ctx, scope.TeamID, match.ID)
	return match, nil
}

func (m *MatchService) UpdateMatch(ctx context.Context, scope *model.Membership, matchID string, req *model.UpdateMatchRequest) (*model.Match, *Error) {
	l := logger.FromContext(ctx)

	if !model.CanEditMatches(scope.Role) {
		return nil, errForbidden
	}

	match, err := m.matches.UpdateMatch(ctx, matchID, req)
	if err != nil {
		l.Error("failed to update match", zap.String("match_id", matchID), zap.Error(err))
		return nil, fromBackend(err, "경기 수정에 실패했습니다.")
	}
	m.changed(ctx, scope.TeamID, matchID)
	return match, nil
}

func (m *MatchService) DeleteMatch(ctx context.Context, scope *model.Membership, matchID string) *Error {
	l := logger.FromContext(ctx)

	if !model.CanEditMatches(scope.Role) {
		return errForbidden
	}

	if err := m.matches.DeleteMatch(ctx, matchID); err != nil {
		l.Error("failed to delete match", zap.String("match_id", matchID), zap.Error(err))
		return fromBackend(err, "경기 삭제에 실패했습니다.")
	}
	m.changed(ctx, scope.TeamID, matchID)
	return nil
}

func (m *MatchService) changed(ctx context.Context, teamID, matchID string) {
	if m.publisher != nil {
		m.publisher.Publish(ctx, broadcast.Event{Topic: broadcast.TopicMatchChanged, TeamID: teamID, MatchID: matchID})
	}
}

func (m *MatchService) WithPublisher(p broadcast.Publisher) *MatchService {
	m.publisher = p
	return m
}
