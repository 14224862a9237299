package service

import (
	"context"
	"sync"

	"github.com/yakoovad/club-portal/internal/backend"
	"github.com/yakoovad/club-portal/internal/broadcast"
	"github.com/yakoovad/club-portal/internal/model"
	"github.com/yakoovad/club-portal/pkg/logger"
	"go.uber.org/zap"
)

type AttendanceService struct {
	matches   backend.MatchAPI
	publisher broadcast.Publisher

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewAttendanceService(matches backend.MatchAPI) *AttendanceService {
	return &AttendanceService{
		matches:  matches,
		inFlight: make(map[string]struct{}),
	}
}

type VoteResult struct {
	MatchID string                 `json:"matchId"`
	MyVote  model.AttendanceStatus `json:"myVote"`
	Record  *model.MatchAttendance `json:"attendance,omitempty"`
}

// Vote casts the caller's vote. Only attending, maybe and not_attending
// are accepted. One vote per session and match may be in flight.
func (a *AttendanceService) Vote(ctx context.Context, scope *model.Membership, sessionID, matchID string, status model.AttendanceStatus) (*VoteResult, *Error) {
	l := logger.FromContext(ctx)

	if !status.Votable() {
		l.Warn("refused non-votable status", zap.String("status", string(status)))
		return nil, NewError(ErrorCodeValidation, "참석, 불참, 미정 중에서만 선택할 수 있습니다.")
	}

	key := sessionID + ":" + matchID
	a.mu.Lock()
	if _, busy := a.inFlight[key]; busy {
		a.mu.Unlock()
		return nil, NewError(ErrorCodeInFlight, "투표를 처리 중입니다.")
	}
	a.inFlight[key] = struct{}{}
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		delete(a.inFlight, key)
		a.mu.Unlock()
	}()

	rec, err := a.matches.VoteAttendance(ctx, matchID, status)
	if err != nil {
		l.Error("failed to vote", zap.String("match_id", matchID), zap.Error(err))
		return nil, fromBackend(err, "투표에 실패했습니다.")
	}

	if a.publisher != nil {
		a.publisher.Publish(ctx, broadcast.Event{
			Topic:     broadcast.TopicAttendanceVoted,
			TeamID:    scope.TeamID,
			MatchID:   matchID,
			SessionID: sessionID,
		})
	}

	l.Debug("vote recorded", zap.String("match_id", matchID), zap.String("status", string(status)))
	return &VoteResult{MatchID: matchID, MyVote: status, Record: rec}, nil
}

// MyVote reads the caller's current vote from the match's attendance list.
// Late and absent marks read back as no vote.
func (a *AttendanceService) MyVote(ctx context.Context, matchID, userID string) (*model.AttendanceStatus, *Error) {
	attendances, err := a.matches.ListAttendance(ctx, matchID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list attendance", zap.String("match_id", matchID), zap.Error(err))
		return nil, fromBackend(err, "참석 정보를 불러오는데 실패했습니다.")
	}
	return model.MyVote(attendances, userID), nil
}

func (a *AttendanceService) WithPublisher(p broadcast.Publisher) *AttendanceService {
	a.publisher = p
	return a
}
