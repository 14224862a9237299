package service

import (
	"context"

	"github.com/pkg/errors"
	"github.com/yakoovad/club-portal/internal/backend"
	"github.com/yakoovad/club-portal/internal/broadcast"
	"github.com/yakoovad/club-portal/internal/model"
	"github.com/yakoovad/club-portal/internal/record"
	"github.com/yakoovad/club-portal/pkg/logger"
	"go.uber.org/zap"
)

// RecordService drives post-match record entry. Drafts live in memory,
// one per session and match.
type RecordService struct {
	drafts    *record.Registry
	teams     backend.TeamAPI
	matches   backend.MatchAPI
	publisher broadcast.Publisher
}

func NewRecordService(drafts *record.Registry) *RecordService {
	return &RecordService{drafts: drafts}
}

func recordError(err error) *Error {
	switch {
	case backend.IsUnauthorized(err):
		return NewError(ErrorCodeUnauthorized, "로그인이 필요합니다.")
	case errors.Is(err, record.ErrRosterUnavailable):
		return NewError(ErrorCodeUnspecified, "팀원 정보를 불러오는데 실패했습니다.")
	case errors.Is(err, record.ErrNoScore):
		return NewError(ErrorCodeValidation, "최소 1개 게임의 점수를 입력해주세요.")
	case errors.Is(err, record.ErrInFlight):
		return NewError(ErrorCodeInFlight, "경기 기록을 저장하는 중입니다.")
	case errors.Is(err, record.ErrSubmitted):
		return NewError(ErrorCodeConflict, "이미 저장된 기록입니다.")
	case errors.Is(err, record.ErrGameIndex):
		return NewError(ErrorCodeNotFound, "게임을 찾을 수 없습니다.")
	case errors.Is(err, record.ErrNegativeValue):
		return NewError(ErrorCodeValidation, "점수와 기록은 0 이상이어야 합니다.")
	case errors.Is(err, record.ErrUnknownPlayer):
		return NewError(ErrorCodeValidation, "선수를 선택해주세요.")
	case errors.Is(err, record.ErrNotReady):
		return NewError(ErrorCodeConflict, "기록 입력이 준비되지 않았습니다.")
	default:
		var serr *Error
		if errors.As(err, &serr) {
			return serr
		}
		return NewError(ErrorCodeUnspecified, "경기 기록 입력에 실패했습니다.")
	}
}

// Open starts or resumes record entry. The roster is loaded and the first
// game seeded only the first time; reopening returns the draft as edited.
func (r *RecordService) Open(ctx context.Context, scope *model.Membership, sessionID, matchID string) (*record.View, *Error) {
	l := logger.FromContext(ctx)

	if !model.CanRecordMatches(scope.Role) {
		return nil, errForbidden
	}

	d := r.drafts.Open(sessionID, matchID)

	err := d.LoadRoster(ctx, func(ctx context.Context) ([]*model.TeamMember, error) {
		return r.teams.ListMembers(ctx, scope.TeamID)
	})
	if err != nil {
		l.Error("record entry unavailable", zap.String("match_id", matchID), zap.Error(err))
		return nil, recordError(err)
	}
	if err = d.Seed(); err != nil {
		return nil, recordError(err)
	}
	return d.Snapshot(), nil
}

func (r *RecordService) draft(sessionID, matchID string) (*record.Draft, *Error) {
	d, ok := r.drafts.Get(sessionID, matchID)
	if !ok {
		return nil, NewError(ErrorCodeNotFound, "기록 입력을 먼저 시작해주세요.")
	}
	return d, nil
}

func (r *RecordService) edit(sessionID, matchID string, fn func(d *record.Draft) error) (*record.View, *Error) {
	d, serr := r.draft(sessionID, matchID)
	if serr != nil {
		return nil, serr
	}
	if err := fn(d); err != nil {
		return nil, recordError(err)
	}
	return d.Snapshot(), nil
}

func (r *RecordService) View(sessionID, matchID string) (*record.View, *Error) {
	return r.edit(sessionID, matchID, func(*record.Draft) error { return nil })
}

func (r *RecordService) AddGame(sessionID, matchID string) (*record.View, *Error) {
	return r.edit(sessionID, matchID, (*record.Draft).AddGame)
}

func (r *RecordService) RemoveGame(sessionID, matchID string, index int) (*record.View, *Error) {
	return r.edit(sessionID, matchID, func(d *record.Draft) error { return d.RemoveGame(index) })
}

func (r *RecordService) SetScore(sessionID, matchID string, index, our, opp int) (*record.View, *Error) {
	return r.edit(sessionID, matchID, func(d *record.Draft) error { return d.SetScore(index, our, opp) })
}

func (r *RecordService) SetPlayerRecord(sessionID, matchID string, index int, userID string, rec model.PlayerRecord) (*record.View, *Error) {
	return r.edit(sessionID, matchID, func(d *record.Draft) error { return d.SetPlayerRecord(index, userID, rec) })
}

func (r *RecordService) SetNotes(sessionID, matchID, notes string) (*record.View, *Error) {
	return r.edit(sessionID, matchID, func(d *record.Draft) error { return d.SetNotes(notes) })
}

// Submit validates and sends the draft. A successful submit closes the
// draft; a failed one keeps it for another attempt.
func (r *RecordService) Submit(ctx context.Context, scope *model.Membership, sessionID, matchID string) (*record.View, *Error) {
	l := logger.FromContext(ctx)

	if !model.CanRecordMatches(scope.Role) {
		return nil, errForbidden
	}

	d, serr := r.draft(sessionID, matchID)
	if serr != nil {
		return nil, serr
	}

	err := d.Submit(ctx, func(ctx context.Context, matchID string, req *model.RecordMatchRequest) error {
		if err := r.matches.RecordMatch(ctx, matchID, req); err != nil {
			return fromBackend(err, "경기 기록 입력에 실패했습니다.")
		}
		return nil
	})
	if err != nil {
		l.Warn("record submit failed", zap.String("match_id", matchID), zap.Error(err))
		return d.Snapshot(), recordError(err)
	}

	view := d.Snapshot()
	r.drafts.Close(sessionID, matchID)

	if r.publisher != nil {
		r.publisher.Publish(ctx, broadcast.Event{
			Topic:     broadcast.TopicMatchRecorded,
			TeamID:    scope.TeamID,
			MatchID:   matchID,
			SessionID: sessionID,
		})
	}

	l.Info("match record submitted", zap.String("match_id", matchID))
	return view, nil
}

func (r *RecordService) Discard(sessionID, matchID string) {
	r.drafts.Close(sessionID, matchID)
}

func (r *RecordService) WithTeamAPI(t backend.TeamAPI) *RecordService {
	r.teams = t
	return r
}

func (r *RecordService) WithMatchAPI(m backend.MatchAPI) *RecordService {
	r.matches = m
	return r
}

func (r *RecordService) WithPublisher(p broadcast.Publisher) *RecordService {
	r.publisher = p
	return r
}
