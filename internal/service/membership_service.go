package service

import (
	"context"

	"github.com/pkg/errors"
	"github.com/yakoovad/club-portal/internal/backend"
	"github.com/yakoovad/club-portal/internal/broadcast"
	"github.com/yakoovad/club-portal/internal/db"
	"github.com/yakoovad/club-portal/internal/model"
	"github.com/yakoovad/club-portal/internal/repository"
	"github.com/yakoovad/club-portal/pkg/logger"
	"go.uber.org/zap"
)

// MembershipService keeps the session's cached team pointer in step with
// upstream. The cache is advisory: every read fetches, the cache only
// remembers what the previous read saw.
type MembershipService struct {
	states    repository.StateRepository
	tx        db.Transactor
	teams     backend.TeamAPI
	publisher broadcast.Publisher
}

func NewMembershipService(states repository.StateRepository) *MembershipService {
	return &MembershipService{
		states: states,
		tx:     db.NewNopTransactor(),
	}
}

// Current fetches the user's team and reconciles the cache. When the user
// had a team on the previous read and has none now without having left,
// the session is marked expelled. A non-nil membership clears any
// removal reason. Raw upstream errors are returned so callers can decide
// whether they are soft failures.
func (m *MembershipService) Current(ctx context.Context, sessionID string) (*model.Membership, *repository.LocalState, error) {
	st, err := m.states.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	curr, err := m.teams.GetMyTeam(ctx)
	if err != nil {
		return nil, st, err
	}

	var changed *broadcast.Event
	err = m.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var rerr error
		st, changed, rerr = m.reconcile(ctx, sessionID, curr)
		return rerr
	})
	if err != nil {
		return nil, nil, err
	}
	if changed != nil {
		m.publish(ctx, *changed)
	}
	return curr, st, nil
}

// reconcile compares curr with the cached pointer and patches the cache.
// It returns the event to publish when the pointer moved.
func (m *MembershipService) reconcile(ctx context.Context, sessionID string, curr *model.Membership) (*repository.LocalState, *broadcast.Event, error) {
	l := logger.FromContext(ctx)

	st, err := m.states.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	prev := st.TeamID

	if curr != nil {
		if prev == curr.TeamID && st.RemovalReason == model.RemovalReasonNone {
			return st, nil, nil
		}
		none := model.RemovalReasonNone
		st, err = m.states.Patch(ctx, &repository.StatePatch{
			SessionID:     sessionID,
			TeamID:        &curr.TeamID,
			RemovalReason: &none,
		})
		if err != nil {
			return nil, nil, err
		}
		if prev == curr.TeamID {
			return st, nil, nil
		}
		l.Debug("team pointer updated", zap.String("team_id", curr.TeamID))
		return st, &broadcast.Event{Topic: broadcast.TopicTeamChanged, SessionID: sessionID, TeamID: curr.TeamID}, nil
	}

	if prev == "" {
		return st, nil, nil
	}

	reason := st.RemovalReason
	if reason == model.RemovalReasonNone {
		reason = model.RemovalReasonExpelled
		l.Warn("team membership disappeared without leave", zap.String("team_id", prev))
	}
	empty := ""
	st, err = m.states.Patch(ctx, &repository.StatePatch{
		SessionID:     sessionID,
		TeamID:        &empty,
		RemovalReason: &reason,
	})
	if err != nil {
		return nil, nil, err
	}
	return st, &broadcast.Event{Topic: broadcast.TopicTeamChanged, SessionID: sessionID, TeamID: prev}, nil
}

// CurrentTeam is Current for handlers: no team is a NO_TEAM error.
func (m *MembershipService) CurrentTeam(ctx context.Context, sessionID string) (*model.Membership, *Error) {
	l := logger.FromContext(ctx)

	curr, _, err := m.Current(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewError(ErrorCodeUnauthorized, "로그인이 필요합니다.")
	}
	if err != nil {
		l.Error("failed to resolve current team", zap.Error(err))
		return nil, fromBackend(err, "팀 정보를 불러오는데 실패했습니다.")
	}
	if curr == nil {
		return nil, errNoTeam
	}
	return curr, nil
}

// Joined writes a newly obtained team through to the cache.
func (m *MembershipService) Joined(ctx context.Context, sessionID, teamID string) error {
	none := model.RemovalReasonNone
	_, err := m.states.Patch(ctx, &repository.StatePatch{
		SessionID:     sessionID,
		TeamID:        &teamID,
		RemovalReason: &none,
	})
	if err != nil {
		return err
	}
	m.publish(ctx, broadcast.Event{Topic: broadcast.TopicTeamChanged, SessionID: sessionID, TeamID: teamID})
	return nil
}

// Left records a completed leave so the next read does not report it as
// an expulsion.
func (m *MembershipService) Left(ctx context.Context, sessionID string) error {
	return m.drop(ctx, sessionID, model.RemovalReasonLeft)
}

// Dissolved clears the pointer after the user's own team was deleted. No
// removal notice follows.
func (m *MembershipService) Dissolved(ctx context.Context, sessionID string) error {
	return m.drop(ctx, sessionID, model.RemovalReasonNone)
}

func (m *MembershipService) drop(ctx context.Context, sessionID string, reason model.RemovalReason) error {
	st, err := m.states.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	empty := ""
	if _, err = m.states.Patch(ctx, &repository.StatePatch{
		SessionID:     sessionID,
		TeamID:        &empty,
		RemovalReason: &reason,
	}); err != nil {
		return err
	}
	m.publish(ctx, broadcast.Event{Topic: broadcast.TopicTeamChanged, SessionID: sessionID, TeamID: st.TeamID})
	return nil
}

// Acknowledge clears the one-time removal notice.
func (m *MembershipService) Acknowledge(ctx context.Context, sessionID string) error {
	none := model.RemovalReasonNone
	_, err := m.states.Patch(ctx, &repository.StatePatch{
		SessionID:     sessionID,
		RemovalReason: &none,
	})
	return err
}

func (m *MembershipService) publish(ctx context.Context, e broadcast.Event) {
	if m.publisher != nil {
		m.publisher.Publish(ctx, e)
	}
}

func (m *MembershipService) WithTeamAPI(teams backend.TeamAPI) *MembershipService {
	m.teams = teams
	return m
}

// WithTransactor runs cache reconciliation inside the store's transactions.
func (m *MembershipService) WithTransactor(tx db.Transactor) *MembershipService {
	m.tx = tx
	return m
}

func (m *MembershipService) WithPublisher(p broadcast.Publisher) *MembershipService {
	m.publisher = p
	return m
}
