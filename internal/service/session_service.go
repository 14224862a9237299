package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/yakoovad/club-portal/internal/auth"
	"github.com/yakoovad/club-portal/internal/backend"
	"github.com/yakoovad/club-portal/internal/broadcast"
	"github.com/yakoovad/club-portal/internal/model"
	"github.com/yakoovad/club-portal/internal/record"
	"github.com/yakoovad/club-portal/internal/repository"
	"github.com/yakoovad/club-portal/pkg/logger"
	"go.uber.org/zap"
)

// SessionService owns the portal session: sign-in, teardown and access
// state resolution.
type SessionService struct {
	states     repository.StateRepository
	authAPI    backend.AuthAPI
	users      backend.UserAPI
	membership *MembershipService
	drafts     *record.Registry
	publisher  broadcast.Publisher
	tokenTTL   time.Duration
}

func NewSessionService(states repository.StateRepository, tokenTTL time.Duration) *SessionService {
	return &SessionService{
		states:   states,
		tokenTTL: tokenTTL,
	}
}

type LoginResult struct {
	SessionToken string      `json:"sessionToken"`
	User         *model.User `json:"user"`
}

func (s *SessionService) Login(ctx context.Context, creds *model.Credentials) (*LoginResult, *Error) {
	l := logger.FromContext(ctx)
	l.Debug("logging in", zap.String("email", creds.Email))

	resp, err := s.authAPI.Login(ctx, creds)
	if err != nil {
		l.Warn("login rejected", zap.String("email", creds.Email), zap.Error(err))
		if backend.IsUnauthorized(err) {
			return nil, NewError(ErrorCodeUnauthorized, backend.MessageOf(err, "이메일 또는 비밀번호가 올바르지 않습니다."))
		}
		return nil, fromBackend(err, "로그인에 실패했습니다.")
	}
	return s.open(ctx, resp)
}

func (s *SessionService) Signup(ctx context.Context, creds *model.Credentials) (*LoginResult, *Error) {
	l := logger.FromContext(ctx)
	l.Debug("signing up", zap.String("email", creds.Email))

	resp, err := s.authAPI.Signup(ctx, creds)
	if err != nil {
		l.Warn("signup rejected", zap.String("email", creds.Email), zap.Error(err))
		return nil, fromBackend(err, "회원가입에 실패했습니다.")
	}
	return s.open(ctx, resp)
}

// open starts a fresh session. The team pointer starts empty so nothing
// from a previous user on the same browser carries over.
func (s *SessionService) open(ctx context.Context, resp *model.AuthResponse) (*LoginResult, *Error) {
	l := logger.FromContext(ctx)

	if resp.AccessToken == "" {
		l.Error("upstream returned no access token")
		return nil, NewError(ErrorCodeUnspecified, "로그인에 실패했습니다.")
	}

	st := &repository.LocalState{
		SessionID: uuid.NewString(),
		Token:     resp.AccessToken,
	}
	if resp.User != nil {
		st.UserID = resp.User.ID
	}

	if err := s.states.Create(ctx, st); err != nil {
		l.Error("failed to store session", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "로그인에 실패했습니다.")
	}

	token, err := auth.GenerateToken(st.SessionID, s.tokenTTL)
	if err != nil {
		l.Error("failed to sign session token", zap.Error(err))
		_ = s.states.Delete(ctx, st.SessionID)
		return nil, NewError(ErrorCodeUnspecified, "로그인에 실패했습니다.")
	}

	l.Debug("session opened", zap.String("session_id", st.SessionID))
	return &LoginResult{SessionToken: token, User: resp.User}, nil
}

// Attach loads the session and returns a context carrying its upstream
// token. Unknown sessions are UNAUTHORIZED.
func (s *SessionService) Attach(ctx context.Context, sessionID string) (context.Context, *repository.LocalState, *Error) {
	st, err := s.states.Get(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return ctx, nil, NewError(ErrorCodeUnauthorized, "로그인이 필요합니다.")
	}
	if err != nil {
		logger.FromContext(ctx).Error("failed to load session", zap.Error(err))
		return ctx, nil, NewError(ErrorCodeUnspecified, "세션을 불러오는데 실패했습니다.")
	}
	ctx = auth.WithSessionID(ctx, sessionID)
	return backend.WithToken(ctx, st.Token), st, nil
}

// Logout signs out upstream on a best-effort basis and always purges the
// local session.
func (s *SessionService) Logout(ctx context.Context, sessionID string) *Error {
	l := logger.FromContext(ctx)

	if err := s.authAPI.Logout(ctx); err != nil {
		l.Warn("upstream logout failed", zap.Error(err))
	}
	if err := s.Teardown(ctx, sessionID); err != nil {
		l.Error("failed to purge session", zap.Error(err))
		return NewError(ErrorCodeUnspecified, "로그아웃에 실패했습니다.")
	}
	return nil
}

// DeleteAccount removes the user upstream and then tears the session down.
func (s *SessionService) DeleteAccount(ctx context.Context, sessionID string) *Error {
	l := logger.FromContext(ctx)

	if err := s.users.DeleteAccount(ctx); err != nil {
		l.Error("failed to delete account", zap.Error(err))
		return fromBackend(err, "계정 삭제에 실패했습니다.")
	}
	if err := s.Teardown(ctx, sessionID); err != nil {
		l.Warn("failed to purge session after account deletion", zap.Error(err))
	}
	l.Info("account deleted")
	return nil
}

// Teardown destroys everything the portal holds for a session.
func (s *SessionService) Teardown(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	logger.FromContext(ctx).Info("tearing down session", zap.String("session_id", sessionID))
	if s.drafts != nil {
		s.drafts.CloseSession(sessionID)
	}
	return s.states.Delete(ctx, sessionID)
}

// Resolve derives the session's access state. Checks run strictly in
// order: token, profile, team. Not-found answers are states, not errors.
// Other lookup failures resolve optimistically and never redirect.
func (s *SessionService) Resolve(ctx context.Context, sessionID string) (*model.Session, *Error) {
	l := logger.FromContext(ctx)

	st, err := s.states.Get(ctx, sessionID)
	if err != nil || st.Token == "" {
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			l.Error("failed to load session", zap.Error(err))
			return nil, NewError(ErrorCodeUnspecified, "세션을 불러오는데 실패했습니다.")
		}
		_ = s.Teardown(ctx, sessionID)
		return model.Unauthenticated(), nil
	}

	sess := &model.Session{Authenticated: true}

	profile, err := s.users.GetProfile(ctx)
	switch {
	case err == nil:
		sess.HasProfile = true
		sess.Profile = profile
	case backend.IsNotFound(err):
		l.Debug("no profile yet")
		sess.State = model.AccessNoProfile
		sess.Redirect = model.RedirectProfileSetup
		return sess, nil
	case backend.IsUnauthorized(err):
		_ = s.Teardown(ctx, sessionID)
		return model.Unauthenticated(), nil
	default:
		l.Warn("profile lookup failed, assuming profile exists", zap.Error(err))
		sess.HasProfile = true
		sess.Degraded = true
	}

	team, fresh, teamErr := s.membership.Current(ctx, sessionID)
	switch {
	case teamErr == nil:
		st = fresh
	case backend.IsUnauthorized(teamErr):
		_ = s.Teardown(ctx, sessionID)
		return model.Unauthenticated(), nil
	case errors.Is(teamErr, repository.ErrNotFound):
		return model.Unauthenticated(), nil
	default:
		l.Warn("team lookup failed, using cached team", zap.String("cached_team_id", st.TeamID), zap.Error(teamErr))
		sess.Degraded = true
		if st.TeamID != "" {
			team = &model.Membership{TeamID: st.TeamID}
		}
	}

	switch {
	case team != nil:
		sess.State = model.AccessWithTeam
		sess.Team = team
	case teamErr != nil:
		sess.State = model.AccessNoTeam
	case st.RemovalReason != model.RemovalReasonNone:
		sess.State = model.AccessRemoved
		sess.RemovalReason = st.RemovalReason
		sess.Redirect = model.RedirectTeamSelect
	default:
		sess.State = model.AccessNoTeam
		sess.Redirect = model.RedirectTeamSelect
	}

	l.Debug("session resolved", zap.String("state", string(sess.State)))
	return sess, nil
}

// Refresh re-resolves and tells subscribers that session-derived data is
// stale.
func (s *SessionService) Refresh(ctx context.Context, sessionID string) (*model.Session, *Error) {
	sess, serr := s.Resolve(ctx, sessionID)
	if serr != nil {
		return nil, serr
	}
	if s.publisher != nil {
		e := broadcast.Event{Topic: broadcast.TopicSessionStale, SessionID: sessionID}
		if sess.Team != nil {
			e.TeamID = sess.Team.TeamID
		}
		s.publisher.Publish(ctx, e)
	}
	return sess, nil
}

func (s *SessionService) AcknowledgeRemoval(ctx context.Context, sessionID string) *Error {
	if err := s.membership.Acknowledge(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewError(ErrorCodeUnauthorized, "로그인이 필요합니다.")
		}
		logger.FromContext(ctx).Error("failed to clear removal notice", zap.Error(err))
		return NewError(ErrorCodeUnspecified, "처리 중 오류가 발생했습니다.")
	}
	return nil
}

func (s *SessionService) WithAuthAPI(a backend.AuthAPI) *SessionService {
	s.authAPI = a
	return s
}

func (s *SessionService) WithUserAPI(u backend.UserAPI) *SessionService {
	s.users = u
	return s
}

func (s *SessionService) WithMembership(m *MembershipService) *SessionService {
	s.membership = m
	return s
}

func (s *SessionService) WithDrafts(r *record.Registry) *SessionService {
	s.drafts = r
	return s
}

func (s *SessionService) WithPublisher(p broadcast.Publisher) *SessionService {
	s.publisher = p
	return s
}
