package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yakoovad/club-portal/internal/auth"
	"github.com/yakoovad/club-portal/internal/backend"
	"github.com/yakoovad/club-portal/internal/model"
	"github.com/yakoovad/club-portal/internal/record"
	"github.com/yakoovad/club-portal/internal/repository"
)

var (
	errUpstreamNotFound     = &backend.Error{Kind: backend.KindNotFound, Status: 404}
	errUpstreamUnauthorized = &backend.Error{Kind: backend.KindUnauthorized, Status: 401}
	errUpstreamDown         = &backend.Error{Kind: backend.KindUnknown, Status: 502, Message: "bad gateway"}
)

func seedState(t *testing.T, states repository.StateRepository, st *repository.LocalState) {
	t.Helper()
	if st.Token == "" {
		st.Token = "upstream-token"
	}
	require.NoError(t, states.Create(context.Background(), st))
}

func TestSessionService_Resolve(t *testing.T) {
	profile := &model.Profile{ID: "u1", Name: "김철수", Positions: []model.Position{model.PositionFW}}
	team := &model.Membership{TeamID: "t1", TeamName: "FC 서울", Role: model.RoleMember}

	tests := []struct {
		name             string
		state            *repository.LocalState
		setupMocks       func(*MockUserAPI, *MockTeamAPI)
		expectedState    model.AccessState
		expectedRedirect string
		expectedDegraded bool
		expectedReason   model.RemovalReason
		expectedTeamID   string
		stateGone        bool
	}{
		{
			name:             "no session",
			setupMocks:       func(*MockUserAPI, *MockTeamAPI) {},
			expectedState:    model.AccessUnauthenticated,
			expectedRedirect: model.RedirectLogin,
		},
		{
			name:  "profile not found",
			state: &repository.LocalState{SessionID: "s1"},
			setupMocks: func(u *MockUserAPI, _ *MockTeamAPI) {
				u.On("GetProfile", mock.Anything).Return(nil, errUpstreamNotFound)
			},
			expectedState:    model.AccessNoProfile,
			expectedRedirect: model.RedirectProfileSetup,
		},
		{
			name:  "profile unauthorized tears down",
			state: &repository.LocalState{SessionID: "s1"},
			setupMocks: func(u *MockUserAPI, _ *MockTeamAPI) {
				u.On("GetProfile", mock.Anything).Return(nil, errUpstreamUnauthorized)
			},
			expectedState:    model.AccessUnauthenticated,
			expectedRedirect: model.RedirectLogin,
			stateGone:        true,
		},
		{
			name:  "with team",
			state: &repository.LocalState{SessionID: "s1"},
			setupMocks: func(u *MockUserAPI, tm *MockTeamAPI) {
				u.On("GetProfile", mock.Anything).Return(profile, nil)
				tm.On("GetMyTeam", mock.Anything).Return(team, nil)
			},
			expectedState:  model.AccessWithTeam,
			expectedTeamID: "t1",
		},
		{
			name:  "profile lookup failure resolves optimistically",
			state: &repository.LocalState{SessionID: "s1"},
			setupMocks: func(u *MockUserAPI, tm *MockTeamAPI) {
				u.On("GetProfile", mock.Anything).Return(nil, errUpstreamDown)
				tm.On("GetMyTeam", mock.Anything).Return(team, nil)
			},
			expectedState:    model.AccessWithTeam,
			expectedDegraded: true,
			expectedTeamID:   "t1",
		},
		{
			name:  "no team",
			state: &repository.LocalState{SessionID: "s1"},
			setupMocks: func(u *MockUserAPI, tm *MockTeamAPI) {
				u.On("GetProfile", mock.Anything).Return(profile, nil)
				tm.On("GetMyTeam", mock.Anything).Return(nil, nil)
			},
			expectedState:    model.AccessNoTeam,
			expectedRedirect: model.RedirectTeamSelect,
		},
		{
			name:  "team vanished without leave",
			state: &repository.LocalState{SessionID: "s1", TeamID: "t1"},
			setupMocks: func(u *MockUserAPI, tm *MockTeamAPI) {
				u.On("GetProfile", mock.Anything).Return(profile, nil)
				tm.On("GetMyTeam", mock.Anything).Return(nil, nil)
			},
			expectedState:    model.AccessRemoved,
			expectedRedirect: model.RedirectTeamSelect,
			expectedReason:   model.RemovalReasonExpelled,
		},
		{
			name:  "team lookup failure keeps cached team",
			state: &repository.LocalState{SessionID: "s1", TeamID: "t1"},
			setupMocks: func(u *MockUserAPI, tm *MockTeamAPI) {
				u.On("GetProfile", mock.Anything).Return(profile, nil)
				tm.On("GetMyTeam", mock.Anything).Return(nil, errUpstreamDown)
			},
			expectedState:    model.AccessWithTeam,
			expectedDegraded: true,
			expectedTeamID:   "t1",
		},
		{
			name:  "team lookup failure without cache does not redirect",
			state: &repository.LocalState{SessionID: "s1"},
			setupMocks: func(u *MockUserAPI, tm *MockTeamAPI) {
				u.On("GetProfile", mock.Anything).Return(profile, nil)
				tm.On("GetMyTeam", mock.Anything).Return(nil, errUpstreamDown)
			},
			expectedState:    model.AccessNoTeam,
			expectedDegraded: true,
		},
		{
			name:  "team unauthorized tears down",
			state: &repository.LocalState{SessionID: "s1", TeamID: "t1"},
			setupMocks: func(u *MockUserAPI, tm *MockTeamAPI) {
				u.On("GetProfile", mock.Anything).Return(profile, nil)
				tm.On("GetMyTeam", mock.Anything).Return(nil, errUpstreamUnauthorized)
			},
			expectedState:    model.AccessUnauthenticated,
			expectedRedirect: model.RedirectLogin,
			stateGone:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			states := repository.NewMemoryStateRepository()
			if tt.state != nil {
				seedState(t, states, tt.state)
			}

			mockUsers := new(MockUserAPI)
			mockTeams := new(MockTeamAPI)
			tt.setupMocks(mockUsers, mockTeams)

			membership := NewMembershipService(states).WithTeamAPI(mockTeams)
			svc := NewSessionService(states, time.Hour).
				WithUserAPI(mockUsers).
				WithMembership(membership)

			sess, serr := svc.Resolve(ctx, "s1")
			require.Nil(t, serr)

			assert.Equal(t, tt.expectedState, sess.State)
			assert.Equal(t, tt.expectedRedirect, sess.Redirect)
			assert.Equal(t, tt.expectedDegraded, sess.Degraded)
			assert.Equal(t, tt.expectedReason, sess.RemovalReason)
			if tt.expectedTeamID != "" {
				require.NotNil(t, sess.Team)
				assert.Equal(t, tt.expectedTeamID, sess.Team.TeamID)
			} else {
				assert.Nil(t, sess.Team)
			}
			if sess.State == model.AccessUnauthenticated {
				assert.False(t, sess.Authenticated)
				assert.False(t, sess.HasProfile)
			}

			if tt.stateGone {
				_, err := states.Get(ctx, "s1")
				assert.ErrorIs(t, err, repository.ErrNotFound)
			}

			mockUsers.AssertExpectations(t)
			mockTeams.AssertExpectations(t)
		})
	}
}

func TestSessionService_Resolve_ProfileBeforeTeam(t *testing.T) {
	states := repository.NewMemoryStateRepository()
	seedState(t, states, &repository.LocalState{SessionID: "s1", TeamID: "t1"})

	mockUsers := new(MockUserAPI)
	mockTeams := new(MockTeamAPI)
	mockUsers.On("GetProfile", mock.Anything).Return(nil, errUpstreamNotFound)

	svc := NewSessionService(states, time.Hour).
		WithUserAPI(mockUsers).
		WithMembership(NewMembershipService(states).WithTeamAPI(mockTeams))

	sess, serr := svc.Resolve(context.Background(), "s1")
	require.Nil(t, serr)
	assert.Equal(t, model.AccessNoProfile, sess.State)
	mockTeams.AssertNotCalled(t, "GetMyTeam", mock.Anything)
}

func TestSessionService_Login(t *testing.T) {
	auth.TokenSecretKey = "test-secret"

	tests := []struct {
		name          string
		setupMocks    func(*MockAuthAPI)
		expectedError bool
		errorCode     ErrorCode
	}{
		{
			name: "success",
			setupMocks: func(a *MockAuthAPI) {
				a.On("Login", mock.Anything, mock.Anything).Return(&model.AuthResponse{
					AccessToken: "upstream-token",
					User:        &model.User{ID: "u1", Email: "a@b.c"},
				}, nil)
			},
		},
		{
			name: "bad credentials",
			setupMocks: func(a *MockAuthAPI) {
				a.On("Login", mock.Anything, mock.Anything).Return(nil, &backend.Error{Kind: backend.KindUnauthorized, Status: 401, Message: "잘못된 비밀번호"})
			},
			expectedError: true,
			errorCode:     ErrorCodeUnauthorized,
		},
		{
			name: "no upstream token",
			setupMocks: func(a *MockAuthAPI) {
				a.On("Login", mock.Anything, mock.Anything).Return(&model.AuthResponse{}, nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeUnspecified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			states := repository.NewMemoryStateRepository()
			mockAuth := new(MockAuthAPI)
			tt.setupMocks(mockAuth)

			svc := NewSessionService(states, time.Hour).WithAuthAPI(mockAuth)

			res, serr := svc.Login(ctx, &model.Credentials{Email: "a@b.c", Password: "secret1"})
			if tt.expectedError {
				require.NotNil(t, serr)
				assert.Equal(t, tt.errorCode, serr.Code)
				assert.Nil(t, res)
				return
			}
			require.Nil(t, serr)

			sid, ok := auth.SessionIDFromToken(res.SessionToken)
			require.True(t, ok)

			st, err := states.Get(ctx, sid)
			require.NoError(t, err)
			assert.Equal(t, "upstream-token", st.Token)
			assert.Equal(t, "u1", st.UserID)
			assert.Empty(t, st.TeamID)
		})
	}
}

func TestSessionService_Logout(t *testing.T) {
	ctx := context.Background()
	states := repository.NewMemoryStateRepository()
	seedState(t, states, &repository.LocalState{SessionID: "s1", TeamID: "t1"})

	drafts := record.NewRegistry()
	drafts.Open("s1", "m1")

	mockAuth := new(MockAuthAPI)
	mockAuth.On("Logout", mock.Anything).Return(errUpstreamDown)

	svc := NewSessionService(states, time.Hour).WithAuthAPI(mockAuth).WithDrafts(drafts)

	require.Nil(t, svc.Logout(ctx, "s1"))

	_, err := states.Get(ctx, "s1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, ok := drafts.Get("s1", "m1")
	assert.False(t, ok)
}

func TestSessionService_DeleteAccount(t *testing.T) {
	tests := []struct {
		name          string
		upstreamErr   error
		expectedError bool
		stateGone     bool
	}{
		{name: "success tears down session", stateGone: true},
		{name: "upstream failure keeps session", upstreamErr: errUpstreamDown, expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			states := repository.NewMemoryStateRepository()
			seedState(t, states, &repository.LocalState{SessionID: "s1", TeamID: "t1"})

			mockUsers := new(MockUserAPI)
			mockUsers.On("DeleteAccount", mock.Anything).Return(tt.upstreamErr)

			svc := NewSessionService(states, time.Hour).WithUserAPI(mockUsers)

			serr := svc.DeleteAccount(ctx, "s1")
			if tt.expectedError {
				require.NotNil(t, serr)
				assert.Equal(t, ErrorCodeUnspecified, serr.Code)
			} else {
				require.Nil(t, serr)
			}

			_, err := states.Get(ctx, "s1")
			if tt.stateGone {
				assert.ErrorIs(t, err, repository.ErrNotFound)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSessionService_Attach(t *testing.T) {
	ctx := context.Background()
	states := repository.NewMemoryStateRepository()
	seedState(t, states, &repository.LocalState{SessionID: "s1", Token: "tok"})

	svc := NewSessionService(states, time.Hour)

	actx, st, serr := svc.Attach(ctx, "s1")
	require.Nil(t, serr)
	assert.Equal(t, "tok", st.Token)
	assert.Equal(t, "tok", backend.TokenFromContext(actx))
	assert.Equal(t, "s1", auth.SessionIDFromContext(actx))

	_, _, serr = svc.Attach(ctx, "missing")
	require.NotNil(t, serr)
	assert.Equal(t, ErrorCodeUnauthorized, serr.Code)
}

func TestSessionService_AcknowledgeRemoval(t *testing.T) {
	ctx := context.Background()
	states := repository.NewMemoryStateRepository()
	seedState(t, states, &repository.LocalState{SessionID: "s1", RemovalReason: model.RemovalReasonExpelled})

	svc := NewSessionService(states, time.Hour).WithMembership(NewMembershipService(states))

	require.Nil(t, svc.AcknowledgeRemoval(ctx, "s1"))

	st, err := states.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, model.RemovalReasonNone, st.RemovalReason)
}
