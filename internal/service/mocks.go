package service

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/yakoovad/club-portal/internal/broadcast"
	"github.com/yakoovad/club-portal/internal/model"
	"github.com/yakoovad/club-portal/internal/repository"
)

type MockTransactor struct {
	mock.Mock
}

func (m *MockTransactor) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	m.Called(ctx)
	return fn(ctx)
}

type MockStateRepository struct {
	mock.Mock
}

func (m *MockStateRepository) Get(ctx context.Context, sessionID string) (*repository.LocalState, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.LocalState), args.Error(1)
}

func (m *MockStateRepository) Create(ctx context.Context, state *repository.LocalState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockStateRepository) Patch(ctx context.Context, patch *repository.StatePatch) (*repository.LocalState, error) {
	args := m.Called(ctx, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.LocalState), args.Error(1)
}

func (m *MockStateRepository) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

type MockAuthAPI struct {
	mock.Mock
}

func (m *MockAuthAPI) Login(ctx context.Context, creds *model.Credentials) (*model.AuthResponse, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResponse), args.Error(1)
}

func (m *MockAuthAPI) Signup(ctx context.Context, creds *model.Credentials) (*model.AuthResponse, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResponse), args.Error(1)
}

func (m *MockAuthAPI) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockUserAPI struct {
	mock.Mock
}

func (m *MockUserAPI) GetProfile(ctx context.Context) (*model.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockUserAPI) CreateProfile(ctx context.Context, req *model.CreateProfileRequest) (*model.Profile, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockUserAPI) UpdateProfile(ctx context.Context, req *model.UpdateProfileRequest) (*model.Profile, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockUserAPI) ChangePassword(ctx context.Context, req *model.PasswordChange) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockUserAPI) DeleteAccount(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockTeamAPI struct {
	mock.Mock
}

func (m *MockTeamAPI) GetMyTeam(ctx context.Context) (*model.Membership, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Membership), args.Error(1)
}

func (m *MockTeamAPI) CreateTeam(ctx context.Context, req *model.CreateTeamRequest) (*model.Team, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Team), args.Error(1)
}

func (m *MockTeamAPI) ListPublicTeams(ctx context.Context) ([]*model.Team, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Team), args.Error(1)
}

func (m *MockTeamAPI) ListMembers(ctx context.Context, teamID string) ([]*model.TeamMember, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TeamMember), args.Error(1)
}

func (m *MockTeamAPI) UpdateMember(ctx context.Context, teamID, memberID string, patch *model.MemberPatch) (*model.TeamMember, error) {
	args := m.Called(ctx, teamID, memberID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TeamMember), args.Error(1)
}

func (m *MockTeamAPI) RemoveMember(ctx context.Context, teamID, memberID string) error {
	args := m.Called(ctx, teamID, memberID)
	return args.Error(0)
}

func (m *MockTeamAPI) LeaveTeam(ctx context.Context, teamID string) error {
	args := m.Called(ctx, teamID)
	return args.Error(0)
}

func (m *MockTeamAPI) DeleteTeam(ctx context.Context, teamID string) error {
	args := m.Called(ctx, teamID)
	return args.Error(0)
}

func (m *MockTeamAPI) CreateJoinRequest(ctx context.Context, req *model.CreateJoinRequest) (*model.JoinRequest, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.JoinRequest), args.Error(1)
}

func (m *MockTeamAPI) ListMyJoinRequests(ctx context.Context) ([]*model.JoinRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.JoinRequest), args.Error(1)
}

func (m *MockTeamAPI) CancelJoinRequest(ctx context.Context, requestID string) error {
	args := m.Called(ctx, requestID)
	return args.Error(0)
}

func (m *MockTeamAPI) ListTeamJoinRequests(ctx context.Context, teamID string) ([]*model.JoinRequest, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.JoinRequest), args.Error(1)
}

func (m *MockTeamAPI) ReviewJoinRequest(ctx context.Context, teamID, requestID string, status model.JoinRequestStatus) (*model.JoinRequest, error) {
	args := m.Called(ctx, teamID, requestID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.JoinRequest), args.Error(1)
}

type MockMatchAPI struct {
	mock.Mock
}

func (m *MockMatchAPI) ListMatches(ctx context.Context, filter *model.MatchFilter) ([]*model.MatchListItem, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.MatchListItem), args.Error(1)
}

func (m *MockMatchAPI) GetMatch(ctx context.Context, matchID string) (*model.MatchDetail, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MatchDetail), args.Error(1)
}

func (m *MockMatchAPI) CreateMatch(ctx context.Context, req *model.CreateMatchRequest) (*model.Match, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Match), args.Error(1)
}

func (m *MockMatchAPI) UpdateMatch(ctx context.Context, matchID string, req *model.UpdateMatchRequest) (*model.Match, error) {
	args := m.Called(ctx, matchID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Match), args.Error(1)
}

func (m *MockMatchAPI) DeleteMatch(ctx context.Context, matchID string) error {
	args := m.Called(ctx, matchID)
	return args.Error(0)
}

func (m *MockMatchAPI) RecordMatch(ctx context.Context, matchID string, req *model.RecordMatchRequest) error {
	args := m.Called(ctx, matchID, req)
	return args.Error(0)
}

func (m *MockMatchAPI) VoteAttendance(ctx context.Context, matchID string, status model.AttendanceStatus) (*model.MatchAttendance, error) {
	args := m.Called(ctx, matchID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MatchAttendance), args.Error(1)
}

func (m *MockMatchAPI) ListAttendance(ctx context.Context, matchID string) ([]*model.MatchAttendance, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.MatchAttendance), args.Error(1)
}

type MockStatisticsAPI struct {
	mock.Mock
}

func (m *MockStatisticsAPI) DashboardSummary(ctx context.Context, teamID string) (*model.DashboardSummary, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DashboardSummary), args.Error(1)
}

func (m *MockStatisticsAPI) Rankings(ctx context.Context, teamID string) (*model.Rankings, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Rankings), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, e broadcast.Event) {
	m.Called(ctx, e)
}
