package backend

import (
	"context"

	"github.com/yakoovad/club-portal/internal/model"
)

type AuthAPI interface {
	Login(ctx context.Context, creds *model.Credentials) (*model.AuthResponse, error)
	Signup(ctx context.Context, creds *model.Credentials) (*model.AuthResponse, error)
	Logout(ctx context.Context) error
}

type UserAPI interface {
	// GetProfile returns a KindNotFound error when the user has no profile yet.
	GetProfile(ctx context.Context) (*model.Profile, error)
	CreateProfile(ctx context.Context, req *model.CreateProfileRequest) (*model.Profile, error)
	UpdateProfile(ctx context.Context, req *model.UpdateProfileRequest) (*model.Profile, error)
	ChangePassword(ctx context.Context, req *model.PasswordChange) error
	DeleteAccount(ctx context.Context) error
}

type TeamAPI interface {
	// GetMyTeam returns nil without error when the user belongs to no team.
	GetMyTeam(ctx context.Context) (*model.Membership, error)
	CreateTeam(ctx context.Context, req *model.CreateTeamRequest) (*model.Team, error)
	ListPublicTeams(ctx context.Context) ([]*model.Team, error)
	ListMembers(ctx context.Context, teamID string) ([]*model.TeamMember, error)
	UpdateMember(ctx context.Context, teamID, memberID string, patch *model.MemberPatch) (*model.TeamMember, error)
	RemoveMember(ctx context.Context, teamID, memberID string) error
	LeaveTeam(ctx context.Context, teamID string) error
	DeleteTeam(ctx context.Context, teamID string) error

	CreateJoinRequest(ctx context.Context, req *model.CreateJoinRequest) (*model.JoinRequest, error)
	ListMyJoinRequests(ctx context.Context) ([]*model.JoinRequest, error)
	CancelJoinRequest(ctx context.Context, requestID string) error
	ListTeamJoinRequests(ctx context.Context, teamID string) ([]*model.JoinRequest, error)
	ReviewJoinRequest(ctx context.Context, teamID, requestID string, status model.JoinRequestStatus) (*model.JoinRequest, error)
}

type MatchAPI interface {
	ListMatches(ctx context.Context, filter *model.MatchFilter) ([]*model.MatchListItem, error)
	GetMatch(ctx context.Context, matchID string) (*model.MatchDetail, error)
	CreateMatch(ctx context.Context, req *model.CreateMatchRequest) (*model.Match, error)
	UpdateMatch(ctx context.Context, matchID string, req *model.UpdateMatchRequest) (*model.Match, error)
	DeleteMatch(ctx context.Context, matchID string) error
	RecordMatch(ctx context.Context, matchID string, req *model.RecordMatchRequest) error
	VoteAttendance(ctx context.Context, matchID string, status model.AttendanceStatus) (*model.MatchAttendance, error)
	ListAttendance(ctx context.Context, matchID string) ([]*model.MatchAttendance, error)
}

type StatisticsAPI interface {
	DashboardSummary(ctx context.Context, teamID string) (*model.DashboardSummary, error)
	Rankings(ctx context.Context, teamID string) (*model.Rankings, error)
}

var (
	_ AuthAPI       = (*Client)(nil)
	_ UserAPI       = (*Client)(nil)
	_ TeamAPI       = (*Client)(nil)
	_ MatchAPI      = (*Client)(nil)
	_ StatisticsAPI = (*Client)(nil)
)
