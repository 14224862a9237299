package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yakoovad/club-portal/internal/backend"
	"github.com/yakoovad/club-portal/internal/broadcast"
	"github.com/yakoovad/club-portal/internal/model"
	"github.com/yakoovad/club-portal/internal/repository"
)

var (
	captainScope = &model.Membership{TeamID: "t1", Role: model.RoleCaptain}
	viceScope    = &model.Membership{TeamID: "t1", Role: model.RoleViceCaptain}
	memberScope  = &model.Membership{TeamID: "t1", Role: model.RoleMember}
)

func intPtr(v int) *int { return &v }

func roster(roles ...model.Role) []*model.TeamMember {
	members := make([]*model.TeamMember, 0, len(roles))
	for i, r := range roles {
		members = append(members, &model.TeamMember{
			ID:     string(rune('a' + i)),
			TeamID: "t1",
			Role:   r,
		})
	}
	return members
}

func rolePatch(r model.Role) interface{} {
	return mock.MatchedBy(func(p *model.MemberPatch) bool {
		return p.Role != nil && *p.Role == r
	})
}

func TestAdminService_AppointViceCaptain(t *testing.T) {
	tests := []struct {
		name          string
		scope         *model.Membership
		memberID      string
		setupMocks    func(*MockTeamAPI)
		expectUpdate  bool
		expectedError bool
		errorCode     ErrorCode
	}{
		{
			name:     "success",
			scope:    captainScope,
			memberID: "b",
			setupMocks: func(tm *MockTeamAPI) {
				tm.On("ListMembers", mock.Anything, "t1").Return(roster(model.RoleCaptain, model.RoleMember, model.RoleViceCaptain), nil)
				tm.On("UpdateMember", mock.Anything, "t1", "b", rolePatch(model.RoleViceCaptain)).
					Return(&model.TeamMember{ID: "b", Role: model.RoleViceCaptain}, nil)
			},
			expectUpdate: true,
		},
		{
			name:     "cap reached",
			scope:    captainScope,
			memberID: "d",
			setupMocks: func(tm *MockTeamAPI) {
				tm.On("ListMembers", mock.Anything, "t1").Return(roster(model.RoleCaptain, model.RoleViceCaptain, model.RoleViceCaptain, model.RoleMember), nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeConflict,
		},
		{
			name:          "vice captain cannot appoint",
			scope:         viceScope,
			memberID:      "b",
			setupMocks:    func(*MockTeamAPI) {},
			expectedError: true,
			errorCode:     ErrorCodeForbidden,
		},
		{
			name:     "unknown member",
			scope:    captainScope,
			memberID: "z",
			setupMocks: func(tm *MockTeamAPI) {
				tm.On("ListMembers", mock.Anything, "t1").Return(roster(model.RoleCaptain), nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeNotFound,
		},
		{
			name:     "list failure",
			scope:    captainScope,
			memberID: "b",
			setupMocks: func(tm *MockTeamAPI) {
				tm.On("ListMembers", mock.Anything, "t1").Return(nil, errUpstreamDown)
			},
			expectedError: true,
			errorCode:     ErrorCodeUnspecified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTeams := new(MockTeamAPI)
			tt.setupMocks(mockTeams)

			svc := NewAdminService(mockTeams)

			member, serr := svc.AppointViceCaptain(context.Background(), tt.scope, tt.memberID)
			if tt.expectedError {
				require.NotNil(t, serr)
				assert.Equal(t, tt.errorCode, serr.Code)
				assert.Nil(t, member)
			} else {
				require.Nil(t, serr)
				assert.Equal(t, model.RoleViceCaptain, member.Role)
			}

			if !tt.expectUpdate {
				mockTeams.AssertNotCalled(t, "UpdateMember", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
			mockTeams.AssertExpectations(t)
		})
	}
}

func TestAdminService_ChangeViceCaptain(t *testing.T) {
	mockTeams := new(MockTeamAPI)
	mockTeams.On("ListMembers", mock.Anything, "t1").Return(roster(model.RoleCaptain, model.RoleViceCaptain, model.RoleViceCaptain, model.RoleMember), nil)
	demote := mockTeams.On("UpdateMember", mock.Anything, "t1", "b", rolePatch(model.RoleMember)).
		Return(&model.TeamMember{ID: "b", Role: model.RoleMember}, nil)
	mockTeams.On("UpdateMember", mock.Anything, "t1", "d", rolePatch(model.RoleViceCaptain)).
		Return(&model.TeamMember{ID: "d", Role: model.RoleViceCaptain}, nil).
		NotBefore(demote)

	svc := NewAdminService(mockTeams)

	members, serr := svc.ChangeViceCaptain(context.Background(), captainScope, "b", "d")
	require.Nil(t, serr)
	require.Len(t, members, 2)
	assert.Equal(t, model.RoleMember, members[0].Role)
	assert.Equal(t, model.RoleViceCaptain, members[1].Role)
	mockTeams.AssertExpectations(t)
}

func TestAdminService_ChangeViceCaptain_DemoteFails(t *testing.T) {
	mockTeams := new(MockTeamAPI)
	mockTeams.On("ListMembers", mock.Anything, "t1").Return(roster(model.RoleCaptain, model.RoleViceCaptain, model.RoleMember), nil)
	mockTeams.On("UpdateMember", mock.Anything, "t1", "b", rolePatch(model.RoleMember)).Return(nil, errUpstreamDown)

	svc := NewAdminService(mockTeams)

	_, serr := svc.ChangeViceCaptain(context.Background(), captainScope, "b", "c")
	require.NotNil(t, serr)
	mockTeams.AssertNotCalled(t, "UpdateMember", mock.Anything, "t1", "c", mock.Anything)
}

func TestAdminService_ChangeViceCaptain_PromoteFails(t *testing.T) {
	mockTeams := new(MockTeamAPI)
	mockTeams.On("ListMembers", mock.Anything, "t1").Return(roster(model.RoleCaptain, model.RoleViceCaptain, model.RoleMember), nil)
	demote := mockTeams.On("UpdateMember", mock.Anything, "t1", "b", rolePatch(model.RoleMember)).
		Return(&model.TeamMember{ID: "b", Role: model.RoleMember}, nil).Once()
	promote := mockTeams.On("UpdateMember", mock.Anything, "t1", "c", rolePatch(model.RoleViceCaptain)).
		Return(nil, &backend.Error{Kind: backend.KindUnknown, Status: 502, Message: "bad gateway"}).NotBefore(demote)
	mockTeams.On("UpdateMember", mock.Anything, "t1", "b", rolePatch(model.RoleViceCaptain)).
		Return(&model.TeamMember{ID: "b", Role: model.RoleViceCaptain}, nil).Once().NotBefore(promote)

	mockPublisher := new(MockPublisher)
	mockPublisher.On("Publish", mock.Anything, mock.MatchedBy(func(e broadcast.Event) bool {
		return e.Topic == broadcast.TopicRosterChanged && e.TeamID == "t1"
	})).Once()

	svc := NewAdminService(mockTeams).WithPublisher(mockPublisher)

	members, serr := svc.ChangeViceCaptain(context.Background(), captainScope, "b", "c")
	require.NotNil(t, serr)
	assert.Nil(t, members)
	mockTeams.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestAdminService_RevokeViceCaptain(t *testing.T) {
	tests := []struct {
		name          string
		scope         *model.Membership
		memberID      string
		setupMocks    func(*MockTeamAPI)
		expectUpdate  bool
		expectedError bool
		errorCode     ErrorCode
	}{
		{
			name:     "success",
			scope:    captainScope,
			memberID: "b",
			setupMocks: func(tm *MockTeamAPI) {
				tm.On("ListMembers", mock.Anything, "t1").Return(roster(model.RoleCaptain, model.RoleViceCaptain), nil)
				tm.On("UpdateMember", mock.Anything, "t1", "b", rolePatch(model.RoleMember)).
					Return(&model.TeamMember{ID: "b", Role: model.RoleMember}, nil)
			},
			expectUpdate: true,
		},
		{
			name:     "captain cannot be demoted",
			scope:    captainScope,
			memberID: "a",
			setupMocks: func(tm *MockTeamAPI) {
				tm.On("ListMembers", mock.Anything, "t1").Return(roster(model.RoleCaptain, model.RoleViceCaptain), nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeValidation,
		},
		{
			name:     "plain member refused",
			scope:    captainScope,
			memberID: "b",
			setupMocks: func(tm *MockTeamAPI) {
				tm.On("ListMembers", mock.Anything, "t1").Return(roster(model.RoleCaptain, model.RoleMember), nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeValidation,
		},
		{
			name:     "unknown member",
			scope:    captainScope,
			memberID: "z",
			setupMocks: func(tm *MockTeamAPI) {
				tm.On("ListMembers", mock.Anything, "t1").Return(roster(model.RoleCaptain), nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeNotFound,
		},
		{
			name:          "vice captain cannot revoke",
			scope:         viceScope,
			memberID:      "b",
			setupMocks:    func(*MockTeamAPI) {},
			expectedError: true,
			errorCode:     ErrorCodeForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTeams := new(MockTeamAPI)
			tt.setupMocks(mockTeams)

			svc := NewAdminService(mockTeams)

			member, serr := svc.RevokeViceCaptain(context.Background(), tt.scope, tt.memberID)
			if tt.expectedError {
				require.NotNil(t, serr)
				assert.Equal(t, tt.errorCode, serr.Code)
			} else {
				require.Nil(t, serr)
				assert.Equal(t, model.RoleMember, member.Role)
			}
			if !tt.expectUpdate {
				mockTeams.AssertNotCalled(t, "UpdateMember", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
			mockTeams.AssertExpectations(t)
		})
	}
}

func TestAdminService_UpdateJerseyNumber(t *testing.T) {
	server := &model.TeamMember{ID: "b", TeamID: "t1", JerseyNumber: intPtr(7)}

	tests := []struct {
		name           string
		scope          *model.Membership
		number         *int
		setupMocks     func(*MockTeamAPI)
		expectedNumber *int
		expectedError  bool
		errorCode      ErrorCode
	}{
		{
			name:   "success",
			scope:  captainScope,
			number: intPtr(10),
			setupMocks: func(tm *MockTeamAPI) {
				tm.On("UpdateMember", mock.Anything, "t1", "b", mock.Anything).
					Return(&model.TeamMember{ID: "b", JerseyNumber: intPtr(10)}, nil)
			},
			expectedNumber: intPtr(10),
		},
		{
			name:   "duplicate reverts to server value",
			scope:  captainScope,
			number: intPtr(9),
			setupMocks: func(tm *MockTeamAPI) {
				tm.On("UpdateMember", mock.Anything, "t1", "b", mock.Anything).
					Return(nil, &backend.Error{Kind: backend.KindConflict, Status: 409, Message: "이미 사용 중인 등번호입니다."})
				tm.On("ListMembers", mock.Anything, "t1").Return([]*model.TeamMember{server}, nil)
			},
			expectedNumber: intPtr(7),
			expectedError:  true,
			errorCode:      ErrorCodeConflict,
		},
		{
			name:   "negative reverts without update",
			scope:  captainScope,
			number: intPtr(-1),
			setupMocks: func(tm *MockTeamAPI) {
				tm.On("ListMembers", mock.Anything, "t1").Return([]*model.TeamMember{server}, nil)
			},
			expectedNumber: intPtr(7),
			expectedError:  true,
			errorCode:      ErrorCodeValidation,
		},
		{
			name:          "member cannot edit",
			scope:         memberScope,
			number:        intPtr(3),
			setupMocks:    func(*MockTeamAPI) {},
			expectedError: true,
			errorCode:     ErrorCodeForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTeams := new(MockTeamAPI)
			tt.setupMocks(mockTeams)

			svc := NewAdminService(mockTeams)

			member, serr := svc.UpdateJerseyNumber(context.Background(), tt.scope, "b", tt.number)
			if tt.expectedError {
				require.NotNil(t, serr)
				assert.Equal(t, tt.errorCode, serr.Code)
			} else {
				require.Nil(t, serr)
			}
			if tt.expectedNumber != nil {
				require.NotNil(t, member)
				assert.Equal(t, *tt.expectedNumber, *member.JerseyNumber)
			}
			mockTeams.AssertExpectations(t)
		})
	}
}

func TestAdminService_LeaveTeam(t *testing.T) {
	tests := []struct {
		name          string
		confirm       string
		setupMocks    func(*MockTeamAPI)
		expectedError bool
		errorCode     ErrorCode
		expectReason  model.RemovalReason
		expectTeamID  string
	}{
		{
			name:    "confirmed",
			confirm: " 탈퇴 ",
			setupMocks: func(tm *MockTeamAPI) {
				tm.On("LeaveTeam", mock.Anything, "t1").Return(nil)
			},
			expectReason: model.RemovalReasonLeft,
		},
		{
			name:          "wrong confirmation",
			confirm:       "탈퇴합니다",
			setupMocks:    func(*MockTeamAPI) {},
			expectedError: true,
			errorCode:     ErrorCodeValidation,
			expectTeamID:  "t1",
		},
		{
			name:    "captain must hand over first",
			confirm: "탈퇴",
			setupMocks: func(tm *MockTeamAPI) {
				tm.On("LeaveTeam", mock.Anything, "t1").
					Return(&backend.Error{Kind: backend.KindValidation, Status: 400, Message: "팀장은 탈퇴할 수 없습니다."})
			},
			expectedError: true,
			errorCode:     ErrorCodeValidation,
			expectTeamID:  "t1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			states := repository.NewMemoryStateRepository()
			seedState(t, states, &repository.LocalState{SessionID: "s1", TeamID: "t1"})

			mockTeams := new(MockTeamAPI)
			tt.setupMocks(mockTeams)

			svc := NewAdminService(mockTeams).WithMembership(NewMembershipService(states))

			serr := svc.LeaveTeam(ctx, memberScope, "s1", tt.confirm)
			if tt.expectedError {
				require.NotNil(t, serr)
				assert.Equal(t, tt.errorCode, serr.Code)
			} else {
				require.Nil(t, serr)
			}

			st, err := states.Get(ctx, "s1")
			require.NoError(t, err)
			assert.Equal(t, tt.expectTeamID, st.TeamID)
			assert.Equal(t, tt.expectReason, st.RemovalReason)
			mockTeams.AssertExpectations(t)
		})
	}
}

func TestAdminService_DeleteTeam(t *testing.T) {
	ctx := context.Background()

	t.Run("vice captain forbidden", func(t *testing.T) {
		mockTeams := new(MockTeamAPI)
		serr := NewAdminService(mockTeams).DeleteTeam(ctx, viceScope, "s1", "삭제")
		require.NotNil(t, serr)
		assert.Equal(t, ErrorCodeForbidden, serr.Code)
		mockTeams.AssertNotCalled(t, "DeleteTeam", mock.Anything, mock.Anything)
	})

	t.Run("unconfirmed", func(t *testing.T) {
		mockTeams := new(MockTeamAPI)
		serr := NewAdminService(mockTeams).DeleteTeam(ctx, captainScope, "s1", "delete")
		require.NotNil(t, serr)
		assert.Equal(t, ErrorCodeValidation, serr.Code)
		mockTeams.AssertNotCalled(t, "DeleteTeam", mock.Anything, mock.Anything)
	})

	t.Run("deleted without removal notice", func(t *testing.T) {
		states := repository.NewMemoryStateRepository()
		seedState(t, states, &repository.LocalState{SessionID: "s1", TeamID: "t1"})

		mockTeams := new(MockTeamAPI)
		mockTeams.On("DeleteTeam", mock.Anything, "t1").Return(nil)

		svc := NewAdminService(mockTeams).WithMembership(NewMembershipService(states))
		require.Nil(t, svc.DeleteTeam(ctx, captainScope, "s1", "삭제"))

		st, err := states.Get(ctx, "s1")
		require.NoError(t, err)
		assert.Empty(t, st.TeamID)
		assert.Equal(t, model.RemovalReasonNone, st.RemovalReason)
	})
}

func TestAdminService_JoinRequests(t *testing.T) {
	ctx := context.Background()

	mockTeams := new(MockTeamAPI)
	mockTeams.On("ListTeamJoinRequests", mock.Anything, "t1").Return([]*model.JoinRequest{
		{ID: "r1", Status: model.JoinRequestPending},
		{ID: "r2", Status: model.JoinRequestApproved},
	}, nil)
	mockTeams.On("ReviewJoinRequest", mock.Anything, "t1", "r1", model.JoinRequestApproved).
		Return(&model.JoinRequest{ID: "r1", Status: model.JoinRequestApproved}, nil)

	svc := NewAdminService(mockTeams)

	pending, serr := svc.PendingJoinRequests(ctx, viceScope)
	require.Nil(t, serr)
	require.Len(t, pending, 1)
	assert.Equal(t, "r1", pending[0].ID)

	_, serr = svc.PendingJoinRequests(ctx, memberScope)
	require.NotNil(t, serr)
	assert.Equal(t, ErrorCodeForbidden, serr.Code)

	_, serr = svc.ReviewJoinRequest(ctx, viceScope, "r1", model.JoinRequestApproved)
	require.NotNil(t, serr)
	assert.Equal(t, ErrorCodeForbidden, serr.Code)

	_, serr = svc.ReviewJoinRequest(ctx, captainScope, "r1", model.JoinRequestPending)
	require.NotNil(t, serr)
	assert.Equal(t, ErrorCodeValidation, serr.Code)

	jr, serr := svc.ReviewJoinRequest(ctx, captainScope, "r1", model.JoinRequestApproved)
	require.Nil(t, serr)
	assert.Equal(t, model.JoinRequestApproved, jr.Status)
}

func TestAdminService_UpdateMemberStatus(t *testing.T) {
	mockTeams := new(MockTeamAPI)
	svc := NewAdminService(mockTeams)

	_, serr := svc.UpdateMemberStatus(context.Background(), captainScope, "b", model.MemberStatus("retired"))
	require.NotNil(t, serr)
	assert.Equal(t, ErrorCodeValidation, serr.Code)

	_, serr = svc.UpdateMemberStatus(context.Background(), viceScope, "b", model.MemberStatusInjured)
	require.NotNil(t, serr)
	assert.Equal(t, ErrorCodeForbidden, serr.Code)

	mockTeams.AssertNotCalled(t, "UpdateMember", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
