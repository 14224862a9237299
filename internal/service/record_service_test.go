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
	"github.com/yakoovad/club-portal/internal/record"
)

func recordRoster() []*model.TeamMember {
	return []*model.TeamMember{
		{ID: "tm1", UserID: "u1", Name: "김철수"},
		{ID: "tm2", UserID: "u2", UserName: "이영희"},
	}
}

func TestRecordService_Open(t *testing.T) {
	tests := []struct {
		name          string
		scope         *model.Membership
		setupMocks    func(*MockTeamAPI)
		expectedError bool
		errorCode     ErrorCode
		message       string
	}{
		{
			name:  "seeded with roster",
			scope: viceScope,
			setupMocks: func(tm *MockTeamAPI) {
				tm.On("ListMembers", mock.Anything, "t1").Return(recordRoster(), nil).Once()
			},
		},
		{
			name:          "member cannot record",
			scope:         memberScope,
			setupMocks:    func(*MockTeamAPI) {},
			expectedError: true,
			errorCode:     ErrorCodeForbidden,
		},
		{
			name:  "roster failure",
			scope: captainScope,
			setupMocks: func(tm *MockTeamAPI) {
				tm.On("ListMembers", mock.Anything, "t1").Return(nil, errUpstreamDown)
			},
			expectedError: true,
			errorCode:     ErrorCodeUnspecified,
			message:       "팀원 정보를 불러오는데 실패했습니다.",
		},
		{
			name:  "roster unauthorized",
			scope: captainScope,
			setupMocks: func(tm *MockTeamAPI) {
				tm.On("ListMembers", mock.Anything, "t1").Return(nil, errUpstreamUnauthorized)
			},
			expectedError: true,
			errorCode:     ErrorCodeUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTeams := new(MockTeamAPI)
			tt.setupMocks(mockTeams)

			svc := NewRecordService(record.NewRegistry()).WithTeamAPI(mockTeams)

			view, serr := svc.Open(context.Background(), tt.scope, "s1", "m1")
			if tt.expectedError {
				require.NotNil(t, serr)
				assert.Equal(t, tt.errorCode, serr.Code)
				if tt.message != "" {
					assert.Equal(t, tt.message, serr.Message)
				}
				return
			}
			require.Nil(t, serr)
			require.Len(t, view.Games, 1)
			assert.Len(t, view.Games[0].PlayerRecords, 2)
			assert.False(t, view.CanSubmit)

			again, serr := svc.Open(context.Background(), tt.scope, "s1", "m1")
			require.Nil(t, serr)
			assert.Len(t, again.Games, 1)
			mockTeams.AssertExpectations(t)
		})
	}
}

func TestRecordService_Submit(t *testing.T) {
	ctx := context.Background()

	mockTeams := new(MockTeamAPI)
	mockTeams.On("ListMembers", mock.Anything, "t1").Return(recordRoster(), nil)

	mockMatches := new(MockMatchAPI)
	mockMatches.On("RecordMatch", mock.Anything, "m1", mock.Anything).
		Return(&backend.Error{Kind: backend.KindValidation, Status: 400, Message: "경기가 이미 종료되었습니다."}).Once()
	mockMatches.On("RecordMatch", mock.Anything, "m1", mock.MatchedBy(func(req *model.RecordMatchRequest) bool {
		return len(req.Games) == 1 && req.Games[0].OurScore == 2 && len(req.Games[0].PlayerRecords) == 1
	})).Return(nil).Once()

	mockPub := new(MockPublisher)
	mockPub.On("Publish", mock.Anything, mock.MatchedBy(func(e broadcast.Event) bool {
		return e.Topic == broadcast.TopicMatchRecorded && e.MatchID == "m1" && e.TeamID == "t1"
	})).Return().Once()

	drafts := record.NewRegistry()
	svc := NewRecordService(drafts).
		WithTeamAPI(mockTeams).
		WithMatchAPI(mockMatches).
		WithPublisher(mockPub)

	_, serr := svc.Open(ctx, captainScope, "s1", "m1")
	require.Nil(t, serr)

	_, serr = svc.Submit(ctx, captainScope, "s1", "m1")
	require.NotNil(t, serr)
	assert.Equal(t, "최소 1개 게임의 점수를 입력해주세요.", serr.Message)

	_, serr = svc.SetScore("s1", "m1", 0, 2, 1)
	require.Nil(t, serr)
	_, serr = svc.SetPlayerRecord("s1", "m1", 0, "u1", model.PlayerRecord{Played: true, Goals: 2})
	require.Nil(t, serr)

	view, serr := svc.Submit(ctx, captainScope, "s1", "m1")
	require.NotNil(t, serr)
	assert.Equal(t, ErrorCodeValidation, serr.Code)
	assert.Equal(t, record.StateSubmitFailed, view.State)
	assert.Equal(t, "경기가 이미 종료되었습니다.", view.LastError)
	assert.Equal(t, 2, view.Games[0].OurScore)

	view, serr = svc.Submit(ctx, captainScope, "s1", "m1")
	require.Nil(t, serr)
	assert.Equal(t, record.StateSubmitted, view.State)

	_, ok := drafts.Get("s1", "m1")
	assert.False(t, ok)

	mockMatches.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestRecordService_EditWithoutOpen(t *testing.T) {
	svc := NewRecordService(record.NewRegistry())

	_, serr := svc.AddGame("s1", "m1")
	require.NotNil(t, serr)
	assert.Equal(t, ErrorCodeNotFound, serr.Code)
}

func TestRecordService_Edits(t *testing.T) {
	mockTeams := new(MockTeamAPI)
	mockTeams.On("ListMembers", mock.Anything, "t1").Return(recordRoster(), nil)

	svc := NewRecordService(record.NewRegistry()).WithTeamAPI(mockTeams)
	_, serr := svc.Open(context.Background(), captainScope, "s1", "m1")
	require.Nil(t, serr)

	view, serr := svc.AddGame("s1", "m1")
	require.Nil(t, serr)
	assert.Len(t, view.Games, 2)

	_, serr = svc.SetScore("s1", "m1", 1, -1, 0)
	require.NotNil(t, serr)
	assert.Equal(t, ErrorCodeValidation, serr.Code)

	_, serr = svc.SetScore("s1", "m1", 5, 1, 0)
	require.NotNil(t, serr)
	assert.Equal(t, ErrorCodeNotFound, serr.Code)

	view, serr = svc.RemoveGame("s1", "m1", 0)
	require.Nil(t, serr)
	require.Len(t, view.Games, 1)
	assert.Equal(t, 1, view.Games[0].GameNumber)

	view, serr = svc.SetNotes("s1", "m1", "우천")
	require.Nil(t, serr)
	assert.Equal(t, "우천", view.Notes)
}
