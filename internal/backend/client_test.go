package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yakoovad/club-portal/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, time.Second)
}

func TestClient_ErrorKinds(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantKind    Kind
		wantMessage string
	}{
		{
			name:        "not found",
			status:      http.StatusNotFound,
			body:        `{"message":"profile not found","statusCode":404}`,
			wantKind:    KindNotFound,
			wantMessage: "profile not found",
		},
		{
			name:        "validation with message list",
			status:      http.StatusBadRequest,
			body:        `{"message":["name should not be empty","positions must be an array"],"statusCode":400}`,
			wantKind:    KindValidation,
			wantMessage: "name should not be empty, positions must be an array",
		},
		{
			name:        "unprocessable entity",
			status:      http.StatusUnprocessableEntity,
			body:        `{"message":"bad date"}`,
			wantKind:    KindValidation,
			wantMessage: "bad date",
		},
		{
			name:        "conflict",
			status:      http.StatusConflict,
			body:        `{"message":"이미 가입 신청한 팀입니다"}`,
			wantKind:    KindConflict,
			wantMessage: "이미 가입 신청한 팀입니다",
		},
		{
			name:     "server error without body",
			status:   http.StatusInternalServerError,
			wantKind: KindUnknown,
		},
		{
			name:        "error field only",
			status:      http.StatusForbidden,
			body:        `{"error":"Forbidden"}`,
			wantKind:    KindUnknown,
			wantMessage: "Forbidden",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.GetProfile(context.Background())
			require.Error(t, err)

			var be *Error
			require.ErrorAs(t, err, &be)
			assert.Equal(t, tt.wantKind, be.Kind)
			assert.Equal(t, tt.status, be.Status)
			assert.Equal(t, tt.wantMessage, be.Message)
			assert.Equal(t, tt.wantKind, KindOf(err))
		})
	}
}

func TestClient_BearerTokenAndUnauthorizedHook(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
	})

	hookCalls := 0
	c.WithUnauthorizedHook(func(ctx context.Context) {
		hookCalls++
		assert.Equal(t, "tok-1", TokenFromContext(ctx))
	})

	ctx := WithToken(context.Background(), "tok-1")
	_, err := c.ListMembers(ctx, "team-1")

	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.Equal(t, 1, hookCalls)
}

func TestClient_GetMyTeam(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    *model.Membership
		wantErr bool
	}{
		{
			name:   "member of a team",
			status: http.StatusOK,
			body:   `{"teamId":"t1","teamName":"FC Seoul","role":"captain","status":"active"}`,
			want: &model.Membership{
				TeamID:   "t1",
				TeamName: "FC Seoul",
				Role:     model.RoleCaptain,
				Status:   model.MemberStatusActive,
			},
		},
		{
			name:   "null body means no team",
			status: http.StatusOK,
			body:   `null`,
		},
		{
			name:   "404 means no team",
			status: http.StatusNotFound,
			body:   `{"message":"no team"}`,
		},
		{
			name:    "server error is surfaced",
			status:  http.StatusInternalServerError,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/teams/my-team", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			got, err := c.GetMyTeam(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_ListMatchesQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/matches", r.URL.Path)
		assert.Equal(t, "t1", r.URL.Query().Get("teamId"))
		assert.Equal(t, "2024", r.URL.Query().Get("year"))
		assert.Empty(t, r.URL.Query().Get("month"))
		_, _ = w.Write([]byte(`[{"id":"m1","opponentTeamName":"FC Busan","date":"2024-05-01","gameCount":2}]`))
	})

	items, err := c.ListMatches(context.Background(), &model.MatchFilter{TeamID: "t1", Year: 2024})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "m1", items[0].ID)
	assert.Equal(t, 2, items[0].GameCount)
}

func TestClient_RecordMatchBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/matches/m1/record", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req model.RecordMatchRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if assert.Len(t, req.Games, 1) {
			assert.Equal(t, model.ResultWin, req.Games[0].Result)
		}
		w.WriteHeader(http.StatusCreated)
	})

	err := c.RecordMatch(context.Background(), "m1", &model.RecordMatchRequest{
		Games: []*model.GameRecord{{GameNumber: 1, OurScore: 2, OpponentScore: 1, Result: model.ResultWin}},
	})
	assert.NoError(t, err)
}

func TestClient_ReviewJoinRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/teams/t1/join-requests/r1", r.URL.Path)

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "approved", body["status"])
		_, _ = w.Write([]byte(`{"id":"r1","userId":"u1","userName":"kim","status":"approved","createdAt":"2024-01-01"}`))
	})

	jr, err := c.ReviewJoinRequest(context.Background(), "t1", "r1", model.JoinRequestApproved)
	require.NoError(t, err)
	assert.Equal(t, model.JoinRequestApproved, jr.Status)
}

func TestClient_AccountEndpoints(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/users/password":
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "old-pass", body["currentPassword"])
			assert.Equal(t, "secret1", body["newPassword"])
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodDelete && r.URL.Path == "/users/profile":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	require.NoError(t, c.ChangePassword(context.Background(), &model.PasswordChange{CurrentPassword: "old-pass", NewPassword: "secret1"}))
	require.NoError(t, c.DeleteAccount(context.Background()))
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "boom", MessageOf(&Error{Kind: KindUnknown, Message: "boom"}, "fallback"))
	assert.Equal(t, "fallback", MessageOf(&Error{Kind: KindUnknown}, "fallback"))
	assert.Equal(t, "fallback", MessageOf(context.DeadlineExceeded, "fallback"))
	assert.False(t, IsNotFound(nil))
}
