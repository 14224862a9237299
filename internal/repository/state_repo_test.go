package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stephenafamo/bob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yakoovad/club-portal/internal/model"
)

func stateRepositories(t *testing.T) map[string]StateRepository {
	t.Helper()

	sqliteRepo, closeFn, err := NewSQLiteStateRepository(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })

	return map[string]StateRepository{
		"memory": NewMemoryStateRepository(),
		"sqlite": sqliteRepo,
	}
}

func strPtr(s string) *string { return &s }

func reasonPtr(r model.RemovalReason) *model.RemovalReason { return &r }

func TestStateRepository(t *testing.T) {
	for name, repo := range stateRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := repo.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, repo.Create(ctx, &LocalState{SessionID: "s1", Token: "tok", UserID: "u1"}))
			assert.ErrorIs(t, repo.Create(ctx, &LocalState{SessionID: "s1", Token: "other"}), ErrAlreadyExists)

			got, err := repo.Get(ctx, "s1")
			require.NoError(t, err)
			assert.Equal(t, "tok", got.Token)
			assert.Equal(t, "u1", got.UserID)
			assert.Empty(t, got.TeamID)
			assert.Equal(t, model.RemovalReasonNone, got.RemovalReason)

			patched, err := repo.Patch(ctx, &StatePatch{SessionID: "s1", TeamID: strPtr("t1")})
			require.NoError(t, err)
			assert.Equal(t, "t1", patched.TeamID)
			assert.Equal(t, "tok", patched.Token)

			patched, err = repo.Patch(ctx, &StatePatch{
				SessionID:     "s1",
				TeamID:        strPtr(""),
				RemovalReason: reasonPtr(model.RemovalReasonExpelled),
			})
			require.NoError(t, err)
			assert.Empty(t, patched.TeamID)
			assert.Equal(t, model.RemovalReasonExpelled, patched.RemovalReason)

			_, err = repo.Patch(ctx, &StatePatch{SessionID: "missing", TeamID: strPtr("t1")})
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, repo.Delete(ctx, "s1"))
			require.NoError(t, repo.Delete(ctx, "s1"))
			_, err = repo.Get(ctx, "s1")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStateQueries(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	patch := &StatePatch{SessionID: "s1", RemovalReason: reasonPtr(model.RemovalReasonExpelled)}

	tests := []struct {
		name     string
		query    bob.Query
		wantSQL  []string
		wantArgs []any
	}{
		{
			name:     "postgres select",
			query:    pgxSelectState("s1"),
			wantSQL:  []string{"session_id, token, user_id, team_id, removal_reason, updated_at\nFROM session_state", `"session_id" = $1`},
			wantArgs: []any{"s1"},
		},
		{
			name:  "postgres insert",
			query: pgxInsertState(&LocalState{SessionID: "s1", Token: "tok", UserID: "u1", UpdatedAt: now}),
			wantSQL: []string{
				"INSERT INTO session_state",
				"VALUES ($1, $2, $3, $4, $5, $6)",
			},
			wantArgs: []any{"s1", "tok", "u1", "", model.RemovalReasonNone, now},
		},
		{
			name:     "postgres patch sets only given fields",
			query:    pgxPatchState(patch, now),
			wantSQL:  []string{"UPDATE session_state SET", `"removal_reason" = $1`, `"updated_at" = $2`, `"session_id" = $3`, "RETURNING session_id, token"},
			wantArgs: []any{model.RemovalReasonExpelled, now, "s1"},
		},
		{
			name:     "postgres delete",
			query:    pgxDeleteState("s1"),
			wantSQL:  []string{"DELETE FROM session_state", `"session_id" = $1`},
			wantArgs: []any{"s1"},
		},
		{
			name:     "sqlite select",
			query:    sqliteSelectState("s1"),
			wantSQL:  []string{"session_id, token, user_id, team_id, removal_reason, updated_at\nFROM session_state", `"session_id" = ?1`},
			wantArgs: []any{"s1"},
		},
		{
			name:     "sqlite patch",
			query:    sqlitePatchState(patch, now),
			wantSQL:  []string{`"removal_reason" = ?1`, `"session_id" = ?3`, "RETURNING session_id"},
			wantArgs: []any{string(model.RemovalReasonExpelled), now, "s1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := bob.Build(context.Background(), tt.query)
			require.NoError(t, err)

			for _, part := range tt.wantSQL {
				assert.Contains(t, sql, part)
			}
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
