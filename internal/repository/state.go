package repository

import (
	"context"
	"time"

	"github.com/yakoovad/club-portal/internal/model"
)

// LocalState is what the portal remembers about one browser session
// between requests. An empty TeamID means no cached team.
type LocalState struct {
	SessionID     string              `db:"session_id"`
	Token         string              `db:"token"`
	UserID        string              `db:"user_id"`
	TeamID        string              `db:"team_id"`
	RemovalReason model.RemovalReason `db:"removal_reason"`
	UpdatedAt     time.Time           `db:"updated_at"`
}

type StatePatch struct {
	SessionID     string               `db:"session_id"`
	Token         *string              `db:"token"`
	TeamID        *string              `db:"team_id"`
	RemovalReason *model.RemovalReason `db:"removal_reason"`
}

func (p *StatePatch) apply(s *LocalState) {
	if p.Token != nil {
		s.Token = *p.Token
	}
	if p.TeamID != nil {
		s.TeamID = *p.TeamID
	}
	if p.RemovalReason != nil {
		s.RemovalReason = *p.RemovalReason
	}
}

type StateRepository interface {
	// Get returns ErrNotFound for unknown or purged sessions.
	Get(ctx context.Context, sessionID string) (*LocalState, error)
	// Create returns ErrAlreadyExists when the session id is taken.
	Create(ctx context.Context, state *LocalState) error
	Patch(ctx context.Context, patch *StatePatch) (*LocalState, error)
	// Delete is idempotent.
	Delete(ctx context.Context, sessionID string) error
}

const stateTableDDL = `CREATE TABLE IF NOT EXISTS session_state (
	session_id     TEXT PRIMARY KEY,
	token          TEXT NOT NULL,
	user_id        TEXT NOT NULL DEFAULT '',
	team_id        TEXT NOT NULL DEFAULT '',
	removal_reason TEXT NOT NULL DEFAULT '',
	updated_at     TIMESTAMP NOT NULL
)`

var stateColumns = []string{"session_id", "token", "user_id", "team_id", "removal_reason", "updated_at"}

// stateColumnClauses is stateColumns in the form select and returning
// clauses take.
var stateColumnClauses = func() []any {
	out := make([]any, len(stateColumns))
	for i, c := range stateColumns {
		out[i] = c
	}
	return out
}()
