package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/stephenafamo/bob"
	bsqlite "github.com/stephenafamo/bob/dialect/sqlite"
	"github.com/stephenafamo/bob/dialect/sqlite/dialect"
	"github.com/stephenafamo/bob/dialect/sqlite/dm"
	"github.com/stephenafamo/bob/dialect/sqlite/im"
	"github.com/stephenafamo/bob/dialect/sqlite/sm"
	"github.com/stephenafamo/bob/dialect/sqlite/um"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type sqliteStateRepository struct {
	db *sql.DB
}

// NewSQLiteStateRepository opens (or creates) the database at path and
// makes sure the state table exists.
func NewSQLiteStateRepository(path string) (StateRepository, func() error, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil, errors.New("sqlite path is required")
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open sqlite")
	}
	if err = conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, nil, errors.Wrap(err, "ping sqlite")
	}
	// sqlite allows a single writer
	conn.SetMaxOpenConns(1)

	if _, err = conn.Exec(stateTableDDL); err != nil {
		_ = conn.Close()
		return nil, nil, errors.Wrap(err, "create session_state")
	}
	return &sqliteStateRepository{db: conn}, conn.Close, nil
}

func sqliteSelectState(sessionID string) bob.BaseQuery[*dialect.SelectQuery] {
	return bsqlite.Select(
		sm.Columns(stateColumnClauses...),
		sm.From("session_state"),
		sm.Where(bsqlite.Quote("session_id").EQ(bsqlite.Arg(sessionID))),
	)
}

func sqliteInsertState(state *LocalState) bob.BaseQuery[*dialect.InsertQuery] {
	return bsqlite.Insert(
		im.Into("session_state", stateColumns...),
		im.Values(
			bsqlite.Arg(state.SessionID),
			bsqlite.Arg(state.Token),
			bsqlite.Arg(state.UserID),
			bsqlite.Arg(state.TeamID),
			bsqlite.Arg(string(state.RemovalReason)),
			bsqlite.Arg(state.UpdatedAt),
		),
	)
}

func sqlitePatchState(patch *StatePatch, now time.Time) bob.BaseQuery[*dialect.UpdateQuery] {
	sets := make([]bob.Mod[*dialect.UpdateQuery], 0, 4)

	if patch.Token != nil {
		sets = append(sets, um.SetCol("token").ToArg(*patch.Token))
	}
	if patch.TeamID != nil {
		sets = append(sets, um.SetCol("team_id").ToArg(*patch.TeamID))
	}
	if patch.RemovalReason != nil {
		sets = append(sets, um.SetCol("removal_reason").ToArg(string(*patch.RemovalReason)))
	}
	sets = append(sets, um.SetCol("updated_at").ToArg(now))

	q := bsqlite.Update(
		um.Table("session_state"),
		um.Where(bsqlite.Quote("session_id").EQ(bsqlite.Arg(patch.SessionID))),
		um.Returning(stateColumnClauses...),
	)
	q.Apply(sets...)

	return q
}

func (s *sqliteStateRepository) Get(ctx context.Context, sessionID string) (*LocalState, error) {
	query, args, err := sqliteSelectState(sessionID).Build(ctx)
	if err != nil {
		return nil, err
	}
	return scanSQLiteState(s.db.QueryRowContext(ctx, query, args...))
}

func (s *sqliteStateRepository) Create(ctx context.Context, state *LocalState) error {
	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = time.Now().UTC()
	}

	query, args, err := sqliteInsertState(state).Build(ctx)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query, args...)

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return ErrAlreadyExists
	}
	return err
}

func (s *sqliteStateRepository) Patch(ctx context.Context, patch *StatePatch) (*LocalState, error) {
	query, args, err := sqlitePatchState(patch, time.Now().UTC()).Build(ctx)
	if err != nil {
		return nil, err
	}
	return scanSQLiteState(s.db.QueryRowContext(ctx, query, args...))
}

func (s *sqliteStateRepository) Delete(ctx context.Context, sessionID string) error {
	query, args, err := bsqlite.Delete(
		dm.From("session_state"),
		dm.Where(bsqlite.Quote("session_id").EQ(bsqlite.Arg(sessionID))),
	).Build(ctx)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func scanSQLiteState(row *sql.Row) (*LocalState, error) {
	st := &LocalState{}
	err := row.Scan(&st.SessionID, &st.Token, &st.UserID, &st.TeamID, &st.RemovalReason, &st.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}
