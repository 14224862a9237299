package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/yakoovad/club-portal/internal/db"
)

type pgxStateRepository struct {
	pool *pgxpool.Pool
}

func NewPgxStateRepository(pool *pgxpool.Pool) StateRepository {
	return &pgxStateRepository{pool: pool}
}

// MigratePgx creates the state table if it does not exist yet.
func MigratePgx(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, stateTableDDL); err != nil {
		return errors.Wrap(err, "create session_state")
	}
	return nil
}

func pgxSelectState(sessionID string) bob.BaseQuery[*dialect.SelectQuery] {
	return psql.Select(
		sm.Columns(stateColumnClauses...),
		sm.From("session_state"),
		sm.Where(psql.Quote("session_id").EQ(psql.Arg(sessionID))),
	)
}

func pgxInsertState(state *LocalState) bob.BaseQuery[*dialect.InsertQuery] {
	return psql.Insert(
		im.Into("session_state", stateColumns...),
		im.Values(
			psql.Arg(state.SessionID),
			psql.Arg(state.Token),
			psql.Arg(state.UserID),
			psql.Arg(state.TeamID),
			psql.Arg(state.RemovalReason),
			psql.Arg(state.UpdatedAt),
		),
	)
}

func pgxPatchState(patch *StatePatch, now time.Time) bob.BaseQuery[*dialect.UpdateQuery] {
	sets := make([]bob.Mod[*dialect.UpdateQuery], 0, 4)

	if patch.Token != nil {
		sets = append(sets, um.SetCol("token").ToArg(*patch.Token))
	}
	if patch.TeamID != nil {
		sets = append(sets, um.SetCol("team_id").ToArg(*patch.TeamID))
	}
	if patch.RemovalReason != nil {
		sets = append(sets, um.SetCol("removal_reason").ToArg(*patch.RemovalReason))
	}
	sets = append(sets, um.SetCol("updated_at").ToArg(now))

	q := psql.Update(
		um.Table("session_state"),
		um.Where(psql.Quote("session_id").EQ(psql.Arg(patch.SessionID))),
		um.Returning(stateColumnClauses...),
	)
	q.Apply(sets...)

	return q
}

func pgxDeleteState(sessionID string) bob.BaseQuery[*dialect.DeleteQuery] {
	return psql.Delete(
		dm.From("session_state"),
		dm.Where(psql.Quote("session_id").EQ(psql.Arg(sessionID))),
	)
}

func (p *pgxStateRepository) Get(ctx context.Context, sessionID string) (*LocalState, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	sql, args, err := pgxSelectState(sessionID).Build(ctx)
	if err != nil {
		return nil, err
	}

	return scanPgxState(e.QueryRow(ctx, sql, args...))
}

func (p *pgxStateRepository) Create(ctx context.Context, state *LocalState) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = time.Now().UTC()
	}

	sql, args, err := pgxInsertState(state).Build(ctx)
	if err != nil {
		return err
	}

	_, err = e.Exec(ctx, sql, args...)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAlreadyExists
	}

	return err
}

func (p *pgxStateRepository) Patch(ctx context.Context, patch *StatePatch) (*LocalState, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	sql, args, err := pgxPatchState(patch, time.Now().UTC()).Build(ctx)
	if err != nil {
		return nil, err
	}

	return scanPgxState(e.QueryRow(ctx, sql, args...))
}

func (p *pgxStateRepository) Delete(ctx context.Context, sessionID string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	sql, args, err := pgxDeleteState(sessionID).Build(ctx)
	if err != nil {
		return err
	}

	_, err = e.Exec(ctx, sql, args...)
	return err
}

func scanPgxState(row pgx.Row) (*LocalState, error) {
	s := &LocalState{}
	if err := row.Scan(
		&s.SessionID,
		&s.Token,
		&s.UserID,
		&s.TeamID,
		&s.RemovalReason,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}
