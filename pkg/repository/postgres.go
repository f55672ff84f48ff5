package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/lifegrid/lifegrid/pkg/lifegrid"
)

// PostgresStore is the DurableStore implementation backing boards with a
// PostgreSQL table, following the connection-pool setup in the teacher's
// cmd/factoryinsight/database/database.go.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresPool opens a pgx connection pool, mirroring the teacher's
// Connect: short connect timeout, bounded idle/lifetime.
func NewPostgresPool(ctx context.Context, host string, port int, user, password, database string) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", host, port, user, password, database)

	parsed, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, lifegrid.NewError(lifegrid.BackendUnavailable, "failed to parse postgres config", err)
	}
	parsed.MaxConnIdleTime = 5 * time.Minute
	parsed.MaxConnLifetime = 10 * time.Minute

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, parsed)
	if err != nil {
		return nil, lifegrid.NewError(lifegrid.BackendUnavailable, "failed to open postgres pool", err)
	}
	return pool, nil
}

// NewPostgresStore wraps an already-open pool as a DurableStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Schema is the DDL NewPostgresStore's table depends on. Callers run it
// once at deploy time (e.g. from a migration tool); it is exposed as a
// constant rather than run implicitly so the repository never surprises a
// caller by mutating schema.
const Schema = `
CREATE TABLE IF NOT EXISTS boards (
	board_id   uuid PRIMARY KEY,
	live_cells jsonb NOT NULL,
	rows       integer NOT NULL,
	cols       integer NOT NULL,
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS boards_created_at_idx ON boards (created_at DESC);
`

func (s *PostgresStore) CreateBoard(ctx context.Context, record BoardRecord) error {
	payload, err := json.Marshal(record.LiveCells)
	if err != nil {
		return lifegrid.NewError(lifegrid.ComputeError, "failed to marshal live cells", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO boards (board_id, live_cells, rows, cols) VALUES ($1, $2, $3, $4)`,
		record.BoardID, payload, record.Dims.Rows, record.Dims.Cols)
	if err != nil {
		return classifyPgError(err)
	}
	return nil
}

func (s *PostgresStore) GetBoard(ctx context.Context, boardID string) (BoardRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT board_id, live_cells, rows, cols, created_at, updated_at FROM boards WHERE board_id = $1`,
		boardID)

	var (
		id        string
		payload   []byte
		rows      int
		cols      int
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&id, &payload, &rows, &cols, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BoardRecord{}, lifegrid.ErrBoardNotFound
		}
		return BoardRecord{}, classifyPgError(err)
	}

	var pairs [][2]int
	if err := json.Unmarshal(payload, &pairs); err != nil {
		return BoardRecord{}, lifegrid.NewError(lifegrid.ComputeError, "failed to unmarshal live cells", err)
	}

	return BoardRecord{
		BoardID:   id,
		LiveCells: pairs,
		Dims:      lifegrid.Dimensions{Rows: rows, Cols: cols},
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]BoardSummary, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT board_id, rows, cols, jsonb_array_length(live_cells), created_at
		 FROM boards ORDER BY created_at DESC LIMIT $1`,
		limit)
	if err != nil {
		return nil, classifyPgError(err)
	}
	defer rows.Close()

	var summaries []BoardSummary
	for rows.Next() {
		var (
			id            string
			r, c          int
			liveCellCount int
			createdAt     time.Time
		)
		if err := rows.Scan(&id, &r, &c, &liveCellCount, &createdAt); err != nil {
			return nil, classifyPgError(err)
		}
		summaries = append(summaries, BoardSummary{
			BoardID:       id,
			Dims:          lifegrid.Dimensions{Rows: r, Cols: c},
			LiveCellCount: liveCellCount,
			CreatedAt:     createdAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, classifyPgError(err)
	}
	return summaries, nil
}

// classifyPgError maps a pgx failure to the error-handling design's
// BackendUnavailable kind. pgx surfaces server-side failures as
// *pgconn.PgError and connectivity failures as plain net/context errors;
// both are backend problems from the repository's perspective — there is
// no InvalidInput case here because SQL parameter types, not malformed
// client input, are the only thing that could produce a PgError at this
// layer, and that is a programming error, not a policy this layer resolves.
func classifyPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		zap.S().Errorw("postgres error", "code", pgErr.Code, "message", pgErr.Message)
	}
	return lifegrid.NewError(lifegrid.BackendUnavailable, "durable backend operation failed", err)
}
