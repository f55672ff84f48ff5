package repository

import (
	"context"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"

	"github.com/lifegrid/lifegrid/internal/cache"
	"github.com/lifegrid/lifegrid/pkg/lifegrid"
)

// TTLConfig carries the three cache lifetimes named in spec.md §6.
type TTLConfig struct {
	Current    time.Duration
	Generation time.Duration
	Final      time.Duration
}

// BoardRepository is the board repository of SPEC_FULL.md §4.E: it mints
// boardIds, persists records through a DurableStore, and memoises current
// state and computed generations through a Tiered cache, with a bounded
// in-process LRU of reconstructed engine boards in front of both.
type BoardRepository struct {
	durable DurableStore
	cache   *cache.Tiered
	engines *lru.Cache
	ttl     TTLConfig
}

// NewBoardRepository wires a BoardRepository. engineCacheSize bounds the
// number of reconstructed *lifegrid.Board values kept in process memory.
func NewBoardRepository(durable DurableStore, tiered *cache.Tiered, engineCacheSize int, ttl TTLConfig) (*BoardRepository, error) {
	if engineCacheSize <= 0 {
		engineCacheSize = 256
	}
	engines, err := lru.New(engineCacheSize)
	if err != nil {
		return nil, lifegrid.NewError(lifegrid.ComputeError, "failed to allocate engine cache", err)
	}
	return &BoardRepository{durable: durable, cache: tiered, engines: engines, ttl: ttl}, nil
}

// CreateBoard rejects a dense seed that is empty, ragged or not 0/1-valued
// with InvalidInput, mints a boardId, and persists the record. The cache is write-through; on
// durable-backend failure no partial change is made — the engine cache and
// shared cache are only touched after the durable write succeeds.
func (r *BoardRepository) CreateBoard(ctx context.Context, denseMatrix [][]int) (string, error) {
	board := lifegrid.FromDense(denseMatrix)
	if !board.Dimensions().Valid() {
		return "", lifegrid.NewError(lifegrid.InvalidInput, "board must have at least one row and column", nil)
	}
	cols := len(denseMatrix[0])
	for _, row := range denseMatrix {
		if len(row) != cols {
			return "", lifegrid.NewError(lifegrid.InvalidInput, "board must be rectangular", nil)
		}
		for _, v := range row {
			if v != 0 && v != 1 {
				return "", lifegrid.NewError(lifegrid.InvalidInput, "board cells must be 0 or 1", nil)
			}
		}
	}

	id := uuid.New().String()
	record := BoardRecord{
		BoardID:   id,
		LiveCells: board.ToSparse(),
		Dims:      board.Dimensions(),
	}

	if err := r.durable.CreateBoard(ctx, record); err != nil {
		return "", err
	}

	r.writeCurrentCache(ctx, record)
	r.engines.Add(id, board)

	zap.S().Infow("board created", "boardId", id, "liveCells", len(record.LiveCells))
	return id, nil
}

// GetBoardByID is the read-through load of a board record: a cache hit
// returns the sparse state and dimensions it has; a miss falls through to
// the durable backend and repopulates the cache. NotFound is returned
// unwrapped so callers can compare it directly.
func (r *BoardRepository) GetBoardByID(ctx context.Context, boardID string) (BoardRecord, error) {
	if err := ValidateBoardID(boardID); err != nil {
		return BoardRecord{}, err
	}

	if cached, ok := r.cache.Get(ctx, currentKey(boardID)); ok {
		var payload currentPayload
		if err := json.Unmarshal(cached, &payload); err == nil {
			return BoardRecord{
				BoardID:   boardID,
				LiveCells: setToSparse(sparseToSet(payload.State)),
				Dims: lifegrid.Dimensions{
					Rows: payload.Dimensions.Rows,
					Cols: payload.Dimensions.Cols,
				},
			}, nil
		}
		zap.S().Warnw("failed to decode cached board, falling back to durable backend", "boardId", boardID)
	}

	record, err := r.durable.GetBoard(ctx, boardID)
	if err != nil {
		return BoardRecord{}, err
	}
	r.writeCurrentCache(ctx, record)
	return record, nil
}

// ListRecent projects the durable backend's createdAt-descending index
// (SPEC_FULL.md §3 Supplemental).
func (r *BoardRepository) ListRecent(ctx context.Context, limit int) ([]BoardSummary, error) {
	if limit <= 0 {
		return nil, lifegrid.NewError(lifegrid.InvalidInput, "limit must be positive", nil)
	}
	return r.durable.ListRecent(ctx, limit)
}

// loadEngine returns the reconstructed seed board for boardID, preferring
// the in-process engine LRU over re-parsing the sparse pair list from a
// cache or durable read every call.
func (r *BoardRepository) loadEngine(ctx context.Context, boardID string) (*lifegrid.Board, error) {
	if v, ok := r.engines.Get(boardID); ok {
		if board, ok := v.(*lifegrid.Board); ok {
			return board, nil
		}
	}

	record, err := r.GetBoardByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	board, err := record.Board()
	if err != nil {
		return nil, err
	}
	r.engines.Add(boardID, board)
	return board, nil
}

func (r *BoardRepository) writeCurrentCache(ctx context.Context, record BoardRecord) {
	payload := currentPayload{State: record.LiveCells}
	payload.Dimensions.Rows = record.Dims.Rows
	payload.Dimensions.Cols = record.Dims.Cols

	encoded, err := json.Marshal(payload)
	if err != nil {
		zap.S().Warnw("failed to encode board for cache", "boardId", record.BoardID, "error", err)
		return
	}
	r.cache.Set(ctx, currentKey(record.BoardID), encoded, r.ttl.Current)
}

// sparseToSet converts persisted (row, col) pairs into a coordinate set,
// preserving every coordinate including duplicates collapsing, per
// spec.md §4.E.
func sparseToSet(pairs [][2]int) map[lifegrid.Coordinate]struct{} {
	set := make(map[lifegrid.Coordinate]struct{}, len(pairs))
	for _, p := range pairs {
		set[lifegrid.Coordinate{Row: p[0], Col: p[1]}] = struct{}{}
	}
	return set
}

// setToSparse is the inverse of sparseToSet.
func setToSparse(set map[lifegrid.Coordinate]struct{}) [][2]int {
	pairs := make([][2]int, 0, len(set))
	for coord := range set {
		pairs = append(pairs, [2]int{coord.Row, coord.Col})
	}
	return pairs
}
