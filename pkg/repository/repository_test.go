package repository

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lifegrid/lifegrid/internal/cache"
	"github.com/lifegrid/lifegrid/pkg/lifegrid"
)

// fakeDurableStore is an in-memory DurableStore for tests, grounded in the
// same fake-backend style as internal/cache/cache_test.go's fakeShared.
type fakeDurableStore struct {
	mu     sync.Mutex
	boards map[string]BoardRecord
}

func newFakeDurableStore() *fakeDurableStore {
	return &fakeDurableStore{boards: make(map[string]BoardRecord)}
}

func (f *fakeDurableStore) CreateBoard(ctx context.Context, record BoardRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	record.CreatedAt = time.Unix(int64(len(f.boards)), 0)
	record.UpdatedAt = record.CreatedAt
	f.boards[record.BoardID] = record
	return nil
}

func (f *fakeDurableStore) GetBoard(ctx context.Context, boardID string) (BoardRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.boards[boardID]
	if !ok {
		return BoardRecord{}, lifegrid.ErrBoardNotFound
	}
	return record, nil
}

func (f *fakeDurableStore) ListRecent(ctx context.Context, limit int) ([]BoardSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	summaries := make([]BoardSummary, 0, len(f.boards))
	for _, r := range f.boards {
		summaries = append(summaries, BoardSummary{
			BoardID:       r.BoardID,
			Dims:          r.Dims,
			LiveCellCount: len(r.LiveCells),
			CreatedAt:     r.CreatedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	if len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

func testRepository(t *testing.T) *BoardRepository {
	t.Helper()
	repo, err := NewBoardRepository(newFakeDurableStore(), cache.NewTiered(nil), 16, TTLConfig{
		Current:    time.Minute,
		Generation: time.Minute,
		Final:      time.Minute,
	})
	if err != nil {
		t.Fatalf("NewBoardRepository: %v", err)
	}
	return repo
}

func blinkerSeed() [][]int {
	// Vertical 3-cell blinker on a 5x5 grid, period 2.
	matrix := make([][]int, 5)
	for r := range matrix {
		matrix[r] = make([]int, 5)
	}
	matrix[1][2] = 1
	matrix[2][2] = 1
	matrix[3][2] = 1
	return matrix
}

func TestCreateAndGetBoardRoundTrip(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	id, err := repo.CreateBoard(ctx, blinkerSeed())
	if err != nil {
		t.Fatalf("CreateBoard: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("boardId %q is not a UUID: %v", id, err)
	}

	record, err := repo.GetBoardByID(ctx, id)
	if err != nil {
		t.Fatalf("GetBoardByID: %v", err)
	}
	if record.Dims.Rows != 5 || record.Dims.Cols != 5 {
		t.Fatalf("dims = %+v, want 5x5", record.Dims)
	}
	if len(record.LiveCells) != 3 {
		t.Fatalf("liveCells = %d, want 3", len(record.LiveCells))
	}
}

func TestGetBoardByIDRejectsMalformedID(t *testing.T) {
	repo := testRepository(t)
	if _, err := repo.GetBoardByID(context.Background(), "not-a-uuid"); lifegrid.Classify(err) != lifegrid.InvalidInput {
		t.Fatalf("Classify = %v, want InvalidInput", lifegrid.Classify(err))
	}
}

func TestGetBoardByIDNotFound(t *testing.T) {
	repo := testRepository(t)
	_, err := repo.GetBoardByID(context.Background(), uuid.New().String())
	if lifegrid.Classify(err) != lifegrid.NotFound {
		t.Fatalf("Classify = %v, want NotFound", lifegrid.Classify(err))
	}
}

func TestGetNextGenerationBlinkerOscillates(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()
	id, err := repo.CreateBoard(ctx, blinkerSeed())
	if err != nil {
		t.Fatalf("CreateBoard: %v", err)
	}

	gen1, err := repo.GetNextGeneration(ctx, id)
	if err != nil {
		t.Fatalf("GetNextGeneration: %v", err)
	}
	horizontal := countLive(gen1)
	if horizontal != 3 {
		t.Fatalf("generation 1 live count = %d, want 3", horizontal)
	}

	gen2, err := repo.GetStateAtGeneration(ctx, id, 2)
	if err != nil {
		t.Fatalf("GetStateAtGeneration(2): %v", err)
	}
	seed := blinkerSeed()
	if !equalDense(gen2, seed) {
		t.Fatalf("generation 2 should match seed for a period-2 blinker")
	}
}

func TestGetStateAtGenerationMatchesStepwiseComputation(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()
	id, err := repo.CreateBoard(ctx, blinkerSeed())
	if err != nil {
		t.Fatalf("CreateBoard: %v", err)
	}

	const target = 23 // not a multiple of checkpointInterval
	direct, err := repo.GetStateAtGeneration(ctx, id, target)
	if err != nil {
		t.Fatalf("GetStateAtGeneration: %v", err)
	}

	board := lifegrid.FromDense(blinkerSeed())
	for i := 0; i < target; i++ {
		board = board.NextGeneration()
	}
	if !equalDense(direct, board.ToDense()) {
		t.Fatalf("repository result diverged from from-scratch computation at generation %d", target)
	}
}

func TestGetStateAtGenerationResumesFromCheckpoint(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()
	id, err := repo.CreateBoard(ctx, blinkerSeed())
	if err != nil {
		t.Fatalf("CreateBoard: %v", err)
	}

	// Populate the checkpoint at generation 10 first.
	if _, err := repo.GetStateAtGeneration(ctx, id, 10); err != nil {
		t.Fatalf("GetStateAtGeneration(10): %v", err)
	}
	// Evict the reconstructed engine so the seed is not already in process
	// memory. The request for generation 15 finds the generation-10 cache
	// entry and resumes from it; a replay from the seed would give the same
	// answer, so the check below compares results only.
	repo.engines.Remove(id)

	withCheckpoint, err := repo.GetStateAtGeneration(ctx, id, 15)
	if err != nil {
		t.Fatalf("GetStateAtGeneration(15): %v", err)
	}

	board := lifegrid.FromDense(blinkerSeed())
	for i := 0; i < 15; i++ {
		board = board.NextGeneration()
	}
	if !equalDense(withCheckpoint, board.ToDense()) {
		t.Fatalf("checkpoint-resumed result diverged from from-scratch computation")
	}
}

func TestGetStateAtGenerationRejectsNonPositive(t *testing.T) {
	repo := testRepository(t)
	if _, err := repo.GetStateAtGeneration(context.Background(), uuid.New().String(), 0); lifegrid.Classify(err) != lifegrid.InvalidInput {
		t.Fatalf("Classify = %v, want InvalidInput", lifegrid.Classify(err))
	}
}

func TestListRecentOrdersByCreatedAtDescending(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := repo.CreateBoard(ctx, blinkerSeed())
		if err != nil {
			t.Fatalf("CreateBoard: %v", err)
		}
		ids = append(ids, id)
	}

	summaries, err := repo.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("len(summaries) = %d, want 2", len(summaries))
	}
	if summaries[0].BoardID != ids[2] || summaries[1].BoardID != ids[1] {
		t.Fatalf("ListRecent order = %v, want most-recent-first", summaries)
	}
}

func countLive(dense [][]int) int {
	count := 0
	for _, row := range dense {
		for _, v := range row {
			if v != 0 {
				count++
			}
		}
	}
	return count
}

func equalDense(a, b [][]int) bool {
	if len(a) != len(b) {
		return false
	}
	for r := range a {
		if len(a[r]) != len(b[r]) {
			return false
		}
		for c := range a[r] {
			if a[r][c] != b[r][c] {
				return false
			}
		}
	}
	return true
}
