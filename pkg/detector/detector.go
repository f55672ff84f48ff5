// Package detector drives the sparse Game of Life engine from a seed board
// toward a fixed point, a short-period oscillation, or an attempt-budget
// timeout, publishing per-generation progress as it goes.
package detector

import (
	"context"

	"github.com/lifegrid/lifegrid/pkg/lifegrid"
)

// historyWindow bounds the sliding fingerprint history used for oscillation
// detection. Every natural short-period oscillator in Conway's Life
// (blinker=2, toad=2, beacon=2, pulsar=3, pentadecathlon=15) fits inside it;
// longer periods degrade to Timeout. Widening it is a single-constant change.
const historyWindow = 20

// Status is the tag of a CycleResult's variant.
type Status string

const (
	StatusStable      Status = "stable"
	StatusOscillating Status = "oscillating"
	StatusTimeout     Status = "timeout"
)

// PopulationTrend is a diagnostic linear fit of live-cell count over
// generation index across a single detector run. It never influences the
// detector's decision; with Samples < 2, Slope and Intercept are zero.
type PopulationTrend struct {
	Slope     float64
	Intercept float64
	Samples   int
}

// CycleResult is the tagged-variant outcome of a Detect run: exactly one of
// stable, oscillating, or timeout, per SPEC_FULL.md §3.
type CycleResult struct {
	Status     Status
	Generation int
	Period     int // only meaningful when Status == StatusOscillating
	State      *lifegrid.Board
	Trend      PopulationTrend
}

// ProgressFunc is invoked synchronously, in generation order, once per
// generation visited (0 through the terminal generation inclusive). A
// non-nil return aborts the run; the error propagates from Detect.
type ProgressFunc func(ctx context.Context, generation int, state *lifegrid.Board) error

// Detect advances seed via its NextGeneration method until it finds a fixed
// point, a recurrence within the sliding history window, or exhausts
// maxAttempts. maxAttempts <= 0 fails immediately with InvalidInput and
// emits no progress.
func Detect(ctx context.Context, seed *lifegrid.Board, maxAttempts int, progress ProgressFunc) (CycleResult, error) {
	if maxAttempts <= 0 {
		return CycleResult{}, lifegrid.NewError(lifegrid.InvalidInput, "maxAttempts must be positive", nil)
	}

	populations := make([]int, 0, maxAttempts+1)
	emit := func(generation int, state *lifegrid.Board) error {
		populations = append(populations, state.LiveCellCount())
		if progress == nil {
			return nil
		}
		return progress(ctx, generation, state)
	}

	current := seed
	generation := 0
	if err := emit(generation, current); err != nil {
		return CycleResult{}, lifegrid.NewError(lifegrid.ComputeError, "progress callback failed", err)
	}

	next := current.NextGeneration()
	if current.Fingerprint() == next.Fingerprint() {
		return finish(CycleResult{Status: StatusStable, Generation: 0, State: current}, populations), nil
	}

	history := make([]string, 0, historyWindow)
	history = append(history, current.Fingerprint())
	current = next
	generation = 1
	if err := emit(generation, current); err != nil {
		return CycleResult{}, lifegrid.NewError(lifegrid.ComputeError, "progress callback failed", err)
	}

	for i := 1; i < maxAttempts; i++ {
		curHash := current.Fingerprint()
		next = current.NextGeneration()
		nextHash := next.Fingerprint()
		generation = i + 1

		if err := emit(generation, next); err != nil {
			return CycleResult{}, lifegrid.NewError(lifegrid.ComputeError, "progress callback failed", err)
		}

		if curHash == nextHash {
			return finish(CycleResult{Status: StatusStable, Generation: i, State: current}, populations), nil
		}

		if j := indexOf(history, nextHash); j >= 0 {
			period := len(history) - j + 1
			return finish(CycleResult{
				Status:     StatusOscillating,
				Generation: generation,
				Period:     period,
				State:      next,
			}, populations), nil
		}

		history = append(history, curHash)
		if len(history) > historyWindow {
			history = history[1:]
		}
		current = next
	}

	return finish(CycleResult{Status: StatusTimeout, Generation: maxAttempts, State: current}, populations), nil
}

func indexOf(history []string, hash string) int {
	for i, h := range history {
		if h == hash {
			return i
		}
	}
	return -1
}

func finish(result CycleResult, populations []int) CycleResult {
	result.Trend = fitPopulationTrend(populations)
	return result
}
