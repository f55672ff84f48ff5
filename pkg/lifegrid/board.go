package lifegrid

import (
	"sort"
	"strings"
)

// Board is a sparse Conway's Game of Life state: a set of live coordinates
// plus the rectangle bounding them. A Board is immutable after
// construction — every operation that would change state returns a new
// Board — so it is safe to share across goroutines without locking.
type Board struct {
	dimensions Dimensions
	live       map[Coordinate]struct{}
}

// FromDense builds a sparse board from a dense 0/1 matrix. An empty matrix
// yields an empty board. The caller is responsible for matrices being
// rectangular and 0/1-valued; FromDense trusts its input since validation
// happens upstream at the repository boundary.
func FromDense(matrix [][]int) *Board {
	rows := len(matrix)
	cols := 0
	if rows > 0 {
		cols = len(matrix[0])
	}
	live := make(map[Coordinate]struct{})
	for r, row := range matrix {
		for c, v := range row {
			if v != 0 {
				live[Coordinate{Row: r, Col: c}] = struct{}{}
			}
		}
	}
	return &Board{dimensions: Dimensions{Rows: rows, Cols: cols}, live: live}
}

// FromSparse builds a board directly from (row, col) pairs. Duplicate pairs
// collapse. A pair outside dimensions is rejected: the policy chosen here
// (per SPEC_FULL.md §4.C) is to fail loudly rather than silently drop, since
// a caller passing bad data deserves an InvalidInput rather than a board
// that quietly differs from what was requested.
func FromSparse(pairs [][2]int, dimensions Dimensions) (*Board, error) {
	if !dimensions.Valid() {
		return nil, NewError(InvalidInput, "dimensions must be at least 1x1", nil)
	}
	live := make(map[Coordinate]struct{}, len(pairs))
	for _, p := range pairs {
		coord := Coordinate{Row: p[0], Col: p[1]}
		if !coord.In(dimensions) {
			return nil, NewError(InvalidInput, "coordinate outside board dimensions", nil)
		}
		live[coord] = struct{}{}
	}
	return &Board{dimensions: dimensions, live: live}, nil
}

// ToDense materialises the board as a rows x cols matrix of 0/1 ints.
func (b *Board) ToDense() [][]int {
	matrix := make([][]int, b.dimensions.Rows)
	for r := range matrix {
		matrix[r] = make([]int, b.dimensions.Cols)
	}
	for coord := range b.live {
		matrix[coord.Row][coord.Col] = 1
	}
	return matrix
}

// ToSparse returns the live coordinates as (row, col) pairs. The order is
// unspecified; callers that need determinism should sort the result (see
// Fingerprint).
func (b *Board) ToSparse() [][2]int {
	pairs := make([][2]int, 0, len(b.live))
	for coord := range b.live {
		pairs = append(pairs, [2]int{coord.Row, coord.Col})
	}
	return pairs
}

// Dimensions returns the board's bounding rectangle.
func (b *Board) Dimensions() Dimensions {
	return b.dimensions
}

// LiveCellCount returns the number of live cells.
func (b *Board) LiveCellCount() int {
	return len(b.live)
}

// IsAlive reports whether coord is a member of the live set.
func (b *Board) IsAlive(coord Coordinate) bool {
	_, ok := b.live[coord]
	return ok
}

// CountLiveNeighbours counts the in-bounds, live members of cell's Moore
// neighbourhood.
func (b *Board) CountLiveNeighbours(cell Cell) int {
	count := 0
	for _, n := range cell.Neighbours() {
		if !n.In(b.dimensions) {
			continue
		}
		if _, ok := b.live[n]; ok {
			count++
		}
	}
	return count
}

// NextGeneration computes the next board state in O(L): it only evaluates
// live cells and their in-bounds neighbours, never the full rows*cols grid.
func (b *Board) NextGeneration() *Board {
	evaluation := make(map[Coordinate]struct{}, len(b.live)*9)
	for coord := range b.live {
		evaluation[coord] = struct{}{}
		cell := Cell{coord}
		for _, n := range cell.Neighbours() {
			if n.In(b.dimensions) {
				evaluation[n] = struct{}{}
			}
		}
	}

	next := make(map[Coordinate]struct{}, len(evaluation))
	for coord := range evaluation {
		alive := b.IsAlive(coord)
		count := b.CountLiveNeighbours(Cell{coord})
		if NextAlive(alive, count) {
			next[coord] = struct{}{}
		}
	}

	return &Board{dimensions: b.dimensions, live: next}
}

// Fingerprint is a canonical, order-independent encoding of the live-cell
// set: coordinates sorted lexicographically by (row, col), joined with a
// separator unambiguous against the coordinate encoding itself. It is used
// only for cycle-detection equality and need not be cryptographic.
func (b *Board) Fingerprint() string {
	coords := make([]Coordinate, 0, len(b.live))
	for coord := range b.live {
		coords = append(coords, coord)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Row != coords[j].Row {
			return coords[i].Row < coords[j].Row
		}
		return coords[i].Col < coords[j].Col
	})

	var sb strings.Builder
	for _, coord := range coords {
		sb.WriteString(coord.String())
		sb.WriteByte(';')
	}
	return sb.String()
}

// Equals reports whether two boards have equal dimensions and equal live
// cell sets.
func (b *Board) Equals(other *Board) bool {
	if other == nil {
		return false
	}
	if b.dimensions != other.dimensions {
		return false
	}
	if len(b.live) != len(other.live) {
		return false
	}
	for coord := range b.live {
		if _, ok := other.live[coord]; !ok {
			return false
		}
	}
	return true
}
