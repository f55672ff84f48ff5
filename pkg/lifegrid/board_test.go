package lifegrid

import "testing"

func denseEqual(a, b [][]int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

func TestFromDenseToDenseRoundTrip(t *testing.T) {
	m := [][]int{
		{0, 1, 0},
		{0, 1, 0},
		{0, 1, 0},
	}
	b := FromDense(m)
	if got := b.ToDense(); !denseEqual(got, m) {
		t.Errorf("round trip = %v, want %v", got, m)
	}
}

func TestFromDenseEmpty(t *testing.T) {
	b := FromDense([][]int{})
	if b.LiveCellCount() != 0 {
		t.Error("empty matrix should yield an empty board")
	}
}

func TestNextGenerationStaysInBounds(t *testing.T) {
	m := [][]int{
		{1, 1, 0},
		{1, 1, 0},
		{0, 0, 0},
	}
	b := FromDense(m)
	next := b.NextGeneration()
	dims := next.Dimensions()
	for coord := range next.live {
		if !coord.In(dims) {
			t.Errorf("live cell %v escaped dimensions %v", coord, dims)
		}
	}
}

func TestNextGenerationEvaluationSetBound(t *testing.T) {
	m := [][]int{
		{0, 1, 0, 0},
		{0, 1, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 0, 0},
	}
	b := FromDense(m)
	next := b.NextGeneration()
	if next.LiveCellCount() > 9*b.LiveCellCount() {
		t.Errorf("next generation has %d live cells, more than 9x the %d seed cells", next.LiveCellCount(), b.LiveCellCount())
	}
}

func TestNextGenerationDeterministic(t *testing.T) {
	m := [][]int{
		{0, 1, 0},
		{0, 1, 0},
		{0, 1, 0},
	}
	b := FromDense(m)
	a := b.NextGeneration()
	c := b.NextGeneration()
	if !a.Equals(c) {
		t.Error("NextGeneration should be deterministic")
	}
}

func TestFingerprintEqualityMatchesEquals(t *testing.T) {
	block := FromDense([][]int{
		{0, 0, 0, 0},
		{0, 1, 1, 0},
		{0, 1, 1, 0},
		{0, 0, 0, 0},
	})
	same := FromDense([][]int{
		{0, 0, 0, 0},
		{0, 1, 1, 0},
		{0, 1, 1, 0},
		{0, 0, 0, 0},
	})
	different := FromDense([][]int{
		{0, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 0, 0},
	})

	if block.Fingerprint() != same.Fingerprint() {
		t.Error("equal live sets should fingerprint equally")
	}
	if !block.Equals(same) {
		t.Error("equal live sets should be Equals")
	}
	if block.Fingerprint() == different.Fingerprint() {
		t.Error("unequal live sets should fingerprint differently")
	}
	if block.Equals(different) {
		t.Error("unequal live sets should not be Equals")
	}
}

func TestEmptyBoardStable(t *testing.T) {
	b := FromDense([][]int{{0, 0}, {0, 0}})
	next := b.NextGeneration()
	if next.LiveCellCount() != 0 {
		t.Error("an empty board should stay empty")
	}
}

func TestLoneCellDies(t *testing.T) {
	b := FromDense([][]int{
		{0, 0, 0},
		{0, 1, 0},
		{0, 0, 0},
	})
	next := b.NextGeneration()
	if next.LiveCellCount() != 0 {
		t.Error("an isolated live cell should die from underpopulation")
	}
}

func TestBoundaryBirth(t *testing.T) {
	// Three live cells hugging the top-left corner give the dead corner cell
	// exactly 3 live in-bounds neighbours; it should come alive, and nothing
	// should appear at negative coordinates.
	b := FromDense([][]int{
		{0, 1, 0},
		{1, 1, 0},
		{0, 0, 0},
	})
	next := b.NextGeneration()
	if !next.IsAlive(Coordinate{Row: 0, Col: 0}) {
		t.Error("corner cell with 3 live neighbours should be born")
	}
	for coord := range next.live {
		if coord.Row < 0 || coord.Col < 0 {
			t.Errorf("birth at out-of-bounds coordinate %v", coord)
		}
	}
}

func TestFromSparseRejectsOutOfBounds(t *testing.T) {
	_, err := FromSparse([][2]int{{5, 5}}, Dimensions{Rows: 3, Cols: 3})
	if err == nil {
		t.Fatal("expected an error for an out-of-bounds pair")
	}
	if Classify(err) != InvalidInput {
		t.Errorf("expected InvalidInput, got %v", Classify(err))
	}
}

func TestFromSparseDedupesDuplicates(t *testing.T) {
	b, err := FromSparse([][2]int{{1, 1}, {1, 1}, {2, 2}}, Dimensions{Rows: 3, Cols: 3})
	if err != nil {
		t.Fatal(err)
	}
	if b.LiveCellCount() != 2 {
		t.Errorf("expected 2 distinct live cells, got %d", b.LiveCellCount())
	}
}

func TestLargeSparseBoardPerformance(t *testing.T) {
	dims := Dimensions{Rows: 1000, Cols: 1000}
	pairs := make([][2]int, 0, 100)
	for i := 0; i < 100; i++ {
		pairs = append(pairs, [2]int{i * 7 % 1000, i * 13 % 1000})
	}
	b, err := FromSparse(pairs, dims)
	if err != nil {
		t.Fatal(err)
	}
	next := b.NextGeneration()
	if next.LiveCellCount() > 900 {
		t.Errorf("expected live cell count within [0, 900], got %d", next.LiveCellCount())
	}
}
