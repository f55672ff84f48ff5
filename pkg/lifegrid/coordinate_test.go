package lifegrid

import "testing"

func TestCoordinateStringRoundTrip(t *testing.T) {
	cases := []Coordinate{
		{Row: 0, Col: 0},
		{Row: 5, Col: 12},
		{Row: -3, Col: 4},
		{Row: 100, Col: -100},
	}
	for _, c := range cases {
		got, err := ParseCoordinate(c.String())
		if err != nil {
			t.Fatalf("ParseCoordinate(%q): %v", c.String(), err)
		}
		if got != c {
			t.Errorf("round trip %v -> %q -> %v", c, c.String(), got)
		}
	}
}

func TestParseCoordinateMalformed(t *testing.T) {
	for _, s := range []string{"", "1", "1,2,3", "a,b", "1,"} {
		if _, err := ParseCoordinate(s); err == nil {
			t.Errorf("ParseCoordinate(%q) should have failed", s)
		}
	}
}

func TestCellNeighboursCount(t *testing.T) {
	c := NewCell(5, 5)
	n := c.Neighbours()
	if len(n) != 8 {
		t.Fatalf("expected 8 neighbours, got %d", len(n))
	}
	for _, coord := range n {
		if coord == c.Coordinate {
			t.Error("a cell must not be its own neighbour")
		}
	}
}

func TestCellIn(t *testing.T) {
	dims := Dimensions{Rows: 10, Cols: 10}
	if !NewCell(0, 0).In(dims) {
		t.Error("origin should be in bounds")
	}
	if !NewCell(9, 9).In(dims) {
		t.Error("bottom-right corner should be in bounds")
	}
	if NewCell(10, 0).In(dims) {
		t.Error("row 10 should be out of bounds for 10 rows")
	}
	if NewCell(0, -1).In(dims) {
		t.Error("negative column should be out of bounds")
	}
}
