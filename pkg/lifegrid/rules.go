package lifegrid

// NextAlive is the pure Game of Life transition rule: given whether a cell is
// currently alive and how many live neighbours it has, reports whether it is
// alive in the next generation. It has no state and no failure modes.
func NextAlive(isAlive bool, liveNeighbourCount int) bool {
	if isAlive {
		return liveNeighbourCount == 2 || liveNeighbourCount == 3
	}
	return liveNeighbourCount == 3
}
