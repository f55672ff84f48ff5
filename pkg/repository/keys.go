package repository

import "fmt"

// currentKey, generationKey and finalKey build the shared-cache keys named
// in SPEC_FULL.md §6, exactly as spec.md §6 specifies them.
func currentKey(boardID string) string {
	return fmt.Sprintf("board:%s:current", boardID)
}

func generationKey(boardID string, generation int) string {
	return fmt.Sprintf("board:%s:generation:%d", boardID, generation)
}

// finalKey is reserved for a future final-state cache (spec.md §6); no
// component writes through it yet.
func finalKey(boardID string) string {
	return fmt.Sprintf("board:%s:final", boardID)
}

// currentPayload is the JSON shape stored under currentKey: the live-cell
// pairs plus the dimensions they're bounded by.
type currentPayload struct {
	State      [][2]int `json:"state"`
	Dimensions struct {
		Rows int `json:"rows"`
		Cols int `json:"cols"`
	} `json:"dimensions"`
}
