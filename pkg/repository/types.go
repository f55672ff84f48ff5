// Package repository implements the board repository: translation between
// the dense wire format and the sparse internal board, boardId minting, and
// the 3-tier read-through/write-through cache in front of the durable
// backend, per SPEC_FULL.md §4.E.
package repository

import (
	"regexp"
	"time"

	"github.com/lifegrid/lifegrid/pkg/lifegrid"
)

// boardIDPattern is the UUID shape boardId must match at the boundary, per
// SPEC_FULL.md §6.
var boardIDPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidateBoardID reports an InvalidInput error if id is not a UUID-shaped
// string.
func ValidateBoardID(id string) error {
	if !boardIDPattern.MatchString(id) {
		return lifegrid.NewError(lifegrid.InvalidInput, "boardId is not a valid UUID", nil)
	}
	return nil
}

// BoardRecord is the persisted, write-once board: the sparse live-cell list
// plus dimensions and timestamps, per SPEC_FULL.md §3.
type BoardRecord struct {
	BoardID   string
	LiveCells [][2]int
	Dims      lifegrid.Dimensions
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Board reconstructs the sparse engine board this record represents.
func (r BoardRecord) Board() (*lifegrid.Board, error) {
	return lifegrid.FromSparse(r.LiveCells, r.Dims)
}

// BoardSummary is the read-only projection ListRecent returns, backing the
// durable backend's createdAt-descending secondary index (SPEC_FULL.md §3
// Supplemental).
type BoardSummary struct {
	BoardID       string
	Dims          lifegrid.Dimensions
	LiveCellCount int
	CreatedAt     time.Time
}
