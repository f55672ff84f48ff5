// Package streaming implements the streaming session of SPEC_FULL.md §4.F:
// a gorilla/websocket connection, upgraded inside a gin.HandlerFunc, binding
// one cycle-detector run to a bidirectional client channel.
package streaming

import "github.com/lifegrid/lifegrid/pkg/detector"

// frameType tags the three wire shapes a session ever writes, per spec.md §6.
type frameType string

const (
	frameProgress frameType = "progress"
	frameFinal    frameType = "final"
	frameError    frameType = "error"
)

// progressFrame is emitted once per generation the detector visits.
type progressFrame struct {
	Type       frameType `json:"type"`
	Generation int       `json:"generation"`
	State      [][]int   `json:"state"`
}

// finalFrame is the strictly-last message of a successful session, its
// shape varying by detector.Status per spec.md §6.
type finalFrame struct {
	Type       frameType     `json:"type"`
	Status     detector.Status `json:"status"`
	Generation int           `json:"generation"`
	Period     int           `json:"period,omitempty"`
	State      [][]int       `json:"state"`
}

// errorFrame is emitted on a failed session open or a detector failure,
// always followed by a close.
type errorFrame struct {
	Type  frameType `json:"type"`
	Error string    `json:"error"`
}

func newProgressFrame(generation int, dense [][]int) progressFrame {
	return progressFrame{Type: frameProgress, Generation: generation, State: dense}
}

func newFinalFrame(result detector.CycleResult) finalFrame {
	frame := finalFrame{
		Type:       frameFinal,
		Status:     result.Status,
		Generation: result.Generation,
		State:      result.State.ToDense(),
	}
	if result.Status == detector.StatusOscillating {
		frame.Period = result.Period
	}
	return frame
}

func newErrorFrame(message string) errorFrame {
	return errorFrame{Type: frameError, Error: message}
}
