package streaming

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/lifegrid/lifegrid/pkg/detector"
	"github.com/lifegrid/lifegrid/pkg/lifegrid"
	"github.com/lifegrid/lifegrid/pkg/repository"
)

// BoardLoader is the narrow slice of *repository.BoardRepository a session
// needs, so tests can substitute a fake without wiring a full repository.
type BoardLoader interface {
	GetBoardByID(ctx context.Context, boardID string) (repository.BoardRecord, error)
}

// closeWriteWait bounds how long a session waits for a close frame to be
// written before giving up, mirroring the orchestrator websocket handler's
// practice of never blocking a session shutdown indefinitely.
const closeWriteWait = 5 * time.Second

// upgrader mirrors the buffer sizing convention of the orchestrator
// websocket handler in the example pack; CheckOrigin is permissive because
// the host router, not this component, owns authentication policy.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// conn is the minimal surface session.go needs from *websocket.Conn, so
// tests can substitute a recording fake.
type conn interface {
	WriteJSON(v interface{}) error
	WriteClose(code int, reason string)
	Close() error
}

// Handler returns a gin.HandlerFunc that upgrades the request to a
// websocket and runs one streaming session per SPEC_FULL.md §4.F. It is
// mounted into a host router at /ws; boardId and maxAttempts arrive as
// query parameters per spec.md §6.
func Handler(repo BoardLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			zap.S().Warnw("websocket upgrade failed", "error", err)
			return
		}
		runSession(c.Request.Context(), repo, &wsConn{ws}, c.Query("boardId"), c.Query("maxAttempts"))
	}
}

// wsConn adapts *websocket.Conn to the conn interface, encoding frames with
// goccy/go-json in place of gorilla's default encoding/json-backed
// WriteJSON, per SPEC_FULL.md §4.F.
type wsConn struct {
	ws *websocket.Conn
}

func (w *wsConn) WriteJSON(v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return w.ws.WriteMessage(websocket.TextMessage, payload)
}

func (w *wsConn) WriteClose(code int, reason string) {
	_ = w.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(closeWriteWait))
}

func (w *wsConn) Close() error { return w.ws.Close() }

// runSession implements the lifecycle of spec.md §4.F end to end: parse,
// load, run, finish, close. It is separated from Handler so tests can drive
// it directly against a fake conn.
func runSession(ctx context.Context, repo BoardLoader, c conn, rawBoardID, rawMaxAttempts string) {
	defer c.Close()

	maxAttempts, err := strconv.Atoi(rawMaxAttempts)
	if rawBoardID == "" || err != nil || maxAttempts <= 0 {
		closeWithError(c, "boardId and a positive maxAttempts are required", websocket.ClosePolicyViolation)
		return
	}

	record, err := repo.GetBoardByID(ctx, rawBoardID)
	if err != nil {
		if lifegrid.Classify(err) == lifegrid.NotFound {
			closeWithError(c, "board not found", websocket.ClosePolicyViolation)
			return
		}
		closeWithError(c, err.Error(), websocket.CloseInternalServerErr)
		return
	}

	seed, err := record.Board()
	if err != nil {
		closeWithError(c, err.Error(), websocket.CloseInternalServerErr)
		return
	}

	var mu sync.Mutex
	open := true
	markClosed := func() {
		mu.Lock()
		open = false
		mu.Unlock()
	}

	progress := func(ctx context.Context, generation int, state *lifegrid.Board) error {
		mu.Lock()
		isOpen := open
		mu.Unlock()
		if !isOpen {
			return nil
		}
		if err := c.WriteJSON(newProgressFrame(generation, state.ToDense())); err != nil {
			markClosed()
		}
		return nil
	}

	result, err := detector.Detect(ctx, seed, maxAttempts, progress)
	if err != nil {
		closeWithError(c, err.Error(), websocket.CloseInternalServerErr)
		return
	}

	if err := c.WriteJSON(newFinalFrame(result)); err != nil {
		zap.S().Debugw("failed to write final frame, client likely gone", "boardId", rawBoardID, "error", err)
		return
	}
	c.WriteClose(websocket.CloseNormalClosure, "Calculation complete")
}

func closeWithError(c conn, message string, code int) {
	if err := c.WriteJSON(newErrorFrame(message)); err != nil {
		zap.S().Debugw("failed to write error frame", "error", err)
	}
	c.WriteClose(code, message)
}
