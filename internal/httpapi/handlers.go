package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lifegrid/lifegrid/pkg/lifegrid"
	"github.com/lifegrid/lifegrid/pkg/repository"
)

// BoardService is the slice of *repository.BoardRepository the HTTP surface
// needs, narrowed to an interface so handlers can be tested against a fake.
type BoardService interface {
	CreateBoard(ctx context.Context, denseMatrix [][]int) (string, error)
	GetBoardByID(ctx context.Context, boardID string) (repository.BoardRecord, error)
	GetNextGeneration(ctx context.Context, boardID string) ([][]int, error)
	GetStateAtGeneration(ctx context.Context, boardID string, generation int) ([][]int, error)
	ListRecent(ctx context.Context, limit int) ([]repository.BoardSummary, error)
}

// createBoardRequest is the body of POST /boards.
type createBoardRequest struct {
	Board [][]int `json:"board"`
}

// finalRequest is the body of POST /boards/{id}/final.
type finalRequest struct {
	MaxAttempts int `json:"maxAttempts"`
}

// Register mounts the HTTP surface of spec.md §6 onto router, plus the
// ListRecent supplemental route from SPEC_FULL.md §3. websocketBaseURL is
// prefixed to the /ws path returned by the final-state endpoint.
func Register(router gin.IRouter, service BoardService, websocketBaseURL string) {
	router.POST("/boards", createBoard(service))
	router.GET("/boards/:id/next", getNextGeneration(service))
	router.GET("/boards/:id/state/:generation", getStateAtGeneration(service))
	router.POST("/boards/:id/final", requestFinal(service, websocketBaseURL))
	router.GET("/boards", listRecent(service))
}

func createBoard(service BoardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createBoardRequest
		if err := c.ShouldBindJSON(&req); err != nil || len(req.Board) == 0 {
			respondError(c, lifegrid.NewError(lifegrid.InvalidInput, "board must be a non-empty rectangular matrix", err))
			return
		}

		id, err := service.CreateBoard(c.Request.Context(), req.Board)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusCreated, gin.H{"boardId": id})
	}
}

func getNextGeneration(service BoardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		state, err := service.GetNextGeneration(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, gin.H{"state": state})
	}
}

func getStateAtGeneration(service BoardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		generation, err := strconv.Atoi(c.Param("generation"))
		if err != nil || generation < 1 {
			respondError(c, lifegrid.NewError(lifegrid.InvalidInput, "generation must be an integer >= 1", err))
			return
		}

		state, err := service.GetStateAtGeneration(c.Request.Context(), c.Param("id"), generation)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, gin.H{"state": state, "generation": generation})
	}
}

func requestFinal(service BoardService, websocketBaseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req finalRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.MaxAttempts <= 0 {
			respondError(c, lifegrid.NewError(lifegrid.InvalidInput, "maxAttempts must be a positive integer", err))
			return
		}

		boardID := c.Param("id")
		if _, err := service.GetBoardByID(c.Request.Context(), boardID); err != nil {
			respondError(c, err)
			return
		}

		wsURL := fmt.Sprintf("%s/ws?boardId=%s&maxAttempts=%d", websocketBaseURL, boardID, req.MaxAttempts)
		respondData(c, http.StatusAccepted, gin.H{
			"message":      "Final state calculation initiated",
			"websocketUrl": wsURL,
		})
	}
}

func listRecent(service BoardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 20
		if raw := c.Query("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil {
				limit = n
			}
		}

		summaries, err := service.ListRecent(c.Request.Context(), limit)
		if err != nil {
			respondError(c, err)
			return
		}
		respondData(c, http.StatusOK, gin.H{"boards": summaries})
	}
}
