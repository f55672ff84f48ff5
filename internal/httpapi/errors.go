// Package httpapi implements the HTTP surface of spec.md §6: request
// parsing and the gin.H envelopes for /boards and its subroutes, following
// the response-envelope and error-handling conventions of the teacher's
// cmd/factoryinsight/helpers/request-helper.go.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lifegrid/lifegrid/pkg/lifegrid"
)

// respondError writes the `{success:false, error:<message>}` envelope of
// spec.md §6, choosing the HTTP status from the error's classified kind.
func respondError(c *gin.Context, err error) {
	kind := lifegrid.Classify(err)
	status := http.StatusInternalServerError
	switch kind {
	case lifegrid.InvalidInput:
		status = http.StatusBadRequest
	case lifegrid.NotFound:
		status = http.StatusNotFound
	case lifegrid.BackendUnavailable, lifegrid.CacheUnavailable, lifegrid.ComputeError, lifegrid.Unknown:
		status = http.StatusInternalServerError
	}

	if status == http.StatusInternalServerError {
		zap.S().Errorw("request failed", "kind", kind.String(), "error", err)
	} else {
		zap.S().Infow("request rejected", "kind", kind.String(), "error", err)
	}

	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

func respondData(c *gin.Context, status int, data gin.H) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}
