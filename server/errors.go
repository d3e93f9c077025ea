package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soypat/miniature"
	"github.com/soypat/miniature/internal/monitoring"
	"github.com/soypat/miniature/preview"
)

// paramError marks errors caused by malformed request parameters.
type paramError struct{ err error }

func (e *paramError) Error() string { return "bad parameters: " + e.err.Error() }
func (e *paramError) Unwrap() error { return e.err }

func statusOf(err error) int {
	var perr *paramError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &perr):
		return http.StatusBadRequest
	case errors.Is(err, miniature.ErrDegenerateInput), errors.Is(err, preview.ErrNoMesh):
		return http.StatusUnprocessableEntity
	case errors.Is(err, miniature.ErrCapabilityInit):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func abort(c *gin.Context, err error) {
	code := statusOf(err)
	if code >= http.StatusInternalServerError {
		monitoring.Logf("server: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(code, gin.H{"error": err.Error()})
}
