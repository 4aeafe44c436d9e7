package server

import (
	"errors"
	"log"
	"net/http"

	"pears2pears/internal/game"

	"github.com/gin-gonic/gin"
)

// errorStatus maps domain error kinds to HTTP status codes. Role denials are
// checked first since they also match ErrIllegalState.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, game.ErrRoleDenied):
		return http.StatusForbidden
	case errors.Is(err, game.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrNotFound), errors.Is(err, errGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrIllegalState),
		errors.Is(err, game.ErrCapacityExceeded),
		errors.Is(err, game.ErrConflict),
		errors.Is(err, game.ErrResourceExhausted),
		errors.Is(err, errGameRunning):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := errorStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("request failed method=%s path=%s error=%v", c.Request.Method, c.FullPath(), err)
		message = "internal error"
		if errors.Is(err, errPersist) {
			message = errPersist.Error()
		}
	}
	c.JSON(status, gin.H{"error": message, "kind": errorKind(err)})
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, game.ErrRoleDenied):
		return "role_denied"
	case errors.Is(err, game.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, game.ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, game.ErrConflict), errors.Is(err, errGameRunning):
		return "conflict"
	case errors.Is(err, game.ErrNotFound), errors.Is(err, errGameNotFound):
		return "not_found"
	case errors.Is(err, game.ErrResourceExhausted):
		return "resource_exhausted"
	case errors.Is(err, game.ErrIllegalState):
		return "illegal_state"
	default:
		return "internal"
	}
}
