package handlers

import (
	"errors"
	"net/http"

	"moltbook/internal/services"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error": gin.H{"code": code, "message": message},
	})
}

// handleServiceError maps service sentinels onto HTTP statuses. Anything
// unrecognized is a 500 with a generic body; the real error goes to the
// log, not the client.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondError(c, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, services.ErrInvalidValue), errors.Is(err, services.ErrSelfFollow):
		respondError(c, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, services.ErrConflict):
		respondError(c, http.StatusConflict, "conflict", err.Error())
	default:
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "internal", "internal error")
	}
}
