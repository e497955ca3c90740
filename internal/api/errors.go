package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/blockandplay/explorer/internal/explorer"
	"github.com/blockandplay/explorer/pkg/model"
)

// respondError maps domain errors onto the error envelope and aborts.
func respondError(c *gin.Context, logger zerolog.Logger, err error) {
	status, body := classify(err)

	if status == http.StatusInternalServerError {
		logger.Error().
			Err(err).
			Str("request_id", c.GetString(requestIDKey)).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

func classify(err error) (int, model.ErrorResponse) {
	switch {
	case errors.Is(err, explorer.ErrInvalidParameter):
		return http.StatusBadRequest, model.ErrorResponse{Error: err.Error(), Code: model.CodeInvalidParameter}
	case errors.Is(err, explorer.ErrNotFound):
		return http.StatusNotFound, model.ErrorResponse{Error: err.Error(), Code: model.CodeNotFound}
	default:
		return http.StatusInternalServerError, model.ErrorResponse{Error: "internal server error", Code: model.CodeInternal}
	}
}
