// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taximeter/internal/modules/trip"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeTripError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, trip.ErrUnknownTripType), errors.Is(err, trip.ErrUnknownSubTrip):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, trip.ErrTripInProgress), errors.Is(err, trip.ErrInvalidState):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, trip.ErrLocationDenied), errors.Is(err, trip.ErrLocationUnavailable):
		writeError(c, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
