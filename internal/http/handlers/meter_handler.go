// README: Meter handlers: trip commands, rendered state, and the SSE state stream.
package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taximeter/internal/modules/trip"
)

type MeterHandler struct {
	trips *trip.Controller
}

func NewMeterHandler(trips *trip.Controller) *MeterHandler {
	return &MeterHandler{trips: trips}
}

// State returns everything the page renders: meter state, phase, source
// status, selection, last position and address, and the pending summary.
func (h *MeterHandler) State(c *gin.Context) {
	writeJSON(c, http.StatusOK, h.trips.Snapshot())
}

// Stream pushes the snapshot once a second over SSE so the page can render
// the live meter without polling.
func (h *MeterHandler) Stream(c *gin.Context) {
	c.Header("Cache-Control", "no-cache")
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	c.SSEvent("state", h.trips.Snapshot())
	c.Writer.Flush()
	c.Stream(func(io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case <-ticker.C:
			c.SSEvent("state", h.trips.Snapshot())
			return true
		}
	})
}

func (h *MeterHandler) TripTypes(c *gin.Context) {
	writeJSON(c, http.StatusOK, h.trips.Catalog())
}

func (h *MeterHandler) Start(c *gin.Context) {
	if err := h.trips.Start(c.Request.Context()); err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, h.trips.Snapshot())
}

func (h *MeterHandler) Pause(c *gin.Context) {
	if err := h.trips.Pause(); err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, h.trips.Snapshot())
}

func (h *MeterHandler) Resume(c *gin.Context) {
	if err := h.trips.Resume(); err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, h.trips.Snapshot())
}

func (h *MeterHandler) Stop(c *gin.Context) {
	summary, err := h.trips.Stop()
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, summary)
}

type selectRequest struct {
	ID string `json:"id" binding:"required"`
}

func (h *MeterHandler) SelectTripType(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "missing trip type id")
		return
	}
	if err := h.trips.SelectTripType(req.ID); err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, h.trips.Snapshot())
}

func (h *MeterHandler) SelectSubTrip(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "missing sub-destination id")
		return
	}
	if err := h.trips.SelectSubTrip(req.ID); err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, h.trips.Snapshot())
}

func (h *MeterHandler) ToggleSimulation(c *gin.Context) {
	simulated, err := h.trips.ToggleSimulation()
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"simulated": simulated})
}

func (h *MeterHandler) DismissSummary(c *gin.Context) {
	h.trips.DismissSummary()
	writeJSON(c, http.StatusOK, gin.H{"status": "ok"})
}
