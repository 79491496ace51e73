// README: Position handler: the device pushes its geolocation fixes here.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taximeter/internal/modules/position"
	"taximeter/internal/types"
)

type PositionHandler struct {
	device *position.DeviceSource
}

func NewPositionHandler(device *position.DeviceSource) *PositionHandler {
	return &PositionHandler{device: device}
}

// Lat/Lng are pointers so a legitimate zero coordinate still passes the
// required check.
type pushRequest struct {
	Lat         *float64 `json:"lat" binding:"required"`
	Lng         *float64 `json:"lng" binding:"required"`
	AccuracyM   float64  `json:"accuracy_m"`
	TimestampMs int64    `json:"timestamp_ms"`
}

// Push feeds one device fix into the live source. A missing timestamp
// means "now".
func (h *PositionHandler) Push(c *gin.Context) {
	var req pushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid position payload")
		return
	}
	ts := time.Now()
	if req.TimestampMs > 0 {
		ts = time.UnixMilli(req.TimestampMs)
	}
	h.device.Push(position.Fix{
		Point:     types.Point{Lat: *req.Lat, Lng: *req.Lng},
		AccuracyM: req.AccuracyM,
		Time:      ts,
	})
	writeJSON(c, http.StatusAccepted, gin.H{"status": "ok"})
}
