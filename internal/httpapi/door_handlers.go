package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campusattend/internal/auth"
	"campusattend/internal/door"
)

func tokenResponse(pair auth.TokenPair) gin.H {
	return gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_at":    pair.AccessExp.Unix(),
	}
}

func (s *Server) registerDoorDevice(c *gin.Context) {
	var req struct {
		DeviceID string `json:"device_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "device_id is required")
		return
	}
	pair, err := s.doors.Register(c.Request.Context(), req.DeviceID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, tokenResponse(pair))
}

func (s *Server) refreshDoorToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "refresh_token is required")
		return
	}
	pair, err := s.doors.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, tokenResponse(pair))
}

func (s *Server) recordDoorEvent(c *gin.Context) {
	var req struct {
		DeviceID   string     `json:"device_id" binding:"required"`
		RoomID     string     `json:"room_id"`
		UserID     string     `json:"user_id"`
		EventType  string     `json:"event_type" binding:"required"`
		OccurredAt *time.Time `json:"occurred_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "device_id and event_type are required")
		return
	}

	claims, _ := auth.DeviceClaims(c)
	event := door.Event{
		DeviceID:  req.DeviceID,
		RoomID:    req.RoomID,
		UserID:    req.UserID,
		EventType: req.EventType,
	}
	if req.OccurredAt != nil {
		event.OccurredAt = *req.OccurredAt
	}

	if err := s.doors.RecordEvent(c.Request.Context(), claims.Subject, event); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"message": "event recorded"})
}
