package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusattend/internal/room"
)

func (s *Server) listRooms(c *gin.Context) {
	page, err := s.rooms.List(c.Request.Context(),
		intQuery(c, "page", 1), intQuery(c, "limit", 10), c.Query("search"))
	if err != nil {
		failServer(c, err)
		return
	}
	ok(c, http.StatusOK, page)
}

func (s *Server) getRoom(c *gin.Context) {
	detail, err := s.rooms.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, detail)
}

type roomPayload struct {
	RoomCode string `json:"room_code"`
	RoomName string `json:"room_name"`
	Capacity int    `json:"capacity"`
	Status   string `json:"status"`
}

func (s *Server) createRoom(c *gin.Context) {
	var req roomPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := s.rooms.Create(c.Request.Context(), room.Room{
		RoomCode: req.RoomCode,
		RoomName: req.RoomName,
		Capacity: req.Capacity,
		Status:   req.Status,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, created)
}

func (s *Server) updateRoom(c *gin.Context) {
	var req roomPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	err := s.rooms.Update(c.Request.Context(), room.Room{
		ID:       c.Param("id"),
		RoomCode: req.RoomCode,
		RoomName: req.RoomName,
		Capacity: req.Capacity,
		Status:   req.Status,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "room updated"})
}

func (s *Server) deleteRoom(c *gin.Context) {
	if err := s.rooms.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "room deleted"})
}
