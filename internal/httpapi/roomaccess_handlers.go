package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusattend/internal/course"
)

func (s *Server) roomClasses(c *gin.Context) {
	overview, err := s.roomAccess.List(c.Request.Context(), c.DefaultQuery("filter", "all"), c.Query("search"))
	if err != nil {
		failServer(c, err)
		return
	}
	ok(c, http.StatusOK, overview)
}

func (s *Server) roomClassDetail(c *gin.Context) {
	detail, err := s.roomAccess.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, detail)
}

func (s *Server) revokeRoomAccess(c *gin.Context) {
	result, err := s.roomAccess.Revoke(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, result)
}

func (s *Server) grantRoomAccess(c *gin.Context) {
	if err := s.roomAccess.Grant(c.Request.Context(), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "room access granted"})
}

func (s *Server) setClassSchedule(c *gin.Context) {
	var req struct {
		Schedule []course.Slot `json:"schedule" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "schedule is required")
		return
	}
	if err := s.roomAccess.SetSchedule(c.Request.Context(), c.Param("id"), req.Schedule); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "schedule updated"})
}

func (s *Server) doorStatus(c *gin.Context) {
	status, err := s.doorClient.Status(c.Request.Context())
	if err != nil {
		ok(c, http.StatusOK, gin.H{"online": false, "error": err.Error()})
		return
	}
	ok(c, http.StatusOK, status)
}
