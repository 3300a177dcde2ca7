package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"campusattend/internal/user"
)

func intQuery(c *gin.Context, name string, fallback int) int {
	if v := c.Query(name); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func (s *Server) listUsers(c *gin.Context) {
	page, err := s.users.List(c.Request.Context(), user.ListFilter{
		Page:      intQuery(c, "page", 1),
		Limit:     intQuery(c, "limit", 10),
		Search:    c.Query("search"),
		Role:      c.Query("role"),
		Status:    c.Query("status"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	})
	if err != nil {
		failServer(c, err)
		return
	}
	ok(c, http.StatusOK, page)
}

type userPayload struct {
	Fullname  string  `json:"fullname"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Role      string  `json:"role"`
	Gender    *string `json:"gender"`
	StudentID *string `json:"student_id"`
	Status    string  `json:"status"`
}

func (s *Server) createUser(c *gin.Context) {
	var req userPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := s.users.Create(c.Request.Context(), user.User{
		Fullname:  req.Fullname,
		Email:     req.Email,
		Role:      req.Role,
		Gender:    req.Gender,
		StudentID: req.StudentID,
		Status:    req.Status,
	}, req.Password)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"user": created})
}

func (s *Server) updateUser(c *gin.Context) {
	var req userPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	err := s.users.Update(c.Request.Context(), user.User{
		ID:        c.Param("id"),
		Fullname:  req.Fullname,
		Email:     req.Email,
		Role:      req.Role,
		Gender:    req.Gender,
		StudentID: req.StudentID,
		Status:    req.Status,
	}, req.Password)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "user updated"})
}

func (s *Server) deleteUser(c *gin.Context) {
	if err := s.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "user deleted"})
}

func (s *Server) setUserStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "status is required")
		return
	}
	if err := s.users.SetStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "status updated"})
}

func (s *Server) setUserStatusBulk(c *gin.Context) {
	var req struct {
		IDs    []string `json:"ids" binding:"required"`
		Status string   `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "ids and status are required")
		return
	}
	updated, err := s.users.SetStatusBulk(c.Request.Context(), req.IDs, req.Status)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"updated": updated})
}
