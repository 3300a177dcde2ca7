package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) listSettings(c *gin.Context) {
	settings, err := s.settings.List(c.Request.Context())
	if err != nil {
		failServer(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"settings": settings})
}

func (s *Server) putSetting(c *gin.Context) {
	var req struct {
		Key   string `json:"key" binding:"required"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "key is required")
		return
	}
	if err := s.settings.Set(c.Request.Context(), req.Key, req.Value); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "setting saved"})
}
