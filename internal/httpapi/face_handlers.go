package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) faceDatasets(c *gin.Context) {
	entries, err := s.face.Datasets(c.Request.Context())
	if err != nil {
		failServer(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"datasets": entries})
}

func (s *Server) faceLogs(c *gin.Context) {
	page, err := s.face.Logs(c.Request.Context(), intQuery(c, "page", 1), intQuery(c, "limit", 20))
	if err != nil {
		failServer(c, err)
		return
	}
	ok(c, http.StatusOK, page)
}
