package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) dashboardStatistics(c *gin.Context) {
	stats, err := s.dashboard.Statistics(c.Request.Context())
	if err != nil {
		failServer(c, err)
		return
	}
	ok(c, http.StatusOK, stats)
}

func (s *Server) dashboardActivities(c *gin.Context) {
	activities, err := s.dashboard.Activities(c.Request.Context())
	if err != nil {
		failServer(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"activities": activities})
}

func (s *Server) dashboardAlerts(c *gin.Context) {
	alerts, err := s.dashboard.Alerts(c.Request.Context())
	if err != nil {
		failServer(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"alerts": alerts})
}

func (s *Server) dashboardSystemStatus(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{"components": s.dashboard.SystemStatus(c.Request.Context())})
}

func (s *Server) dashboardChart(c *gin.Context) {
	points, err := s.dashboard.Chart(c.Request.Context())
	if err != nil {
		failServer(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"chart": points})
}
