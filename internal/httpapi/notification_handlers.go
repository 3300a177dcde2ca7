package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusattend/internal/auth"
)

func (s *Server) listNotifications(c *gin.Context) {
	sess, _ := auth.CurrentSession(c)
	page, err := s.notifications.List(c.Request.Context(), sess.UserID,
		c.Query("unread") == "true", intQuery(c, "page", 1), intQuery(c, "limit", 20))
	if err != nil {
		failServer(c, err)
		return
	}
	ok(c, http.StatusOK, page)
}

func (s *Server) markNotificationRead(c *gin.Context) {
	sess, _ := auth.CurrentSession(c)
	if err := s.notifications.MarkRead(c.Request.Context(), sess.UserID, c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "notification read"})
}

func (s *Server) markAllNotificationsRead(c *gin.Context) {
	sess, _ := auth.CurrentSession(c)
	if err := s.notifications.MarkAllRead(c.Request.Context(), sess.UserID); err != nil {
		failServer(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "all notifications read"})
}

func (s *Server) deleteNotification(c *gin.Context) {
	sess, _ := auth.CurrentSession(c)
	if err := s.notifications.Delete(c.Request.Context(), sess.UserID, c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "notification deleted"})
}
