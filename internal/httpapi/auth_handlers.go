package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusattend/internal/auth"
	"campusattend/internal/session"
)

func (s *Server) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	secure := s.cfg.Env == "production" || s.cfg.Env == "prod"
	c.SetCookie(session.CookieName, token, maxAge, "/", "", secure, true)
}

func (s *Server) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "email and password are required")
		return
	}

	u, err := s.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		failErr(c, err)
		return
	}

	token, err := s.sessions.Create(c.Request.Context(), session.Session{UserID: u.ID, Role: u.Role})
	if err != nil {
		failServer(c, err)
		return
	}
	s.setSessionCookie(c, token, int(s.cfg.SessionTTL.Seconds()))
	ok(c, http.StatusOK, gin.H{"user": u})
}

func (s *Server) logout(c *gin.Context) {
	if token, err := c.Cookie(session.CookieName); err == nil {
		_ = s.sessions.Destroy(c.Request.Context(), token)
	}
	s.setSessionCookie(c, "", -1)
	ok(c, http.StatusOK, gin.H{"message": "logged out"})
}

func (s *Server) me(c *gin.Context) {
	sess, _ := auth.CurrentSession(c)
	u, err := s.users.Get(c.Request.Context(), sess.UserID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"user": u})
}
