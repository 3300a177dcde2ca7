// Package httpapi wires the domain services into the Gin router.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"campusattend/internal/attendance"
	"campusattend/internal/auth"
	"campusattend/internal/config"
	"campusattend/internal/course"
	"campusattend/internal/dashboard"
	"campusattend/internal/door"
	"campusattend/internal/doorclient"
	"campusattend/internal/facedata"
	"campusattend/internal/httpmiddleware"
	"campusattend/internal/notification"
	"campusattend/internal/queue"
	"campusattend/internal/report"
	"campusattend/internal/room"
	"campusattend/internal/roomaccess"
	"campusattend/internal/session"
	"campusattend/internal/store"
	"campusattend/internal/system"
	"campusattend/internal/user"
)

// Server carries every collaborator the handlers need.
type Server struct {
	cfg config.App

	db       *store.DB
	redis    *store.Redis
	sessions session.Store
	jobs     queue.Queue

	users         *user.Service
	courses       *course.Service
	attendance    *attendance.Service
	reports       *report.Service
	dashboard     *dashboard.Service
	roomAccess    *roomaccess.Service
	rooms         *room.Service
	notifications *notification.Service
	doors         *door.Service
	face          *facedata.Service
	settings      *system.Service
	doorClient    *doorclient.Client
}

// Deps bundles the constructor arguments.
type Deps struct {
	Config   config.App
	DB       *store.DB
	Redis    *store.Redis
	Sessions session.Store
	Jobs     queue.Queue

	Users         *user.Service
	Courses       *course.Service
	Attendance    *attendance.Service
	Reports       *report.Service
	Dashboard     *dashboard.Service
	RoomAccess    *roomaccess.Service
	Rooms         *room.Service
	Notifications *notification.Service
	Doors         *door.Service
	Face          *facedata.Service
	Settings      *system.Service
	DoorClient    *doorclient.Client
}

// New creates the API server.
func New(d Deps) *Server {
	return &Server{
		cfg:           d.Config,
		db:            d.DB,
		redis:         d.Redis,
		sessions:      d.Sessions,
		jobs:          d.Jobs,
		users:         d.Users,
		courses:       d.Courses,
		attendance:    d.Attendance,
		reports:       d.Reports,
		dashboard:     d.Dashboard,
		roomAccess:    d.RoomAccess,
		rooms:         d.Rooms,
		notifications: d.Notifications,
		doors:         d.Doors,
		face:          d.Face,
		settings:      d.Settings,
		doorClient:    d.DoorClient,
	}
}

// Router builds the full route table.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(s.cors())
	r.Use(securityHeaders())
	r.Use(httpmiddleware.Metrics())
	r.Use(httpmiddleware.NewRateLimiter(s.cfg.RateLimitPerMin, s.cfg.RateLimitPerMin).GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", s.healthz)

	api := r.Group("/api")

	// auth
	api.POST("/auth/login", s.login)
	api.DELETE("/auth/logout", s.logout)

	authed := api.Group("", auth.RequireSession(s.sessions))
	authed.GET("/auth/me", s.me)

	// admin user management
	admin := authed.Group("/admin", auth.Require(auth.ActionManageUsers))
	admin.GET("/users", s.listUsers)
	admin.POST("/users", s.createUser)
	admin.PUT("/users/:id", s.updateUser)
	admin.DELETE("/users/:id", s.deleteUser)
	admin.PATCH("/users/:id/status", s.setUserStatus)
	admin.PATCH("/users/status/bulk", s.setUserStatusBulk)

	// attendance
	att := authed.Group("/attendance")
	att.GET("/history", auth.Require(auth.ActionViewHistory), s.history)
	att.GET("/courses", auth.Require(auth.ActionViewHistory), s.courseOptions)
	att.GET("/export", auth.Require(auth.ActionExportReports), s.export)
	att.POST("/sessions", auth.Require(auth.ActionManageSessions), s.createSession)
	att.PATCH("/sessions/:id/status", auth.Require(auth.ActionManageSessions), s.setSessionStatus)
	att.POST("/sessions/:id/records", auth.Require(auth.ActionMarkAttendance), s.markAttendance)

	// dashboard
	dash := authed.Group("/dashboard", auth.Require(auth.ActionViewDashboard))
	dash.GET("/statistics", s.dashboardStatistics)
	dash.GET("/activities", s.dashboardActivities)
	dash.GET("/alerts", s.dashboardAlerts)
	dash.GET("/system-status", s.dashboardSystemStatus)
	dash.GET("/attendance-chart", s.dashboardChart)

	// room access
	access := authed.Group("/room-access")
	access.GET("/classes", auth.Require(auth.ActionViewRoomAccess), s.roomClasses)
	access.GET("/classes/:id/detail", auth.Require(auth.ActionViewRoomAccess), s.roomClassDetail)
	access.GET("/door-status", auth.Require(auth.ActionViewRoomAccess), s.doorStatus)
	access.PATCH("/classes/:id/revoke", auth.Require(auth.ActionManageRoomAccess), s.revokeRoomAccess)
	access.PATCH("/classes/:id/grant", auth.Require(auth.ActionManageRoomAccess), s.grantRoomAccess)
	access.PUT("/classes/:id/schedule", auth.Require(auth.ActionManageRoomAccess), s.setClassSchedule)

	// room catalog
	rooms := authed.Group("/rooms")
	rooms.GET("", auth.Require(auth.ActionViewRoomAccess), s.listRooms)
	rooms.GET("/:id", auth.Require(auth.ActionViewRoomAccess), s.getRoom)
	rooms.POST("", auth.Require(auth.ActionManageRoomAccess), s.createRoom)
	rooms.PUT("/:id", auth.Require(auth.ActionManageRoomAccess), s.updateRoom)
	rooms.DELETE("/:id", auth.Require(auth.ActionManageRoomAccess), s.deleteRoom)

	// courses and enrollment
	crs := authed.Group("/courses", auth.Require(auth.ActionManageCourses))
	crs.GET("", s.listCourses)
	crs.POST("", s.createCourse)
	crs.PUT("/:id", s.updateCourse)
	crs.DELETE("/:id", s.deleteCourse)
	crs.GET("/:id/classes", s.listClasses)
	crs.POST("/classes", s.createClass)
	crs.PUT("/classes/:id", s.updateClass)
	crs.DELETE("/classes/:id", s.deleteClass)
	crs.GET("/classes/:id/enrollments", s.listEnrollments)
	crs.POST("/classes/:id/enrollments", s.enroll)
	crs.DELETE("/classes/:id/enrollments/:studentID", s.unenroll)

	// notifications
	notif := authed.Group("/notifications")
	notif.GET("", s.listNotifications)
	notif.PATCH("/:id/read", s.markNotificationRead)
	notif.PATCH("/read-all", s.markAllNotificationsRead)
	notif.DELETE("/:id", s.deleteNotification)

	// face data
	face := authed.Group("/face", auth.Require(auth.ActionViewDashboard))
	face.GET("/datasets", s.faceDatasets)
	face.GET("/logs", s.faceLogs)

	// system settings
	sys := authed.Group("/system", auth.Require(auth.ActionManageSystem))
	sys.GET("/settings", s.listSettings)
	sys.PUT("/settings", s.putSetting)

	// door controller device API, bearer JWT instead of session cookie
	api.POST("/door/register", s.registerDoorDevice)
	api.POST("/door/refresh", s.refreshDoorToken)
	deviceAPI := api.Group("/door", auth.DeviceAuth(s.cfg.JWTSigningKey, s.cfg.JWTIssuer))
	deviceAPI.POST("/events", s.recordDoorEvent)

	return r
}

func (s *Server) healthz(c *gin.Context) {
	ctx := c.Request.Context()
	dbHealthy := s.db.Healthy(ctx)
	redisHealthy := s.redis.Healthy(ctx)
	status := http.StatusOK
	if !dbHealthy || !redisHealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": "ok", "db": dbHealthy, "redis": redisHealthy})
}

// cors allows only the configured frontend origin; credentials ride on the
// session cookie.
func (s *Server) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == s.cfg.ClientOrigin {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
			c.Header("Access-Control-Max-Age", "86400")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
