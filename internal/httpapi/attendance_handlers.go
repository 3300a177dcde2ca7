package httpapi

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campusattend/internal/attendance"
	"campusattend/internal/auth"
	"campusattend/internal/facedata"
	"campusattend/internal/queue"
	"campusattend/internal/report"
)

func historyFilterFromQuery(c *gin.Context) attendance.HistoryFilter {
	return attendance.HistoryFilter{
		Page:      intQuery(c, "page", 1),
		Limit:     intQuery(c, "limit", 10),
		ClassID:   c.Query("course"),
		Status:    c.Query("status"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Search:    c.Query("search"),
	}
}

func (s *Server) history(c *gin.Context) {
	page, err := s.attendance.History(c.Request.Context(), historyFilterFromQuery(c))
	if err != nil {
		failServer(c, err)
		return
	}
	ok(c, http.StatusOK, page)
}

func (s *Server) courseOptions(c *gin.Context) {
	options, err := s.attendance.CourseOptions(c.Request.Context())
	if err != nil {
		failServer(c, err)
		return
	}
	if options == nil {
		options = []attendance.CourseOption{}
	}
	ok(c, http.StatusOK, gin.H{"courses": options})
}

// export streams a fully generated document; nothing is written to the
// response until generation succeeds.
func (s *Server) export(c *gin.Context) {
	format := report.Format(c.DefaultQuery("format", "excel"))
	filter := historyFilterFromQuery(c)

	doc, err := s.reports.Build(c.Request.Context(), filter, format)
	if err != nil {
		if format != report.FormatExcel && format != report.FormatPDF {
			fail(c, http.StatusBadRequest, "format must be excel or pdf")
			return
		}
		failServer(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}

func (s *Server) createSession(c *gin.Context) {
	var req struct {
		ClassID       string `json:"class_id" binding:"required"`
		SessionNumber int    `json:"session_number"`
		SessionDate   string `json:"session_date" binding:"required"`
		StartTime     string `json:"start_time" binding:"required"`
		EndTime       string `json:"end_time" binding:"required"`
		Topic         string `json:"topic"`
		Method        string `json:"attendance_method"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "class_id, session_date, start_time and end_time are required")
		return
	}

	created, err := s.attendance.CreateSession(c.Request.Context(), attendance.Session{
		ClassID:       req.ClassID,
		SessionNumber: req.SessionNumber,
		SessionDate:   req.SessionDate,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Topic:         req.Topic,
		Method:        req.Method,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"session": created})
}

func (s *Server) setSessionStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "status is required")
		return
	}
	if err := s.attendance.SetStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "session status updated"})
}

func (s *Server) markAttendance(c *gin.Context) {
	var req struct {
		StudentID   string     `json:"student_id" binding:"required"`
		Status      string     `json:"status" binding:"required"`
		Notes       string     `json:"notes"`
		ImageURL    string     `json:"image_url"`
		CheckInTime *time.Time `json:"check_in_time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "student_id and status are required")
		return
	}

	rec := attendance.Record{
		SessionID: c.Param("id"),
		StudentID: req.StudentID,
		Status:    req.Status,
		Notes:     req.Notes,
		ImageURL:  req.ImageURL,
	}
	if req.CheckInTime != nil {
		rec.CheckInTime = *req.CheckInTime
	}
	if sess, found := auth.CurrentSession(c); found {
		verifier := sess.UserID
		rec.VerifiedBy = &verifier
	}

	created, err := s.attendance.Mark(c.Request.Context(), rec)
	if err != nil {
		failErr(c, err)
		return
	}

	// face verification runs asynchronously; a queue hiccup must not undo
	// the recorded attendance
	if req.ImageURL != "" {
		msg, err := queue.NewMessage(queue.TypeFaceVerify, facedata.VerifyJob{
			AttendanceID: created.ID,
			StudentID:    req.StudentID,
			ImageURL:     req.ImageURL,
		})
		if err == nil {
			err = s.jobs.Publish(c.Request.Context(), msg)
		}
		if err != nil {
			log.Printf("face verification enqueue failed: %v", err)
		}
	}

	ok(c, http.StatusCreated, gin.H{"record": created})
}
