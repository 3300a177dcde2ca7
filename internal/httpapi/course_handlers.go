package httpapi

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"campusattend/internal/course"
	"campusattend/internal/notification"
	"campusattend/internal/queue"
)

func (s *Server) listCourses(c *gin.Context) {
	courses, total, err := s.courses.ListCourses(c.Request.Context(),
		intQuery(c, "page", 1), intQuery(c, "limit", 10), c.Query("search"))
	if err != nil {
		failServer(c, err)
		return
	}
	if courses == nil {
		courses = []course.Course{}
	}
	ok(c, http.StatusOK, gin.H{"courses": courses, "total": total})
}

func (s *Server) createCourse(c *gin.Context) {
	var req course.Course
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := s.courses.CreateCourse(c.Request.Context(), req)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"course": created})
}

func (s *Server) updateCourse(c *gin.Context) {
	var req course.Course
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ID = c.Param("id")
	if err := s.courses.UpdateCourse(c.Request.Context(), req); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "course updated"})
}

func (s *Server) deleteCourse(c *gin.Context) {
	if err := s.courses.DeleteCourse(c.Request.Context(), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "course deleted"})
}

func (s *Server) listClasses(c *gin.Context) {
	classes, err := s.courses.ListClasses(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	if classes == nil {
		classes = []course.Class{}
	}
	ok(c, http.StatusOK, gin.H{"classes": classes})
}

func (s *Server) createClass(c *gin.Context) {
	var req course.Class
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := s.courses.CreateClass(c.Request.Context(), req)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"class": created})
}

func (s *Server) updateClass(c *gin.Context) {
	var req course.Class
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ID = c.Param("id")
	if err := s.courses.UpdateClass(c.Request.Context(), req); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "class updated"})
}

func (s *Server) deleteClass(c *gin.Context) {
	if err := s.courses.DeleteClass(c.Request.Context(), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "class deleted"})
}

func (s *Server) listEnrollments(c *gin.Context) {
	enrollments, total, err := s.courses.ListEnrollments(c.Request.Context(), c.Param("id"),
		intQuery(c, "page", 1), intQuery(c, "limit", 50), c.Query("status"))
	if err != nil {
		failErr(c, err)
		return
	}
	if enrollments == nil {
		enrollments = []course.Enrollment{}
	}
	ok(c, http.StatusOK, gin.H{"enrollments": enrollments, "total": total})
}

func (s *Server) enroll(c *gin.Context) {
	var req struct {
		StudentID string `json:"student_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "student_id is required")
		return
	}

	enrollment, err := s.courses.Enroll(c.Request.Context(), c.Param("id"), req.StudentID)
	if err != nil {
		failErr(c, err)
		return
	}

	msg, merr := queue.NewMessage(queue.TypeNotify, notification.Notification{
		UserID:  req.StudentID,
		Type:    "enrollment",
		Title:   "Enrollment confirmed",
		Message: "You have been enrolled in a new class.",
	})
	if merr == nil {
		merr = s.jobs.Publish(c.Request.Context(), msg)
	}
	if merr != nil {
		log.Printf("enrollment notification enqueue failed: %v", merr)
	}

	ok(c, http.StatusCreated, gin.H{"enrollment": enrollment})
}

func (s *Server) unenroll(c *gin.Context) {
	err := s.courses.Unenroll(c.Request.Context(), c.Param("id"), c.Param("studentID"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "student unenrolled"})
}
