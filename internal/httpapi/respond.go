package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"campusattend/internal/attendance"
	"campusattend/internal/course"
	"campusattend/internal/door"
	"campusattend/internal/notification"
	"campusattend/internal/room"
	"campusattend/internal/system"
	"campusattend/internal/user"
)

// ok writes the success envelope.
func ok(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// fail writes the failure envelope.
func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// statusFor maps domain errors onto HTTP statuses. Only recognized domain
// errors reach the client as 4xx; anything else is an internal failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, user.ErrNotFound),
		errors.Is(err, course.ErrCourseNotFound),
		errors.Is(err, course.ErrClassNotFound),
		errors.Is(err, attendance.ErrSessionNotFound),
		errors.Is(err, room.ErrNotFound),
		errors.Is(err, notification.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, user.ErrBadPassword),
		errors.Is(err, door.ErrTokenInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, user.ErrInactive),
		errors.Is(err, door.ErrDeviceMismatch):
		return http.StatusForbidden
	case errors.Is(err, user.ErrInvalid),
		errors.Is(err, user.ErrEmailTaken),
		errors.Is(err, course.ErrInvalid),
		errors.Is(err, course.ErrCodeTaken),
		errors.Is(err, course.ErrAlreadyEnrolled),
		errors.Is(err, course.ErrClassFull),
		errors.Is(err, course.ErrNotEnrolled),
		errors.Is(err, attendance.ErrInvalid),
		errors.Is(err, attendance.ErrSessionNotOngoing),
		errors.Is(err, attendance.ErrBadTransition),
		errors.Is(err, attendance.ErrAlreadyMarked),
		errors.Is(err, attendance.ErrNotEnrolled),
		errors.Is(err, room.ErrInvalid),
		errors.Is(err, room.ErrCodeTaken),
		errors.Is(err, door.ErrBadDeviceID),
		errors.Is(err, door.ErrBadEvent),
		errors.Is(err, system.ErrBadKey):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// failErr maps a domain error to its status and message. Errors outside the
// domain taxonomy never leak their text to the client.
func failErr(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		failServer(c, err)
		return
	}
	fail(c, status, err.Error())
}

// failServer hides internal errors behind a generic 500.
func failServer(c *gin.Context, err error) {
	_ = c.Error(err)
	fail(c, http.StatusInternalServerError, "internal server error")
}
