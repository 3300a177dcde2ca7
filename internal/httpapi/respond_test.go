package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusattend/internal/attendance"
	"campusattend/internal/course"
	"campusattend/internal/door"
	"campusattend/internal/notification"
	"campusattend/internal/room"
	"campusattend/internal/user"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{user.ErrNotFound, http.StatusNotFound},
		{course.ErrCourseNotFound, http.StatusNotFound},
		{course.ErrClassNotFound, http.StatusNotFound},
		{room.ErrNotFound, http.StatusNotFound},
		{notification.ErrNotFound, http.StatusNotFound},
		{user.ErrBadPassword, http.StatusUnauthorized},
		{door.ErrTokenInvalid, http.StatusUnauthorized},
		{user.ErrInactive, http.StatusForbidden},
		{door.ErrDeviceMismatch, http.StatusForbidden},
		{course.ErrClassFull, http.StatusBadRequest},
		{course.ErrAlreadyEnrolled, http.StatusBadRequest},
		{attendance.ErrSessionNotOngoing, http.StatusBadRequest},
		{room.ErrCodeTaken, http.StatusBadRequest},
		{fmt.Errorf("%w: class_id is required", attendance.ErrInvalid), http.StatusBadRequest},
		{fmt.Errorf("%w: slot 1 overlaps slot 2", course.ErrInvalid), http.StatusBadRequest},
		{fmt.Errorf("revoke: %w", course.ErrClassNotFound), http.StatusNotFound},
		// anything outside the domain taxonomy is an internal failure
		{errors.New("pq: connection refused"), http.StatusInternalServerError},
		{fmt.Errorf("query users: %w", errors.New("driver: bad connection")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}

// Database errors reaching failErr must surface as a generic 500, never as a
// 400 echoing the driver message.
func TestFailErrHidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	failErr(c, errors.New("pq: relation \"attendance_sessions\" does not exist"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "internal server error", body["message"])
}

func TestFailErrKeepsDomainMessages(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	failErr(c, course.ErrClassFull)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, course.ErrClassFull.Error(), body["message"])
}
