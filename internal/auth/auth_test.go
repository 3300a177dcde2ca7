package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllow(t *testing.T) {
	tests := []struct {
		role   string
		action Action
		want   bool
	}{
		{RoleSuperAdmin, ActionManageUsers, true},
		{RoleLecturer, ActionManageUsers, false},
		{RoleStudent, ActionManageUsers, false},
		{RoleLecturer, ActionManageSessions, true},
		{RoleLecturer, ActionManageRoomAccess, false},
		{RoleSuperAdmin, ActionManageRoomAccess, true},
		{RoleStudent, ActionViewDashboard, true},
		{RoleStudent, ActionExportReports, false},
		{"", ActionViewDashboard, false},
		{RoleSuperAdmin, Action("nonexistent"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Allow(tt.role, tt.action), "role=%s action=%s", tt.role, tt.action)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pw")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pw", hash)
	assert.True(t, CheckPassword(hash, "s3cret-pw"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "s3cret-pw"))
}

func TestIssueAndParse(t *testing.T) {
	pair, err := Issue("door-42", "device", "test-issuer", "test-key", time.Minute, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := Parse(pair.AccessToken, "test-key", "test-issuer")
	require.NoError(t, err)
	assert.Equal(t, "door-42", claims.Subject)
	assert.Equal(t, "device", claims.Kind)

	_, err = Parse(pair.AccessToken, "other-key", "test-issuer")
	assert.Error(t, err)

	_, err = Parse(pair.AccessToken, "test-key", "someone-else")
	assert.Error(t, err)
}

func TestParseExpired(t *testing.T) {
	pair, err := Issue("door-42", "device", "test-issuer", "test-key", -time.Minute, time.Hour)
	require.NoError(t, err)
	_, err = Parse(pair.AccessToken, "test-key", "test-issuer")
	assert.Error(t, err)
}
