package auth

// Role values stored on user rows and session payloads.
const (
	RoleSuperAdmin = "super-admin"
	RoleLecturer   = "lecturer"
	RoleStudent    = "student"
)

// Action names every authorization-gated operation.
type Action string

const (
	ActionManageUsers      Action = "users:manage"
	ActionManageCourses    Action = "courses:manage"
	ActionManageClasses    Action = "classes:manage"
	ActionManageEnrollment Action = "enrollments:manage"
	ActionManageRoomAccess Action = "room-access:manage"
	ActionViewRoomAccess   Action = "room-access:view"
	ActionViewHistory      Action = "attendance:history"
	ActionManageSessions   Action = "sessions:manage"
	ActionMarkAttendance   Action = "attendance:mark"
	ActionExportReports    Action = "reports:export"
	ActionViewDashboard    Action = "dashboard:view"
	ActionManageSystem     Action = "system:manage"
)

// policy maps each action to the roles permitted to perform it.
var policy = map[Action][]string{
	ActionManageUsers:      {RoleSuperAdmin},
	ActionManageCourses:    {RoleSuperAdmin},
	ActionManageClasses:    {RoleSuperAdmin, RoleLecturer},
	ActionManageEnrollment: {RoleSuperAdmin, RoleLecturer},
	ActionManageRoomAccess: {RoleSuperAdmin},
	ActionViewRoomAccess:   {RoleSuperAdmin, RoleLecturer},
	ActionViewHistory:      {RoleSuperAdmin, RoleLecturer},
	ActionManageSessions:   {RoleSuperAdmin, RoleLecturer},
	ActionMarkAttendance:   {RoleSuperAdmin, RoleLecturer},
	ActionExportReports:    {RoleSuperAdmin, RoleLecturer},
	ActionViewDashboard:    {RoleSuperAdmin, RoleLecturer, RoleStudent},
	ActionManageSystem:     {RoleSuperAdmin},
}

// Allow reports whether role may perform action. Unknown actions deny.
func Allow(role string, action Action) bool {
	for _, allowed := range policy[action] {
		if allowed == role {
			return true
		}
	}
	return false
}
