// File: models/permission.go
package models

// Permission keys. The set is closed: anything else is rejected.
const (
	PermViewAnnouncements   = "view_announcements"
	PermCreateAnnouncements = "create_announcements"
	PermEditAnnouncements   = "edit_announcements"
	PermDeleteAnnouncements = "delete_announcements"
	PermViewEvents          = "view_events"
	PermCreateEvents        = "create_events"
	PermEditEvents          = "edit_events"
	PermDeleteEvents        = "delete_events"
	PermViewMembers         = "view_members"
	PermManageMembers       = "manage_members"
	PermEditMemberRoles     = "edit_member_roles"
	PermViewAttendance      = "view_attendance"
	PermTakeAttendance      = "take_attendance"
	PermEditAttendance      = "edit_attendance"
	PermModifyClubSettings  = "modify_club_settings"
	PermManageRoles         = "manage_roles"
	PermAccessChat          = "access_chat"
	PermCreateChatRooms     = "create_chat_rooms"
	PermManageChatRooms     = "manage_chat_rooms"
	PermViewAnalytics       = "view_analytics"
)

// PermissionKeys lists every key in display order.
var PermissionKeys = []string{
	PermViewAnnouncements,
	PermCreateAnnouncements,
	PermEditAnnouncements,
	PermDeleteAnnouncements,
	PermViewEvents,
	PermCreateEvents,
	PermEditEvents,
	PermDeleteEvents,
	PermViewMembers,
	PermManageMembers,
	PermEditMemberRoles,
	PermViewAttendance,
	PermTakeAttendance,
	PermEditAttendance,
	PermModifyClubSettings,
	PermManageRoles,
	PermAccessChat,
	PermCreateChatRooms,
	PermManageChatRooms,
	PermViewAnalytics,
}

var permissionSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(PermissionKeys))
	for _, k := range PermissionKeys {
		m[k] = struct{}{}
	}
	return m
}()

// IsPermissionKey reports whether key belongs to the closed enumeration.
func IsPermissionKey(key string) bool {
	_, ok := permissionSet[key]
	return ok
}

var vicePresidentGrants = []string{
	PermViewAnnouncements,
	PermCreateAnnouncements,
	PermEditAnnouncements,
	PermViewEvents,
	PermCreateEvents,
	PermEditEvents,
	PermViewMembers,
	PermManageMembers,
	PermViewAttendance,
	PermTakeAttendance,
	PermAccessChat,
}

var memberGrants = []string{
	PermViewAnnouncements,
	PermViewEvents,
	PermViewMembers,
	PermAccessChat,
}

// DefaultPermissions returns the full key matrix written for a system role
// when a club is approved. Unknown role names get every key set to false.
func DefaultPermissions(roleName string) map[string]bool {
	out := make(map[string]bool, len(PermissionKeys))
	for _, k := range PermissionKeys {
		out[k] = false
	}

	var grants []string
	switch roleName {
	case RolePresident:
		grants = PermissionKeys
	case RoleVicePresident:
		grants = vicePresidentGrants
	case RoleMember:
		grants = memberGrants
	}
	for _, k := range grants {
		out[k] = true
	}
	return out
}
