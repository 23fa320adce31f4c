package client

// Capabilities is what the UI may offer the current user. It is computed
// once per session from role and trainer approval; the server re-checks
// every request, so a stale value can only hide actions, never grant them.
type Capabilities struct {
	CanBookClasses     bool `json:"can_book_classes"`
	CanManageClasses   bool `json:"can_manage_classes"`
	CanMarkAttendance  bool `json:"can_mark_attendance"`
	CanApproveTrainers bool `json:"can_approve_trainers"`
	CanManageUsers     bool `json:"can_manage_users"`
	CanViewReports     bool `json:"can_view_reports"`
}

func CapabilitiesFor(role Role, approval ApprovalStatus) Capabilities {
	switch role {
	case RoleMember:
		return Capabilities{CanBookClasses: true}
	case RoleTrainer:
		approved := approval == ApprovalApproved
		return Capabilities{CanManageClasses: approved, CanMarkAttendance: approved}
	case RoleAdmin:
		return Capabilities{
			CanManageClasses:   true,
			CanMarkAttendance:  true,
			CanApproveTrainers: true,
			CanManageUsers:     true,
			CanViewReports:     true,
		}
	}
	return Capabilities{}
}
