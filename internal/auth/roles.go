package auth

type Role string

const (
	RoleMember  Role = "member"
	RoleTrainer Role = "trainer"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleTrainer, RoleAdmin:
		return true
	}
	return false
}

// ApprovalStatus gates a trainer's access to class management.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether an admin may move a trainer from s to next.
// Re-approving a rejected trainer is allowed; revoking an approval is not.
func (s ApprovalStatus) CanTransitionTo(next ApprovalStatus) bool {
	switch s {
	case ApprovalPending:
		return next == ApprovalApproved || next == ApprovalRejected
	case ApprovalRejected:
		return next == ApprovalApproved
	case ApprovalApproved:
		return false
	}
	return false
}

// InitialApproval is the approval status a freshly registered user starts with.
func InitialApproval(role Role) ApprovalStatus {
	if role == RoleTrainer {
		return ApprovalPending
	}
	return ApprovalApproved
}

type Capability string

const (
	CapBookClasses     Capability = "book_classes"
	CapManageClasses   Capability = "manage_classes"
	CapMarkAttendance  Capability = "mark_attendance"
	CapApproveTrainers Capability = "approve_trainers"
	CapManageUsers     Capability = "manage_users"
	CapViewReports     Capability = "view_reports"
)

// Capabilities is computed once per request from role and approval status.
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

func (c Capabilities) Has(cap Capability) bool {
	switch cap {
	case CapBookClasses:
		return c.CanBookClasses
	case CapManageClasses:
		return c.CanManageClasses
	case CapMarkAttendance:
		return c.CanMarkAttendance
	case CapApproveTrainers:
		return c.CanApproveTrainers
	case CapManageUsers:
		return c.CanManageUsers
	case CapViewReports:
		return c.CanViewReports
	}
	return false
}
