package user

import (
	"time"

	"fitzone/internal/auth"
)

type User struct {
	ID              int                 `db:"id" json:"id"`
	Name            string              `db:"name" json:"name"`
	Email           string              `db:"email" json:"email"`
	PasswordHash    string              `db:"password_hash" json:"-"`
	Role            auth.Role           `db:"role" json:"role" swaggertype:"string" example:"member"`
	Phone           *string             `db:"phone" json:"phone"`
	Address         *string             `db:"address" json:"address"`
	AvatarURL       *string             `db:"avatar_url" json:"avatar_url"`
	ApprovalStatus  auth.ApprovalStatus `db:"approval_status" json:"approval_status" swaggertype:"string" example:"approved"`
	RejectionReason *string             `db:"rejection_reason" json:"rejection_reason,omitempty"`
	ApprovedAt      *time.Time          `db:"approved_at" json:"approved_at,omitempty"`
	ApprovedBy      *int                `db:"approved_by" json:"approved_by,omitempty"`
	CreatedAt       time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time           `db:"updated_at" json:"updated_at"`

	MembershipPlan   *string    `db:"membership_plan" json:"membership_plan"`
	MembershipExpiry *time.Time `db:"membership_expiry" json:"membership_expiry"`
	MembershipStatus string     `db:"-" json:"membership_status"`
}

// Capabilities computed from the stored role and approval status.
func (u *User) Capabilities() auth.Capabilities {
	return auth.CapabilitiesFor(u.Role, u.ApprovalStatus)
}

func (u *User) deriveMembership(now time.Time) {
	switch {
	case u.MembershipPlan == nil || u.MembershipExpiry == nil:
		u.MembershipStatus = "None"
	case !dateOf(*u.MembershipExpiry).Before(dateOf(now)):
		u.MembershipStatus = "Active"
	default:
		u.MembershipStatus = "Expired"
	}
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type RegisterRequest struct {
	Name            string `json:"name" binding:"required,min=2,max=100" example:"Maya Putri"`
	Email           string `json:"email" binding:"required,email" example:"maya@example.com"`
	Password        string `json:"password" binding:"required,min=6" example:"secret123"`
	ConfirmPassword string `json:"confirm_password" binding:"omitempty,eqfield=Password" example:"secret123"`
	Role            string `json:"role" binding:"omitempty,oneof=member trainer" example:"member"`
	Phone           string `json:"phone" binding:"omitempty,max=30"`
	Address         string `json:"address" binding:"omitempty,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"maya@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type AuthResponse struct {
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token,omitempty"`
	User         *User             `json:"user"`
	Capabilities auth.Capabilities `json:"capabilities"`
}

type UpdateProfileRequest struct {
	Name    string  `json:"name" binding:"required,min=2,max=100"`
	Phone   *string `json:"phone" binding:"omitempty,max=30"`
	Address *string `json:"address" binding:"omitempty,max=255"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

type AdminUpdateRequest struct {
	Name    string  `json:"name" binding:"required,min=2,max=100"`
	Phone   *string `json:"phone" binding:"omitempty,max=30"`
	Address *string `json:"address" binding:"omitempty,max=255"`
	Role    string  `json:"role" binding:"required,oneof=member trainer admin"`
}
