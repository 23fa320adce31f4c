package trainer

import (
	"errors"
	"time"

	"fitzone/internal/auth"
)

var (
	ErrTrainerNotFound   = errors.New("trainer not found")
	ErrInvalidTransition = errors.New("trainer approval cannot change this way")
	ErrReasonRequired    = errors.New("rejection reason is required")
)

type Trainer struct {
	ID              int                 `db:"id" json:"id"`
	Name            string              `db:"name" json:"name"`
	Email           string              `db:"email" json:"email"`
	Phone           *string             `db:"phone" json:"phone"`
	ApprovalStatus  auth.ApprovalStatus `db:"approval_status" json:"approval_status" swaggertype:"string" example:"pending"`
	RejectionReason *string             `db:"rejection_reason" json:"rejection_reason,omitempty"`
	ApprovedAt      *time.Time          `db:"approved_at" json:"approved_at,omitempty"`
	ApprovedBy      *int                `db:"approved_by" json:"approved_by,omitempty"`
	CreatedAt       time.Time           `db:"created_at" json:"created_at"`
}

type Counts struct {
	Pending  int `db:"pending" json:"pending"`
	Approved int `db:"approved" json:"approved"`
	Rejected int `db:"rejected" json:"rejected"`
	Total    int `db:"total" json:"total"`
}

type Listing struct {
	Trainers []Trainer `json:"trainers"`
	Counts   Counts    `json:"counts"`
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"required,notblank,max=500" example:"Certification could not be verified"`
}
