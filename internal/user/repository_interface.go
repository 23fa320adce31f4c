package user

import (
	"context"

	"fitzone/internal/auth"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, role auth.Role) ([]User, error)
	UpdateProfile(ctx context.Context, id int, name string, phone, address *string) error
	UpdateByAdmin(ctx context.Context, id int, req AdminUpdateRequest) error
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
	UpdateAvatar(ctx context.Context, id int, url string) error
	Delete(ctx context.Context, id int) error
	ApprovalStatus(ctx context.Context, id int) (auth.ApprovalStatus, error)
}
