package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"fitzone/internal/auth"
	"fitzone/internal/logger"
	"fitzone/internal/storage"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrCannotDeleteSelf   = errors.New("admins cannot delete their own account")
	ErrCannotDemoteSelf   = errors.New("admins cannot change their own role")
	ErrStorageDisabled    = errors.New("avatar storage is not configured")
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
	GetByID(ctx context.Context, userID int) (*User, error)
	UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error)
	ChangePassword(ctx context.Context, userID int, req ChangePasswordRequest) error
	UploadAvatar(ctx context.Context, userID int, r io.Reader) (*User, error)
	List(ctx context.Context, role auth.Role) ([]User, error)
	UpdateByAdmin(ctx context.Context, actorID, userID int, req AdminUpdateRequest) (*User, error)
	Delete(ctx context.Context, actorID, userID int) error
	EnsureAdmin(ctx context.Context, email, password string) error
	ApprovalStatus(ctx context.Context, userID int) (auth.ApprovalStatus, error)
}

type service struct {
	repo     Repository
	tokens   *auth.TokenManager
	denylist auth.Denylist
	store    storage.Store
	now      func() time.Time
}

func NewService(repo Repository, tokens *auth.TokenManager, denylist auth.Denylist, store storage.Store) Service {
	return &service{
		repo:     repo,
		tokens:   tokens,
		denylist: denylist,
		store:    store,
		now:      time.Now,
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (s *service) issue(u *User) (*AuthResponse, error) {
	pair, err := s.tokens.GenerateTokens(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, err
	}
	u.deriveMembership(s.now())
	return &AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         u,
		Capabilities: u.Capabilities(),
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	role := auth.RoleMember
	if req.Role == string(auth.RoleTrainer) {
		role = auth.RoleTrainer
	}

	u := &User{
		Name:           strings.TrimSpace(req.Name),
		Email:          email,
		PasswordHash:   passwordHash,
		Role:           role,
		Phone:          optional(req.Phone),
		Address:        optional(req.Address),
		ApprovalStatus: auth.InitialApproval(role),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	logger.Info("user registered", "user_id", u.ID, "role", u.Role)
	return s.issue(u)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	u, err := s.repo.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(u)
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if s.denylist != nil {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			logger.WithError(err).Warn("denylist lookup failed", "user_id", claims.UserID)
		}
		if revoked {
			return nil, auth.ErrTokenRevoked
		}
	}

	u, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	access, err := s.tokens.GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, err
	}
	u.deriveMembership(s.now())
	return &AuthResponse{AccessToken: access, User: u, Capabilities: u.Capabilities()}, nil
}

func (s *service) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if s.denylist == nil || tokenID == "" {
		return nil
	}
	return s.denylist.Revoke(ctx, tokenID, expiresAt)
}

func (s *service) GetByID(ctx context.Context, userID int) (*User, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.deriveMembership(s.now())
	return u, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error) {
	if err := s.repo.UpdateProfile(ctx, userID, strings.TrimSpace(req.Name), req.Phone, req.Address); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, userID)
}

func (s *service) ChangePassword(ctx context.Context, userID int, req ChangePasswordRequest) error {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(u.PasswordHash, req.CurrentPassword) {
		return ErrWrongPassword
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, userID, hash)
}

func (s *service) UploadAvatar(ctx context.Context, userID int, r io.Reader) (*User, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	data, err := storage.NormalizeAvatar(r)
	if err != nil {
		return nil, err
	}

	url, err := s.store.Put(ctx, storage.AvatarKey(userID), "image/jpeg", data)
	if err != nil {
		return nil, fmt.Errorf("store avatar: %w", err)
	}

	if err := s.repo.UpdateAvatar(ctx, userID, url); err != nil {
		return nil, err
	}

	if u.AvatarURL != nil && *u.AvatarURL != "" {
		if err := s.store.Delete(ctx, *u.AvatarURL); err != nil {
			logger.WithError(err).Warn("failed to delete old avatar", "user_id", userID)
		}
	}

	return s.GetByID(ctx, userID)
}

func (s *service) List(ctx context.Context, role auth.Role) ([]User, error) {
	users, err := s.repo.List(ctx, role)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range users {
		users[i].deriveMembership(now)
	}
	return users, nil
}

func (s *service) UpdateByAdmin(ctx context.Context, actorID, userID int, req AdminUpdateRequest) (*User, error) {
	if actorID == userID && req.Role != string(auth.RoleAdmin) {
		return nil, ErrCannotDemoteSelf
	}
	if err := s.repo.UpdateByAdmin(ctx, userID, req); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, userID)
}

func (s *service) Delete(ctx context.Context, actorID, userID int) error {
	if actorID == userID {
		return ErrCannotDeleteSelf
	}
	return s.repo.Delete(ctx, userID)
}

// EnsureAdmin creates the bootstrap administrator if the email is not taken yet.
func (s *service) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil || exists {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	u := &User{
		Name:           "Administrator",
		Email:          strings.ToLower(email),
		PasswordHash:   hash,
		Role:           auth.RoleAdmin,
		ApprovalStatus: auth.ApprovalApproved,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return err
	}
	logger.Info("bootstrap admin created", "email", u.Email)
	return nil
}

func (s *service) ApprovalStatus(ctx context.Context, userID int) (auth.ApprovalStatus, error) {
	return s.repo.ApprovalStatus(ctx, userID)
}
