package user

import (
	"errors"
	"net/http"

	"fitzone/internal/api"
	"fitzone/internal/auth"
	"fitzone/internal/logger"
	"fitzone/internal/storage"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		api.Error(c, http.StatusNotFound, "User not found")
	case errors.Is(err, ErrEmailExists):
		api.Error(c, http.StatusConflict, "Email already registered")
	case errors.Is(err, ErrInvalidCredentials):
		api.Error(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, ErrWrongPassword):
		api.Error(c, http.StatusBadRequest, "Current password is incorrect")
	case errors.Is(err, ErrCannotDeleteSelf):
		api.Error(c, http.StatusBadRequest, "You cannot delete your own account")
	case errors.Is(err, ErrCannotDemoteSelf):
		api.Error(c, http.StatusBadRequest, "You cannot change your own role")
	case errors.Is(err, ErrStorageDisabled):
		api.Error(c, http.StatusServiceUnavailable, "Avatar uploads are not available")
	case errors.Is(err, storage.ErrImageTooLarge):
		api.Error(c, http.StatusBadRequest, "Avatar must be 5 MiB or smaller")
	case errors.Is(err, storage.ErrUnsupportedImage):
		api.Error(c, http.StatusBadRequest, "Avatar must be a JPEG, PNG or GIF image")
	case errors.Is(err, auth.ErrTokenExpired), errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidTokenType), errors.Is(err, auth.ErrTokenRevoked):
		api.Error(c, http.StatusUnauthorized, "Invalid or expired refresh token")
	default:
		logger.WithError(err).Error(fallback, "path", c.FullPath())
		api.Error(c, http.StatusInternalServerError, fallback)
	}
}

// Register godoc
// @Summary      Register new user
// @Description  Creates a member or trainer account. Trainers start with approval_status=pending.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "User registration data"
// @Success      201      {object}  api.Envelope{data=AuthResponse}
// @Failure      400      {object}  api.Envelope
// @Failure      409      {object}  api.ErrorResponse
// @Router       /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !api.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "Failed to register user")
		return
	}

	msg := "Registration successful"
	if resp.User.Role == auth.RoleTrainer {
		msg = "Registration successful. Your trainer account is awaiting admin approval"
	}
	api.Created(c, msg, resp)
}

// Login godoc
// @Summary      Login user
// @Description  Authenticates by email and password and returns a token pair.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "User credentials"
// @Success      200      {object}  api.Envelope{data=AuthResponse}
// @Failure      400      {object}  api.Envelope
// @Failure      401      {object}  api.ErrorResponse
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !api.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "Failed to login")
		return
	}

	msg := "Login successful"
	switch resp.User.ApprovalStatus {
	case auth.ApprovalPending:
		msg = "Login successful. Your trainer account is awaiting admin approval"
	case auth.ApprovalRejected:
		msg = "Login successful. Your trainer application was rejected"
	}
	api.Message(c, msg, resp)
}

// Refresh godoc
// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RefreshRequest  true  "Refresh token"
// @Success      200      {object}  api.Envelope{data=AuthResponse}
// @Failure      401      {object}  api.ErrorResponse
// @Router       /auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if !api.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.fail(c, err, "Failed to refresh token")
		return
	}
	api.OK(c, resp)
}

// Logout godoc
// @Summary      Logout
// @Description  Revokes the access token used for this request.
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.Envelope
// @Router       /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	tokenID, exp, ok := auth.GetTokenID(c)
	if ok {
		if err := h.service.Logout(c.Request.Context(), tokenID, exp); err != nil {
			h.fail(c, err, "Failed to logout")
			return
		}
	}
	api.Message(c, "Logged out", nil)
}

// Me godoc
// @Summary      Get current user
// @Tags         auth,profile
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.Envelope{data=User}
// @Failure      401  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /auth/me [get]
// @Router       /profile [get]
func (h *Handler) Me(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	u, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err, "Failed to load profile")
		return
	}
	api.OK(c, gin.H{"user": u, "capabilities": u.Capabilities()})
}

// UpdateProfile godoc
// @Summary      Update own profile
// @Tags         profile
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      UpdateProfileRequest  true  "Profile fields"
// @Success      200      {object}  api.Envelope{data=User}
// @Failure      400      {object}  api.Envelope
// @Router       /profile [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if !api.BindJSON(c, &req) {
		return
	}
	userID, _ := auth.GetUserID(c)

	u, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.fail(c, err, "Failed to update profile")
		return
	}
	api.Message(c, "Profile updated", u)
}

// ChangePassword godoc
// @Summary      Change password
// @Tags         profile
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      ChangePasswordRequest  true  "Passwords"
// @Success      200      {object}  api.Envelope
// @Failure      400      {object}  api.Envelope
// @Router       /profile/change-password [post]
func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if !api.BindJSON(c, &req) {
		return
	}
	userID, _ := auth.GetUserID(c)

	if err := h.service.ChangePassword(c.Request.Context(), userID, req); err != nil {
		h.fail(c, err, "Failed to change password")
		return
	}
	api.Message(c, "Password changed", nil)
}

// UploadAvatar godoc
// @Summary      Upload avatar
// @Description  Accepts a JPEG/PNG/GIF up to 5 MiB; stored as a 256x256 JPEG.
// @Tags         profile
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        avatar  formData  file  true  "Avatar image"
// @Success      200     {object}  api.Envelope{data=User}
// @Failure      400     {object}  api.ErrorResponse
// @Router       /profile/avatar [post]
func (h *Handler) UploadAvatar(c *gin.Context) {
	file, err := c.FormFile("avatar")
	if err != nil {
		api.Error(c, http.StatusBadRequest, "avatar file is required")
		return
	}
	if file.Size > storage.MaxAvatarBytes {
		h.fail(c, storage.ErrImageTooLarge, "")
		return
	}

	src, err := file.Open()
	if err != nil {
		api.Error(c, http.StatusBadRequest, "Could not read upload")
		return
	}
	defer src.Close()

	userID, _ := auth.GetUserID(c)
	u, err := h.service.UploadAvatar(c.Request.Context(), userID, src)
	if err != nil {
		h.fail(c, err, "Failed to upload avatar")
		return
	}
	api.Message(c, "Avatar updated", u)
}

// ListUsers godoc
// @Summary      List users
// @Tags         admin,users
// @Security     BearerAuth
// @Produce      json
// @Param        role  query     string  false  "member | trainer | admin"
// @Success      200   {object}  api.Envelope{data=[]User}
// @Failure      400   {object}  api.ErrorResponse
// @Router       /users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	role := auth.Role(c.Query("role"))
	if role != "" && !role.Valid() {
		api.Error(c, http.StatusBadRequest, "Invalid role filter")
		return
	}

	users, err := h.service.List(c.Request.Context(), role)
	if err != nil {
		h.fail(c, err, "Failed to fetch users")
		return
	}
	api.List(c, users)
}

// GetUser godoc
// @Summary      Get user
// @Tags         admin,users
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  api.Envelope{data=User}
// @Failure      404  {object}  api.ErrorResponse
// @Router       /users/{id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Failed to fetch user")
		return
	}
	api.OK(c, u)
}

// UpdateUser godoc
// @Summary      Update user
// @Tags         admin,users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                 true  "User ID"
// @Param        request  body      AdminUpdateRequest  true  "User fields"
// @Success      200      {object}  api.Envelope{data=User}
// @Failure      400      {object}  api.Envelope
// @Failure      404      {object}  api.ErrorResponse
// @Router       /users/{id} [put]
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}
	var req AdminUpdateRequest
	if !api.BindJSON(c, &req) {
		return
	}
	actorID, _ := auth.GetUserID(c)

	u, err := h.service.UpdateByAdmin(c.Request.Context(), actorID, id, req)
	if err != nil {
		h.fail(c, err, "Failed to update user")
		return
	}
	api.Message(c, "User updated", u)
}

// DeleteUser godoc
// @Summary      Delete user
// @Tags         admin,users
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  api.Envelope
// @Failure      400  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /users/{id} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}
	actorID, _ := auth.GetUserID(c)

	if err := h.service.Delete(c.Request.Context(), actorID, id); err != nil {
		h.fail(c, err, "Failed to delete user")
		return
	}
	api.Message(c, "User deleted", nil)
}
