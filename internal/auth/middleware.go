package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"fitzone/internal/api"
	"fitzone/internal/logger"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID    = "user_id"
	ctxUserEmail = "user_email"
	ctxUserRole  = "user_role"
	ctxTokenID   = "token_id"
	ctxTokenExp  = "token_exp"
	ctxCaps      = "capabilities"
)

// ApprovalLookup resolves a trainer's current approval status from storage.
type ApprovalLookup interface {
	ApprovalStatus(ctx context.Context, userID int) (ApprovalStatus, error)
}

func AuthMiddleware(tokens *TokenManager, denylist Denylist) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			api.Error(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) != "Bearer" {
			api.Error(c, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			api.Error(c, http.StatusUnauthorized, "Token is empty")
			return
		}

		claims, err := tokens.ValidateAccessToken(tokenString)
		if err != nil {
			switch {
			case errors.Is(err, ErrTokenExpired):
				api.Error(c, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, ErrInvalidTokenType):
				api.Error(c, http.StatusUnauthorized, "Access token required")
			default:
				api.Error(c, http.StatusUnauthorized, "Invalid or malformed token")
			}
			return
		}

		if denylist != nil && claims.ID != "" {
			revoked, err := denylist.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				logger.WithError(err).Warn("denylist lookup failed", "user_id", claims.UserID)
			}
			if revoked {
				api.Error(c, http.StatusUnauthorized, "Token has been revoked")
				return
			}
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserEmail, claims.Email)
		c.Set(ctxUserRole, claims.Role)
		c.Set(ctxTokenID, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(ctxTokenExp, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

func RequireRole(roles ...Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok {
			api.Error(c, http.StatusUnauthorized, "User role not found")
			return
		}

		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		api.Error(c, http.StatusForbidden, "Insufficient permissions")
	}
}

// RequireCapability rejects callers whose role/approval does not grant capability.
// Trainers are checked against storage so an approval takes effect without a new token.
func RequireCapability(capability Capability, approvals ApprovalLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		caps, err := resolveCapabilities(c, approvals)
		if err != nil {
			api.Error(c, http.StatusUnauthorized, "User role not found")
			return
		}

		if !caps.Has(capability) {
			if role, _ := GetRole(c); role == RoleTrainer {
				api.Error(c, http.StatusForbidden, "Trainer account is awaiting admin approval")
				return
			}
			api.Error(c, http.StatusForbidden, "Insufficient permissions")
			return
		}

		c.Next()
	}
}

func resolveCapabilities(c *gin.Context, approvals ApprovalLookup) (Capabilities, error) {
	if v, ok := c.Get(ctxCaps); ok {
		if caps, ok := v.(Capabilities); ok {
			return caps, nil
		}
	}

	role, ok := GetRole(c)
	if !ok {
		return Capabilities{}, errors.New("role missing")
	}

	approval := ApprovalApproved
	if role == RoleTrainer {
		userID, _ := GetUserID(c)
		approval = ApprovalPending
		if approvals != nil {
			status, err := approvals.ApprovalStatus(c.Request.Context(), userID)
			if err != nil {
				logger.WithError(err).Warn("approval lookup failed", "user_id", userID)
			} else {
				approval = status
			}
		}
	}

	caps := CapabilitiesFor(role, approval)
	c.Set(ctxCaps, caps)
	return caps, nil
}

func GetUserID(c *gin.Context) (int, bool) {
	userID, exists := c.Get(ctxUserID)
	if !exists {
		return 0, false
	}

	id, ok := userID.(int)
	if !ok {
		return 0, false
	}

	return id, true
}

func GetRole(c *gin.Context) (Role, bool) {
	v, exists := c.Get(ctxUserRole)
	if !exists {
		return "", false
	}
	role, ok := v.(Role)
	return role, ok
}

// GetTokenID returns the jti and expiry of the access token used for this request.
func GetTokenID(c *gin.Context) (string, time.Time, bool) {
	id := c.GetString(ctxTokenID)
	exp, _ := c.Get(ctxTokenExp)
	expTime, _ := exp.(time.Time)
	return id, expTime, id != ""
}

func IsAdmin(c *gin.Context) bool {
	role, _ := GetRole(c)
	return role == RoleAdmin
}

// Actor identifies the authenticated caller for ownership checks in services.
type Actor struct {
	ID   int
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func GetActor(c *gin.Context) Actor {
	id, _ := GetUserID(c)
	role, _ := GetRole(c)
	return Actor{ID: id, Role: role}
}
