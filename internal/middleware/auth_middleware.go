package middleware

import (
	"context"
	"errors"
	"net/http"

	authz "github.com/empatecerca/api/internal/app/auth"
	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/app/models/dto"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/empatecerca/api/internal/pkg/auth"
	"github.com/gin-gonic/gin"
)

// Context keys set by the authentication middleware
const (
	ContextUserID   = "userID"
	ContextEmail    = "email"
	ContextRoleType = "roleType"
	ContextActor    = "actor"
)

// tokenValidator validates access tokens
type tokenValidator interface {
	ValidateAndExtractClaims(tokenString string) (*auth.Claims, error)
}

// actorResolver turns an authenticated account into an authorization actor
type actorResolver interface {
	ResolveActor(ctx context.Context, userID int64, role models.RoleType) (*authz.Actor, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	tokens tokenValidator
	actors actorResolver
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, authorization *authz.AuthorizationService) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: jwtService,
		actors: authorization,
	}
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, details string) {
	errorDetail := dto.NewErrorDetail(code, "Authentication required").WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}

// JWTAuth validates the bearer token and stores the caller identity in the context
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authorization header missing")
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid token format")
			return
		}

		claims, err := m.tokens.ValidateAndExtractClaims(tokenString)
		if err != nil {
			code := dto.ErrorCodeInvalidToken
			details := "Invalid token"
			switch {
			case errors.Is(err, apperrors.ErrTokenExpired):
				code = dto.ErrorCodeExpiredToken
				details = "Token has expired"
			case errors.Is(err, apperrors.ErrInvalidFormat):
				details = "Invalid token format"
			}
			abortUnauthorized(c, code, details)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRoleType, claims.RoleType)
		c.Next()
	}
}

// ActorRequired resolves the caller's volunteer or tutor profile. Must run after JWTAuth.
func (m *AuthMiddleware) ActorRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "User information not found")
			return
		}

		role, _ := c.Get(ContextRoleType)
		roleStr, _ := role.(string)
		actor, err := m.actors.ResolveActor(c.Request.Context(), userID, models.RoleType(roleStr))
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		c.Set(ContextActor, actor)
		c.Next()
	}
}

// RoleRequired allows the request through only for the listed roles
func (m *AuthMiddleware) RoleRequired(roles ...models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRoleType)
		if !exists {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "User role not found")
			return
		}

		roleStr, _ := role.(string)
		for _, allowed := range roles {
			if roleStr == string(allowed) {
				c.Next()
				return
			}
		}

		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
			WithDetails("You don't have sufficient permissions for this operation")
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
	}
}

// GetUserID returns the authenticated user id
func GetUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// GetActor returns the actor resolved by ActorRequired
func GetActor(c *gin.Context) (*authz.Actor, bool) {
	v, exists := c.Get(ContextActor)
	if !exists {
		return nil, false
	}
	actor, ok := v.(*authz.Actor)
	return actor, ok && actor != nil
}
