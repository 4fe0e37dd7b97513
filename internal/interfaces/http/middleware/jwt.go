package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/garagehq/gms-backend/internal/infrastructure/auth"
	"github.com/garagehq/gms-backend/internal/infrastructure/logger"
	"github.com/garagehq/gms-backend/internal/interfaces/http/dto"
)

// JWT context keys
const (
	JWTClaimsKey   = "jwt_claims"
	JWTGarageIDKey = "jwt_garage_id"
	JWTStaffIDKey  = "jwt_staff_id"
	JWTRoleKey     = "jwt_role"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

// JWTConfig holds configuration for the JWT middleware
type JWTConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// SkipPaths are exact paths that don't require authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require authentication
	SkipPathPrefixes []string
	// Logger for auth failure logging
	Logger *zap.Logger
}

// JWTAuth creates JWT authentication middleware. Requests to skip paths pass
// through without a token; all others need a valid Bearer access token.
func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		for _, skip := range cfg.SkipPaths {
			if path == skip {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			abortUnauthorized(c, cfg, nil, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortUnauthorized(c, cfg, nil, "Invalid authorization header format")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		if tokenString == "" {
			abortUnauthorized(c, cfg, nil, "Missing token")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			abortUnauthorized(c, cfg, err, "Token validation failed")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTGarageIDKey, claims.GarageID)
		c.Set(JWTStaffIDKey, claims.StaffID)
		c.Set(JWTRoleKey, claims.Role)

		// Enrich the request-scoped logger so downstream log lines carry
		// the tenant and actor
		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, log = logger.WithGarageID(ctx, log, claims.GarageID)
		ctx, _ = logger.WithStaffID(ctx, log, claims.StaffID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, cfg JWTConfig, err error, message string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path))
	}

	responseMessage := "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		responseMessage = "Token has expired"
	case errors.Is(err, auth.ErrInvalidToken):
		responseMessage = "Invalid token"
	case errors.Is(err, auth.ErrInvalidTokenType):
		responseMessage = "Invalid token type"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		responseMessage = "Token is not yet valid"
	}

	requestID := c.GetString(RequestIDKey)
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthorized, responseMessage, requestID))
}

// GetJWTClaims retrieves JWT claims from the gin context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, exists := c.Get(JWTClaimsKey); exists {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetJWTGarageID retrieves the garage ID claim from the gin context
func GetJWTGarageID(c *gin.Context) string {
	return c.GetString(JWTGarageIDKey)
}

// GetJWTStaffID retrieves the staff ID claim from the gin context
func GetJWTStaffID(c *gin.Context) string {
	return c.GetString(JWTStaffIDKey)
}

// GetJWTRole retrieves the role claim from the gin context
func GetJWTRole(c *gin.Context) string {
	return c.GetString(JWTRoleKey)
}
