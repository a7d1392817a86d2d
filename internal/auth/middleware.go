package auth

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gotcha-app/backend/internal/logger"
	"github.com/gotcha-app/backend/internal/util"
	"go.uber.org/zap"
)

// Middleware requires a valid bearer token. It sets "user_id" and "claims" in
// the context, plus "profile" when the user has already synced. Endpoints
// other than /auth/sync generally need the profile to exist.
func Middleware(service ServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			util.RespondUnauthorized(c, "missing bearer token")
			c.Abort()
			return
		}

		claims, err := service.ValidateToken(tokenString)
		if err != nil {
			logger.DebugWithFields("Token validation failed", zap.Error(err))
			util.RespondUnauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.Sub)
		c.Set("claims", claims)

		profile, err := service.LookupProfile(claims.Sub)
		if err == nil {
			c.Set("profile", profile)
		} else if !errors.Is(err, ErrProfileNotFound) {
			util.RespondInternalError(c, "failed to load profile")
			c.Abort()
			return
		}

		c.Next()
	}
}

// OptionalMiddleware authenticates the request when a bearer token is
// present but lets anonymous requests through. Feed reads use it so liked
// state can be attached for signed-in viewers.
func OptionalMiddleware(service ServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := service.ValidateToken(tokenString)
		if err != nil {
			// A bad token on an optional route is treated as anonymous
			c.Next()
			return
		}

		c.Set("user_id", claims.Sub)
		c.Set("claims", claims)
		if profile, err := service.LookupProfile(claims.Sub); err == nil {
			c.Set("profile", profile)
		}

		c.Next()
	}
}

// RequireProfile ensures the authenticated user has a synced profile. Used
// after Middleware on routes that write content.
func RequireProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get("profile"); !exists {
			util.RespondForbidden(c, "profile not synced")
			c.Abort()
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
