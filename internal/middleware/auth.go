package middleware

import (
	"studentdeal-be/internal/apperr"
	"studentdeal-be/internal/auth"
	"studentdeal-be/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	ErrInvalidToken  = apperr.New(apperr.KindUnauthorized, "invalid_token", "access token is invalid or expired")
	ErrAuthRequired  = apperr.New(apperr.KindUnauthorized, "authentication_required", "sign in required")
	ErrAdminRequired = apperr.New(apperr.KindForbidden, "admin_required", "admin role required")
)

// Authenticate resolves the caller identity. A request without a token is
// anonymous and may still carry a guest cart session; a token that fails
// verification is rejected.
func Authenticate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id := auth.Identity{}

		if tok := auth.ExtractAccessToken(c.Request); tok != "" {
			claims, err := auth.ParseJWT(secret, tok)
			if err != nil {
				logger.FromCtx(ctx).Info("rejected access token", zap.Error(err))
				AbortWithError(c, ErrInvalidToken)
				return
			}
			id = claims.Identity()
		}

		id.SessionID = auth.ExtractSessionID(c.Request)
		c.Request = c.Request.WithContext(auth.WithIdentity(ctx, id))
		c.Next()
	}
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Caller(c).IsAuthenticated() {
			AbortWithError(c, ErrAuthRequired)
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := Caller(c)
		if !id.IsAuthenticated() {
			AbortWithError(c, ErrAuthRequired)
			return
		}
		if !id.IsAdmin() {
			AbortWithError(c, ErrAdminRequired)
			return
		}
		c.Next()
	}
}

// Caller returns the identity attached by Authenticate.
func Caller(c *gin.Context) auth.Identity {
	return auth.FromContext(c.Request.Context())
}
