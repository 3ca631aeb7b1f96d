package middleware

import (
	"studentdeal-be/internal/apperr"
	"studentdeal-be/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ErrorBody struct {
	Kind    apperr.Kind `json:"kind"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
}

// AbortWithError writes the standard error envelope and stops the chain.
// Internal and invariant failures are logged with their cause; their message
// is never replaced by the cause text.
func AbortWithError(c *gin.Context, err error) {
	ae := apperr.As(err)
	status := apperr.HTTPStatus(ae.Kind)

	if status >= 500 {
		logger.FromCtx(c.Request.Context()).Error("request failed",
			zap.String("kind", string(ae.Kind)),
			zap.String("code", ae.Code),
			zap.Error(err),
		)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": ErrorBody{
		Kind:    ae.Kind,
		Code:    ae.Code,
		Message: ae.Message,
	}})
}
