package api

import (
	"studentdeal-be/internal/middleware"

	"github.com/gin-gonic/gin"
)

type submitVerificationRequest struct {
	Method   string `json:"verification_method" binding:"required"`
	EduEmail string `json:"edu_email"`
	ProofURL string `json:"proof_url"`
}

// payload picks the field matching the method; unknown methods are rejected
// by the service.
func (r submitVerificationRequest) payload() string {
	if r.EduEmail != "" {
		return r.EduEmail
	}
	return r.ProofURL
}

type decisionRequest struct {
	Decision string  `json:"decision" binding:"required"`
	Notes    *string `json:"admin_notes"`
}

func (h *Handler) SubmitVerification(c *gin.Context) {
	var req submitVerificationRequest
	if !bindJSON(c, &req) {
		return
	}

	v, err := h.VerificationSvc.Submit(c.Request.Context(), middleware.Caller(c).UserID, req.Method, req.payload())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	created(c, v)
}

func (h *Handler) GetMyVerification(c *gin.Context) {
	v, err := h.VerificationSvc.GetMine(c.Request.Context(), middleware.Caller(c).UserID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	okJSON(c, v)
}

func (h *Handler) ListPendingVerifications(c *gin.Context) {
	p, limit := page(c)

	res, err := h.VerificationSvc.ListPending(c.Request.Context(), p, limit)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	okJSON(c, res)
}

func (h *Handler) DecideVerification(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req decisionRequest
	if !bindJSON(c, &req) {
		return
	}

	v, err := h.VerificationSvc.Decide(c.Request.Context(), middleware.Caller(c).UserID, id, req.Decision, req.Notes)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	okJSON(c, v)
}
