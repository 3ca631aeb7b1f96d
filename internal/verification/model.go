package verification

import (
	"strings"
	"time"
)

type Status string

const (
	StatusNotSubmitted Status = "NOT_SUBMITTED"
	StatusPending      Status = "PENDING"
	StatusApproved     Status = "APPROVED"
	StatusRejected     Status = "REJECTED"
)

type Method string

const (
	MethodEduEmail     Method = "EDU_EMAIL"
	MethodManualUpload Method = "MANUAL_UPLOAD"
)

func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToUpper(strings.TrimSpace(s))); m {
	case MethodEduEmail, MethodManualUpload:
		return m, nil
	}
	return "", ErrInvalidMethod
}

// ParseDecision accepts only the two terminal admin outcomes.
func ParseDecision(s string) (Status, error) {
	switch d := Status(strings.ToUpper(strings.TrimSpace(s))); d {
	case StatusApproved, StatusRejected:
		return d, nil
	}
	return "", ErrInvalidDecision
}

// Verification is a user's single student-status record. A user without a
// row is NOT_SUBMITTED.
type Verification struct {
	ID           int64      `json:"id,omitempty"`
	UserID       uint       `json:"user_id"`
	Status       Status     `json:"status"`
	Method       Method     `json:"verification_method,omitempty"`
	EduEmail     *string    `json:"edu_email,omitempty"`
	ProofURL     *string    `json:"proof_url,omitempty"`
	AdminNotes   *string    `json:"admin_notes,omitempty"`
	VerifiedAt   *time.Time `json:"verified_at,omitempty"`
	VerifiedByID *uint      `json:"verified_by_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at,omitempty"`
}

type ListResult struct {
	Items []Verification `json:"items"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
