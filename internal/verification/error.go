package verification

import "studentdeal-be/internal/apperr"

var (
	ErrUnauthenticated = apperr.New(apperr.KindUnauthorized, "verification_requires_user", "sign in to manage student verification")

	ErrInvalidMethod   = apperr.New(apperr.KindValidation, "invalid_verification_method", "verification method must be EDU_EMAIL or MANUAL_UPLOAD")
	ErrInvalidEduEmail = apperr.New(apperr.KindValidation, "invalid_edu_email", "an institutional email ending in .edu is required")
	ErrInvalidProof    = apperr.New(apperr.KindValidation, "invalid_proof", "a proof document reference is required")
	ErrInvalidDecision = apperr.New(apperr.KindValidation, "invalid_decision", "decision must be APPROVED or REJECTED")

	ErrDuplicatePending = apperr.New(apperr.KindConflict, "duplicate_pending", "a verification request is already pending")
	ErrAlreadyApproved  = apperr.New(apperr.KindConflict, "already_approved", "student status is already approved")

	ErrVerificationNotFound = apperr.New(apperr.KindNotFound, "verification_not_found", "verification not found")

	ErrStorage = apperr.New(apperr.KindInternal, "verification_storage_error", "failed to access verifications")
)
