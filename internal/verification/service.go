package verification

import (
	"context"
	"strings"
	"time"

	"studentdeal-be/internal/logger"
	"studentdeal-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	// Submit files a new PENDING request. payload is the .edu address for
	// EDU_EMAIL or the proof reference for MANUAL_UPLOAD.
	Submit(ctx context.Context, userID uint, method, payload string) (*Verification, error)
	Decide(ctx context.Context, adminID uint, verificationID int64, decision string, notes *string) (*Verification, error)
	IsEligible(ctx context.Context, userID uint) (bool, error)
	GetMine(ctx context.Context, userID uint) (*Verification, error)
	ListPending(ctx context.Context, page, limit int) (*ListResult, error)
}

type service struct {
	repo  Repository
	cache EligibilityCache
	now   func() time.Time
}

func NewService(repo Repository, cache EligibilityCache) Service {
	if cache == nil {
		cache = NoopCache()
	}
	return &service{repo: repo, cache: cache, now: time.Now}
}

func (s *service) Submit(ctx context.Context, userID uint, method, payload string) (*Verification, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Submit"),
		zap.Uint("user_id", userID),
	)

	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	m, err := ParseMethod(method)
	if err != nil {
		return nil, err
	}

	v := Verification{UserID: userID, Method: m}
	payload = strings.TrimSpace(payload)
	switch m {
	case MethodEduEmail:
		if !IsEduEmail(payload) {
			return nil, ErrInvalidEduEmail
		}
		email := strings.ToLower(payload)
		v.EduEmail = &email
	case MethodManualUpload:
		if payload == "" {
			return nil, ErrInvalidProof
		}
		v.ProofURL = &payload
	}

	out, err := s.repo.Submit(ctx, v)
	if err != nil {
		return nil, ErrStorage.WithCause(err)
	}

	if out == nil {
		existing, err := s.repo.GetByUserID(ctx, userID)
		if err != nil {
			return nil, ErrStorage.WithCause(err)
		}
		if existing != nil && existing.Status == StatusApproved {
			return nil, ErrAlreadyApproved
		}
		return nil, ErrDuplicatePending
	}

	s.publish(ctx, userID, false)
	log.Info("verification pending", zap.Int64("verification_id", out.ID))
	return out, nil
}

// Decide overwrites any earlier decision on the same record.
func (s *service) Decide(ctx context.Context, adminID uint, verificationID int64, decision string, notes *string) (*Verification, error) {
	d, err := ParseDecision(decision)
	if err != nil {
		return nil, err
	}

	if notes != nil {
		trimmed := strings.TrimSpace(*notes)
		notes = &trimmed
		if trimmed == "" {
			notes = nil
		}
	}

	v, err := s.repo.Decide(ctx, verificationID, d, adminID, notes, s.now().UTC())
	if err != nil {
		return nil, ErrStorage.WithCause(err)
	}
	if v == nil {
		return nil, ErrVerificationNotFound
	}

	s.publish(ctx, v.UserID, v.Status == StatusApproved)
	return v, nil
}

func (s *service) IsEligible(ctx context.Context, userID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "IsEligible"),
		zap.Uint("user_id", userID),
	)

	eligible, found, err := s.cache.Get(ctx, userID)
	if err != nil {
		log.Warn("eligibility cache read failed", zap.Error(err))
	} else if found {
		return eligible, nil
	}

	v, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return false, ErrStorage.WithCause(err)
	}
	eligible = v != nil && v.Status == StatusApproved

	if err := s.cache.Fill(ctx, userID, eligible); err != nil {
		log.Warn("eligibility cache write failed", zap.Error(err))
	}
	return eligible, nil
}

func (s *service) GetMine(ctx context.Context, userID uint) (*Verification, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	v, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, ErrStorage.WithCause(err)
	}
	if v == nil {
		return &Verification{UserID: userID, Status: StatusNotSubmitted}, nil
	}
	return v, nil
}

func (s *service) ListPending(ctx context.Context, page, limit int) (*ListResult, error) {
	page, limit = utils.NormalizePagination(page, limit)

	items, total, err := s.repo.ListByStatus(ctx, StatusPending, limit, utils.Offset(page, limit))
	if err != nil {
		return nil, ErrStorage.WithCause(err)
	}
	return &ListResult{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// publish overwrites the cached answer after a committed write. If the
// overwrite fails the entry is dropped so the next read goes to the database.
func (s *service) publish(ctx context.Context, userID uint, eligible bool) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.Uint("user_id", userID),
	)

	err := s.cache.Set(ctx, userID, eligible)
	if err == nil {
		return
	}
	log.Warn("eligibility cache update failed", zap.Error(err))

	if err := s.cache.Invalidate(ctx, userID); err != nil {
		log.Warn("eligibility cache invalidate failed", zap.Error(err))
	}
}
