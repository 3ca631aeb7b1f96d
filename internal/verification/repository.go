package verification

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"studentdeal-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	// Submit creates a PENDING record, or resets a REJECTED one to PENDING.
	// Returns nil, nil when the user already holds a PENDING or APPROVED record.
	Submit(ctx context.Context, v Verification) (*Verification, error)
	GetByUserID(ctx context.Context, userID uint) (*Verification, error)
	// Decide records the admin outcome. Returns nil, nil when id is unknown.
	Decide(ctx context.Context, id int64, decision Status, adminID uint, notes *string, at time.Time) (*Verification, error)
	ListByStatus(ctx context.Context, status Status, limit, offset int) ([]Verification, int, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const verificationColumns = `
	id,
	user_id,
	status,
	verification_method,
	edu_email,
	proof_url,
	admin_notes,
	verified_at,
	verified_by_id,
	created_at,
	updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVerification(row rowScanner) (*Verification, error) {
	var (
		v          Verification
		userID     int64
		eduEmail   sql.NullString
		proofURL   sql.NullString
		notes      sql.NullString
		verifiedAt sql.NullTime
		verifiedBy sql.NullInt64
	)
	if err := row.Scan(
		&v.ID,
		&userID,
		&v.Status,
		&v.Method,
		&eduEmail,
		&proofURL,
		&notes,
		&verifiedAt,
		&verifiedBy,
		&v.CreatedAt,
		&v.UpdatedAt,
	); err != nil {
		return nil, err
	}

	v.UserID = uint(userID)
	if eduEmail.Valid {
		v.EduEmail = &eduEmail.String
	}
	if proofURL.Valid {
		v.ProofURL = &proofURL.String
	}
	if notes.Valid {
		v.AdminNotes = &notes.String
	}
	if verifiedAt.Valid {
		v.VerifiedAt = &verifiedAt.Time
	}
	if verifiedBy.Valid {
		id := uint(verifiedBy.Int64)
		v.VerifiedByID = &id
	}
	return &v, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func (r *repository) Submit(ctx context.Context, v Verification) (*Verification, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Submit"),
		zap.Uint("user_id", v.UserID),
		zap.String("verification_method", string(v.Method)),
	)

	query := `
	INSERT INTO student_verifications (
		user_id,
		status,
		verification_method,
		edu_email,
		proof_url
	)
	VALUES ($1, 'PENDING', $2, $3, $4)
	ON CONFLICT (user_id) DO UPDATE
	SET status = 'PENDING',
	    verification_method = EXCLUDED.verification_method,
	    edu_email = EXCLUDED.edu_email,
	    proof_url = EXCLUDED.proof_url,
	    admin_notes = NULL,
	    verified_at = NULL,
	    verified_by_id = NULL,
	    updated_at = NOW()
	WHERE student_verifications.status = 'REJECTED'
	RETURNING` + verificationColumns

	out, err := scanVerification(r.db.QueryRowContext(ctx, query,
		int64(v.UserID),
		string(v.Method),
		nullString(v.EduEmail),
		nullString(v.ProofURL),
	))
	if errors.Is(err, sql.ErrNoRows) {
		log.Info("submission blocked by existing record")
		return nil, nil
	}
	if err != nil {
		log.Error("failed to submit verification", zap.Error(err))
		return nil, err
	}

	log.Info("verification submitted", zap.Int64("verification_id", out.ID))
	return out, nil
}

// GetByUserID returns nil, nil when the user never submitted.
func (r *repository) GetByUserID(ctx context.Context, userID uint) (*Verification, error) {
	v, err := scanVerification(r.db.QueryRowContext(ctx,
		`SELECT`+verificationColumns+` FROM student_verifications WHERE user_id = $1`,
		int64(userID),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get verification",
			zap.String("layer", "repository"),
			zap.String("method", "GetByUserID"),
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return nil, err
	}
	return v, nil
}

func (r *repository) Decide(ctx context.Context, id int64, decision Status, adminID uint, notes *string, at time.Time) (*Verification, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Decide"),
		zap.Int64("verification_id", id),
		zap.String("decision", string(decision)),
		zap.Uint("admin_id", adminID),
	)

	query := `
	UPDATE student_verifications
	SET status = $1,
	    verified_by_id = $2,
	    verified_at = $3,
	    admin_notes = $4,
	    updated_at = NOW()
	WHERE id = $5
	RETURNING` + verificationColumns

	v, err := scanVerification(r.db.QueryRowContext(ctx, query,
		string(decision),
		int64(adminID),
		at,
		nullString(notes),
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to record decision", zap.Error(err))
		return nil, err
	}

	log.Info("verification decided", zap.Uint("user_id", v.UserID))
	return v, nil
}

func (r *repository) ListByStatus(ctx context.Context, status Status, limit, offset int) ([]Verification, int, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListByStatus"),
		zap.String("status", string(status)),
	)

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM student_verifications WHERE status = $1`, string(status),
	).Scan(&total); err != nil {
		log.Error("count failed", zap.Error(err))
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `
	SELECT`+verificationColumns+`
	FROM student_verifications
	WHERE status = $1
	ORDER BY created_at ASC, id ASC
	LIMIT $2 OFFSET $3`, string(status), limit, offset)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	items := []Verification{}
	for rows.Next() {
		v, err := scanVerification(rows)
		if err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, 0, err
		}
		items = append(items, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}
