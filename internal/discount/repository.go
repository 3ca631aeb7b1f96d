package discount

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"studentdeal-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, e EventDiscount) (*EventDiscount, error)
	SetActive(ctx context.Context, id int64, active bool) (*EventDiscount, error)
	List(ctx context.Context, limit, offset int) ([]EventDiscount, int, error)
	ListActiveAt(ctx context.Context, now time.Time) ([]EventDiscount, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const eventColumns = `
	id,
	name,
	percentage,
	start_date,
	end_date,
	active,
	created_at,
	updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*EventDiscount, error) {
	var e EventDiscount
	if err := row.Scan(
		&e.ID,
		&e.Name,
		&e.Percentage,
		&e.StartDate,
		&e.EndDate,
		&e.Active,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) Create(ctx context.Context, e EventDiscount) (*EventDiscount, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateEventDiscount"),
	)

	query := `
	INSERT INTO event_discounts (name, percentage, start_date, end_date, active)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING` + eventColumns

	created, err := scanEvent(r.db.QueryRowContext(ctx, query,
		e.Name, e.Percentage, e.StartDate, e.EndDate, e.Active,
	))
	if err != nil {
		log.Error("failed to create event discount", zap.Error(err))
		return nil, err
	}

	log.Info("event discount created", zap.Int64("event_discount_id", created.ID))
	return created, nil
}

// SetActive returns nil, nil when id does not exist.
func (r *repository) SetActive(ctx context.Context, id int64, active bool) (*EventDiscount, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "SetActive"),
		zap.Int64("event_discount_id", id),
		zap.Bool("active", active),
	)

	query := `
	UPDATE event_discounts
	SET active = $1, updated_at = NOW()
	WHERE id = $2
	RETURNING` + eventColumns

	e, err := scanEvent(r.db.QueryRowContext(ctx, query, active, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to toggle event discount", zap.Error(err))
		return nil, err
	}
	return e, nil
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]EventDiscount, int, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListEventDiscounts"),
		zap.Int("limit", limit),
		zap.Int("offset", offset),
	)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_discounts`).Scan(&total); err != nil {
		log.Error("count failed", zap.Error(err))
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `
	SELECT`+eventColumns+`
	FROM event_discounts
	ORDER BY start_date DESC, id ASC
	LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	items, err := collect(rows)
	if err != nil {
		log.Error("row scan failed", zap.Error(err))
		return nil, 0, err
	}
	return items, total, nil
}

// ListActiveAt returns every enabled discount whose window contains now.
func (r *repository) ListActiveAt(ctx context.Context, now time.Time) ([]EventDiscount, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListActiveAt"),
	)

	rows, err := r.db.QueryContext(ctx, `
	SELECT`+eventColumns+`
	FROM event_discounts
	WHERE active = TRUE AND start_date <= $1 AND end_date >= $1
	ORDER BY percentage DESC, id ASC`, now)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	items, err := collect(rows)
	if err != nil {
		log.Error("row scan failed", zap.Error(err))
		return nil, err
	}
	return items, nil
}

func collect(rows *sql.Rows) ([]EventDiscount, error) {
	items := []EventDiscount{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	return items, rows.Err()
}
