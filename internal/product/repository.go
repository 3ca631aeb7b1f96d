package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"studentdeal-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	GetByID(ctx context.Context, id int64, onlyActive bool) (*Product, error)
	Create(ctx context.Context, p Product) (*Product, error)
	Update(ctx context.Context, id int64, in UpdateInput) (*Product, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `
	id,
	name,
	base_price,
	stock,
	active,
	student_discount_percentage,
	properties,
	images,
	created_at,
	updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.BasePrice,
		&p.Stock,
		&p.Active,
		&p.StudentDiscountPercentage,
		&p.Properties,
		pq.Array(&p.Images),
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return &p, nil
}

// GetByID returns nil, nil when no product matches.
func (r *repository) GetByID(ctx context.Context, id int64, onlyActive bool) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetByID"),
		zap.Int64("product_id", id),
	)

	query := `SELECT` + productColumns + `
	FROM products
	WHERE id = $1`
	if onlyActive {
		query += ` AND active = TRUE`
	}

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("product not found")
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get product", zap.Error(err))
		return nil, err
	}

	return p, nil
}

func (r *repository) Create(ctx context.Context, p Product) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
	)

	query := `
	INSERT INTO products (
		name,
		base_price,
		stock,
		active,
		student_discount_percentage,
		properties,
		images
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING` + productColumns

	created, err := scanProduct(r.db.QueryRowContext(
		ctx,
		query,
		p.Name,
		p.BasePrice,
		p.Stock,
		p.Active,
		p.StudentDiscountPercentage,
		p.Properties,
		pq.Array(p.Images),
	))
	if err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	log.Info("product created", zap.Int64("product_id", created.ID))
	return created, nil
}

// Update applies the non-nil fields of in. Returns nil, nil when the product
// does not exist.
func (r *repository) Update(ctx context.Context, id int64, in UpdateInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Update"),
		zap.Int64("product_id", id),
	)

	sets := []string{}
	args := []any{}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if in.Name != nil {
		add("name", strings.TrimSpace(*in.Name))
	}
	if in.BasePrice != nil {
		add("base_price", *in.BasePrice)
	}
	if in.Stock != nil {
		add("stock", *in.Stock)
	}
	if in.Active != nil {
		add("active", *in.Active)
	}
	if in.ClearStudentDiscount {
		sets = append(sets, "student_discount_percentage = NULL")
	} else if in.StudentDiscountPercentage != nil {
		add("student_discount_percentage", *in.StudentDiscountPercentage)
	}
	if in.Properties != nil {
		add("properties", in.Properties)
	}
	if in.Images != nil {
		add("images", pq.Array(in.Images))
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id, false)
	}

	args = append(args, id)
	query := `
	UPDATE products
	SET ` + strings.Join(sets, ", ") + `, updated_at = NOW()
	WHERE id = $` + fmt.Sprint(len(args)) + `
	RETURNING` + productColumns

	log.Debug("executing update", zap.Int("fields", len(sets)))

	updated, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to update product", zap.Error(err))
		return nil, err
	}

	log.Info("product updated")
	return updated, nil
}
