package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"studentdeal-be/internal/logger"
	"studentdeal-be/internal/pricing"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repository interface {
	// PlaceOrder converts the user's cart into an order in one transaction.
	// It returns ErrEmptyCart, ErrOutOfStock or ErrDuplicateOrderNumber with
	// nothing written.
	PlaceOrder(ctx context.Context, userID uint, orderNumber string) (*Order, error)
	GetOrder(ctx context.Context, orderID int64) (*Order, error)
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]Order, int, error)
	// UpdateStatus moves the order from current to next only if it is still
	// in current. Returns nil, nil when the compare fails.
	UpdateStatus(ctx context.Context, orderID int64, current, next Status) (*Order, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `
	id,
	order_number,
	user_id,
	status,
	subtotal,
	discount_amount,
	tax,
	total,
	placed_at,
	updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var (
		o      Order
		userID int64
	)
	if err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&userID,
		&o.Status,
		&o.Subtotal,
		&o.DiscountAmount,
		&o.Tax,
		&o.Total,
		&o.PlacedAt,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	o.UserID = uint(userID)
	return &o, nil
}

func (r *repository) PlaceOrder(ctx context.Context, userID uint, orderNumber string) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "PlaceOrder"),
		zap.Uint("user_id", userID),
	)

	log.Debug("starting place order transaction")

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			} else {
				log.Debug("transaction rolled back")
			}
		}
	}()

	// Lock cart rows and product rows in product id order so concurrent
	// checkouts over the same products queue instead of deadlocking.
	rows, err := tx.QueryContext(ctx, `
		SELECT
			ci.id,
			ci.product_id,
			ci.quantity,
			p.name,
			p.base_price,
			p.stock,
			p.active,
			p.properties,
			p.images
		FROM cart_items ci
		JOIN carts c ON c.id = ci.cart_id
		JOIN products p ON p.id = ci.product_id
		WHERE c.user_id = $1
		ORDER BY p.id
		FOR UPDATE OF ci, p
	`, int64(userID))
	if err != nil {
		log.Error("failed to lock cart items", zap.Error(err))
		return nil, err
	}

	lines := []checkoutLine{}
	for rows.Next() {
		var l checkoutLine
		if err := rows.Scan(
			&l.CartItemID,
			&l.ProductID,
			&l.Quantity,
			&l.Name,
			&l.BasePrice,
			&l.Stock,
			&l.Active,
			&l.Properties,
			pq.Array(&l.Images),
		); err != nil {
			rows.Close()
			log.Error("failed to scan cart item", zap.Error(err))
			return nil, err
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		log.Error("cart item iteration failed", zap.Error(err))
		return nil, err
	}
	rows.Close()

	if len(lines) == 0 {
		log.Info("cart is empty")
		return nil, ErrEmptyCart
	}

	for _, l := range lines {
		if !l.Active || l.Stock < l.Quantity {
			log.Info("insufficient stock",
				zap.Int64("product_id", l.ProductID),
				zap.Int("stock", l.Stock),
				zap.Int("requested", l.Quantity),
			)
			return nil, ErrOutOfStock
		}
	}

	subtotal := decimal.Zero
	for _, l := range lines {
		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock = stock - $1, updated_at = NOW()
			WHERE id = $2 AND stock >= $1
		`, l.Quantity, l.ProductID)
		if err != nil {
			log.Error("failed to decrement stock", zap.Int64("product_id", l.ProductID), zap.Error(err))
			return nil, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			log.Info("stock guard rejected decrement", zap.Int64("product_id", l.ProductID))
			return nil, ErrOutOfStock
		}

		subtotal = subtotal.Add(pricing.LineTotal(l.BasePrice, l.Quantity))
	}

	o := &Order{
		OrderNumber:    orderNumber,
		UserID:         userID,
		Status:         StatusPending,
		Subtotal:       pricing.Round(subtotal),
		DiscountAmount: decimal.Zero,
		Tax:            decimal.Zero,
	}
	o.Total = o.Subtotal.Sub(o.DiscountAmount).Add(o.Tax)

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			order_number, user_id, status, subtotal, discount_amount, tax, total
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, placed_at, updated_at
	`,
		o.OrderNumber,
		int64(o.UserID),
		o.Status,
		o.Subtotal,
		o.DiscountAmount,
		o.Tax,
		o.Total,
	).Scan(&o.ID, &o.PlacedAt, &o.UpdatedAt)
	if isOrderNumberConflict(err) {
		log.Warn("order number collision", zap.String("order_number", o.OrderNumber))
		return nil, ErrDuplicateOrderNumber
	}
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return nil, err
	}

	o.Items = make([]OrderItem, 0, len(lines))
	for i, l := range lines {
		item := OrderItem{
			OrderID:         o.ID,
			ProductID:       l.ProductID,
			Quantity:        l.Quantity,
			PriceAtPurchase: pricing.Round(l.BasePrice),
			Snapshot: Snapshot{
				Name:       l.Name,
				Properties: l.Properties,
				Images:     l.Images,
			},
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (
				order_id, product_id, quantity, price_at_purchase, product_snapshot
			) VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`,
			item.OrderID,
			item.ProductID,
			item.Quantity,
			item.PriceAtPurchase,
			item.Snapshot,
		).Scan(&item.ID)
		if err != nil {
			log.Error("failed to insert order item",
				zap.Int("item_index", i),
				zap.Int64("product_id", l.ProductID),
				zap.Error(err),
			)
			return nil, err
		}
		o.Items = append(o.Items, item)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM cart_items
		WHERE cart_id = (SELECT id FROM carts WHERE user_id = $1)
	`, int64(userID)); err != nil {
		log.Error("failed to clear cart", zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit place order transaction", zap.Error(err))
		return nil, err
	}

	committed = true
	log.Info("order placed",
		zap.Int64("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
		zap.Int("items", len(o.Items)),
	)

	return o, nil
}

// GetOrder returns nil, nil when no order matches.
func (r *repository) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetOrder"),
		zap.Int64("order_id", orderID),
	)

	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT`+orderColumns+` FROM orders WHERE id = $1`, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get order", zap.Error(err))
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity, price_at_purchase, product_snapshot
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		log.Error("failed to get order items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	o.Items = []OrderItem{}
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(
			&it.ID,
			&it.OrderID,
			&it.ProductID,
			&it.Quantity,
			&it.PriceAtPurchase,
			&it.Snapshot,
		); err != nil {
			log.Error("failed to scan order item", zap.Error(err))
			return nil, err
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return o, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter, limit, offset int) ([]Order, int, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListOrders"),
		zap.Int("limit", limit),
		zap.Int("offset", offset),
	)

	where := []string{}
	args := []any{}

	if filter.UserID != nil {
		args = append(args, int64(*filter.UserID))
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders`+whereSQL, args...,
	).Scan(&total); err != nil {
		log.Error("count failed", zap.Error(err))
		return nil, 0, err
	}

	query := `SELECT` + orderColumns + ` FROM orders` + whereSQL +
		` ORDER BY placed_at DESC, id DESC` +
		` LIMIT $` + fmt.Sprint(len(args)+1) +
		` OFFSET $` + fmt.Sprint(len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *repository) UpdateStatus(ctx context.Context, orderID int64, current, next Status) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdateStatus"),
		zap.Int64("order_id", orderID),
		zap.String("from", string(current)),
		zap.String("to", string(next)),
	)

	o, err := scanOrder(r.db.QueryRowContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING`+orderColumns,
		string(next), orderID, string(current),
	))
	if errors.Is(err, sql.ErrNoRows) {
		log.Info("status compare-and-set missed")
		return nil, nil
	}
	if err != nil {
		log.Error("failed to update order status", zap.Error(err))
		return nil, err
	}

	log.Info("order status updated")
	return o, nil
}

const orderNumberConstraint = "orders_order_number_key"

func isOrderNumberConflict(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) &&
		pqErr.Code == "23505" &&
		pqErr.Constraint == orderNumberConstraint
}
