package cart

import (
	"context"
	"database/sql"
	"errors"

	"studentdeal-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	GetOrCreate(ctx context.Context, scope Scope) (*Cart, error)
	FindCart(ctx context.Context, scope Scope) (*Cart, error)
	ListItems(ctx context.Context, cartID int64) ([]CartItem, error)
	AddItem(ctx context.Context, cartID, productID int64, quantity int) (*CartItem, error)
	GetProductStock(ctx context.Context, productID int64) (*ProductStock, error)
	GetItem(ctx context.Context, itemID int64) (*ItemOwner, error)
	UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*CartItem, error)
	RemoveItem(ctx context.Context, itemID int64) error
	ClearCart(ctx context.Context, cartID int64) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func scopeColumn(scope Scope) (string, any) {
	if scope.IsUser() {
		return "user_id", int64(scope.UserID)
	}
	return "session_id", scope.SessionID
}

func ownerPtrs(userID sql.NullInt64, sessionID sql.NullString) (*uint, *string) {
	var u *uint
	var s *string
	if userID.Valid {
		v := uint(userID.Int64)
		u = &v
	}
	if sessionID.Valid {
		v := sessionID.String
		s = &v
	}
	return u, s
}

// GetOrCreate never fails on a missing cart: the insert is a no-op when the
// scope already owns one, then the row is read back.
func (r *repository) GetOrCreate(ctx context.Context, scope Scope) (*Cart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetOrCreate"),
		zap.String("scope", scope.String()),
	)

	column, value := scopeColumn(scope)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO carts (`+column+`) VALUES ($1) ON CONFLICT (`+column+`) DO NOTHING`,
		value,
	)
	if err != nil {
		log.Error("failed to create cart", zap.Error(err))
		return nil, err
	}

	c, err := r.FindCart(ctx, scope)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errors.New("cart vanished after insert")
	}
	return c, nil
}

// FindCart returns nil, nil when the scope has no cart yet.
func (r *repository) FindCart(ctx context.Context, scope Scope) (*Cart, error) {
	column, value := scopeColumn(scope)

	var (
		c         Cart
		userID    sql.NullInt64
		sessionID sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
	SELECT id, user_id, session_id, created_at, updated_at
	FROM carts
	WHERE `+column+` = $1`, value).
		Scan(&c.ID, &userID, &sessionID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to find cart",
			zap.String("layer", "repository"),
			zap.String("method", "FindCart"),
			zap.String("scope", scope.String()),
			zap.Error(err),
		)
		return nil, err
	}

	c.UserID, c.SessionID = ownerPtrs(userID, sessionID)
	c.Items = []CartItem{}
	return &c, nil
}

func (r *repository) ListItems(ctx context.Context, cartID int64) ([]CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListItems"),
		zap.Int64("cart_id", cartID),
	)

	rows, err := r.db.QueryContext(ctx, `
	SELECT
		ci.id,
		ci.cart_id,
		ci.product_id,
		ci.quantity,
		ci.created_at,
		ci.updated_at,

		p.name,
		p.base_price,
		p.stock,
		p.active,
		p.images
	FROM cart_items ci
	JOIN products p ON p.id = ci.product_id
	WHERE ci.cart_id = $1
	ORDER BY ci.created_at ASC, ci.id ASC`, cartID)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	items := []CartItem{}
	for rows.Next() {
		var (
			item CartItem
			p    ItemProduct
		)
		if err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ProductID,
			&item.Quantity,
			&item.CreatedAt,
			&item.UpdatedAt,

			&p.Name,
			&p.BasePrice,
			&p.Stock,
			&p.Active,
			pq.Array(&p.Images),
		); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		if p.Images == nil {
			p.Images = []string{}
		}
		item.Product = &p
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}

	return items, nil
}

// AddItem inserts the product into the cart or increments the existing row in
// one statement. The insert is guarded by the product being active with
// enough stock, the increment by stock covering the new total. It returns
// nil, nil when either guard fails.
func (r *repository) AddItem(ctx context.Context, cartID, productID int64, quantity int) (*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "AddItem"),
		zap.Int64("cart_id", cartID),
		zap.Int64("product_id", productID),
		zap.Int("quantity", quantity),
	)

	log.Debug("start add cart item")

	query := `
	INSERT INTO cart_items (cart_id, product_id, quantity)
	SELECT $1, p.id, $3
	FROM products p
	WHERE p.id = $2 AND p.active = TRUE AND p.stock >= $3
	ON CONFLICT (cart_id, product_id) DO UPDATE
	SET quantity = cart_items.quantity + EXCLUDED.quantity,
	    updated_at = NOW()
	WHERE (SELECT stock FROM products WHERE id = EXCLUDED.product_id) >= cart_items.quantity + EXCLUDED.quantity
	RETURNING
		id,
		cart_id,
		product_id,
		quantity,
		created_at,
		updated_at`

	var item CartItem
	err := r.db.QueryRowContext(ctx, query, cartID, productID, quantity).Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		log.Info("add rejected by stock guard")
		return nil, nil
	}
	if err != nil {
		log.Error("failed to add cart item", zap.Error(err))
		return nil, err
	}

	log.Info("success add cart item",
		zap.Int64("cart_item_id", item.ID),
		zap.Int("new_quantity", item.Quantity),
	)
	return &item, nil
}

// GetProductStock returns nil, nil when the product does not exist.
func (r *repository) GetProductStock(ctx context.Context, productID int64) (*ProductStock, error) {
	var ps ProductStock
	err := r.db.QueryRowContext(ctx,
		`SELECT active, stock FROM products WHERE id = $1`, productID,
	).Scan(&ps.Active, &ps.Stock)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ps, nil
}

// GetItem returns nil, nil when the item does not exist.
func (r *repository) GetItem(ctx context.Context, itemID int64) (*ItemOwner, error) {
	var (
		o         ItemOwner
		userID    sql.NullInt64
		sessionID sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
	SELECT
		ci.id,
		ci.cart_id,
		ci.product_id,
		ci.quantity,
		ci.created_at,
		ci.updated_at,
		c.user_id,
		c.session_id
	FROM cart_items ci
	JOIN carts c ON c.id = ci.cart_id
	WHERE ci.id = $1`, itemID).Scan(
		&o.Item.ID,
		&o.Item.CartID,
		&o.Item.ProductID,
		&o.Item.Quantity,
		&o.Item.CreatedAt,
		&o.Item.UpdatedAt,
		&userID,
		&sessionID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get cart item",
			zap.String("layer", "repository"),
			zap.String("method", "GetItem"),
			zap.Int64("cart_item_id", itemID),
			zap.Error(err),
		)
		return nil, err
	}

	o.UserID, o.SessionID = ownerPtrs(userID, sessionID)
	return &o, nil
}

// UpdateItemQuantity sets the quantity only while the product is active and
// has stock for it. Returns nil, nil when the guard fails.
func (r *repository) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdateItemQuantity"),
		zap.Int64("cart_item_id", itemID),
		zap.Int("quantity", quantity),
	)

	query := `
	UPDATE cart_items ci
	SET quantity = $1,
	    updated_at = NOW()
	FROM products p
	WHERE ci.id = $2
	  AND p.id = ci.product_id
	  AND p.active = TRUE
	  AND p.stock >= $1
	RETURNING
		ci.id,
		ci.cart_id,
		ci.product_id,
		ci.quantity,
		ci.created_at,
		ci.updated_at`

	var item CartItem
	err := r.db.QueryRowContext(ctx, query, quantity, itemID).Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		log.Info("update rejected by stock guard")
		return nil, nil
	}
	if err != nil {
		log.Error("failed to update cart item", zap.Error(err))
		return nil, err
	}
	return &item, nil
}

func (r *repository) RemoveItem(ctx context.Context, itemID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to remove cart item",
			zap.String("layer", "repository"),
			zap.String("method", "RemoveItem"),
			zap.Int64("cart_item_id", itemID),
			zap.Error(err),
		)
	}
	return err
}

func (r *repository) ClearCart(ctx context.Context, cartID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to clear cart",
			zap.String("layer", "repository"),
			zap.String("method", "ClearCart"),
			zap.Int64("cart_id", cartID),
			zap.Error(err),
		)
		return err
	}

	n, _ := res.RowsAffected()
	logger.FromCtx(ctx).Debug("cart cleared",
		zap.Int64("cart_id", cartID),
		zap.Int64("removed", n),
	)
	return nil
}
