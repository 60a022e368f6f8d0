package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront-be/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Insert(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Order, error)
	List(ctx context.Context, filter *Filter) ([]*Order, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status OrderStatus) (time.Time, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status PaymentStatus) (time.Time, error)
	UpdateTracking(ctx context.Context, id uuid.UUID, trackingNumber, carrier string, eta *time.Time) (time.Time, error)
	MarkDelivered(ctx context.Context, id uuid.UUID, deliveredAt time.Time) (time.Time, error)
	Cancel(ctx context.Context, id uuid.UUID) (time.Time, error)
	UpdateNotes(ctx context.Context, id uuid.UUID, notes string) (time.Time, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `
	o.id, o.order_number, o.user_id,
	o.customer_name, o.customer_email, o.customer_phone,
	o.shipping_street, o.shipping_city, o.shipping_state, o.shipping_zip, o.shipping_country,
	o.billing_street, o.billing_city, o.billing_state, o.billing_zip, o.billing_country,
	o.subtotal, o.shipping_cost, o.tax, o.total,
	o.status, o.payment_status,
	o.tracking_number, o.carrier, o.estimated_delivery_date, o.delivered_at,
	o.admin_notes, o.payment_method, o.transaction_id,
	o.created_at, o.updated_at`

// Insert persists the order and its item snapshots in one transaction and
// deducts stock for any line item that still references a live product row.
// A unique-index collision on order_number surfaces as ErrDuplicateOrderNumber
// so the caller can regenerate and retry.
func (r *repository) Insert(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Insert"),
		zap.String("order_number", o.OrderNumber),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	var billingStreet, billingCity, billingState, billingZip, billingCountry *string
	if b := o.BillingAddress; b != nil {
		billingStreet, billingCity, billingState, billingZip, billingCountry =
			&b.Street, &b.City, &b.State, &b.Zip, &b.Country
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			id, order_number, user_id,
			customer_name, customer_email, customer_phone,
			shipping_street, shipping_city, shipping_state, shipping_zip, shipping_country,
			billing_street, billing_city, billing_state, billing_zip, billing_country,
			subtotal, shipping_cost, tax, total,
			status, payment_status,
			payment_method, transaction_id
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,
			$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24
		)
		RETURNING created_at, updated_at
	`,
		o.ID, o.OrderNumber, o.UserID,
		o.CustomerName, o.CustomerEmail, o.CustomerPhone,
		o.ShippingAddress.Street, o.ShippingAddress.City, o.ShippingAddress.State,
		o.ShippingAddress.Zip, o.ShippingAddress.Country,
		billingStreet, billingCity, billingState, billingZip, billingCountry,
		o.Subtotal, o.ShippingCost, o.Tax, o.Total,
		o.Status, o.PaymentStatus,
		o.PaymentMethod, o.TransactionID,
	).Scan(&o.CreatedAt, &o.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" && strings.Contains(pqErr.Constraint, "order_number") {
			return ErrDuplicateOrderNumber
		}
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, quantity, price)
			VALUES ($1, $2, $3, $4, $5)
		`, o.ID, item.ProductID, item.ProductName, item.Quantity, item.Price)
		if err != nil {
			log.Error("failed to insert order item",
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
			return err
		}

		// Deduct stock. A miss is fine: the product may be gone or the id
		// unknown, and the item snapshot stays authoritative either way.
		_, err = tx.ExecContext(ctx, `
			UPDATE products
			SET stock = stock - $1
			WHERE id = $2 AND stock >= $1
		`, item.Quantity, item.ProductID)
		if err != nil {
			log.Error("failed to deduct stock",
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return err
	}

	log.Info("order persisted", zap.String("order_id", o.ID.String()))
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders o WHERE o.id = $1`, id)

	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, []*Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) GetByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders o WHERE o.order_number = $1`, orderNumber)

	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, []*Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders o WHERE o.user_id = $1 ORDER BY o.created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// List returns all orders newest-first. Absent filter fields mean "no
// constraint"; the search term matches order number, customer email, or
// customer name case-insensitively.
func (r *repository) List(ctx context.Context, filter *Filter) ([]*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
	)

	query := `SELECT ` + orderColumns + ` FROM orders o WHERE 1=1`
	args := []any{}
	argIndex := 1

	if filter != nil {
		if filter.Status != nil && *filter.Status != "" {
			query += fmt.Sprintf(" AND o.status = $%d", argIndex)
			args = append(args, *filter.Status)
			argIndex++
		}

		if filter.PaymentStatus != nil && *filter.PaymentStatus != "" {
			query += fmt.Sprintf(" AND o.payment_status = $%d", argIndex)
			args = append(args, *filter.PaymentStatus)
			argIndex++
		}

		if filter.Search != nil && *filter.Search != "" {
			query += fmt.Sprintf(
				" AND (o.order_number ILIKE $%d OR o.customer_email ILIKE $%d OR o.customer_name ILIKE $%d)",
				argIndex, argIndex, argIndex,
			)
			args = append(args, "%"+*filter.Search+"%")
			argIndex++
		}
	}

	query += " ORDER BY o.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		log.Error("failed to scan order rows", zap.Error(err))
		return nil, err
	}

	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}

	log.Debug("orders listed", zap.Int("count", len(orders)))
	return orders, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status OrderStatus) (time.Time, error) {
	return r.updateOne(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2
		RETURNING updated_at
	`, status, id)
}

func (r *repository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status PaymentStatus) (time.Time, error) {
	return r.updateOne(ctx, `
		UPDATE orders SET payment_status = $1, updated_at = NOW() WHERE id = $2
		RETURNING updated_at
	`, status, id)
}

func (r *repository) UpdateTracking(ctx context.Context, id uuid.UUID, trackingNumber, carrier string, eta *time.Time) (time.Time, error) {
	return r.updateOne(ctx, `
		UPDATE orders
		SET tracking_number = $1, carrier = $2, estimated_delivery_date = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`, trackingNumber, carrier, eta, id)
}

func (r *repository) MarkDelivered(ctx context.Context, id uuid.UUID, deliveredAt time.Time) (time.Time, error) {
	return r.updateOne(ctx, `
		UPDATE orders
		SET status = $1, delivered_at = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`, StatusDelivered, deliveredAt, id)
}

func (r *repository) Cancel(ctx context.Context, id uuid.UUID) (time.Time, error) {
	return r.updateOne(ctx, `
		UPDATE orders
		SET status = $1, payment_status = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`, StatusCancelled, PaymentRefunded, id)
}

func (r *repository) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) (time.Time, error) {
	return r.updateOne(ctx, `
		UPDATE orders SET admin_notes = $1, updated_at = NOW() WHERE id = $2
		RETURNING updated_at
	`, notes, id)
}

// updateOne runs a single-row UPDATE ... RETURNING updated_at so the caller
// reports the exact timestamp the database stored.
func (r *repository) updateOne(ctx context.Context, query string, args ...any) (time.Time, error) {
	var updatedAt time.Time
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, ErrOrderNotFound
	}
	if err != nil {
		return time.Time{}, err
	}
	return updatedAt, nil
}

// loadItems attaches item snapshots to the given orders in one batched query.
func (r *repository) loadItems(ctx context.Context, orders []*Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, len(orders))
	byID := make(map[uuid.UUID]*Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID.String()
		byID[o.ID] = o
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, product_id, product_name, quantity, price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var orderID uuid.UUID
		var item Item
		if err := rows.Scan(&orderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.Price); err != nil {
			return err
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}

	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var o Order
	var billingStreet, billingCity, billingState, billingZip, billingCountry sql.NullString

	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID,
		&o.CustomerName, &o.CustomerEmail, &o.CustomerPhone,
		&o.ShippingAddress.Street, &o.ShippingAddress.City, &o.ShippingAddress.State,
		&o.ShippingAddress.Zip, &o.ShippingAddress.Country,
		&billingStreet, &billingCity, &billingState, &billingZip, &billingCountry,
		&o.Subtotal, &o.ShippingCost, &o.Tax, &o.Total,
		&o.Status, &o.PaymentStatus,
		&o.TrackingNumber, &o.Carrier, &o.EstimatedDeliveryDate, &o.DeliveredAt,
		&o.AdminNotes, &o.PaymentMethod, &o.TransactionID,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if billingStreet.Valid || billingCity.Valid || billingState.Valid || billingZip.Valid || billingCountry.Valid {
		o.BillingAddress = &Address{
			Street:  billingStreet.String,
			City:    billingCity.String,
			State:   billingState.String,
			Zip:     billingZip.String,
			Country: billingCountry.String,
		}
	}

	return &o, nil
}

func collectOrders(rows *sql.Rows) ([]*Order, error) {
	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
