package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/YelzhanWeb/carta/internal/domain"
	"github.com/YelzhanWeb/carta/internal/interfaces"
)

const placedBy = "customer"

type orderRepository struct {
	db       DB
	now      func() time.Time
	location *time.Location
}

// NewOrderRepository numbers orders by the calendar day in location; nil
// means UTC
func NewOrderRepository(db DB, location *time.Location) interfaces.OrderRepository {
	if location == nil {
		location = time.UTC
	}
	return &orderRepository{db: db, now: time.Now, location: location}
}

// Create stores the order, its items and the initial status log entry in
// one transaction. Money goes over the wire as text so no precision is lost.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO orders (number, session_key, customer_name, customer_email, locale,
		                    delivery_street, delivery_house_number, delivery_zone, phone, notes,
		                    total_price, status, message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11::text::numeric, $12, $13, $14, $15)
		RETURNING id
	`
	err = tx.QueryRow(ctx, query,
		order.Number, order.SessionKey, order.CustomerName, order.CustomerEmail, order.Locale,
		order.Delivery.Street, order.Delivery.HouseNumber, order.Delivery.Zone, order.Delivery.Phone, order.Delivery.Notes,
		order.TotalPrice.StringFixed(2), order.Status, order.Message, order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		return errors.Wrap(err, "failed to insert order")
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, subtotal, customization, created_at)
		VALUES ($1, $2, $3, $4, $5::text::numeric, $6::text::numeric, $7, $8)
		RETURNING id
	`
	for i := range order.Items {
		item := &order.Items[i]

		customization, err := encodeCustomization(item.Customization)
		if err != nil {
			return err
		}

		err = tx.QueryRow(ctx, itemQuery,
			order.ID, item.ProductID, item.ProductName, item.Quantity,
			item.UnitPrice.StringFixed(2), item.Subtotal.StringFixed(2), customization, order.CreatedAt,
		).Scan(&item.ID)
		if err != nil {
			return errors.Wrap(err, "failed to insert order item")
		}
		item.OrderID = order.ID
	}

	logQuery := `
		INSERT INTO order_status_log (order_id, status, changed_by, changed_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.Exec(ctx, logQuery, order.ID, order.Status, placedBy, order.CreatedAt); err != nil {
		return errors.Wrap(err, "failed to log status")
	}

	return errors.Wrap(tx.Commit(ctx), "failed to commit order")
}

func (r *orderRepository) FindByNumber(ctx context.Context, number string) (*domain.Order, error) {
	query := `
		SELECT id, number, session_key, customer_name, customer_email, locale,
		       delivery_street, delivery_house_number, delivery_zone, phone, COALESCE(notes, ''),
		       total_price::text, status, message, changed_by, created_at, updated_at
		FROM orders
		WHERE number = $1
	`

	var (
		order domain.Order
		total string
	)
	err := r.db.QueryRow(ctx, query, number).Scan(
		&order.ID, &order.Number, &order.SessionKey, &order.CustomerName, &order.CustomerEmail, &order.Locale,
		&order.Delivery.Street, &order.Delivery.HouseNumber, &order.Delivery.Zone, &order.Delivery.Phone, &order.Delivery.Notes,
		&total, &order.Status, &order.Message, &order.ChangedBy, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, errors.Wrapf(err, "failed to load order %s", number)
	}
	order.TotalPrice = domain.ParsePrice(total)

	itemsQuery := `
		SELECT id, order_id, product_id, product_name, quantity, unit_price::text, subtotal::text, customization
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, itemsQuery, order.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load order items")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item                domain.OrderItem
			unitPrice, subtotal string
			customization       []byte
		)
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity,
			&unitPrice, &subtotal, &customization); err != nil {
			return nil, errors.Wrap(err, "failed to scan order item")
		}
		item.UnitPrice = domain.ParsePrice(unitPrice)
		item.Subtotal = domain.ParsePrice(subtotal)

		if item.Customization, err = decodeCustomization(customization); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read order items")
	}

	return &order, nil
}

// UpdateStatusWithLog moves the order to status only if nobody changed it
// since it was read, and records the change in the status log
func (r *orderRepository) UpdateStatusWithLog(ctx context.Context, order *domain.Order, status domain.Status, changedBy string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	now := r.now()

	tag, err := tx.Exec(ctx, `
		UPDATE orders
		SET status = $1, changed_by = NULLIF($2, ''), updated_at = $3
		WHERE id = $4 AND status = $5
	`, status, changedBy, now, order.ID, order.Status)
	if err != nil {
		return errors.Wrap(err, "failed to update order status")
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(domain.ErrInvalidStatusTransition, "order %s is no longer %s", order.Number, order.Status)
	}

	if changedBy == "" {
		changedBy = "system"
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO order_status_log (order_id, status, changed_by, changed_at)
		VALUES ($1, $2, $3, $4)
	`, order.ID, status, changedBy, now)
	if err != nil {
		return errors.Wrap(err, "failed to log status")
	}

	return errors.Wrap(tx.Commit(ctx), "failed to commit status update")
}

func (r *orderRepository) GetStatusHistory(ctx context.Context, orderID int) ([]*domain.StatusLog, error) {
	query := `
		SELECT id, order_id, status, changed_by, changed_at, notes
		FROM order_status_log
		WHERE order_id = $1
		ORDER BY changed_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query status history")
	}
	defer rows.Close()

	var logs []*domain.StatusLog
	for rows.Next() {
		var log domain.StatusLog
		if err := rows.Scan(&log.ID, &log.OrderID, &log.Status, &log.ChangedBy, &log.ChangedAt, &log.Notes); err != nil {
			return nil, errors.Wrap(err, "failed to scan status log")
		}
		logs = append(logs, &log)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read status history")
	}

	return logs, nil
}

// GenerateOrderNumber returns ORD_YYYYMMDD_NNN with a per-day sequence
func (r *orderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	day := r.now().In(r.location)
	prefix := fmt.Sprintf("ORD_%s_", day.Format("20060102"))

	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE number LIKE $1`, prefix+"%").Scan(&count)
	if err != nil {
		return "", errors.Wrap(err, "failed to count orders")
	}

	return fmt.Sprintf("%s%03d", prefix, count+1), nil
}

func encodeCustomization(c *domain.Customization) ([]byte, error) {
	if c.IsEmpty() {
		return nil, nil
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode customization")
	}
	return data, nil
}

func decodeCustomization(data []byte) (*domain.Customization, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var c domain.Customization
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(err, "failed to decode customization")
	}
	return &c, nil
}
