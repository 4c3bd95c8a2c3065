package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"farm-shop/models"

	"github.com/jackc/pgx/v5"
)

const orderColumns = `order_id, created, total_paid, shipping_zone, shipping_cost, items, notified, invoice`

type OrderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var (
		o         models.Order
		itemsJSON []byte
	)
	if err := row.Scan(&o.OrderID, &o.Created, &o.TotalPaid, &o.ShippingZone, &o.ShippingCost,
		&itemsJSON, &o.Notified, &o.Invoice); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	return &o, nil
}

// Create inserts the order and fills in the id and creation time assigned
// by the database.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}

	err = r.db.QueryRow(ctx,
		`INSERT INTO orders (total_paid, shipping_zone, shipping_cost, items)
		 VALUES ($1, $2, $3, $4)
		 RETURNING order_id, created`,
		order.TotalPaid, order.ShippingZone, order.ShippingCost, itemsJSON,
	).Scan(&order.OrderID, &order.Created)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepository) AttachInvoice(ctx context.Context, orderID int64, invoice string) error {
	tag, err := r.db.Exec(ctx, `UPDATE orders SET invoice = $1 WHERE order_id = $2`, invoice, orderID)
	if err != nil {
		return fmt.Errorf("attach invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) MarkNotified(ctx context.Context, orderID int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE orders SET notified = true WHERE order_id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("mark order notified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, orderID int64) (*models.Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_id = $1`, orderID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", orderID, err)
	}
	return order, nil
}

func (r *OrderRepository) List(ctx context.Context, page, limit int) ([]*models.Order, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created DESC LIMIT $1 OFFSET $2`,
		limit, pageOffset(page, limit))
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, order)
	}
	return orders, total, rows.Err()
}
