package services

import (
	"context"

	"farm-shop/models"
)

const adminOrderPageSize = 20

type OrderReader interface {
	GetByID(ctx context.Context, orderID int64) (*models.Order, error)
	List(ctx context.Context, page, limit int) ([]*models.Order, int, error)
	MarkNotified(ctx context.Context, orderID int64) error
}

// OrderService is the back-office view of stored orders.
type OrderService struct {
	orders   OrderReader
	renderer InvoiceRenderer
}

func NewOrderService(orders OrderReader, renderer InvoiceRenderer) *OrderService {
	return &OrderService{orders: orders, renderer: renderer}
}

func (s *OrderService) List(ctx context.Context, page, limit int) ([]*models.Order, models.PaginationMeta, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = adminOrderPageSize
	}
	orders, total, err := s.orders.List(ctx, page, limit)
	if err != nil {
		return nil, models.PaginationMeta{}, err
	}
	return orders, models.NewPaginationMeta(page, limit, total), nil
}

func (s *OrderService) Get(ctx context.Context, orderID int64) (*models.Order, error) {
	return s.orders.GetByID(ctx, orderID)
}

func (s *OrderService) MarkNotified(ctx context.Context, orderID int64) error {
	return s.orders.MarkNotified(ctx, orderID)
}

// RenderInvoice draws the invoice again from the stored snapshot, for
// orders whose invoice was never stored.
func (s *OrderService) RenderInvoice(ctx context.Context, orderID int64) (*models.Order, []byte, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	pdf, err := s.renderer.RenderInvoice(order)
	if err != nil {
		return nil, nil, err
	}
	return order, pdf, nil
}
