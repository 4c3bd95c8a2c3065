package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"farm-shop/config"
	"farm-shop/models"
	"farm-shop/repositories"

	"go.uber.org/zap"
)

type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	AttachInvoice(ctx context.Context, orderID int64, invoice string) error
	MarkNotified(ctx context.Context, orderID int64) error
}

type InvoiceRenderer interface {
	RenderInvoice(order *models.Order) ([]byte, error)
}

// DocumentStore persists a rendered document and returns a reference to it
// (a path relative to the uploads dir or an absolute URL).
type DocumentStore interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

type OrderNotifier interface {
	NotifyOrder(ctx context.Context, order *models.Order, invoice []byte) error
}

type CheckoutConfig struct {
	LinkBase string
	Currency string
	Location *time.Location
	LockTTL  time.Duration
}

type CheckoutService struct {
	sessions  repositories.SessionStore
	locker    repositories.Locker
	carts     *CartService
	orders    OrderStore
	renderer  InvoiceRenderer
	documents DocumentStore
	notifier  OrderNotifier
	shipping  models.ShippingTable
	cfg       CheckoutConfig
}

// NewCheckoutService wires the orchestrator. notifier may be nil.
func NewCheckoutService(
	sessions repositories.SessionStore,
	locker repositories.Locker,
	carts *CartService,
	orders OrderStore,
	renderer InvoiceRenderer,
	documents DocumentStore,
	notifier OrderNotifier,
	shipping models.ShippingTable,
	cfg CheckoutConfig,
) *CheckoutService {
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 30 * time.Second
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &CheckoutService{
		sessions:  sessions,
		locker:    locker,
		carts:     carts,
		orders:    orders,
		renderer:  renderer,
		documents: documents,
		notifier:  notifier,
		shipping:  shipping,
		cfg:       cfg,
	}
}

// CreateOrder turns the session cart into a stored order and returns the
// WhatsApp deep link for it.
//
// Invoice generation is best effort: if rendering or storing the PDF fails
// the order is kept without an invoice and checkout still succeeds.
// Concurrent checkouts for one session are rejected with
// ErrCheckoutInProgress while the first one holds the lock.
func (s *CheckoutService) CreateOrder(ctx context.Context, sessionID string) (*models.CheckoutResult, error) {
	lockKey := "checkout:" + sessionID
	token, err := s.locker.TryLock(ctx, lockKey, s.cfg.LockTTL)
	if err != nil {
		if errors.Is(err, repositories.ErrLockHeld) {
			return nil, ErrCheckoutInProgress
		}
		return nil, err
	}
	defer func() {
		if err := s.locker.Unlock(context.Background(), lockKey, token); err != nil {
			config.Logger.Warn("failed to release checkout lock", zap.String("session", sessionID), zap.Error(err))
		}
	}()

	cart, err := s.sessions.LoadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart.TotalItemCount() == 0 {
		return nil, ErrEmptyCart
	}

	_, removed, err := s.carts.Reconcile(ctx, cart)
	if err != nil {
		return nil, err
	}
	if len(removed) > 0 {
		if err := s.sessions.SaveCart(ctx, sessionID, cart); err != nil {
			return nil, err
		}
	}
	if cart.TotalItemCount() == 0 {
		return nil, ErrEmptyCart
	}

	zone, err := s.sessions.ShippingZone(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	subtotal := cart.TotalPrice()
	if subtotal.GreaterThan(models.MaxOrderSubtotal) {
		return nil, ErrOrderTooLarge
	}

	order := &models.Order{
		TotalPaid:    subtotal,
		ShippingZone: s.shipping.Label(zone),
		ShippingCost: s.shipping.Fee(zone),
		Items:        models.NewOrderItems(cart.Snapshot()),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	invoice := s.attachInvoice(ctx, order)

	message := FormatOrderMessage(order, s.cfg.Currency, s.cfg.Location)
	link := DeepLink(s.cfg.LinkBase, message)

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		config.Logger.Error("order stored but cart not cleared",
			zap.Int64("order_id", order.OrderID), zap.Error(err))
	}

	s.notify(ctx, order, invoice)

	config.Logger.Info("order created",
		zap.Int64("order_id", order.OrderID),
		zap.String("zone", order.ShippingZone),
		zap.String("total", order.Total().StringFixed(2)),
		zap.Bool("invoice", order.Invoice != nil),
	)

	return &models.CheckoutResult{
		OrderID:  order.OrderID,
		DeepLink: link,
		Invoice:  order.Invoice,
		Message:  message,
	}, nil
}

// attachInvoice renders and stores the PDF and records the reference on the
// order. It returns the PDF bytes, or nil when any step failed.
func (s *CheckoutService) attachInvoice(ctx context.Context, order *models.Order) []byte {
	pdf, err := s.renderer.RenderInvoice(order)
	if err != nil {
		config.Logger.Warn("invoice render failed", zap.Int64("order_id", order.OrderID), zap.Error(err))
		return nil
	}

	name := fmt.Sprintf("invoice_%d.pdf", order.OrderID)
	ref, err := s.documents.Save(ctx, name, pdf)
	if err != nil {
		config.Logger.Warn("invoice store failed", zap.Int64("order_id", order.OrderID), zap.Error(err))
		return nil
	}

	if err := s.orders.AttachInvoice(ctx, order.OrderID, ref); err != nil {
		config.Logger.Warn("invoice attach failed", zap.Int64("order_id", order.OrderID), zap.Error(err))
		return nil
	}
	order.Invoice = &ref
	return pdf
}

func (s *CheckoutService) notify(ctx context.Context, order *models.Order, invoice []byte) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyOrder(ctx, order, invoice); err != nil {
		config.Logger.Warn("order notification failed", zap.Int64("order_id", order.OrderID), zap.Error(err))
		return
	}
	if err := s.orders.MarkNotified(ctx, order.OrderID); err != nil {
		config.Logger.Warn("mark notified failed", zap.Int64("order_id", order.OrderID), zap.Error(err))
		return
	}
	order.Notified = true
}
