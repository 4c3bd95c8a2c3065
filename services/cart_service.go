package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"farm-shop/config"
	"farm-shop/models"
	"farm-shop/repositories"

	"go.uber.org/zap"
)

// ProductCatalog is the read side of the catalog the cart depends on.
type ProductCatalog interface {
	LookupMany(ctx context.Context, ids []int64) (map[int64]models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
}

type CartService struct {
	store    repositories.SessionStore
	catalog  ProductCatalog
	shipping models.ShippingTable
	shopName string
	currency string
}

func NewCartService(store repositories.SessionStore, catalog ProductCatalog, shipping models.ShippingTable, shopName, currency string) *CartService {
	return &CartService{
		store:    store,
		catalog:  catalog,
		shipping: shipping,
		shopName: shopName,
		currency: currency,
	}
}

// Add looks the product up in the live catalog so the entry snapshots the
// current name and price.
func (s *CartService) Add(ctx context.Context, sessionID string, productID int64, quantity int) (*models.Product, *models.Cart, error) {
	if quantity < 1 {
		return nil, nil, models.ErrInvalidQuantity
	}

	product, err := s.catalog.GetByID(ctx, productID)
	if err != nil {
		return nil, nil, err
	}

	cart, err := s.store.LoadCart(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if err := cart.Add(*product, quantity); err != nil {
		return nil, nil, err
	}
	if err := s.store.SaveCart(ctx, sessionID, cart); err != nil {
		return nil, nil, err
	}

	config.Logger.Debug("cart item added",
		zap.String("session", sessionID),
		zap.Int64("product_id", productID),
		zap.Int("quantity", quantity),
	)
	return product, cart, nil
}

func (s *CartService) Update(ctx context.Context, sessionID string, productID int64, quantity int) (*models.Cart, error) {
	cart, err := s.store.LoadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !cart.Contains(productID) {
		return cart, nil
	}

	if err := cart.Update(productID, quantity); err != nil {
		return nil, err
	}
	if err := s.store.SaveCart(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// BulkUpdate applies quantity_<id> form fields. Fields whose id or quantity
// does not parse are reported back instead of being dropped silently; the
// valid ones are still applied.
func (s *CartService) BulkUpdate(ctx context.Context, sessionID string, fields map[string]string) (*models.BulkUpdateResult, error) {
	cart, err := s.store.LoadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result := &models.BulkUpdateResult{
		Updated:  []int64{},
		Removed:  []int64{},
		Rejected: map[string]string{},
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		if strings.HasPrefix(key, "quantity_") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	changed := false
	for _, key := range keys {
		productID, err := strconv.ParseInt(strings.TrimPrefix(key, "quantity_"), 10, 64)
		if err != nil {
			result.Rejected[key] = "unknown product"
			continue
		}
		qty, err := models.ParseQuantity(fields[key])
		if err != nil {
			result.Rejected[key] = err.Error()
			continue
		}
		if !cart.Contains(productID) {
			continue
		}

		if err := cart.Update(productID, qty); err != nil {
			result.Rejected[key] = err.Error()
			continue
		}
		changed = true
		if qty > 0 {
			result.Updated = append(result.Updated, productID)
		} else {
			result.Removed = append(result.Removed, productID)
		}
	}

	if changed {
		if err := s.store.SaveCart(ctx, sessionID, cart); err != nil {
			return nil, err
		}
	}
	if len(result.Rejected) == 0 {
		result.Rejected = nil
	}
	return result, nil
}

func (s *CartService) Remove(ctx context.Context, sessionID string, productID int64) error {
	cart, err := s.store.LoadCart(ctx, sessionID)
	if err != nil {
		return err
	}
	if !cart.Contains(productID) {
		return nil
	}
	cart.Remove(productID)
	return s.store.SaveCart(ctx, sessionID, cart)
}

// Clear drops the cart from the session entirely. The delivery zone is kept.
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	return s.store.DeleteCart(ctx, sessionID)
}

// SetShippingZone stores a known zone. Anything else clears the selection
// and reports false.
func (s *CartService) SetShippingZone(ctx context.Context, sessionID, zone string) (bool, error) {
	if !s.shipping.Has(zone) {
		return false, s.store.ClearShippingZone(ctx, sessionID)
	}
	return true, s.store.SetShippingZone(ctx, sessionID, zone)
}

func (s *CartService) Count(ctx context.Context, sessionID string) (int, error) {
	cart, err := s.store.LoadCart(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return cart.TotalItemCount(), nil
}

// Reconcile drops entries for products that no longer exist and returns the
// live products for the remaining ones. The caller decides whether to save.
func (s *CartService) Reconcile(ctx context.Context, cart *models.Cart) (map[int64]models.Product, []int64, error) {
	live, err := s.catalog.LookupMany(ctx, cart.ProductIDs())
	if err != nil {
		return nil, nil, fmt.Errorf("reconcile cart: %w", err)
	}
	removed := cart.Reconcile(live)
	if len(removed) > 0 {
		config.Logger.Info("dropped deleted products from cart", zap.Int64s("product_ids", removed))
	}
	return live, removed, nil
}

// View reconciles the cart against the catalog, persists the result if any
// entry was dropped, and returns lines and totals for display.
func (s *CartService) View(ctx context.Context, sessionID string) (*models.CartView, error) {
	cart, err := s.store.LoadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	live, removed, err := s.Reconcile(ctx, cart)
	if err != nil {
		return nil, err
	}
	if len(removed) > 0 {
		if err := s.store.SaveCart(ctx, sessionID, cart); err != nil {
			return nil, err
		}
	}

	zone, err := s.store.ShippingZone(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	fee := s.shipping.Fee(zone)
	subtotal := cart.TotalPrice()
	total := subtotal.Add(fee)
	lines := cart.Lines(live)

	return &models.CartView{
		Items:           lines,
		Removed:         removed,
		TotalItems:      cart.TotalItemCount(),
		Subtotal:        subtotal,
		ShippingZones:   s.shipping.Zones(),
		SelectedZone:    zone,
		ShippingCost:    fee,
		Total:           total,
		WhatsAppMessage: FormatCartMessage(s.shopName, lines, s.shipping.Label(zone), fee, total, s.currency),
	}, nil
}
