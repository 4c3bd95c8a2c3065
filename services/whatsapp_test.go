package services

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"farm-shop/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeepLinkEncoding(t *testing.T) {
	link := DeepLink(testLinkBase, "NEW ORDER #316\n• 2 × Eggs = KSh 200.00 & more")

	assert.True(t, strings.HasPrefix(link, testLinkBase+"?text="))
	assert.NotContains(t, link, "+")
	assert.NotContains(t, link, " ")
	assert.Contains(t, link, "NEW%20ORDER%20%23316%0A")
	assert.Contains(t, link, "%26")

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "NEW ORDER #316\n• 2 × Eggs = KSh 200.00 & more", parsed.Query().Get("text"))
}

func TestFormatOrderMessage(t *testing.T) {
	order := &models.Order{
		OrderID:      401,
		Created:      time.Date(2024, 12, 31, 21, 30, 0, 0, time.UTC),
		TotalPaid:    decimal.RequireFromString("151.50"),
		ShippingZone: "Westlands",
		ShippingCost: decimal.NewFromInt(250),
		Items: []models.OrderItem{
			{Name: "Milk", Price: decimal.RequireFromString("50.50"), Quantity: 3, Total: decimal.RequireFromString("151.50")},
		},
	}

	msg := FormatOrderMessage(order, "KSh", nairobi)
	assert.Contains(t, msg, "NEW ORDER #401\n")
	assert.Contains(t, msg, "Date: 01/01/2025 12:30 AM\n")
	assert.Contains(t, msg, "• 3 × Milk = KSh 151.50\n")
	assert.Contains(t, msg, "TOTAL: KSh 401.50\n")

	assert.Contains(t, FormatOrderMessage(order, "KSh", nil), "Date: 31/12/2024 09:30 PM\n")
}

func TestFormatCartMessage(t *testing.T) {
	lines := []models.CartLine{{
		CartEntry:  models.CartEntry{ProductID: 1, Name: "Eggs", UnitPrice: decimal.NewFromInt(100), Quantity: 2},
		Product:    models.Product{ID: 1, Name: "Eggs"},
		TotalPrice: decimal.NewFromInt(200),
	}}

	msg := FormatCartMessage("Wamugunda Farm", lines, "Runda", decimal.NewFromInt(300), decimal.NewFromInt(500), "KSh")
	assert.True(t, strings.HasPrefix(msg, "Hello Wamugunda Farm!\n\n"))
	assert.Contains(t, msg, "• 2x Eggs - KSh 200.00")
	assert.Contains(t, msg, "*Delivery Zone:* Runda")
	assert.Contains(t, msg, "*Shipping:* KSh 300.00")
	assert.Contains(t, msg, "*Total Amount:* KSh 500.00")
}
