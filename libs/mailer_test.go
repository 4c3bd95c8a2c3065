package libs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"farm-shop/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func sampleOrder() *models.Order {
	return &models.Order{
		OrderID:      316,
		Created:      time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC),
		TotalPaid:    decimal.RequireFromString("200"),
		ShippingZone: "Runda",
		ShippingCost: decimal.RequireFromString("300"),
		Items: []models.OrderItem{{
			Name:     "Eggs <tray>",
			Quantity: 2,
			Price:    decimal.RequireFromString("100"),
			Total:    decimal.RequireFromString("200"),
		}},
	}
}

func TestOrderMailerNotifyOrder(t *testing.T) {
	var (
		gotFrom string
		gotTo   []string
		body    bytes.Buffer
	)
	sender := gomail.SendFunc(func(from string, to []string, msg io.WriterTo) error {
		gotFrom, gotTo = from, to
		_, err := msg.WriteTo(&body)
		return err
	})

	m := NewOrderMailerWithSender(sender, "shop@farm.test", "owner@farm.test", "Wamugunda Farm", "KSh", time.UTC)
	require.NoError(t, m.NotifyOrder(context.Background(), sampleOrder(), []byte("%PDF-1.3")))

	assert.Equal(t, "shop@farm.test", gotFrom)
	assert.Equal(t, []string{"owner@farm.test"}, gotTo)
	raw := body.String()
	assert.Contains(t, raw, "New Order #316")
	assert.Contains(t, raw, "invoice_316.pdf")
}

func TestOrderMailerBodyEscapesNames(t *testing.T) {
	m := NewOrderMailerWithSender(nil, "a", "b", "Wamugunda Farm", "KSh", time.UTC)
	body := m.orderBody(sampleOrder())

	assert.Contains(t, body, "Eggs &lt;tray&gt;")
	assert.Contains(t, body, "KSh 500.00")
	assert.Contains(t, body, "05/03/2024 02:07 PM")
}

func TestOrderMailerSendFailure(t *testing.T) {
	sender := gomail.SendFunc(func(string, []string, io.WriterTo) error {
		return errors.New("connection refused")
	})
	m := NewOrderMailerWithSender(sender, "a", "b", "Wamugunda Farm", "KSh", time.UTC)

	err := m.NotifyOrder(context.Background(), sampleOrder(), nil)
	assert.ErrorContains(t, err, "connection refused")
}
