package services

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"farm-shop/models"

	"github.com/shopspring/decimal"
)

const orderDateLayout = "02/01/2006 03:04 PM"

// FormatOrderMessage renders the text sent to the shop's WhatsApp number
// once an order has been stored.
func FormatOrderMessage(order *models.Order, currency string, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	var b strings.Builder
	fmt.Fprintf(&b, "NEW ORDER #%d\n\n", order.OrderID)
	fmt.Fprintf(&b, "Date: %s\n\n", order.Created.In(loc).Format(orderDateLayout))
	b.WriteString("Items:\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "• %d × %s = %s\n", item.Quantity, item.Name, money(currency, item.Total))
	}
	fmt.Fprintf(&b, "\nDelivery Zone: %s\n", order.ShippingZone)
	fmt.Fprintf(&b, "Delivery Fee: %s\n", money(currency, order.ShippingCost))
	fmt.Fprintf(&b, "TOTAL: %s\n\n", money(currency, order.Total()))
	b.WriteString("Thank you for your order!")
	return b.String()
}

// FormatCartMessage is the preview shown on the cart page before checkout.
func FormatCartMessage(shopName string, lines []models.CartLine, zoneLabel string, fee, total decimal.Decimal, currency string) string {
	items := make([]string, 0, len(lines))
	for _, line := range lines {
		items = append(items, fmt.Sprintf("• %dx %s - %s", line.Quantity, line.Product.Name, money(currency, line.TotalPrice)))
	}
	itemText := "No items"
	if len(items) > 0 {
		itemText = strings.Join(items, "\n")
	}

	return fmt.Sprintf("Hello %s!\n\n"+
		"🧺 *My Order:*\n%s\n\n"+
		"📍 *Delivery Zone:* %s\n"+
		"🚚 *Shipping:* %s\n"+
		"💰 *Total Amount:* %s\n\n"+
		"Thank you for receiving my order! 🙏",
		shopName, itemText, zoneLabel, money(currency, fee), money(currency, total))
}

// DeepLink appends the percent-encoded message as the text query parameter.
// Spaces are encoded as %20, which messaging apps expect over '+'.
func DeepLink(base, message string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return base + "?text=" + encoded
}

func money(currency string, amount decimal.Decimal) string {
	return currency + " " + amount.StringFixed(2)
}
