package libs

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"farm-shop/config"
	"farm-shop/models"

	"gopkg.in/gomail.v2"
)

var ErrSMTPNotConfigured = errors.New("SMTP configuration missing")

// OrderMailer emails the shop owner each new order with the invoice attached.
type OrderMailer struct {
	dialer   *gomail.Dialer
	sender   gomail.Sender
	from     string
	to       string
	shopName string
	currency string
	loc      *time.Location
}

func NewOrderMailer(cfg *config.Config, loc *time.Location) (*OrderMailer, error) {
	if cfg.SMTPHost == "" || cfg.SMTPUser == "" || cfg.SMTPPass == "" || cfg.OrderNotifyEmail == "" {
		return nil, ErrSMTPNotConfigured
	}
	return &OrderMailer{
		dialer:   gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:     cfg.SMTPFrom,
		to:       cfg.OrderNotifyEmail,
		shopName: cfg.ShopName,
		currency: cfg.Currency,
		loc:      loc,
	}, nil
}

// NewOrderMailerWithSender sends through s instead of dialing SMTP.
func NewOrderMailerWithSender(s gomail.Sender, from, to, shopName, currency string, loc *time.Location) *OrderMailer {
	return &OrderMailer{sender: s, from: from, to: to, shopName: shopName, currency: currency, loc: loc}
}

func (m *OrderMailer) NotifyOrder(_ context.Context, order *models.Order, invoice []byte) error {
	msg := m.buildMessage(order, invoice)

	var err error
	if m.sender != nil {
		err = gomail.Send(m.sender, msg)
	} else {
		err = m.dialer.DialAndSend(msg)
	}
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (m *OrderMailer) buildMessage(order *models.Order, invoice []byte) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", fmt.Sprintf("New Order #%d - %s", order.OrderID, m.shopName))
	msg.SetBody("text/html", m.orderBody(order))

	if len(invoice) > 0 {
		msg.Attach(fmt.Sprintf("invoice_%d.pdf", order.OrderID),
			gomail.SetHeader(map[string][]string{"Content-Type": {"application/pdf"}}),
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(invoice)
				return err
			}),
		)
	}
	return msg
}

func (m *OrderMailer) orderBody(order *models.Order) string {
	loc := m.loc
	if loc == nil {
		loc = time.UTC
	}

	var rows strings.Builder
	for _, item := range order.Items {
		fmt.Fprintf(&rows, "<tr><td>%s</td><td>%d</td><td>%s %s</td><td>%s %s</td></tr>\n",
			html.EscapeString(item.Name), item.Quantity,
			m.currency, item.Price.StringFixed(2), m.currency, item.Total.StringFixed(2))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
    <h2>New Order #%d</h2>
    <p>Placed on %s</p>
    <table cellpadding="6" style="border-collapse: collapse;">
        <tr><th align="left">Product</th><th>Qty</th><th>Price</th><th>Total</th></tr>
%s    </table>
    <p><strong>Delivery Zone:</strong> %s<br>
    <strong>Delivery Fee:</strong> %s %s<br>
    <strong>Total:</strong> %s %s</p>
    <p style="color: #666; font-size: 12px;">%s</p>
</body>
</html>`,
		order.OrderID,
		order.Created.In(loc).Format("02/01/2006 03:04 PM"),
		rows.String(),
		html.EscapeString(order.ShippingZone),
		m.currency, order.ShippingCost.StringFixed(2),
		m.currency, order.Total().StringFixed(2),
		html.EscapeString(m.shopName),
	)
}
