package utils

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"

	"gizmohub_back_end/internal/models"

	"github.com/wneessen/go-mail"
)

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends transactional mail over SMTP.
type Mailer struct {
	cfg MailConfig
}

// NewMailer returns nil when no SMTP host is configured.
func NewMailer(cfg MailConfig) *Mailer {
	if cfg.Host == "" {
		log.Println("⚠️ SMTP not configured, confirmation mails disabled")
		return nil
	}
	return &Mailer{cfg: cfg}
}

func (m *Mailer) SendOrderConfirmation(ctx context.Context, to string, order models.Order, payment models.Payment) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(fmt.Sprintf("GizmoHub order #%d confirmed", order.ID))
	msg.SetBodyString(mail.TypeTextHTML, OrderConfirmationHTML(order, payment))

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return err
	}

	log.Println("📤 Sending order confirmation to", to)
	return client.DialAndSendWithContext(ctx, msg)
}

func OrderConfirmationHTML(order models.Order, payment models.Payment) string {
	var rows strings.Builder
	for _, item := range order.Items {
		fmt.Fprintf(&rows, `<tr><td>%s</td><td align="center">%d</td><td align="right">%s</td><td align="right">%s</td></tr>`,
			html.EscapeString(item.ProductName), item.Quantity, item.Price.StringFixed(2), item.Subtotal().StringFixed(2))
	}

	return fmt.Sprintf(`<html><body style="font-family:Arial,sans-serif;color:#0f172a">
<h2>Thank you for your order!</h2>
<p>Order <strong>#%d</strong> placed on %s is now <strong>%s</strong>.</p>
<table width="100%%" cellpadding="6" style="border-collapse:collapse">
<tr><th align="left">Product</th><th>Qty</th><th align="right">Price</th><th align="right">Subtotal</th></tr>
%s
</table>
<p><strong>Total: %s</strong></p>
<p>Paid with %s, reference %s.</p>
</body></html>`,
		order.ID, order.OrderDate.Format("2006-01-02 15:04"), html.EscapeString(order.Status),
		rows.String(), order.Total.StringFixed(2),
		html.EscapeString(payment.PaymentMethod), html.EscapeString(payment.TransactionRef))
}
