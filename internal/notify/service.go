package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/grassandaxe/booking-wizard/internal/wizard"
	"github.com/grassandaxe/booking-wizard/pkg/logging"
)

// Service sends booking confirmations to the customer and, when configured,
// a copy to the office inbox.
type Service struct {
	email        EmailSender
	businessName string
	officeInbox  string
	logger       *logging.Logger
}

// ServiceConfig holds the sender-independent settings.
type ServiceConfig struct {
	BusinessName string
	OfficeInbox  string
}

// NewService creates a notification service.
func NewService(email EmailSender, cfg ServiceConfig, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.BusinessName == "" {
		cfg.BusinessName = "Grass & Axe"
	}
	return &Service{
		email:        email,
		businessName: cfg.BusinessName,
		officeInbox:  strings.TrimSpace(cfg.OfficeInbox),
		logger:       logger,
	}
}

var _ wizard.Notifier = (*Service)(nil)

// NotifyBookingConfirmed emails the confirmation to the customer.
func (s *Service) NotifyBookingConfirmed(ctx context.Context, c wizard.Confirmation) error {
	if s.email == nil {
		s.logger.Debug("notify: email sender not configured, skipping confirmation", "reference", c.Reference)
		return nil
	}
	to := strings.TrimSpace(c.Booking.CustomerEmail)
	if to == "" {
		s.logger.Warn("notify: booking has no customer email", "reference", c.Reference)
		return nil
	}

	msg := EmailMessage{
		To:      to,
		ToName:  c.Booking.CustomerName,
		Subject: fmt.Sprintf("Your %s booking is confirmed (%s)", s.businessName, c.Reference),
		Body:    s.confirmationText(c),
		HTML:    s.confirmationHTML(c),
	}

	var errs []error
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("notify: failed to send confirmation", "error", err, "reference", c.Reference)
		errs = append(errs, err)
	} else {
		s.logger.Info("notify: confirmation email sent", "reference", c.Reference)
	}

	if s.officeInbox != "" {
		office := msg
		office.To = s.officeInbox
		office.ToName = s.businessName
		office.Subject = fmt.Sprintf("New booking %s - %s", c.Reference, c.Summary.Service)
		if err := s.email.Send(ctx, office); err != nil {
			s.logger.Error("notify: failed to send office copy", "error", err, "reference", c.Reference)
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d notification(s) failed", len(errs))
	}
	return nil
}

func (s *Service) confirmationText(c wizard.Confirmation) string {
	sum := c.Summary
	var b strings.Builder
	fmt.Fprintf(&b, "Thanks %s, your booking is confirmed.\n\n", firstName(c.Booking.CustomerName))
	fmt.Fprintf(&b, "Reference: %s\n", c.Reference)
	writeLine(&b, "Service", sum.Service)
	writeLine(&b, "Date", sum.Date)
	writeLine(&b, "Time", sum.Time)
	writeLine(&b, "Frequency", sum.Frequency)
	writeLine(&b, "Property", strings.TrimSpace(sum.PropertyType+" "+sum.PropertySize))
	if len(sum.Address) > 0 {
		writeLine(&b, "Address", strings.Join(sum.Address, ", "))
	}
	if sum.Quote.ShowDiscount {
		writeLine(&b, "Discount", sum.Quote.Discount)
	}
	writeLine(&b, "Total", sum.Quote.Total)
	writeLine(&b, "Payment", paymentLabel(c.Booking))
	fmt.Fprintf(&b, "\n- %s", s.businessName)
	return b.String()
}

func (s *Service) confirmationHTML(c wizard.Confirmation) string {
	sum := c.Summary
	rows := []struct{ label, value string }{
		{"Reference", c.Reference},
		{"Service", sum.Service},
		{"Date", sum.Date},
		{"Time", sum.Time},
		{"Frequency", sum.Frequency},
		{"Address", strings.Join(sum.Address, "\n")},
		{"Total", sum.Quote.Total},
		{"Payment", paymentLabel(c.Booking)},
	}

	var b strings.Builder
	b.WriteString(`<div style="font-family: sans-serif; max-width: 600px;">`)
	fmt.Fprintf(&b, `<h2 style="color: #3f7d20;">Booking Confirmed</h2><p>Thanks %s, we'll see you soon.</p>`, html.EscapeString(firstName(c.Booking.CustomerName)))
	b.WriteString(`<table style="border-collapse: collapse; margin: 20px 0;">`)
	for _, r := range rows {
		if r.value == "" {
			continue
		}
		value := strings.ReplaceAll(html.EscapeString(r.value), "\n", "<br>")
		fmt.Fprintf(&b, `<tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>%s:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>`, r.label, value)
	}
	b.WriteString(`</table>`)
	fmt.Fprintf(&b, `<p style="color: #6b7280; font-size: 12px; margin-top: 20px;">- %s</p></div>`, html.EscapeString(s.businessName))
	return b.String()
}

func writeLine(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}

func paymentLabel(data wizard.BookingData) string {
	switch data.PaymentMethod {
	case wizard.PaymentCreditCard:
		if data.CardLast4 != "" {
			return "Card ending " + data.CardLast4
		}
		return "Credit card"
	case wizard.PaymentPayPal:
		return "PayPal"
	case wizard.PaymentOnSite:
		return "Pay on site"
	}
	return ""
}

func firstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "there"
	}
	return fields[0]
}
