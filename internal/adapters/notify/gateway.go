package notify

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/capsulahaus/shop/internal/domain"
)

const (
	maxAttempts  = 3
	retryBackoff = 500 * time.Millisecond
)

// Gateway implements domain.Notifier on top of one mail provider and
// the simulated SMS sender. Each delivery gets a bounded retry; a
// delivery that exhausts its attempts is written to the failure log
// and the error is returned, but callers never roll anything back
// because of it.
type Gateway struct {
	Mailer     Mailer
	SMS        SMSSender
	Failures   domain.NotifyFailureRepo
	AdminEmail string
	AdminPhone string

	// backoff overrides the first retry delay; zero means retryBackoff.
	backoff time.Duration
}

func NewGatewayFromEnv(failures domain.NotifyFailureRepo) *Gateway {
	return &Gateway{
		Mailer:     NewMailerFromEnv(),
		SMS:        NewSimulatedSMS(),
		Failures:   failures,
		AdminEmail: envOr("ADMIN_NOTIFY_EMAIL", "orders@capsulahaus.example"),
		AdminPhone: os.Getenv("ADMIN_NOTIFY_PHONE"),
	}
}

func (g *Gateway) SendOrder(ctx context.Context, o *domain.Order, customerEmail, customerPhone string) error {
	subject := fmt.Sprintf("New order #%s", o.OrderNumber)
	body := orderBody(o)

	var errs []string
	if err := g.email(ctx, g.AdminEmail, subject, body); err != nil {
		errs = append(errs, err.Error())
	}
	if customerEmail != "" {
		if err := g.email(ctx, customerEmail, "We received your order #"+o.OrderNumber, body); err != nil {
			errs = append(errs, err.Error())
		}
	}
	sms := fmt.Sprintf("Order #%s for %d accepted", o.OrderNumber, o.Total)
	if g.AdminPhone != "" {
		if err := g.sms(ctx, g.AdminPhone, sms); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if customerPhone != "" {
		if err := g.sms(ctx, customerPhone, sms); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return joinErrs(errs)
}

func (g *Gateway) SendOrderStatus(ctx context.Context, o *domain.Order, status domain.OrderStatus, reason, tracking, customerEmail string) error {
	if customerEmail == "" {
		return nil
	}
	subject := fmt.Sprintf("Order #%s: %s", o.OrderNumber, status)
	var b strings.Builder
	fmt.Fprintf(&b, "Your order #%s is now %s.\n", o.OrderNumber, status)
	if status == domain.OrderStatusCancelled && reason != "" {
		fmt.Fprintf(&b, "Reason: %s\n", reason)
	}
	if tracking != "" {
		fmt.Fprintf(&b, "Tracking number: %s\n", tracking)
	}
	b.WriteString("\n")
	b.WriteString(orderBody(o))
	return g.email(ctx, customerEmail, subject, b.String())
}

func (g *Gateway) SendCallback(ctx context.Context, name, phone string) error {
	body := fmt.Sprintf("Callback request\nName: %s\nPhone: %s\n", name, phone)
	var errs []string
	if err := g.email(ctx, g.AdminEmail, "Callback request", body); err != nil {
		errs = append(errs, err.Error())
	}
	if g.AdminPhone != "" {
		if err := g.sms(ctx, g.AdminPhone, "Callback: "+name+" "+phone); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return joinErrs(errs)
}

func (g *Gateway) SendConsultation(ctx context.Context, name, phone string) error {
	body := fmt.Sprintf("Consultation request\nName: %s\nPhone: %s\n", name, phone)
	return g.email(ctx, g.AdminEmail, "Consultation request", body)
}

func (g *Gateway) SendContact(ctx context.Context, name, email, phone, message string) error {
	body := fmt.Sprintf("Contact form\nName: %s\nEmail: %s\nPhone: %s\n\n%s\n", name, email, phone, message)
	return g.email(ctx, g.AdminEmail, "Contact form message", body)
}

func (g *Gateway) SendPartner(ctx context.Context, company, name, phone, email string) error {
	body := fmt.Sprintf("Partner inquiry\nCompany: %s\nName: %s\nPhone: %s\nEmail: %s\n", company, name, phone, email)
	return g.email(ctx, g.AdminEmail, "Partner inquiry", body)
}

func orderBody(o *domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order: %s (#%s)\n", o.ID, o.OrderNumber)
	fmt.Fprintf(&b, "Name: %s\nPhone: %s\nEmail: %s\n", o.Name, o.Phone, o.Email)
	if o.DeliveryAddress != "" {
		fmt.Fprintf(&b, "Delivery address: %s\n", o.DeliveryAddress)
	}
	if o.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", o.Notes)
	}
	b.WriteString("Items:\n")
	for _, it := range o.Items {
		fmt.Fprintf(&b, "- %s x%d  %d\n", it.Name, it.Qty, it.Price)
	}
	fmt.Fprintf(&b, "Total: %d\n", o.Total)
	return b.String()
}

func (g *Gateway) email(ctx context.Context, to, subject, body string) error {
	err := g.retry(ctx, func() error { return g.Mailer.Send(ctx, to, subject, body) })
	if err != nil {
		g.recordFailure(ctx, "email", to, subject, err)
	}
	return err
}

func (g *Gateway) sms(ctx context.Context, phone, text string) error {
	err := g.retry(ctx, func() error { return g.SMS.Send(ctx, phone, text) })
	if err != nil {
		g.recordFailure(ctx, "sms", phone, text, err)
	}
	return err
}

func (g *Gateway) retry(ctx context.Context, fn func() error) error {
	var err error
	backoff := g.backoff
	if backoff <= 0 {
		backoff = retryBackoff
	}
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}

func (g *Gateway) recordFailure(ctx context.Context, channel, recipient, subject string, cause error) {
	log.Warn().Err(cause).Str("channel", channel).Str("recipient", recipient).Msg("notification failed")
	if g.Failures == nil {
		return
	}
	f := &domain.NotifyFailure{
		ID:        uuid.New(),
		Channel:   channel,
		Recipient: recipient,
		Subject:   subject,
		Reason:    cause.Error(),
	}
	if err := g.Failures.Save(ctx, f); err != nil {
		log.Error().Err(err).Msg("failure log write")
	}
}

func joinErrs(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%s", strings.Join(errs, "; "))
}
