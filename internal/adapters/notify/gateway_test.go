package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capsulahaus/shop/internal/domain"
)

type sentMail struct {
	to, subject, body string
}

// flakyMailer fails the first failFor calls, then delivers.
type flakyMailer struct {
	failFor int
	calls   int
	sent    []sentMail
}

func (m *flakyMailer) Send(_ context.Context, to, subject, body string) error {
	m.calls++
	if m.calls <= m.failFor {
		return errors.New("smtp: connection refused")
	}
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

type recordingSMS struct {
	texts []string
}

func (s *recordingSMS) Send(_ context.Context, phone, text string) error {
	s.texts = append(s.texts, phone+": "+text)
	return nil
}

type memFailureRepo struct {
	rows []domain.NotifyFailure
}

func (r *memFailureRepo) Save(_ context.Context, f *domain.NotifyFailure) error {
	r.rows = append(r.rows, *f)
	return nil
}

func (r *memFailureRepo) ListRecent(_ context.Context, limit int) ([]domain.NotifyFailure, error) {
	if limit <= 0 || limit > len(r.rows) {
		limit = len(r.rows)
	}
	return r.rows[:limit], nil
}

func newTestGateway(mailer Mailer, sms SMSSender, failures domain.NotifyFailureRepo) *Gateway {
	return &Gateway{
		Mailer:     mailer,
		SMS:        sms,
		Failures:   failures,
		AdminEmail: "admin@capsulahaus.example",
		AdminPhone: "+54 11 4000 0000",
		backoff:    time.Millisecond,
	}
}

func testOrder() *domain.Order {
	return &domain.Order{
		ID:          "1740830401000",
		OrderNumber: "00007",
		Name:        "Ana Torres",
		Phone:       "+54 11 5555 0000",
		Email:       "ana@example.com",
		Status:      domain.OrderStatusNew,
		Total:       2500,
		Items: []domain.OrderItem{
			{ID: uuid.New(), ProductID: uuid.New(), Name: "Capsule Mini", Qty: 2, Price: 1000},
			{ID: uuid.New(), ProductID: uuid.New(), Name: "Terrace Kit", Qty: 1, Price: 500},
		},
	}
}

func TestSendOrderFansOut(t *testing.T) {
	mailer := &flakyMailer{}
	sms := &recordingSMS{}
	g := newTestGateway(mailer, sms, &memFailureRepo{})

	err := g.SendOrder(context.Background(), testOrder(), "ana@example.com", "+54 11 5555 0000")
	require.NoError(t, err)

	require.Len(t, mailer.sent, 2)
	assert.Equal(t, "admin@capsulahaus.example", mailer.sent[0].to)
	assert.Equal(t, "New order #00007", mailer.sent[0].subject)
	assert.Contains(t, mailer.sent[0].body, "Capsule Mini x2")
	assert.Contains(t, mailer.sent[0].body, "Total: 2500")
	assert.Equal(t, "ana@example.com", mailer.sent[1].to)

	require.Len(t, sms.texts, 2)
	assert.Contains(t, sms.texts[0], "+54 11 4000 0000")
	assert.Contains(t, sms.texts[1], "+54 11 5555 0000")
}

func TestRetryRecoversFromTransientFailure(t *testing.T) {
	mailer := &flakyMailer{failFor: 2}
	failures := &memFailureRepo{}
	g := newTestGateway(mailer, &recordingSMS{}, failures)

	err := g.SendConsultation(context.Background(), "Ana", "+54 11 5555 0000")
	require.NoError(t, err)
	assert.Equal(t, 3, mailer.calls)
	assert.Empty(t, failures.rows)
}

func TestExhaustedRetriesLandInFailureLog(t *testing.T) {
	mailer := &flakyMailer{failFor: 10}
	failures := &memFailureRepo{}
	g := newTestGateway(mailer, &recordingSMS{}, failures)

	err := g.SendConsultation(context.Background(), "Ana", "+54 11 5555 0000")
	require.Error(t, err)
	assert.Equal(t, 3, mailer.calls)

	require.Len(t, failures.rows, 1)
	f := failures.rows[0]
	assert.Equal(t, "email", f.Channel)
	assert.Equal(t, "admin@capsulahaus.example", f.Recipient)
	assert.Equal(t, "Consultation request", f.Subject)
	assert.Contains(t, f.Reason, "connection refused")
}

func TestSendOrderStatusSkipsWithoutEmail(t *testing.T) {
	mailer := &flakyMailer{}
	g := newTestGateway(mailer, &recordingSMS{}, &memFailureRepo{})

	err := g.SendOrderStatus(context.Background(), testOrder(), domain.OrderStatusShipped, "", "TRK-99", "")
	require.NoError(t, err)
	assert.Zero(t, mailer.calls)
}

func TestSendOrderStatusBody(t *testing.T) {
	mailer := &flakyMailer{}
	g := newTestGateway(mailer, &recordingSMS{}, &memFailureRepo{})

	o := testOrder()
	err := g.SendOrderStatus(context.Background(), o, domain.OrderStatusShipped, "", "TRK-99", "ana@example.com")
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Order #00007: shipped", mailer.sent[0].subject)
	assert.Contains(t, mailer.sent[0].body, "Tracking number: TRK-99")
	assert.NotContains(t, mailer.sent[0].body, "Reason:")

	err = g.SendOrderStatus(context.Background(), o, domain.OrderStatusCancelled, "out of stock", "", "ana@example.com")
	require.NoError(t, err)
	require.Len(t, mailer.sent, 2)
	assert.Contains(t, mailer.sent[1].body, "Reason: out of stock")
}

func TestSendCallbackReachesAdminChannels(t *testing.T) {
	mailer := &flakyMailer{}
	sms := &recordingSMS{}
	g := newTestGateway(mailer, sms, &memFailureRepo{})

	require.NoError(t, g.SendCallback(context.Background(), "Ana", "+54 11 5555 0000"))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Callback request", mailer.sent[0].subject)
	require.Len(t, sms.texts, 1)
	assert.Contains(t, sms.texts[0], "Ana")
}

func TestMailerSelectionFromEnv(t *testing.T) {
	t.Setenv("SMTP_HOST", "")
	t.Setenv("RESEND_API_KEY", "")
	_, ok := NewMailerFromEnv().(*logMailer)
	assert.True(t, ok, "no credentials should fall back to simulation")

	t.Setenv("RESEND_API_KEY", "re_test_123")
	_, ok = NewMailerFromEnv().(*resendMailer)
	assert.True(t, ok)

	t.Setenv("SMTP_HOST", "smtp.example.com")
	_, ok = NewMailerFromEnv().(*smtpMailer)
	assert.True(t, ok, "smtp wins over resend when both are set")
}
