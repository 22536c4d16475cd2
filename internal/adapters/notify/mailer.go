package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/smtp"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// Mailer delivers one plain-text email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NewMailerFromEnv picks the provider by credential presence: SMTP
// when SMTP_HOST is set, the Resend HTTP API when RESEND_API_KEY is
// set, otherwise a console-logged simulation. With neither configured
// the "real" delivery path has no effect beyond the log line.
func NewMailerFromEnv() Mailer {
	if host := os.Getenv("SMTP_HOST"); host != "" {
		return &smtpMailer{
			host: host,
			port: envOr("SMTP_PORT", "587"),
			user: os.Getenv("SMTP_USER"),
			pass: os.Getenv("SMTP_PASS"),
		}
	}
	if key := os.Getenv("RESEND_API_KEY"); key != "" {
		return &resendMailer{
			apiKey:     key,
			from:       envOr("MAIL_FROM", "shop@capsulahaus.example"),
			httpClient: &http.Client{Timeout: 10 * time.Second},
		}
	}
	log.Warn().Msg("no mail provider configured, simulating delivery")
	return &logMailer{}
}

type smtpMailer struct {
	host, port, user, pass string
}

func (m *smtpMailer) Send(_ context.Context, to, subject, body string) error {
	addr := m.host + ":" + m.port
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "From: %s\r\n", m.user)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	buf.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	buf.WriteString(body)
	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	return smtp.SendMail(addr, auth, m.user, []string{to}, buf.Bytes())
}

// resendMailer posts to the Resend HTTP API.
type resendMailer struct {
	apiKey     string
	from       string
	httpClient *http.Client
}

type resendReq struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

func (m *resendMailer) Send(ctx context.Context, to, subject, body string) error {
	payload, err := json.Marshal(resendReq{From: m.from, To: []string{to}, Subject: subject, Text: body})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.resend.com/emails", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("resend status %d: %s", resp.StatusCode, string(b))
	}
	return nil
}

// logMailer simulates delivery on the console.
type logMailer struct{}

func (m *logMailer) Send(_ context.Context, to, subject, body string) error {
	log.Info().Str("to", to).Str("subject", subject).Int("bytes", len(body)).Msg("simulated email")
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
