package notify

import (
	"context"

	"github.com/rs/zerolog/log"
)

// SMSSender delivers one text message.
type SMSSender interface {
	Send(ctx context.Context, phone, text string) error
}

// simulatedSMS logs instead of delivering. No provider is wired in
// this codebase.
type simulatedSMS struct{}

func NewSimulatedSMS() SMSSender { return &simulatedSMS{} }

func (s *simulatedSMS) Send(_ context.Context, phone, text string) error {
	log.Info().Str("phone", phone).Int("bytes", len(text)).Msg("simulated sms")
	return nil
}
