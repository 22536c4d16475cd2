package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Notifier is the outbound gateway for order and form notifications.
// Every call is best-effort: a returned error is logged and surfaced,
// never rolled back into the mutation that triggered it.
type Notifier interface {
	SendOrder(ctx context.Context, o *Order, customerEmail, customerPhone string) error
	SendOrderStatus(ctx context.Context, o *Order, status OrderStatus, reason, tracking, customerEmail string) error
	SendCallback(ctx context.Context, name, phone string) error
	SendConsultation(ctx context.Context, name, phone string) error
	SendContact(ctx context.Context, name, email, phone, message string) error
	SendPartner(ctx context.Context, company, name, phone, email string) error
}

// NotifyFailure records a delivery that exhausted its retries. Rows
// are written for inspection only; nothing replays them.
type NotifyFailure struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Channel   string    `gorm:"size:20" json:"channel"`
	Recipient string    `gorm:"size:140" json:"recipient"`
	Subject   string    `gorm:"size:255" json:"subject"`
	Reason    string    `gorm:"type:text" json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}

type NotifyFailureRepo interface {
	Save(ctx context.Context, f *NotifyFailure) error
	ListRecent(ctx context.Context, limit int) ([]NotifyFailure, error)
}
