package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidStatus reports whether s is one of the five known states.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusNew, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

type Order struct {
	ID                 string      `gorm:"primaryKey;size:40" json:"id"`
	OrderNumber        string      `gorm:"size:20;index" json:"orderNumber"`
	Name               string      `gorm:"size:140" json:"name"`
	Phone              string      `gorm:"size:50" json:"phone"`
	Email              string      `gorm:"size:140" json:"email,omitempty"`
	Items              []OrderItem `json:"items"`
	Total              int64       `gorm:"not null;default:0" json:"total"`
	Status             OrderStatus `gorm:"type:varchar(20);index" json:"status"`
	DeliveryAddress    string      `gorm:"size:255" json:"deliveryAddress,omitempty"`
	Notes              string      `gorm:"type:text" json:"notes,omitempty"`
	CancellationReason string      `gorm:"size:255" json:"cancellationReason,omitempty"`
	CreatedAt          time.Time   `json:"createdAt"`
	UpdatedAt          time.Time   `json:"-"`
}

// OrderItem is a copy of the product fields at checkout time, never a
// live reference. Editing a product later must not rewrite history.
type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	OrderID   string    `gorm:"size:40;index" json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid" json:"productId"`
	Name      string    `gorm:"size:180" json:"name"`
	Qty       int       `gorm:"not null" json:"qty"`
	Price     int64     `gorm:"not null" json:"price"`
}
