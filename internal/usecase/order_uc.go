package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/capsulahaus/shop/internal/domain"
)

type OrderUC struct {
	Orders domain.OrderRepo

	// now is swapped in tests; defaults to time.Now.
	now func() time.Time
}

func NewOrderUC(orders domain.OrderRepo) *OrderUC {
	return &OrderUC{Orders: orders, now: time.Now}
}

// CheckoutDraft is the customer/cart snapshot an order is created from.
type CheckoutDraft struct {
	Name            string
	Phone           string
	Email           string
	DeliveryAddress string
	Notes           string
	OrderNumber     string // optional; generated when empty
	Items           []domain.CartItem
}

// Create builds an order from a checkout draft: timestamp-derived id,
// zero-padded sequential order number, status new, item snapshots
// copied off the cart lines. Listing is most-recent-first, so the new
// order shows up ahead of everything already stored.
func (uc *OrderUC) Create(ctx context.Context, draft CheckoutDraft) (*domain.Order, error) {
	if len(draft.Items) == 0 {
		return nil, errors.New("empty checkout")
	}
	now := uc.clock()()
	o := &domain.Order{
		ID:              strconv.FormatInt(now.UnixMilli(), 10),
		OrderNumber:     draft.OrderNumber,
		Name:            draft.Name,
		Phone:           draft.Phone,
		Email:           draft.Email,
		DeliveryAddress: draft.DeliveryAddress,
		Notes:           draft.Notes,
		Status:          domain.OrderStatusNew,
		CreatedAt:       now,
	}
	if o.OrderNumber == "" {
		count, err := uc.Orders.Count(ctx)
		if err != nil {
			return nil, err
		}
		o.OrderNumber = fmt.Sprintf("%05d", count+1)
	}
	for _, it := range draft.Items {
		o.Items = append(o.Items, domain.OrderItem{
			ID:        uuid.New(),
			OrderID:   o.ID,
			ProductID: it.ProductID,
			Name:      it.Name,
			Qty:       it.Qty,
			Price:     it.Price,
		})
		o.Total += it.Price * int64(it.Qty)
	}
	if err := uc.Orders.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// UpdateStatus rewrites one order's status. A cancelled target stores
// the reason; any other target clears a previously stored reason.
// Transitions out of delivered/cancelled are rejected.
func (uc *OrderUC) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, reason string) (*domain.Order, error) {
	if !domain.ValidStatus(status) {
		return nil, domain.ErrInvalidStatus
	}
	o, err := uc.Orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status.Terminal() && o.Status != status {
		return nil, domain.ErrTerminalStatus
	}
	o.Status = status
	if status == domain.OrderStatusCancelled {
		o.CancellationReason = reason
	} else {
		o.CancellationReason = ""
	}
	if err := uc.Orders.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (uc *OrderUC) Get(ctx context.Context, id string) (*domain.Order, error) {
	return uc.Orders.FindByID(ctx, id)
}

// List returns orders most-recent-first, optionally filtered by status.
func (uc *OrderUC) List(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	return uc.Orders.List(ctx, status)
}

// Delete hard-deletes an order. Missing ids are a no-op.
func (uc *OrderUC) Delete(ctx context.Context, id string) error {
	err := uc.Orders.Delete(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

// TotalRevenue sums order totals excluding cancelled orders.
func (uc *OrderUC) TotalRevenue(ctx context.Context) (int64, error) {
	all, err := uc.Orders.List(ctx, "")
	if err != nil {
		return 0, err
	}
	var total int64
	for _, o := range all {
		if o.Status != domain.OrderStatusCancelled {
			total += o.Total
		}
	}
	return total, nil
}

// OrdersCount counts every order, cancelled included. The asymmetry
// with TotalRevenue is intentional.
func (uc *OrderUC) OrdersCount(ctx context.Context) (int64, error) {
	return uc.Orders.Count(ctx)
}

func (uc *OrderUC) clock() func() time.Time {
	if uc.now != nil {
		return uc.now
	}
	return time.Now
}
