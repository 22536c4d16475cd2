package domain

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepo owns the product catalog. ListAll returns the full
// snapshot the in-memory query engine runs over.
type ProductRepo interface {
	Save(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	ListAll(ctx context.Context) ([]Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ReplaceImages(ctx context.Context, productID uuid.UUID, imgs []Image) error
}

type OrderRepo interface {
	Save(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	// List returns orders most-recent-first, optionally narrowed to one
	// status.
	List(ctx context.Context, status OrderStatus) ([]Order, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) error
}

type BrochureRepo interface {
	Save(ctx context.Context, b *Brochure) error
	FindByID(ctx context.Context, id uuid.UUID) (*Brochure, error)
	ListAll(ctx context.Context) ([]Brochure, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PageRepo interface {
	SaveContent(ctx context.Context, c *PageContent) error
	FindContent(ctx context.Context, slug string) (*PageContent, error)
	SaveBlock(ctx context.Context, b *PageBlock) error
	FindBlock(ctx context.Context, id uuid.UUID) (*PageBlock, error)
	// ListBlocks returns one page's blocks ordered by position.
	ListBlocks(ctx context.Context, pageSlug string) ([]PageBlock, error)
	SaveBlocks(ctx context.Context, blocks []PageBlock) error
	DeleteBlock(ctx context.Context, id uuid.UUID) error
}

type CustomerRepo interface {
	Save(ctx context.Context, c *Customer) error
	FindByEmail(ctx context.Context, email string) (*Customer, error)
}
