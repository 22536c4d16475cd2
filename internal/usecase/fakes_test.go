package usecase

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/capsulahaus/shop/internal/domain"
)

// In-memory repo fakes backing the usecase tests.

type memOrderRepo struct {
	orders map[string]domain.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: map[string]domain.Order{}}
}

func (r *memOrderRepo) Save(_ context.Context, o *domain.Order) error {
	r.orders[o.ID] = *o
	return nil
}

func (r *memOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &o, nil
}

func (r *memOrderRepo) List(_ context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	out := make([]domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if status == "" || o.Status == status {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memOrderRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.orders)), nil
}

func (r *memOrderRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.orders[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

type memProductRepo struct {
	products map[uuid.UUID]domain.Product
	order    []uuid.UUID
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: map[uuid.UUID]domain.Product{}}
}

func (r *memProductRepo) Save(_ context.Context, p *domain.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		r.order = append(r.order, p.ID)
	}
	r.products[p.ID] = *p
	return nil
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r *memProductRepo) FindBySlug(_ context.Context, slug string) (*domain.Product, error) {
	for _, id := range r.order {
		if p := r.products[id]; p.Slug == slug {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memProductRepo) ListAll(_ context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.products[id])
	}
	return out, nil
}

func (r *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.products, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memProductRepo) ReplaceImages(_ context.Context, productID uuid.UUID, imgs []domain.Image) error {
	p, ok := r.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Images = imgs
	r.products[productID] = p
	return nil
}

type memPageRepo struct {
	content map[string]domain.PageContent
	blocks  map[uuid.UUID]domain.PageBlock
}

func newMemPageRepo() *memPageRepo {
	return &memPageRepo{
		content: map[string]domain.PageContent{},
		blocks:  map[uuid.UUID]domain.PageBlock{},
	}
}

func (r *memPageRepo) SaveContent(_ context.Context, c *domain.PageContent) error {
	r.content[c.Slug] = *c
	return nil
}

func (r *memPageRepo) FindContent(_ context.Context, slug string) (*domain.PageContent, error) {
	c, ok := r.content[slug]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r *memPageRepo) SaveBlock(_ context.Context, b *domain.PageBlock) error {
	r.blocks[b.ID] = *b
	return nil
}

func (r *memPageRepo) FindBlock(_ context.Context, id uuid.UUID) (*domain.PageBlock, error) {
	b, ok := r.blocks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (r *memPageRepo) ListBlocks(_ context.Context, pageSlug string) ([]domain.PageBlock, error) {
	out := make([]domain.PageBlock, 0, len(r.blocks))
	for _, b := range r.blocks {
		if b.PageSlug == pageSlug {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *memPageRepo) SaveBlocks(_ context.Context, blocks []domain.PageBlock) error {
	for _, b := range blocks {
		r.blocks[b.ID] = b
	}
	return nil
}

func (r *memPageRepo) DeleteBlock(_ context.Context, id uuid.UUID) error {
	if _, ok := r.blocks[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.blocks, id)
	return nil
}

type memBrochureRepo struct {
	brochures map[uuid.UUID]domain.Brochure
}

func newMemBrochureRepo() *memBrochureRepo {
	return &memBrochureRepo{brochures: map[uuid.UUID]domain.Brochure{}}
}

func (r *memBrochureRepo) Save(_ context.Context, b *domain.Brochure) error {
	r.brochures[b.ID] = *b
	return nil
}

func (r *memBrochureRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Brochure, error) {
	b, ok := r.brochures[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (r *memBrochureRepo) ListAll(_ context.Context) ([]domain.Brochure, error) {
	out := make([]domain.Brochure, 0, len(r.brochures))
	for _, b := range r.brochures {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *memBrochureRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.brochures[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.brochures, id)
	return nil
}
