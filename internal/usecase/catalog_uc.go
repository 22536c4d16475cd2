package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/capsulahaus/shop/internal/domain"
)

type CatalogUC struct {
	Products domain.ProductRepo
}

// Query answers "which products match, in what order, page N" over the
// current catalog snapshot. Pure read path, no persistence effects.
func (uc *CatalogUC) Query(ctx context.Context, q domain.ProductQuery) (domain.QueryResult, error) {
	all, err := uc.Products.ListAll(ctx)
	if err != nil {
		return domain.QueryResult{}, err
	}
	return domain.ApplyQuery(all, q), nil
}

func (uc *CatalogUC) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	if slug == "" {
		return nil, errors.New("empty slug")
	}
	return uc.Products.FindBySlug(ctx, slug)
}

func (uc *CatalogUC) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return uc.Products.FindByID(ctx, id)
}

func (uc *CatalogUC) Create(ctx context.Context, p *domain.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}
	return uc.Products.Save(ctx, p)
}

func (uc *CatalogUC) Update(ctx context.Context, p *domain.Product) error {
	if p.ID == uuid.Nil {
		return errors.New("product id")
	}
	return uc.Products.Save(ctx, p)
}

// Delete removes a product. Missing ids are a no-op.
func (uc *CatalogUC) Delete(ctx context.Context, id uuid.UUID) error {
	err := uc.Products.Delete(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

func (uc *CatalogUC) ReplaceImages(ctx context.Context, productID uuid.UUID, imgs []domain.Image) error {
	if productID == uuid.Nil {
		return errors.New("product id")
	}
	return uc.Products.ReplaceImages(ctx, productID, imgs)
}

func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(s, " ", "-")
}
