package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/capsulahaus/shop/internal/domain"
)

type BrochureUC struct {
	Brochures domain.BrochureRepo
}

func (uc *BrochureUC) List(ctx context.Context) ([]domain.Brochure, error) {
	return uc.Brochures.ListAll(ctx)
}

func (uc *BrochureUC) Get(ctx context.Context, id uuid.UUID) (*domain.Brochure, error) {
	return uc.Brochures.FindByID(ctx, id)
}

func (uc *BrochureUC) Create(ctx context.Context, b *domain.Brochure) error {
	if b.Title == "" {
		return errors.New("brochure title required")
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return uc.Brochures.Save(ctx, b)
}

func (uc *BrochureUC) Update(ctx context.Context, b *domain.Brochure) error {
	if b.ID == uuid.Nil {
		return errors.New("brochure id")
	}
	return uc.Brochures.Save(ctx, b)
}

// Delete removes a brochure; missing ids are a no-op.
func (uc *BrochureUC) Delete(ctx context.Context, id uuid.UUID) error {
	err := uc.Brochures.Delete(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}
