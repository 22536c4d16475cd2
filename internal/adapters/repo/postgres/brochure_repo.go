package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/capsulahaus/shop/internal/domain"
)

type BrochureRepo struct{ db *gorm.DB }

func NewBrochureRepo(db *gorm.DB) *BrochureRepo { return &BrochureRepo{db: db} }

func (r *BrochureRepo) Save(ctx context.Context, b *domain.Brochure) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *BrochureRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Brochure, error) {
	var b domain.Brochure
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BrochureRepo) ListAll(ctx context.Context) ([]domain.Brochure, error) {
	var list []domain.Brochure
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *BrochureRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&domain.Brochure{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
