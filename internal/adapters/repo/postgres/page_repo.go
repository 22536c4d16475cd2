package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/capsulahaus/shop/internal/domain"
)

type PageRepo struct{ db *gorm.DB }

func NewPageRepo(db *gorm.DB) *PageRepo { return &PageRepo{db: db} }

func (r *PageRepo) SaveContent(ctx context.Context, c *domain.PageContent) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *PageRepo) FindContent(ctx context.Context, slug string) (*domain.PageContent, error) {
	var c domain.PageContent
	if err := r.db.WithContext(ctx).First(&c, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *PageRepo) SaveBlock(ctx context.Context, b *domain.PageBlock) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *PageRepo) FindBlock(ctx context.Context, id uuid.UUID) (*domain.PageBlock, error) {
	var b domain.PageBlock
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *PageRepo) ListBlocks(ctx context.Context, pageSlug string) ([]domain.PageBlock, error) {
	var list []domain.PageBlock
	err := r.db.WithContext(ctx).
		Where("page_slug = ?", pageSlug).
		Order("position asc").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *PageRepo) SaveBlocks(ctx context.Context, blocks []domain.PageBlock) error {
	if len(blocks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range blocks {
			if err := tx.Save(&blocks[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PageRepo) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&domain.PageBlock{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
