package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/capsulahaus/shop/internal/domain"
)

type NotifyFailureRepo struct{ db *gorm.DB }

func NewNotifyFailureRepo(db *gorm.DB) *NotifyFailureRepo { return &NotifyFailureRepo{db: db} }

func (r *NotifyFailureRepo) Save(ctx context.Context, f *domain.NotifyFailure) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *NotifyFailureRepo) ListRecent(ctx context.Context, limit int) ([]domain.NotifyFailure, error) {
	if limit <= 0 {
		limit = 50
	}
	var list []domain.NotifyFailure
	err := r.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
