package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/domain"
)

type NewsRepository interface {
	CreateArticle(ctx context.Context, article *domain.NewsArticle) error
	ListArticles(ctx context.Context, limit, offset int) ([]domain.NewsArticle, int64, error)
	DeleteArticle(ctx context.Context, id uint) error
}

type newsRepository struct {
	db *gorm.DB
}

func NewNewsRepository(db *gorm.DB) NewsRepository {
	return &newsRepository{db: db}
}

func (r *newsRepository) CreateArticle(ctx context.Context, article *domain.NewsArticle) error {
	if article == nil {
		return errors.New("nil article")
	}
	return r.db.WithContext(ctx).Create(article).Error
}

func (r *newsRepository) ListArticles(ctx context.Context, limit, offset int) ([]domain.NewsArticle, int64, error) {
	limit, offset = clampPage(limit, offset)

	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.NewsArticle{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.NewsArticle
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *newsRepository) DeleteArticle(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.NewsArticle{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
