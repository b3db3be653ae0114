package services

import (
	"context"
	"errors"
	"strings"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/domain"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/dto"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/helper"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/repository"
)

type NewsPage struct {
	Items []domain.NewsArticle `json:"items"`
	Total int64                `json:"total"`
}

type NewsService interface {
	List(ctx context.Context, q dto.PageQuery) (*NewsPage, error)
	Create(ctx context.Context, authorID uint, input dto.CreateNewsRequest) (*domain.NewsArticle, error)
	Delete(ctx context.Context, id uint) error
}

type newsService struct {
	repo repository.NewsRepository
}

func NewNewsService(repo repository.NewsRepository) NewsService {
	return &newsService{repo: repo}
}

func (s *newsService) List(ctx context.Context, q dto.PageQuery) (*NewsPage, error) {
	items, total, err := s.repo.ListArticles(ctx, q.Limit, q.Offset)
	if err != nil {
		return nil, helper.InternalError("failed to load news", err)
	}
	if items == nil {
		items = []domain.NewsArticle{}
	}
	return &NewsPage{Items: items, Total: total}, nil
}

func (s *newsService) Create(ctx context.Context, authorID uint, input dto.CreateNewsRequest) (*domain.NewsArticle, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)
	input.ImageURL = strings.TrimSpace(input.ImageURL)
	if err := helper.ValidateStruct(input); err != nil {
		return nil, err
	}

	article := &domain.NewsArticle{
		Title:    input.Title,
		Content:  input.Content,
		ImageURL: input.ImageURL,
		AuthorID: &authorID,
	}
	if err := s.repo.CreateArticle(ctx, article); err != nil {
		return nil, helper.InternalError("failed to save article", err)
	}
	return article, nil
}

func (s *newsService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.DeleteArticle(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return helper.NotFoundError("article not found")
		}
		return helper.InternalError("failed to delete article", err)
	}
	return nil
}
