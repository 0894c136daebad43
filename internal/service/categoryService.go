package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"reviewhub/internal/apperr"
	"reviewhub/internal/dto"
	"reviewhub/internal/repository"

	"gorm.io/gorm"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type CategoryService interface {
	GetAll(ctx context.Context, limit, offset int) (*dto.PaginatedCategoryResponse, error)
	Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type categoryService struct {
	repo *repository.CategoryRepo
}

func NewCategoryService(r *repository.CategoryRepo) CategoryService {
	return &categoryService{repo: r}
}

func (s *categoryService) GetAll(ctx context.Context, limit, offset int) (*dto.PaginatedCategoryResponse, error) {
	categories, total, err := s.repo.GetAll(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	results := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		results = append(results, *dto.FromModelToCategoryResponse(&categories[i]))
	}
	return &dto.PaginatedCategoryResponse{Count: total, Limit: limit, Offset: offset, Results: results}, nil
}

func (s *categoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("name", "category name required")
	}
	if !slugPattern.MatchString(req.Slug) {
		return nil, apperr.Validation("slug", "may contain only letters, digits, hyphens and underscores")
	}

	existing, err := s.repo.GetBySlug(ctx, req.Slug)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Validation("slug", "slug already in use")
	}

	c, err := s.repo.UpsertBySlug(ctx, req.Slug, name)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCategoryResponse(c), nil
}

func (s *categoryService) DeleteBySlug(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("category")
		}
		return err
	}
	return nil
}
