package service

import (
	"context"
	"errors"
	"strings"

	"reviewhub/internal/apperr"
	"reviewhub/internal/dto"
	"reviewhub/internal/repository"

	"gorm.io/gorm"
)

type GenreService interface {
	GetAll(ctx context.Context, limit, offset int) (*dto.PaginatedGenreResponse, error)
	Create(ctx context.Context, req dto.CreateGenreRequest) (*dto.GenreResponse, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type genreService struct {
	repo *repository.GenreRepo
}

func NewGenreService(r *repository.GenreRepo) GenreService {
	return &genreService{repo: r}
}

func (s *genreService) GetAll(ctx context.Context, limit, offset int) (*dto.PaginatedGenreResponse, error) {
	genres, total, err := s.repo.GetAll(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	results := make([]dto.GenreResponse, 0, len(genres))
	for i := range genres {
		results = append(results, *dto.FromModelToGenreResponse(&genres[i]))
	}
	return &dto.PaginatedGenreResponse{Count: total, Limit: limit, Offset: offset, Results: results}, nil
}

func (s *genreService) Create(ctx context.Context, req dto.CreateGenreRequest) (*dto.GenreResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("name", "genre name required")
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

	g, err := s.repo.UpsertBySlug(ctx, req.Slug, name)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToGenreResponse(g), nil
}

func (s *genreService) DeleteBySlug(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("genre")
		}
		return err
	}
	return nil
}
