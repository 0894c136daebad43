package repository

import (
	"context"
	"fmt"

	"reviewhub/internal/models"

	"gorm.io/gorm"
)

type GenreRepo struct {
	db *gorm.DB
}

func NewGenreRepo(db *gorm.DB) *GenreRepo {
	return &GenreRepo{db: db}
}

func (r *GenreRepo) GetAll(ctx context.Context, limit, offset int) ([]models.Genre, int64, error) {
	var list []models.Genre
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Genre{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Order("slug asc").
		Limit(limit).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("get genres: %w", err)
	}
	return list, total, nil
}

func (r *GenreRepo) GetBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	var g models.Genre
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

// UpsertBySlug resolves a genre by slug, creating it if absent. Concurrent
// creators converge on the row that won the unique index on slug.
func (r *GenreRepo) UpsertBySlug(ctx context.Context, slug, name string) (*models.Genre, error) {
	g := &models.Genre{Slug: slug, Name: name}
	err := r.db.WithContext(ctx).Where("slug = ?", slug).FirstOrCreate(g).Error
	if err != nil {
		if isUniqueViolation(err) {
			return r.GetBySlug(ctx, slug)
		}
		return nil, fmt.Errorf("upsert genre: %w", err)
	}
	return g, nil
}

// DeleteBySlug removes the genre and its junction rows; linked titles keep
// their other genres.
func (r *GenreRepo) DeleteBySlug(ctx context.Context, slug string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		g := &models.Genre{}
		if err := tx.Where("slug = ?", slug).First(g).Error; err != nil {
			return err
		}
		if err := tx.Where("genre_id = ?", g.ID).Delete(&models.TitleGenre{}).Error; err != nil {
			return fmt.Errorf("unlink titles: %w", err)
		}
		return tx.Delete(g).Error
	})
}
