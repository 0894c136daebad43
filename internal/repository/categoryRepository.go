package repository

import (
	"context"
	"fmt"

	"reviewhub/internal/models"

	"gorm.io/gorm"
)

type CategoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

func (r *CategoryRepo) GetAll(ctx context.Context, limit, offset int) ([]models.Category, int64, error) {
	var list []models.Category
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Category{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Order("slug asc").
		Limit(limit).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("get categories: %w", err)
	}
	return list, total, nil
}

func (r *CategoryRepo) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var c models.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// UpsertBySlug resolves a category by slug, creating it if absent. The unique
// index on slug is the race authority: a concurrent creator that loses the
// insert re-reads and converges to the surviving row.
func (r *CategoryRepo) UpsertBySlug(ctx context.Context, slug, name string) (*models.Category, error) {
	c := &models.Category{Slug: slug, Name: name}
	err := r.db.WithContext(ctx).Where("slug = ?", slug).FirstOrCreate(c).Error
	if err != nil {
		if isUniqueViolation(err) {
			return r.GetBySlug(ctx, slug)
		}
		return nil, fmt.Errorf("upsert category: %w", err)
	}
	return c, nil
}

// DeleteBySlug removes the category and nullifies the link on its titles.
// Titles themselves survive.
func (r *CategoryRepo) DeleteBySlug(ctx context.Context, slug string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c := &models.Category{}
		if err := tx.Where("slug = ?", slug).First(c).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Title{}).
			Where("category_id = ?", c.ID).
			Update("category_id", nil).Error; err != nil {
			return fmt.Errorf("unlink titles: %w", err)
		}
		return tx.Delete(c).Error
	})
}
