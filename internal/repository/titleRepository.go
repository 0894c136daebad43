package repository

import (
	"context"
	"fmt"
	"strings"

	"reviewhub/internal/models"

	"gorm.io/gorm"
)

// TitleFilter narrows a title listing. Zero values mean "no filter".
type TitleFilter struct {
	CategorySlug string
	GenreSlug    string
	Name         string // case-insensitive substring
	Year         *int   // exact match
}

type TitleRepo struct {
	db *gorm.DB
}

func NewTitleRepo(db *gorm.DB) *TitleRepo {
	return &TitleRepo{db: db}
}

func (r *TitleRepo) filtered(ctx context.Context, f TitleFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Title{})
	if f.CategorySlug != "" {
		q = q.Joins("JOIN categories ON categories.id = titles.category_id").
			Where("categories.slug = ?", f.CategorySlug)
	}
	if f.GenreSlug != "" {
		q = q.Joins("JOIN title_genres tg ON tg.title_id = titles.id").
			Joins("JOIN genres ON genres.id = tg.genre_id").
			Where("genres.slug = ?", f.GenreSlug)
	}
	if f.Name != "" {
		q = q.Where("LOWER(titles.name) LIKE ?", "%"+strings.ToLower(f.Name)+"%")
	}
	if f.Year != nil {
		q = q.Where("titles.year = ?", *f.Year)
	}
	return q
}

func (r *TitleRepo) List(ctx context.Context, f TitleFilter, limit, offset int) ([]models.Title, int64, error) {
	var list []models.Title
	var total int64

	if err := r.filtered(ctx, f).Distinct("titles.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.filtered(ctx, f).
		Distinct("titles.*").
		Preload("Category").
		Preload("Genres").
		Order("titles.created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list titles: %w", err)
	}

	if err := r.attachRatings(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *TitleRepo) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	var t models.Title
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Genres").
		First(&t, id).Error; err != nil {
		return nil, err
	}
	one := []models.Title{t}
	if err := r.attachRatings(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

func (r *TitleRepo) Create(ctx context.Context, t *models.Title) error {
	if err := r.db.WithContext(ctx).Omit("Genres", "Category").Create(t).Error; err != nil {
		return fmt.Errorf("create title: %w", err)
	}
	return nil
}

func (r *TitleRepo) Update(ctx context.Context, t *models.Title) error {
	if err := r.db.WithContext(ctx).Omit("Genres", "Category").Save(t).Error; err != nil {
		return fmt.Errorf("update title: %w", err)
	}
	return nil
}

// ReplaceGenres rewrites the junction rows for a title.
func (r *TitleRepo) ReplaceGenres(ctx context.Context, titleID int64, genreIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("title_id = ?", titleID).Delete(&models.TitleGenre{}).Error; err != nil {
			return fmt.Errorf("clear genres: %w", err)
		}
		for _, gid := range genreIDs {
			if err := tx.Create(&models.TitleGenre{TitleID: titleID, GenreID: gid}).Error; err != nil {
				return fmt.Errorf("link genre: %w", err)
			}
		}
		return nil
	})
}

// Delete removes the title together with its reviews and, transitively,
// their comments. One transaction so a half-deleted title never survives.
func (r *TitleRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t models.Title
		if err := tx.First(&t, id).Error; err != nil {
			return err
		}
		if err := tx.Where("review_id IN (?)",
			tx.Model(&models.Review{}).Select("id").Where("title_id = ?", id),
		).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		if err := tx.Where("title_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return fmt.Errorf("delete reviews: %w", err)
		}
		if err := tx.Where("title_id = ?", id).Delete(&models.TitleGenre{}).Error; err != nil {
			return fmt.Errorf("delete genre links: %w", err)
		}
		return tx.Delete(&t).Error
	})
}

// attachRatings fills Title.Rating with the mean review score for each title
// in list. Computed per read so the value is always consistent with the
// review set at this instant; nil when a title has no reviews.
func (r *TitleRepo) attachRatings(ctx context.Context, list []models.Title) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(list))
	for i := range list {
		ids = append(ids, list[i].ID)
	}

	var rows []struct {
		TitleID int64
		Rating  float64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("title_id, AVG(score) as rating").
		Where("title_id IN ?", ids).
		Group("title_id").
		Scan(&rows).Error; err != nil {
		return fmt.Errorf("aggregate ratings: %w", err)
	}

	byID := make(map[int64]float64, len(rows))
	for _, row := range rows {
		byID[row.TitleID] = row.Rating
	}
	for i := range list {
		if avg, ok := byID[list[i].ID]; ok {
			v := avg
			list[i].Rating = &v
		}
	}
	return nil
}
