package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"reviewhub/internal/apperr"
	"reviewhub/internal/dto"
	"reviewhub/internal/models"
	"reviewhub/internal/repository"
)

type catalogFixture struct {
	db         *gorm.DB
	titles     TitleService
	categories CategoryService
	genres     GenreService
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	db := openTestDB(t)
	titleRepo := repository.NewTitleRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	genreRepo := repository.NewGenreRepo(db)
	return &catalogFixture{
		db:         db,
		titles:     NewTitleService(titleRepo, categoryRepo, genreRepo),
		categories: NewCategoryService(categoryRepo),
		genres:     NewGenreService(genreRepo),
	}
}

func TestCreateTitleResolvesCategoryAndGenres(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	resp, err := f.titles.Create(ctx, dto.CreateTitleRequest{
		Name:     "Dune",
		Year:     1965,
		Category: "book",
		Genres:   []string{"sci-fi", "classic", "sci-fi"}, // dup collapses
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Category)
	assert.Equal(t, "book", resp.Category.Slug)
	require.Len(t, resp.Genres, 2)
	assert.Nil(t, resp.Rating)

	// a second title with the same slugs reuses the rows
	_, err = f.titles.Create(ctx, dto.CreateTitleRequest{
		Name:     "Solaris",
		Year:     1961,
		Category: "book",
		Genres:   []string{"sci-fi"},
	})
	require.NoError(t, err)

	var categories, genres int64
	require.NoError(t, f.db.Model(&models.Category{}).Count(&categories).Error)
	require.NoError(t, f.db.Model(&models.Genre{}).Count(&genres).Error)
	assert.EqualValues(t, 1, categories)
	assert.EqualValues(t, 2, genres)

	// lazily created rows default their name to the slug
	var book models.Category
	require.NoError(t, f.db.Where("slug = ?", "book").First(&book).Error)
	assert.Equal(t, "book", book.Name)
}

func TestCreateTitleRejectsFutureYear(t *testing.T) {
	f := newCatalogFixture(t)

	_, err := f.titles.Create(context.Background(), dto.CreateTitleRequest{
		Name: "From the future",
		Year: time.Now().Year() + 1,
	})
	ve, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "year")

	// the current year is still a released work
	_, err = f.titles.Create(context.Background(), dto.CreateTitleRequest{
		Name: "Fresh",
		Year: time.Now().Year(),
	})
	assert.NoError(t, err)
}

func TestCreateTitleRejectsBadSlug(t *testing.T) {
	f := newCatalogFixture(t)

	_, err := f.titles.Create(context.Background(), dto.CreateTitleRequest{
		Name:     "Dune",
		Year:     1965,
		Category: "no spaces",
	})
	ve, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "category")

	_, err = f.titles.Create(context.Background(), dto.CreateTitleRequest{
		Name:   "Dune",
		Year:   1965,
		Genres: []string{"ok", "not ok"},
	})
	ve, ok = apperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "genre")
}

func TestUpdateTitlePartial(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	created, err := f.titles.Create(ctx, dto.CreateTitleRequest{
		Name:     "Dune",
		Year:     1965,
		Category: "book",
		Genres:   []string{"sci-fi"},
	})
	require.NoError(t, err)

	name := "Dune (revised)"
	updated, err := f.titles.Update(ctx, created.ID, dto.UpdateTitleRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Dune (revised)", updated.Name)
	// untouched fields survive
	assert.Equal(t, 1965, updated.Year)
	require.NotNil(t, updated.Category)
	assert.Equal(t, "book", updated.Category.Slug)
	assert.Len(t, updated.Genres, 1)

	// empty category clears the link, empty genre list unlinks all
	empty := ""
	noGenres := []string{}
	updated, err = f.titles.Update(ctx, created.ID, dto.UpdateTitleRequest{Category: &empty, Genres: &noGenres})
	require.NoError(t, err)
	assert.Nil(t, updated.Category)
	assert.Empty(t, updated.Genres)
}

func TestUpdateTitleUnknown(t *testing.T) {
	f := newCatalogFixture(t)
	name := "x"

	_, err := f.titles.Update(context.Background(), 999, dto.UpdateTitleRequest{Name: &name})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListTitlesFiltered(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	_, err := f.titles.Create(ctx, dto.CreateTitleRequest{Name: "Dune", Year: 1965, Category: "book", Genres: []string{"sci-fi"}})
	require.NoError(t, err)
	_, err = f.titles.Create(ctx, dto.CreateTitleRequest{Name: "Alien", Year: 1979, Category: "movie", Genres: []string{"sci-fi", "horror"}})
	require.NoError(t, err)

	page, err := f.titles.List(ctx, repository.TitleFilter{CategorySlug: "book"}, 20, 0)
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Count)
	assert.Equal(t, "Dune", page.Results[0].Name)

	// genre filter joins the link table; a title with two genres counts once
	page, err = f.titles.List(ctx, repository.TitleFilter{GenreSlug: "sci-fi"}, 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Count)

	// substring match on name, case-insensitive
	page, err = f.titles.List(ctx, repository.TitleFilter{Name: "alie"}, 20, 0)
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Count)
	assert.Equal(t, "Alien", page.Results[0].Name)

	year := 1965
	page, err = f.titles.List(ctx, repository.TitleFilter{Year: &year}, 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Count)
}

func TestCategoryCreateStrict(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	created, err := f.categories.Create(ctx, dto.CreateCategoryRequest{Name: "Books", Slug: "book"})
	require.NoError(t, err)
	assert.Equal(t, "Books", created.Name)

	// unlike the lazy resolve on title writes, the admin endpoint rejects
	// an existing slug outright
	_, err = f.categories.Create(ctx, dto.CreateCategoryRequest{Name: "Other", Slug: "book"})
	ve, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "slug")

	_, err = f.categories.Create(ctx, dto.CreateCategoryRequest{Name: "Bad", Slug: "no spaces"})
	_, ok = apperr.AsValidation(err)
	assert.True(t, ok)
}

func TestDeleteCategoryDetachesTitles(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	created, err := f.titles.Create(ctx, dto.CreateTitleRequest{Name: "Dune", Year: 1965, Category: "book"})
	require.NoError(t, err)

	require.NoError(t, f.categories.DeleteBySlug(ctx, "book"))

	// the title survives, uncategorized
	reloaded, err := f.titles.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.Category)

	assert.ErrorIs(t, f.categories.DeleteBySlug(ctx, "book"), apperr.ErrNotFound)
}

func TestDeleteGenreDetachesTitles(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	created, err := f.titles.Create(ctx, dto.CreateTitleRequest{Name: "Dune", Year: 1965, Genres: []string{"sci-fi", "classic"}})
	require.NoError(t, err)

	require.NoError(t, f.genres.DeleteBySlug(ctx, "sci-fi"))

	reloaded, err := f.titles.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Genres, 1)
	assert.Equal(t, "classic", reloaded.Genres[0].Slug)

	var links int64
	require.NoError(t, f.db.Model(&models.TitleGenre{}).Count(&links).Error)
	assert.EqualValues(t, 1, links)
}

func TestCategoryListOrderedBySlug(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	for _, slug := range []string{"movie", "book", "music"} {
		_, err := f.categories.Create(ctx, dto.CreateCategoryRequest{Name: slug, Slug: slug})
		require.NoError(t, err)
	}

	page, err := f.categories.GetAll(ctx, 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Count)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "book", page.Results[0].Slug)
	assert.Equal(t, "movie", page.Results[1].Slug)

	page, err = f.categories.GetAll(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "music", page.Results[0].Slug)
}
