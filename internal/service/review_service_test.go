package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"reviewhub/internal/apperr"
	"reviewhub/internal/dto"
	"reviewhub/internal/models"
	"reviewhub/internal/repository"
)

type reviewFixture struct {
	db       *gorm.DB
	titles   *repository.TitleRepo
	reviews  ReviewService
	comments CommentService
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()
	db := openTestDB(t)
	titleRepo := repository.NewTitleRepo(db)
	reviewRepo := repository.NewReviewRepository(db)
	return &reviewFixture{
		db:       db,
		titles:   titleRepo,
		reviews:  NewReviewService(reviewRepo, titleRepo),
		comments: NewCommentService(repository.NewCommentRepository(db), reviewRepo),
	}
}

func (f *reviewFixture) mustReview(t *testing.T, titleID int64, author *models.User, score int) *dto.ReviewResponse {
	t.Helper()
	resp, err := f.reviews.Create(context.Background(), titleID, author.ID, dto.CreateReviewRequest{
		Text:  "some thoughts",
		Score: score,
	})
	require.NoError(t, err)
	return resp
}

func TestCreateReviewReturnsAuthor(t *testing.T) {
	f := newReviewFixture(t)
	author := seedUser(t, f.db, "alice", models.RoleUser)
	title := seedTitle(t, f.db, "Dune", 1965)

	resp := f.mustReview(t, title.ID, author, 8)
	assert.Equal(t, "alice", resp.Author)
	assert.Equal(t, 8, resp.Score)
	assert.False(t, resp.PubDate.IsZero())
}

func TestCreateReviewUnknownTitle(t *testing.T) {
	f := newReviewFixture(t)
	author := seedUser(t, f.db, "alice", models.RoleUser)

	_, err := f.reviews.Create(context.Background(), 12345, author.ID, dto.CreateReviewRequest{Text: "x", Score: 5})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateReviewScoreBounds(t *testing.T) {
	f := newReviewFixture(t)
	author := seedUser(t, f.db, "alice", models.RoleUser)
	title := seedTitle(t, f.db, "Dune", 1965)

	for _, score := range []int{0, 11, -3} {
		_, err := f.reviews.Create(context.Background(), title.ID, author.ID, dto.CreateReviewRequest{Text: "x", Score: score})
		ve, ok := apperr.AsValidation(err)
		require.True(t, ok, "score %d should be rejected", score)
		assert.Contains(t, ve.Fields, "score")
	}
}

func TestCreateReviewOnePerAuthorPerTitle(t *testing.T) {
	f := newReviewFixture(t)
	author := seedUser(t, f.db, "alice", models.RoleUser)
	title := seedTitle(t, f.db, "Dune", 1965)
	other := seedTitle(t, f.db, "Solaris", 1961)

	f.mustReview(t, title.ID, author, 8)

	_, err := f.reviews.Create(context.Background(), title.ID, author.ID, dto.CreateReviewRequest{Text: "again", Score: 3})
	ve, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "title")

	// a different title is fine
	f.mustReview(t, other.ID, author, 6)
}

// The composite unique index is the authority even when the pre-check is
// raced past: an insert behind the service's back still collides.
func TestDuplicateReviewIndexAuthority(t *testing.T) {
	f := newReviewFixture(t)
	author := seedUser(t, f.db, "alice", models.RoleUser)
	title := seedTitle(t, f.db, "Dune", 1965)
	f.mustReview(t, title.ID, author, 8)

	err := f.db.Create(&models.Review{AuthorID: author.ID, TitleID: title.ID, Text: "raced", Score: 2}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUpdateOwnReviewNotBlockedByDuplicateRule(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	author := seedUser(t, f.db, "alice", models.RoleUser)
	title := seedTitle(t, f.db, "Dune", 1965)
	created := f.mustReview(t, title.ID, author, 8)

	review, err := f.reviews.Get(ctx, title.ID, created.ID)
	require.NoError(t, err)

	newScore := 3
	newText := "changed my mind"
	updated, err := f.reviews.Update(ctx, review, dto.UpdateReviewRequest{Score: &newScore, Text: &newText})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Score)
	assert.Equal(t, "changed my mind", updated.Text)
}

func TestReviewLookupScopedToTitle(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	author := seedUser(t, f.db, "alice", models.RoleUser)
	dune := seedTitle(t, f.db, "Dune", 1965)
	solaris := seedTitle(t, f.db, "Solaris", 1961)
	created := f.mustReview(t, dune.ID, author, 8)

	_, err := f.reviews.Get(ctx, solaris.ID, created.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListReviewsUnknownTitle(t *testing.T) {
	f := newReviewFixture(t)

	_, err := f.reviews.List(context.Background(), 999, 20, 0)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListReviewsNewestFirst(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	title := seedTitle(t, f.db, "Dune", 1965)
	alice := seedUser(t, f.db, "alice", models.RoleUser)
	bob := seedUser(t, f.db, "bob", models.RoleUser)
	f.mustReview(t, title.ID, alice, 8)
	f.mustReview(t, title.ID, bob, 5)

	page, err := f.reviews.List(ctx, title.ID, 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Count)
	require.Len(t, page.Results, 2)
	assert.False(t, page.Results[0].PubDate.Before(page.Results[1].PubDate))
}

func TestTitleRatingIsMeanOfScores(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	title := seedTitle(t, f.db, "Dune", 1965)
	alice := seedUser(t, f.db, "alice", models.RoleUser)
	bob := seedUser(t, f.db, "bob", models.RoleUser)

	// no reviews yet: rating is null, not zero
	loaded, err := f.titles.GetByID(ctx, title.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded.Rating)

	f.mustReview(t, title.ID, alice, 8)
	bobReview := f.mustReview(t, title.ID, bob, 5)

	loaded, err = f.titles.GetByID(ctx, title.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Rating)
	assert.InDelta(t, 6.5, *loaded.Rating, 1e-9)

	// deleting a review moves the mean
	require.NoError(t, f.reviews.Delete(ctx, bobReview.ID))
	loaded, err = f.titles.GetByID(ctx, title.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Rating)
	assert.InDelta(t, 8.0, *loaded.Rating, 1e-9)
}

func TestDeleteReviewCascadesComments(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	title := seedTitle(t, f.db, "Dune", 1965)
	alice := seedUser(t, f.db, "alice", models.RoleUser)
	review := f.mustReview(t, title.ID, alice, 8)

	_, err := f.comments.Create(ctx, review.ID, alice.ID, "first!")
	require.NoError(t, err)

	require.NoError(t, f.reviews.Delete(ctx, review.ID))

	var comments int64
	require.NoError(t, f.db.Model(&models.Comment{}).Count(&comments).Error)
	assert.EqualValues(t, 0, comments)

	assert.ErrorIs(t, f.reviews.Delete(ctx, review.ID), apperr.ErrNotFound)
}

func TestDeleteTitleCascadesReviewsAndComments(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	title := seedTitle(t, f.db, "Dune", 1965)
	alice := seedUser(t, f.db, "alice", models.RoleUser)
	review := f.mustReview(t, title.ID, alice, 8)
	_, err := f.comments.Create(ctx, review.ID, alice.ID, "first!")
	require.NoError(t, err)

	require.NoError(t, f.titles.Delete(ctx, title.ID))

	var reviews, comments int64
	require.NoError(t, f.db.Model(&models.Review{}).Count(&reviews).Error)
	require.NoError(t, f.db.Model(&models.Comment{}).Count(&comments).Error)
	assert.EqualValues(t, 0, reviews)
	assert.EqualValues(t, 0, comments)
}

func TestCommentScopedToReview(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	title := seedTitle(t, f.db, "Dune", 1965)
	alice := seedUser(t, f.db, "alice", models.RoleUser)
	bob := seedUser(t, f.db, "bob", models.RoleUser)
	aliceReview := f.mustReview(t, title.ID, alice, 8)
	bobReview := f.mustReview(t, title.ID, bob, 5)

	comment, err := f.comments.Create(ctx, aliceReview.ID, bob.ID, "agreed")
	require.NoError(t, err)
	assert.Equal(t, "bob", comment.Author)

	_, err = f.comments.Get(ctx, bobReview.ID, comment.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.comments.Create(ctx, 999, bob.ID, "void")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
