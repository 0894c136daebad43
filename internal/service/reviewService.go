package service

import (
	"context"
	"errors"

	"reviewhub/internal/apperr"
	"reviewhub/internal/dto"
	"reviewhub/internal/models"
	"reviewhub/internal/repository"

	"gorm.io/gorm"
)

type ReviewService interface {
	List(ctx context.Context, titleID int64, limit, offset int) (*dto.PaginatedReviewResponse, error)
	// Get resolves a review inside its parent title; the model is returned so
	// the handler can run the object-level policy against the author.
	Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
	// Create takes the author from the authenticated caller, never from the
	// request body.
	Create(ctx context.Context, titleID int64, authorID string, req dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	Update(ctx context.Context, review *models.Review, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, reviewID int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  *repository.TitleRepo
}

func NewReviewService(reviewRepo repository.ReviewRepository, titleRepo *repository.TitleRepo) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
	}
}

func (s *reviewService) List(ctx context.Context, titleID int64, limit, offset int) (*dto.PaginatedReviewResponse, error) {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("title")
		}
		return nil, err
	}

	reviews, total, err := s.reviewRepo.GetByTitle(ctx, titleID, limit, offset)
	if err != nil {
		return nil, err
	}

	results := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		results = append(results, *dto.FromModelToReviewResponse(&reviews[i]))
	}
	return &dto.PaginatedReviewResponse{Count: total, Limit: limit, Offset: offset, Results: results}, nil
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	review, err := s.reviewRepo.GetByTitleAndID(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("review")
		}
		return nil, err
	}
	return review, nil
}

func (s *reviewService) Create(ctx context.Context, titleID int64, authorID string, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("title")
		}
		return nil, err
	}
	if err := validateScore(req.Score); err != nil {
		return nil, err
	}

	// UX pre-check only; the composite unique index is what actually closes
	// the concurrent-duplicate race.
	exists, err := s.reviewRepo.ExistsByAuthorAndTitle(ctx, authorID, titleID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Validation("title", "you have already reviewed this title")
	}

	review := &models.Review{
		AuthorID: authorID,
		TitleID:  titleID,
		Text:     req.Text,
		Score:    req.Score,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Validation("title", "you have already reviewed this title")
		}
		return nil, err
	}

	// reload with author for the response
	review, err = s.reviewRepo.GetByID(ctx, review.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

// Update never runs the duplicate check: a user revising their own review
// would otherwise trip over their own prior row.
func (s *reviewService) Update(ctx context.Context, review *models.Review, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	if req.Score != nil {
		if err := validateScore(*req.Score); err != nil {
			return nil, err
		}
		review.Score = *req.Score
	}
	if req.Text != nil {
		review.Text = *req.Text
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.GetByID(ctx, review.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) Delete(ctx context.Context, reviewID int64) error {
	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("review")
		}
		return err
	}
	return nil
}

func validateScore(score int) error {
	if score < 1 || score > 10 {
		return apperr.Validation("score", "score must be between 1 and 10")
	}
	return nil
}
