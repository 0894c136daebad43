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

type CommentService interface {
	// List returns a review's comments newest-first, strictly scoped to the
	// parent review.
	List(ctx context.Context, reviewID int64, limit, offset int) (*dto.PaginatedCommentResponse, error)
	Get(ctx context.Context, reviewID, commentID int64) (*models.Comment, error)
	Create(ctx context.Context, reviewID int64, authorID, text string) (*dto.CommentResponse, error)
	Update(ctx context.Context, comment *models.Comment, req dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	Delete(ctx context.Context, commentID int64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
}

func NewCommentService(commentRepo repository.CommentRepository, reviewRepo repository.ReviewRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		reviewRepo:  reviewRepo,
	}
}

func (s *commentService) List(ctx context.Context, reviewID int64, limit, offset int) (*dto.PaginatedCommentResponse, error) {
	if _, err := s.reviewRepo.GetByID(ctx, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("review")
		}
		return nil, err
	}

	comments, total, err := s.commentRepo.GetByReview(ctx, reviewID, limit, offset)
	if err != nil {
		return nil, err
	}

	results := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		results = append(results, *dto.FromModelToCommentResponse(&comments[i]))
	}
	return &dto.PaginatedCommentResponse{Count: total, Limit: limit, Offset: offset, Results: results}, nil
}

func (s *commentService) Get(ctx context.Context, reviewID, commentID int64) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByReviewAndID(ctx, reviewID, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("comment")
		}
		return nil, err
	}
	return comment, nil
}

func (s *commentService) Create(ctx context.Context, reviewID int64, authorID, text string) (*dto.CommentResponse, error) {
	if _, err := s.reviewRepo.GetByID(ctx, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("review")
		}
		return nil, err
	}

	comment := &models.Comment{
		AuthorID: authorID,
		ReviewID: reviewID,
		Text:     text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) Update(ctx context.Context, comment *models.Comment, req dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	if req.Text != nil {
		comment.Text = *req.Text
	}
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) Delete(ctx context.Context, commentID int64) error {
	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("comment")
		}
		return err
	}
	return nil
}
