package dto

import (
	"time"

	"reviewhub/internal/models"
)

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type UpdateCommentRequest struct {
	Text *string `json:"text"`
}

type CommentResponse struct {
	ID      int64     `json:"id"`
	Author  string    `json:"author"` // username
	Text    string    `json:"text"`
	PubDate time.Time `json:"pub_date"`
}

func FromModelToCommentResponse(comment *models.Comment) *CommentResponse {
	return &CommentResponse{
		ID:      comment.ID,
		Author:  comment.Author.Username,
		Text:    comment.Text,
		PubDate: comment.CreatedAt,
	}
}

type PaginatedCommentResponse struct {
	Count   int64             `json:"count"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
	Results []CommentResponse `json:"results"`
}
