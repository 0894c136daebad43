package dto

import "reviewhub/internal/models"

type CreateGenreRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	Slug string `json:"slug" binding:"required,max=50"`
}

type GenreResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func FromModelToGenreResponse(g *models.Genre) *GenreResponse {
	return &GenreResponse{Name: g.Name, Slug: g.Slug}
}

type PaginatedGenreResponse struct {
	Count   int64           `json:"count"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
	Results []GenreResponse `json:"results"`
}
