package dto

import "reviewhub/internal/models"

type CreateTitleRequest struct {
	Name        string   `json:"name" binding:"required,max=256"`
	Year        int      `json:"year" binding:"min=0"`
	Description string   `json:"description"`
	Category    string   `json:"category"` // slug, optional
	Genres      []string `json:"genre"`    // slugs, resolved get-or-create
}

// UpdateTitleRequest: partial update, only supplied fields are touched
type UpdateTitleRequest struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genres      *[]string `json:"genre"`
}

type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *float64          `json:"rating"` // null until the first review lands
	Description string            `json:"description"`
	Category    *CategoryResponse `json:"category"`
	Genres      []GenreResponse   `json:"genre"`
}

func FromModelToTitleResponse(t *models.Title) *TitleResponse {
	resp := &TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genres:      make([]GenreResponse, 0, len(t.Genres)),
	}
	if t.Category != nil {
		resp.Category = FromModelToCategoryResponse(t.Category)
	}
	for i := range t.Genres {
		resp.Genres = append(resp.Genres, *FromModelToGenreResponse(&t.Genres[i]))
	}
	return resp
}

type PaginatedTitleResponse struct {
	Count   int64           `json:"count"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
	Results []TitleResponse `json:"results"`
}
