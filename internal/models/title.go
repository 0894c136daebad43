package models

import "time"

type Title struct {
	ID          int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string  `json:"name" gorm:"not null;size:256;index"`
	Year        int     `json:"year" gorm:"not null;index"`
	Description string  `json:"description" gorm:"type:text"`
	CategoryID  *int64  `json:"-" gorm:"index"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Rating is the mean of associated review scores, nil when none exist.
	// Computed per read by the repository; never persisted.
	Rating *float64 `json:"rating" gorm:"-"`

	// associations
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;"`
	Genres   []Genre   `json:"genres,omitempty" gorm:"many2many:title_genres;constraint:OnDelete:CASCADE;"`
}

func (Title) TableName() string {
	return "titles"
}
