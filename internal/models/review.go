package models

import "time"

type Review struct {
	ID      int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	AuthorID string `json:"author_id" gorm:"type:uuid;not null;uniqueIndex:uniq_review_author_title"`
	TitleID  int64  `json:"title_id" gorm:"not null;uniqueIndex:uniq_review_author_title"`
	Text     string `json:"text" gorm:"not null;type:text"`
	// 1..10 inclusive; the composite unique index above is the authoritative
	// guard against duplicate (author, title) submissions.
	Score     int       `json:"score" gorm:"not null;check:score >= 1 AND score <= 10"`
	CreatedAt time.Time `json:"pub_date" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `json:"-" gorm:"autoUpdateTime"`

	// Associations
	Author User  `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Title  Title `json:"-" gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE;"`
}

func (Review) TableName() string {
	return "reviews"
}
