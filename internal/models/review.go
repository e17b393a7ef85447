package models

import (
	"time"
)

// Reading status tags a reviewer can attach to a review.
const (
	StatusRead       = "read"
	StatusReading    = "reading"
	StatusWantToRead = "want_to_read"
	StatusAbandoned  = "abandoned"
)

var ReviewStatuses = []string{StatusRead, StatusReading, StatusWantToRead, StatusAbandoned}

type Review struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"not null;index"`
	BookTitle   string    `json:"book_title" gorm:"size:100;not null"`
	Author      string    `json:"author" gorm:"size:100;not null"`
	Rating      int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 10"`
	Text        string    `json:"text" gorm:"type:text;not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	CoverURL    string    `json:"cover_url,omitempty"`
	Status      string    `json:"status" gorm:"size:30;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	User     User         `json:"user,omitempty"`
	Comments []Comment    `json:"comments,omitempty" gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE"`
	Likes    []ReviewLike `json:"-" gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE"`
}

// ReviewLike is one user's like on one review.
type ReviewLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_review_likes_user_review"`
	ReviewID  uint      `json:"review_id" gorm:"not null;uniqueIndex:idx_review_likes_user_review"`
	CreatedAt time.Time `json:"created_at"`
}

func (ReviewLike) TableName() string {
	return "review_likes"
}
