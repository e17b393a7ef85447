package services

import (
	"errors"
	"fmt"

	"github.com/princeprakhar/bookmind/internal/models"
	"github.com/princeprakhar/bookmind/internal/utils"
	"github.com/princeprakhar/bookmind/pkg/logger"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// ReviewInput is the editable part of a review as submitted by a form.
type ReviewInput struct {
	BookTitle   string `form:"book_title" json:"book_title"`
	Author      string `form:"author" json:"author"`
	Rating      int    `form:"rating" json:"rating"`
	Text        string `form:"text" json:"text"`
	Description string `form:"description" json:"description"`
	CoverURL    string `form:"cover_url" json:"cover_url"`
	Status      string `form:"status" json:"status"`
}

// Normalize trims every field and fills in the default status.
func (in *ReviewInput) Normalize() {
	in.BookTitle = utils.SanitizeString(in.BookTitle)
	in.Author = utils.SanitizeString(in.Author)
	in.Text = utils.SanitizeString(in.Text)
	in.Description = utils.SanitizeString(in.Description)
	in.CoverURL = utils.SanitizeString(in.CoverURL)
	in.Status = utils.SanitizeString(in.Status)
	if in.Status == "" {
		in.Status = models.StatusRead
	}
}

func (in ReviewInput) Validate() error {
	var v validator
	v.check(utils.LengthBetween(in.BookTitle, 1, 100), "book_title", "must be 1-100 characters")
	v.check(utils.LengthBetween(in.Author, 1, 100), "author", "must be 1-100 characters")
	v.check(utils.IsValidRating(in.Rating), "rating", "must be between 1 and 10")
	v.check(in.Text != "", "text", "must not be empty")
	v.check(isKnownStatus(in.Status), "status", "is not a known reading status")
	return v.err()
}

// FromReview fills an input from an existing review, for edit forms.
func FromReview(r *models.Review) ReviewInput {
	return ReviewInput{
		BookTitle:   r.BookTitle,
		Author:      r.Author,
		Rating:      r.Rating,
		Text:        r.Text,
		Description: r.Description,
		CoverURL:    r.CoverURL,
		Status:      r.Status,
	}
}

func isKnownStatus(status string) bool {
	for _, s := range models.ReviewStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func (s *ReviewService) CreateReview(identity Identity, in ReviewInput) (*models.Review, error) {
	if identity.IsAnonymous() {
		return nil, ErrUnauthorized
	}

	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	review := models.Review{
		UserID:      identity.User.ID,
		BookTitle:   in.BookTitle,
		Author:      in.Author,
		Rating:      in.Rating,
		Text:        in.Text,
		Description: in.Description,
		CoverURL:    in.CoverURL,
		Status:      in.Status,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&review).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	review.User = *identity.User
	logger.WithFields(logrus.Fields{"review_id": review.ID, "user_id": review.UserID}).Info("review created")
	return &review, nil
}

// GetReview loads a review with its owner and comments, oldest comment first.
func (s *ReviewService) GetReview(reviewID uint) (*models.Review, error) {
	var review models.Review
	err := s.db.Preload("User").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Comments.User").
		First(&review, reviewID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

// ListReviews returns one page of the feed, newest first, and the total count.
func (s *ReviewService) ListReviews(page, limit int) ([]models.Review, int64, error) {
	page, limit = normalizePage(page, limit)

	var total int64
	if err := s.db.Model(&models.Review{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	var reviews []models.Review
	err := s.db.Preload("User").
		Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, total, nil
}

func (s *ReviewService) ListUserReviews(userID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("list user reviews: %w", err)
	}
	return reviews, nil
}

// EditableReview loads a review the caller is allowed to change.
func (s *ReviewService) EditableReview(identity Identity, reviewID uint) (*models.Review, error) {
	review, err := s.findReview(s.db, reviewID)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeOwner(identity, review.UserID); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) UpdateReview(identity Identity, reviewID uint, in ReviewInput) (*models.Review, error) {
	var review *models.Review
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		review, err = s.findReview(tx, reviewID)
		if err != nil {
			return err
		}
		if err := AuthorizeOwner(identity, review.UserID); err != nil {
			return err
		}

		in.Normalize()
		if err := in.Validate(); err != nil {
			return err
		}

		review.BookTitle = in.BookTitle
		review.Author = in.Author
		review.Rating = in.Rating
		review.Text = in.Text
		review.Description = in.Description
		review.CoverURL = in.CoverURL
		review.Status = in.Status

		return tx.Model(review).
			Select("book_title", "author", "rating", "text", "description", "cover_url", "status").
			Updates(review).Error
	})
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{"review_id": review.ID, "user_id": review.UserID}).Info("review updated")
	return review, nil
}

// DeleteReview removes a review together with its comments and likes.
func (s *ReviewService) DeleteReview(identity Identity, reviewID uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		review, err := s.findReview(tx, reviewID)
		if err != nil {
			return err
		}
		if err := AuthorizeOwner(identity, review.UserID); err != nil {
			return err
		}

		if err := tx.Where("review_id = ?", review.ID).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		if err := tx.Where("review_id = ?", review.ID).Delete(&models.ReviewLike{}).Error; err != nil {
			return fmt.Errorf("delete likes: %w", err)
		}
		if err := tx.Delete(review).Error; err != nil {
			return fmt.Errorf("delete review: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{"review_id": reviewID, "user_id": identity.UserID()}).Info("review deleted")
	return nil
}

// ToggleLike likes the review, or removes an existing like. It returns
// whether the caller likes the review afterwards.
func (s *ReviewService) ToggleLike(identity Identity, reviewID uint) (bool, error) {
	liked := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.findReview(tx, reviewID); err != nil {
			return err
		}
		if identity.IsAnonymous() {
			return ErrUnauthorized
		}

		result := tx.Where("user_id = ? AND review_id = ?", identity.User.ID, reviewID).Delete(&models.ReviewLike{})
		if result.Error != nil {
			return fmt.Errorf("remove like: %w", result.Error)
		}
		if result.RowsAffected > 0 {
			return nil
		}

		like := models.ReviewLike{UserID: identity.User.ID, ReviewID: reviewID}
		if err := tx.Create(&like).Error; err != nil {
			return fmt.Errorf("create like: %w", err)
		}
		liked = true
		return nil
	})
	return liked, err
}

func (s *ReviewService) LikeCount(reviewID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.ReviewLike{}).Where("review_id = ?", reviewID).Count(&count).Error
	return count, err
}

// LikedBy reports whether identity has liked the review.
func (s *ReviewService) LikedBy(identity Identity, reviewID uint) (bool, error) {
	if identity.IsAnonymous() {
		return false, nil
	}
	var count int64
	err := s.db.Model(&models.ReviewLike{}).
		Where("review_id = ? AND user_id = ?", reviewID, identity.User.ID).
		Count(&count).Error
	return count > 0, err
}

func (s *ReviewService) findReview(db *gorm.DB, reviewID uint) (*models.Review, error) {
	var review models.Review
	if err := db.First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("find review: %w", err)
	}
	return &review, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	return page, limit
}
