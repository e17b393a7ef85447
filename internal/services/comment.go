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

const maxCommentLength = 2000

type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

// AddComment posts text under a review.
func (s *CommentService) AddComment(identity Identity, reviewID uint, text string) (*models.Comment, error) {
	var comment models.Comment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Review{}).Where("id = ?", reviewID).Count(&count).Error; err != nil {
			return fmt.Errorf("find review: %w", err)
		}
		if count == 0 {
			return ErrReviewNotFound
		}
		if identity.IsAnonymous() {
			return ErrUnauthorized
		}

		text = utils.SanitizeString(text)
		var v validator
		v.check(text != "", "text", "must not be empty")
		v.check(utils.LengthBetween(text, 0, maxCommentLength), "text",
			fmt.Sprintf("must be at most %d characters", maxCommentLength))
		if err := v.err(); err != nil {
			return err
		}

		comment = models.Comment{
			UserID:   identity.User.ID,
			ReviewID: reviewID,
			Text:     text,
		}
		return tx.Create(&comment).Error
	})
	if err != nil {
		return nil, err
	}

	comment.User = *identity.User
	logger.WithFields(logrus.Fields{"comment_id": comment.ID, "review_id": reviewID}).Debug("comment added")
	return &comment, nil
}

// DeleteComment removes a comment written by the caller and returns the
// review it belonged to.
func (s *CommentService) DeleteComment(identity Identity, commentID uint) (uint, error) {
	var reviewID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommentNotFound
			}
			return fmt.Errorf("find comment: %w", err)
		}
		if err := AuthorizeOwner(identity, comment.UserID); err != nil {
			return err
		}
		reviewID = comment.ReviewID
		return tx.Delete(&comment).Error
	})
	return reviewID, err
}

// ListUserComments returns the latest comments written by a user.
func (s *CommentService) ListUserComments(userID uint, limit int) ([]models.Comment, error) {
	_, limit = normalizePage(1, limit)

	var comments []models.Comment
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("list user comments: %w", err)
	}
	return comments, nil
}
