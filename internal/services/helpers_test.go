package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/princeprakhar/bookmind/internal/database"
	"github.com/princeprakhar/bookmind/internal/models"
	"github.com/princeprakhar/bookmind/internal/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "service-test-secret-long-enough-0123456789"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(uuid.NewString(), "-", ""))
	db, err := database.Open("sqlite", dsn, logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func newTestAuthService(t *testing.T, db *gorm.DB) *AuthService {
	t.Helper()
	return NewAuthService(db, utils.NewTokenManager(testSecret, time.Hour), nil)
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{Username: username, Email: username + "@example.com"}
	require.NoError(t, user.SetPassword("secret123"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func createReview(t *testing.T, db *gorm.DB, owner *models.User, title string, createdAt time.Time) *models.Review {
	t.Helper()

	review := &models.Review{
		UserID:    owner.ID,
		BookTitle: title,
		Author:    "Some Author",
		Rating:    7,
		Text:      "A thoughtful review.",
		Status:    models.StatusRead,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(review).Error)
	return review
}

func validInput() ReviewInput {
	return ReviewInput{
		BookTitle: "Dune",
		Author:    "Frank Herbert",
		Rating:    9,
		Text:      "Spice, sand and politics.",
	}
}
