package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/princeprakhar/bookmind/internal/models"
	"github.com/princeprakhar/bookmind/internal/types"
	"github.com/princeprakhar/bookmind/internal/utils"
	"github.com/princeprakhar/bookmind/pkg/logger"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// dummyHash is compared against when the username does not exist so a
// failed lookup costs about as much as a wrong password.
var dummyHash, _ = utils.HashPassword("bookmind-placeholder")

type TokenIssuer interface {
	Issue(userID uint) (string, time.Time, error)
}

type AuthService struct {
	db     *gorm.DB
	tokens TokenIssuer
	mailer Mailer
}

type RegisterRequest struct {
	Username string `form:"username" json:"username"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `form:"current_password"`
	NewPassword     string `form:"new_password"`
}

// NewAuthService wires the service. mailer may be nil.
func NewAuthService(db *gorm.DB, tokens TokenIssuer, mailer Mailer) *AuthService {
	return &AuthService{
		db:     db,
		tokens: tokens,
		mailer: mailer,
	}
}

func (s *AuthService) Register(req RegisterRequest) (*models.User, error) {
	username := utils.SanitizeString(req.Username)
	email := strings.ToLower(utils.SanitizeString(req.Email))

	var v validator
	v.check(utils.IsValidUsername(username), "username", "must be 3-50 letters, digits, '.', '_' or '-'")
	v.check(utils.IsValidEmail(email), "email", "must be a valid email address")
	v.check(utils.IsValidPassword(req.Password), "password",
		fmt.Sprintf("must be %d-%d characters", utils.MinPasswordLength, utils.MaxPasswordLength))
	if err := v.err(); err != nil {
		return nil, err
	}

	user := models.User{
		Username: username,
		Email:    email,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureAvailable(tx, username, email); err != nil {
			return err
		}
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return err
			}
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a race with a concurrent registration.
		return nil, s.classifyDuplicate(username, email)
	}
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("user registered")
	s.sendWelcome(&user)
	return &user, nil
}

func ensureAvailable(tx *gorm.DB, username, email string) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if count > 0 {
		return ErrUsernameTaken
	}
	if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return ErrEmailTaken
	}
	return nil
}

// classifyDuplicate names the column behind a unique violation. The
// translated driver error does not carry it, so the committed rows are
// checked again.
func (s *AuthService) classifyDuplicate(username, email string) error {
	if err := ensureAvailable(s.db, username, email); err != nil {
		return err
	}
	return ErrUsernameTaken
}

func (s *AuthService) sendWelcome(user *models.User) {
	if s.mailer == nil {
		return
	}
	if err := s.mailer.SendWelcomeEmail(user.Email, user.Username); err != nil {
		logger.WithError(err).WithField("user_id", user.ID).Warn("welcome email not sent")
	}
}

func (s *AuthService) Login(req LoginRequest) (*types.AuthResult, error) {
	username := utils.SanitizeString(req.Username)
	if username == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("find user: %w", err)
		}
		utils.CheckPassword(req.Password, dummyHash)
		return nil, ErrInvalidCredentials
	}

	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &types.AuthResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

func (s *AuthService) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) ChangePassword(identity Identity, req ChangePasswordRequest) error {
	if identity.IsAnonymous() {
		return ErrUnauthorized
	}

	var v validator
	v.check(utils.IsValidPassword(req.NewPassword), "new_password",
		fmt.Sprintf("must be %d-%d characters", utils.MinPasswordLength, utils.MaxPasswordLength))
	if err := v.err(); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, identity.User.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		if !user.CheckPassword(req.CurrentPassword) {
			return &ValidationError{Fields: map[string]string{"current_password": "is incorrect"}}
		}
		if err := user.SetPassword(req.NewPassword); err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		return tx.Model(&user).Update("password_hash", user.PasswordHash).Error
	})
}
