package services

import (
	"errors"
	"testing"
	"time"

	"github.com/princeprakhar/bookmind/internal/models"
	"github.com/princeprakhar/bookmind/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendWelcomeEmail(to, username string) error {
	args := m.Called(to, username)
	return args.Error(0)
}

func TestRegister_Success(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAuthService(t, db)

	user, err := svc.Register(RegisterRequest{Username: " alice ", Email: "A@X.com", Password: "pw123"})
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "a@x.com", user.Email)
	assert.NotEqual(t, "pw123", user.PasswordHash)
	assert.True(t, user.CheckPassword("pw123"))
}

func TestRegister_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAuthService(t, db)

	_, err := svc.Register(RegisterRequest{Username: "alice", Email: "a@x.com", Password: "pw123"})
	require.NoError(t, err)

	_, err = svc.Register(RegisterRequest{Username: "alice", Email: "other@x.com", Password: "pw123"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	var count int64
	db.Table("users").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAuthService(t, db)

	_, err := svc.Register(RegisterRequest{Username: "alice", Email: "a@x.com", Password: "pw123"})
	require.NoError(t, err)

	_, err = svc.Register(RegisterRequest{Username: "bob", Email: "A@x.com", Password: "pw123"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_LostRaceIsClassifiedByColumn(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAuthService(t, db)
	createUser(t, db, "alice")

	// The unique index reports a bare duplicate without naming the column.
	dup := &models.User{Username: "someone", Email: "alice@example.com", PasswordHash: "x"}
	err := db.Create(dup).Error
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.NotContains(t, err.Error(), "email")

	assert.ErrorIs(t, svc.classifyDuplicate("someone", "alice@example.com"), ErrEmailTaken)
	assert.ErrorIs(t, svc.classifyDuplicate("alice", "new@example.com"), ErrUsernameTaken)
	assert.ErrorIs(t, svc.classifyDuplicate("ghost", "ghost@example.com"), ErrUsernameTaken)
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestAuthService(t, newTestDB(t))

	_, err := svc.Register(RegisterRequest{Username: "a", Email: "nope", Password: "1"})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "username")
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "password")
}

func TestRegister_SendsWelcomeEmail(t *testing.T) {
	db := newTestDB(t)
	mailer := new(MockMailer)
	mailer.On("SendWelcomeEmail", "a@x.com", "alice").Return(errors.New("smtp down"))
	svc := NewAuthService(db, utils.NewTokenManager(testSecret, time.Hour), mailer)

	_, err := svc.Register(RegisterRequest{Username: "alice", Email: "a@x.com", Password: "pw123"})

	assert.NoError(t, err, "mail failures must not fail registration")
	mailer.AssertExpectations(t)
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	tokens := utils.NewTokenManager(testSecret, time.Hour)
	svc := NewAuthService(db, tokens, nil)
	registered, err := svc.Register(RegisterRequest{Username: "alice", Email: "a@x.com", Password: "pw123"})
	require.NoError(t, err)

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := svc.Login(LoginRequest{Username: "alice", Password: "nope"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		_, err := svc.Login(LoginRequest{Username: "mallory", Password: "pw123"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Success", func(t *testing.T) {
		result, err := svc.Login(LoginRequest{Username: "alice", Password: "pw123"})
		require.NoError(t, err)

		assert.Equal(t, registered.ID, result.User.ID)
		userID, ok := tokens.Verify(result.Token)
		assert.True(t, ok)
		assert.Equal(t, registered.ID, userID)
	})
}

func TestGetUser(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAuthService(t, db)
	alice := createUser(t, db, "alice")

	byID, err := svc.GetUserByID(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	byName, err := svc.GetUserByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byName.ID)

	_, err = svc.GetUserByID(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = svc.GetUserByUsername("ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestChangePassword(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAuthService(t, db)
	alice := createUser(t, db, "alice")
	identity := UserIdentity(alice)

	err := svc.ChangePassword(AnonymousIdentity("no token"), ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "newpass1"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = svc.ChangePassword(identity, ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "newpass1"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "current_password")

	require.NoError(t, svc.ChangePassword(identity, ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "newpass1"}))

	_, err = svc.Login(LoginRequest{Username: "alice", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(LoginRequest{Username: "alice", Password: "newpass1"})
	assert.NoError(t, err)
}
