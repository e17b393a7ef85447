package models

import (
	"time"

	"github.com/princeprakhar/bookmind/internal/utils"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:50;uniqueIndex;not null"`
	Email        string    `json:"-" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Reviews  []Review     `json:"reviews,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Comments []Comment    `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Likes    []ReviewLike `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// SetPassword replaces the stored hash.
func (u *User) SetPassword(password string) error {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// CheckPassword verifies the password
func (u *User) CheckPassword(password string) bool {
	return utils.CheckPassword(password, u.PasswordHash)
}
