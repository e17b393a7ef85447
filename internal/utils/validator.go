package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,50}$`)
)

const (
	MinPasswordLength = 5
	MaxPasswordLength = 72 // bcrypt ignores anything longer
)

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func IsValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

func IsValidPassword(password string) bool {
	return len(password) >= MinPasswordLength && len(password) <= MaxPasswordLength
}

func IsValidRating(rating int) bool {
	return rating >= 1 && rating <= 10
}

func SanitizeString(input string) string {
	return strings.TrimSpace(input)
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// LengthBetween reports whether s has between min and max runes.
func LengthBetween(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}
