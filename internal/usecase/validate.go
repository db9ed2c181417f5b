package usecase

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsEmailLike is a loose shape check, not RFC 5322.
func IsEmailLike(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

const minPasswordLen = 8
