package validation

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrCodeTooShort     = errors.New("custom code must be at least 3 characters")
	ErrCodeTooLong      = errors.New("custom code must be at most 50 characters")
	ErrCodeInvalidChars = errors.New("custom code can only contain letters, numbers, hyphens, and underscores")
	ErrCodeReserved     = errors.New("custom code is reserved and cannot be used")
)

const (
	minCodeLength = 3
	maxCodeLength = 50
)

// Top-level path segments the router already owns.
var reservedWords = map[string]bool{
	"api":         true,
	"health":      true,
	"links":       true,
	"link":        true,
	"deferred":    true,
	"create-link": true,
	"well-known":  true,
	"docs":        true,
	"admin":       true,
	"status":      true,
	"metrics":     true,
	"static":      true,
	"assets":      true,
	"favicon":     true,
	"robots":      true,
	"sitemap":     true,
}

var codeRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func ValidateCustomCode(code string) error {
	if len(code) < minCodeLength {
		return ErrCodeTooShort
	}
	if len(code) > maxCodeLength {
		return ErrCodeTooLong
	}

	if !codeRegex.MatchString(code) {
		return ErrCodeInvalidChars
	}

	if reservedWords[strings.ToLower(code)] {
		return ErrCodeReserved
	}

	return nil
}
