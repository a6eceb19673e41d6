// Package validation provides small composable input validators for the
// gateway's JSON handlers. A validator returns the caller-facing message for
// an invalid value, or "" when the value passes.
package validation

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// Validator is a function that validates a string value and returns an error message if invalid.
type Validator func(v string) string

// Required validates that a value is not empty after trimming.
func Required(message string) Validator {
	return func(v string) string {
		if strings.TrimSpace(v) == "" {
			return message
		}
		return ""
	}
}

// MaxLen validates that a value does not exceed maxLen characters.
// Uses rune count for proper Unicode support.
func MaxLen(message string, maxLen int) Validator {
	return func(v string) string {
		if utf8.RuneCountInString(strings.TrimSpace(v)) > maxLen {
			return message
		}
		return ""
	}
}

// AbsoluteURL validates that a value parses as an absolute http(s) URL with a host.
func AbsoluteURL(message string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		p, err := url.Parse(v)
		if err != nil || (p.Scheme != "http" && p.Scheme != "https") || p.Host == "" {
			return message
		}
		return ""
	}
}

// First runs validators in order and returns the first failure message, or "".
func First(v string, validators ...Validator) string {
	for _, validate := range validators {
		if msg := validate(v); msg != "" {
			return msg
		}
	}
	return ""
}
