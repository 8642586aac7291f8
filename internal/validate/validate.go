// Package validate normalizes and checks raw request values. Every check is
// pure and fails with an apperr InvalidInput error.
package validate

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/baharkarakas/blog-backend/internal/apperr"
	"github.com/baharkarakas/blog-backend/internal/models"
)

// ErrPasswordMismatch is wrapped by the error CheckPassword returns when the
// confirmation differs.
var ErrPasswordMismatch = errors.New("passwords do not match")

const (
	MinPasswordLen  = 8
	MaxUsernameLen  = 50
	passwordSymbols = `!@#$%^&*()_-+=[]{};:"\|,.<>/?`
)

var usernameRe = regexp.MustCompile(`^[a-z0-9_]{3,50}$`)

var v = newValidator()

func newValidator() *validator.Validate {
	vv := validator.New()
	_ = vv.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})
	_ = vv.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
	return vv
}

// Validator exposes the shared instance with the custom tags registered.
func Validator() *validator.Validate { return v }

func CheckID(raw, label string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apperr.InvalidInput(label + " is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.InvalidInput("Invalid " + label)
	}
	return id, nil
}

func CheckTextField(raw, label string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", apperr.InvalidInput(label + " is required")
	}
	return s, nil
}

func CheckUsername(raw string) (string, error) {
	s := NormalizeUsername(raw)
	if s == "" {
		return "", apperr.InvalidInput("Username is required")
	}
	if err := v.Var(s, "username"); err != nil {
		return "", apperr.InvalidInput("Username must be 3 to 50 characters long and may only contain letters, numbers, or underscores")
	}
	return s, nil
}

func NormalizeUsername(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func CheckPassword(raw, confirm string) (string, error) {
	if raw == "" {
		return "", apperr.InvalidInput("Password is required")
	}
	if err := v.Var(raw, "password"); err != nil {
		return "", apperr.InvalidInput("Password must be at least 8 characters long and include lowercase, uppercase, number and symbol")
	}
	if raw != confirm {
		return "", apperr.InvalidInputWrap("Passwords do not match", ErrPasswordMismatch)
	}
	return raw, nil
}

func CheckRole(raw string) (models.Role, error) {
	r := strings.ToLower(strings.TrimSpace(raw))
	if err := v.Var(r, "required,oneof=user admin"); err != nil {
		return "", apperr.InvalidInput("Role must be one of: user, admin")
	}
	return models.Role(r), nil
}

// StrongPassword reports whether p satisfies the password policy. Letter and
// digit classes are ASCII only.
func StrongPassword(p string) bool {
	if utf8.RuneCountInString(p) < MinPasswordLen {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range p {
		switch {
		case 'a' <= r && r <= 'z':
			lower = true
		case 'A' <= r && r <= 'Z':
			upper = true
		case '0' <= r && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}
