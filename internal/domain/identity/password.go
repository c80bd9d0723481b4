package identity

import (
	"strings"
	"unicode"

	"github.com/BruksfildServices01/trucking-desk/internal/httperr"
)

const MinPasswordLength = 8

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {},
	"123456789": {}, "1234567890": {}, "qwerty123": {}, "qwertyuiop": {},
	"11111111": {}, "00000000": {}, "iloveyou": {}, "admin123": {},
	"letmein1": {}, "welcome1": {}, "abc12345": {}, "sunshine": {},
	"football": {}, "baseball": {}, "princess": {}, "superman": {},
	"trustno1": {}, "passw0rd": {}, "1q2w3e4r": {}, "qwerty12": {},
	"zaq12wsx": {}, "asdfghjk": {}, "monkey123": {}, "dragon123": {},
}

// UserAttributes are the values a password must not resemble.
type UserAttributes struct {
	Username    string
	Email       string
	PhoneNumber string
}

// ValidatePassword returns every rule the password breaks, as business
// errors, so the handler can report them under the password field.
func ValidatePassword(password string, attrs UserAttributes) []error {
	var errs []error

	if len([]rune(password)) < MinPasswordLength {
		errs = append(errs, httperr.ErrBusiness("password_too_short"))
	}

	if password != "" && isNumeric(password) {
		errs = append(errs, httperr.ErrBusiness("password_entirely_numeric"))
	}

	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		errs = append(errs, httperr.ErrBusiness("password_too_common"))
	}

	if tooSimilar(password, attrs) {
		errs = append(errs, httperr.ErrBusiness("password_too_similar"))
	}

	return errs
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func tooSimilar(password string, attrs UserAttributes) bool {
	p := normalize(password)
	if p == "" {
		return false
	}

	candidates := []string{attrs.Username, attrs.PhoneNumber}
	if local, _, ok := strings.Cut(attrs.Email, "@"); ok {
		candidates = append(candidates, local, attrs.Email)
	} else {
		candidates = append(candidates, attrs.Email)
	}

	for _, c := range candidates {
		v := normalize(c)
		if len(v) < 4 {
			continue
		}
		if strings.Contains(p, v) || strings.Contains(v, p) {
			return true
		}
	}
	return false
}

// normalize lowercases and drops everything but letters and digits, so
// "+7 700 000" and "7700000" compare equal.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PasswordMessages renders password rule violations for field-keyed
// validation responses.
func PasswordMessages(errs []error) []string {
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		switch {
		case httperr.IsBusiness(err, "password_too_short"):
			out = append(out, "This password is too short. It must contain at least 8 characters.")
		case httperr.IsBusiness(err, "password_entirely_numeric"):
			out = append(out, "This password is entirely numeric.")
		case httperr.IsBusiness(err, "password_too_common"):
			out = append(out, "This password is too common.")
		case httperr.IsBusiness(err, "password_too_similar"):
			out = append(out, "The password is too similar to the user's details.")
		default:
			out = append(out, err.Error())
		}
	}
	return out
}
