// Package validation holds the pure field validators used by the
// registration and account flows. Each validator takes a raw value and
// returns the normalized form or a rejection error. Uniqueness checks
// go through the injected AccountDirectory so callers can supply a
// store-backed implementation and tests a mock.
package validation

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// ErrInvalidEmail is returned when the email address is malformed.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("this email is already in use")
	// ErrInvalidName is returned when a name has non-letters or is too short.
	ErrInvalidName = errors.New("name must contain only letters and have at least 2 characters")
	// ErrWeakPassword is returned when the password misses a required class.
	ErrWeakPassword = errors.New("password must have at least 8 characters including uppercase, lowercase, digit and special character")
	// ErrInvalidCPF is returned when the CPF is not 11 checksum-valid digits.
	ErrInvalidCPF = errors.New("invalid CPF")
	// ErrCPFTaken is returned when the CPF is already registered.
	ErrCPFTaken = errors.New("this CPF is already in use")
	// ErrFutureBirthdate is returned when the birthdate is after today.
	ErrFutureBirthdate = errors.New("birthdate cannot be in the future")
	// ErrInvalidBirthdate is returned when the birthdate cannot be parsed.
	ErrInvalidBirthdate = errors.New("invalid birthdate")
	// ErrInvalidPhone is returned when the phone has not 10 or 11 digits.
	ErrInvalidPhone = errors.New("phone must have 10 or 11 digits")
	// ErrInvalidZipcode is returned when the zipcode has not 8 digits.
	ErrInvalidZipcode = errors.New("zipcode must have 8 digits")
)

// AccountDirectory is the read-only uniqueness view over the account
// store.
type AccountDirectory interface {
	EmailTaken(email string) (bool, error)
	CPFTaken(cpf string) (bool, error)
}

// passwordSpecials is the accepted special-character set.
const passwordSpecials = `!@#$%^&*(),.?":{}|<>`

// Digits strips every non-digit rune from s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Email validates and normalizes an email address. The check is purely
// syntactic; no deliverability lookup is made. When dir is non-nil the
// normalized address is also rejected if already registered, either as
// an email or as a login identifier.
func Email(raw string, dir AccountDirectory) (string, error) {
	addr := strings.TrimSpace(raw)
	parsed, err := mail.ParseAddress(addr)
	if err != nil || parsed.Address != addr {
		return "", ErrInvalidEmail
	}
	at := strings.LastIndex(addr, "@")
	if !strings.Contains(addr[at+1:], ".") {
		return "", ErrInvalidEmail
	}
	normalized := strings.ToLower(addr)

	if dir != nil {
		taken, err := dir.EmailTaken(normalized)
		if err != nil {
			return "", fmt.Errorf("failed to check email uniqueness: %w", err)
		}
		if taken {
			return "", ErrEmailTaken
		}
	}
	return normalized, nil
}

// Name validates a first or last name and normalizes it to trimmed
// title case. Only letters and internal spaces are accepted.
func Name(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if len([]rune(trimmed)) < 2 {
		return "", ErrInvalidName
	}
	for _, r := range trimmed {
		if !unicode.IsLetter(r) && r != ' ' {
			return "", ErrInvalidName
		}
	}
	return cases.Title(language.Und).String(strings.ToLower(trimmed)), nil
}

// Password checks password strength: at least 8 characters with one
// uppercase letter, one lowercase letter, one digit and one special
// character.
func Password(raw string) error {
	if utf8.RuneCountInString(raw) < 8 {
		return ErrWeakPassword
	}
	var upper, lower, digit, special bool
	for _, r := range raw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		return ErrWeakPassword
	}
	return nil
}

// CPF strips formatting, validates the checksum and, when dir is
// non-nil, rejects CPFs already registered. Returns the bare 11-digit
// form.
func CPF(raw string, dir AccountDirectory) (string, error) {
	cpf := Digits(raw)
	if len(cpf) != 11 || !ValidCPF(cpf) {
		return "", ErrInvalidCPF
	}
	if dir != nil {
		taken, err := dir.CPFTaken(cpf)
		if err != nil {
			return "", fmt.Errorf("failed to check CPF uniqueness: %w", err)
		}
		if taken {
			return "", ErrCPFTaken
		}
	}
	return cpf, nil
}

// birthdateLayouts are the accepted input formats, tried in order.
var birthdateLayouts = []string{"02/01/2006", "2006-01-02"}

// Birthdate parses a birthdate and rejects future dates. Dates are
// compared at day granularity against today in the local zone.
func Birthdate(raw string, today time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	var parsed time.Time
	var err error
	for _, layout := range birthdateLayouts {
		parsed, err = time.Parse(layout, trimmed)
		if err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, ErrInvalidBirthdate
	}
	cutoff := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if parsed.After(cutoff) {
		return time.Time{}, ErrFutureBirthdate
	}
	return parsed, nil
}

// Phone strips formatting and requires 10 or 11 digits.
func Phone(raw string) (string, error) {
	phone := Digits(raw)
	if len(phone) < 10 || len(phone) > 11 {
		return "", ErrInvalidPhone
	}
	return phone, nil
}

// Zipcode strips formatting and requires exactly 8 digits.
func Zipcode(raw string) (string, error) {
	zip := Digits(raw)
	if len(zip) != 8 {
		return "", ErrInvalidZipcode
	}
	return zip, nil
}
