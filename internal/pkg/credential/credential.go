// Package credential generates login identifiers and one-time secrets for new accounts.
package credential

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	TempPasswordLength = 10
	OTPLength          = 6

	// maxSuffix bounds the uniqueness probe so a broken lookup cannot loop forever
	maxSuffix = 10000

	alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	digits       = "0123456789"
)

var (
	lower = cases.Lower(language.Und)
	title = cases.Title(language.Und)
)

// ExistsFunc reports whether a candidate identifier is already taken.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

func randomString(alphabet string, n int) (string, error) {
	limit := big.NewInt(int64(len(alphabet)))
	var b strings.Builder
	b.Grow(n)
	for range n {
		i, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to read random source: %w", err)
		}
		b.WriteByte(alphabet[i.Int64()])
	}
	return b.String(), nil
}

// TempPassword returns a random alphanumeric password of TempPasswordLength characters.
func TempPassword() (string, error) {
	return randomString(alphanumeric, TempPasswordLength)
}

// OTP returns a numeric one-time code of OTPLength digits.
func OTP() (string, error) {
	return randomString(digits, OTPLength)
}

// slug lower-cases a name part and keeps letters and digits only.
func slug(part string) string {
	var b strings.Builder
	for _, r := range lower.String(strings.TrimSpace(part)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// nameBase builds "first.last", using "ems" when the last name is empty.
func nameBase(first, last string) string {
	l := slug(last)
	if l == "" {
		l = "ems"
	}
	return slug(first) + "." + l
}

// DisplayName title-cases a person's name for greetings.
func DisplayName(first, last string) string {
	return strings.TrimSpace(title.String(strings.TrimSpace(first) + " " + strings.TrimSpace(last)))
}

func firstFree(ctx context.Context, base string, next func(n int) string, exists ExistsFunc) (string, error) {
	candidate := base
	for n := 1; n <= maxSuffix; n++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = next(n)
	}
	return "", fmt.Errorf("no free identifier for %q", base)
}

// Username returns "first.last", then "first.last1", "first.last2", ... until exists reports false.
func Username(ctx context.Context, first, last string, exists ExistsFunc) (string, error) {
	base := nameBase(first, last)
	return firstFree(ctx, base, func(n int) string { return fmt.Sprintf("%s%d", base, n) }, exists)
}

// EmployeeID returns "first.last_YYYY", then "first.last_YYYY_1", ... until exists reports false.
func EmployeeID(ctx context.Context, first, last string, year int, exists ExistsFunc) (string, error) {
	base := fmt.Sprintf("%s_%d", nameBase(first, last), year)
	return firstFree(ctx, base, func(n int) string { return fmt.Sprintf("%s_%d", base, n) }, exists)
}
