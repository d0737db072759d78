package validate

import (
	"regexp"
	"strconv"
	"strings"

	"devicecover/internal/pricing"
)

// MaxDeclaredValue bounds user-entered device values.
const MaxDeclaredValue = 1_000_000

var (
	reQ     = regexp.MustCompile(`^[\p{L}0-9 _'.+\-]{1,50}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reBrand = regexp.MustCompile(`^[\p{L}0-9 &.\-]{1,40}$`)
	reCat   = regexp.MustCompile(`^[\p{L} ]{1,40}$`)
)

// Q validates a search query: trims, enforces allowed characters and max length
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if r := []rune(s); len(r) > 50 {
		s = string(r[:50])
	}
	return s, reQ.MatchString(s)
}

// ID validates a simple resource identifier (device/category ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Coverage accepts the four coverage enum values, case-insensitively.
func Coverage(s string) (pricing.CoverageType, bool) {
	c := pricing.CoverageType(strings.ToUpper(strings.TrimSpace(s)))
	return c, c.Valid()
}

// TermYears parses an optional prepaid term. Empty means none (0).
func TermYears(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 3 {
		return 0, false
	}
	return n, true
}

func DeclaredValue(v float64) bool {
	return v > 0 && v <= MaxDeclaredValue
}

// AgeMonths allows up to 50 years.
func AgeMonths(n int) bool {
	return n >= 0 && n <= 600
}

func Brand(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reBrand.MatchString(s)
}

func Category(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reCat.MatchString(s)
}

// ReleaseYear accepts 0 (unknown) or a plausible model year.
func ReleaseYear(n int) bool {
	return n == 0 || (n >= 1990 && n <= 2100)
}
