package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"devicecover/internal/pricing"
)

func TestQ(t *testing.T) {
	q, ok := Q("  Galaxy S24 ")
	assert.True(t, ok)
	assert.Equal(t, "Galaxy S24", q)

	_, ok = Q("akıllı saat")
	assert.True(t, ok)
	_, ok = Q("")
	assert.False(t, ok)
	_, ok = Q("<script>")
	assert.False(t, ok)
	_, ok = Q("x' OR 1=1 --")
	assert.False(t, ok)
}

func TestID(t *testing.T) {
	for _, s := range []string{"ps5", "iphone-15-pro", "a_b"} {
		_, ok := ID(s)
		assert.True(t, ok, s)
	}
	for _, s := range []string{"", "../etc", "a b", "ps5;drop"} {
		_, ok := ID(s)
		assert.False(t, ok, s)
	}
}

func TestCoverage(t *testing.T) {
	c, ok := Coverage(" full_coverage ")
	assert.True(t, ok)
	assert.Equal(t, pricing.FullCoverage, c)
	_, ok = Coverage("EVERYTHING")
	assert.False(t, ok)
}

func TestTermYears(t *testing.T) {
	n, ok := TermYears("")
	assert.True(t, ok)
	assert.Equal(t, 0, n)
	n, ok = TermYears("3")
	assert.True(t, ok)
	assert.Equal(t, 3, n)
	for _, s := range []string{"0", "4", "two", "-1"} {
		_, ok := TermYears(s)
		assert.False(t, ok, s)
	}
}

func TestNumericBounds(t *testing.T) {
	assert.True(t, DeclaredValue(1))
	assert.True(t, DeclaredValue(MaxDeclaredValue))
	assert.False(t, DeclaredValue(0))
	assert.False(t, DeclaredValue(-5))
	assert.False(t, DeclaredValue(MaxDeclaredValue+1))

	assert.True(t, AgeMonths(0))
	assert.False(t, AgeMonths(-1))
	assert.False(t, AgeMonths(601))

	assert.True(t, ReleaseYear(0))
	assert.True(t, ReleaseYear(2024))
	assert.False(t, ReleaseYear(24))
}

func TestBrandAndCategory(t *testing.T) {
	_, ok := Brand("Bang & Olufsen")
	assert.True(t, ok)
	_, ok = Brand("<b>")
	assert.False(t, ok)
	_, ok = Category("Akıllı Telefon")
	assert.True(t, ok)
	_, ok = Category("laptop1")
	assert.False(t, ok)
}
