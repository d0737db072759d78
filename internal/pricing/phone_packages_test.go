package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPhone(t *testing.T) {
	for _, c := range []string{"phone", "Phone", "SMARTPHONE", "telefon", "Akıllı Telefon", "akilli telefon", "cep telefonu", " phone "} {
		assert.True(t, IsPhone(c), c)
		assert.True(t, UsesFixedPricing(c), c)
	}
	for _, c := range []string{"laptop", "tablet", "phones", "", "watch"} {
		assert.False(t, IsPhone(c), c)
		assert.False(t, UsesFixedPricing(c), c)
	}
}

func TestGetPhoneType(t *testing.T) {
	iphone := []string{"Apple", "apple", "iPhone 15 Pro", "APPLE INC."}
	for _, b := range iphone {
		assert.Equal(t, PhoneIPhone, GetPhoneType(b), b)
	}
	android := []string{"Samsung", "Xiaomi", "Google Pixel", "OnePlus", "Motorola", "TCL", "Fairphone", "", "  "}
	for _, b := range android {
		assert.Equal(t, PhoneAndroid, GetPhoneType(b), b)
	}
}

func TestPhoneBrandKnown(t *testing.T) {
	assert.True(t, PhoneBrandKnown("Apple"))
	assert.True(t, PhoneBrandKnown("Realme"))
	assert.False(t, PhoneBrandKnown("Fairphone"))
	assert.False(t, PhoneBrandKnown(""))
}

func TestGetPhonePackage(t *testing.T) {
	p := GetPhonePackage("Apple")
	assert.Equal(t, PhoneIPhone, p.Type)
	assert.Equal(t, 149.0, p.MonthlyPrice)
	assert.Equal(t, 1490.0, p.AnnualPrice)
	assert.Equal(t, FullCoverage, p.CoverageType)
	assert.Equal(t, Deductible{Type: DeductiblePercentage, Value: 10}, p.Deductible)
	assert.Equal(t, 3, p.MaxClaims)
	assert.NotEmpty(t, p.Features)

	a := GetPhonePackage("Some Future Brand")
	assert.Equal(t, PhoneAndroid, a.Type)
	assert.Equal(t, 129.0, a.MonthlyPrice)
	assert.Equal(t, 1290.0, a.AnnualPrice)
	assert.Equal(t, FullCoverage, a.CoverageType)
	assert.Equal(t, 3, a.MaxClaims)
}

func TestPhonePackageFor_ReturnsCopies(t *testing.T) {
	p := PhonePackageFor(PhoneIPhone)
	p.Features[0] = "changed"
	p.MonthlyPrice = 1

	fresh := PhonePackageFor(PhoneIPhone)
	assert.NotEqual(t, "changed", fresh.Features[0])
	assert.Equal(t, 149.0, fresh.MonthlyPrice)

	assert.Equal(t, PhoneAndroid, PhonePackageFor("blackberry").Type)
}

func TestPhonePackages(t *testing.T) {
	all := PhonePackages()
	if assert.Len(t, all, 2) {
		assert.Equal(t, PhoneIPhone, all[0].Type)
		assert.Equal(t, PhoneAndroid, all[1].Type)
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "₺1.490", FormatPrice(1490))
	assert.Equal(t, "₺149", FormatPrice(149))
	assert.Equal(t, "₺25.000", FormatPrice(25000))
	assert.Equal(t, "₺1.234.568", FormatPrice(1234567.89))
	assert.Equal(t, "₺0", FormatPrice(0))
}
