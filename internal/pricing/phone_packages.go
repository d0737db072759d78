package pricing

import "strings"

// PhoneType selects one of the two flat phone packages.
type PhoneType string

const (
	PhoneIPhone  PhoneType = "iphone"
	PhoneAndroid PhoneType = "android"
)

// PhonePackage is a fixed-price phone plan. Phones never go through the
// formula engine.
type PhonePackage struct {
	Type         PhoneType    `json:"type"`
	Name         string       `json:"name"`
	MonthlyPrice float64      `json:"monthlyPrice"`
	AnnualPrice  float64      `json:"annualPrice"`
	CoverageType CoverageType `json:"coverageType"`
	Features     []string     `json:"features"`
	Deductible   Deductible   `json:"deductible"`
	MaxClaims    int          `json:"maxClaims"`
}

var phonePackages = map[PhoneType]PhonePackage{
	PhoneIPhone: {
		Type:         PhoneIPhone,
		Name:         "iPhone Protection",
		MonthlyPrice: 149,
		AnnualPrice:  1490,
		CoverageType: FullCoverage,
		Features: []string{
			"Screen and accidental damage",
			"Liquid damage",
			"Theft and loss",
			"Authorized service repairs",
			"Free pickup and delivery",
		},
		Deductible: Deductible{Type: DeductiblePercentage, Value: 10},
		MaxClaims:  3,
	},
	PhoneAndroid: {
		Type:         PhoneAndroid,
		Name:         "Android Protection",
		MonthlyPrice: 129,
		AnnualPrice:  1290,
		CoverageType: FullCoverage,
		Features: []string{
			"Screen and accidental damage",
			"Liquid damage",
			"Theft and loss",
			"Authorized service repairs",
			"Free pickup and delivery",
		},
		Deductible: Deductible{Type: DeductiblePercentage, Value: 10},
		MaxClaims:  3,
	},
}

var phoneCategories = map[string]struct{}{
	"phone":          {},
	"smartphone":     {},
	"telefon":        {},
	"cep telefonu":   {},
	"akıllı telefon": {},
	"akilli telefon": {},
}

var iphoneKeywords = []string{"apple", "iphone"}

var androidBrands = []string{
	"samsung", "xiaomi", "huawei", "oppo", "vivo", "oneplus", "google", "pixel",
	"realme", "poco", "honor", "motorola", "nokia", "sony", "lg", "asus", "tcl",
}

// IsPhone reports whether a category belongs to the phone synonym set.
func IsPhone(category string) bool {
	_, ok := phoneCategories[normalize(category)]
	return ok
}

// UsesFixedPricing reports whether a category is priced from the phone
// package table instead of CalculatePremium.
func UsesFixedPricing(category string) bool {
	return IsPhone(category)
}

// GetPhoneType resolves a brand to its package family. Every brand that is
// not Apple, including unknown ones, resolves to android.
func GetPhoneType(brand string) PhoneType {
	b := normalize(brand)
	if containsAny(b, iphoneKeywords) {
		return PhoneIPhone
	}
	return PhoneAndroid
}

// PhoneBrandKnown reports whether a brand is one of the recognized Apple or
// Android manufacturers.
func PhoneBrandKnown(brand string) bool {
	b := normalize(brand)
	return b != "" && (containsAny(b, iphoneKeywords) || containsAny(b, androidBrands))
}

// GetPhonePackage returns the package for a brand.
func GetPhonePackage(brand string) PhonePackage {
	return PhonePackageFor(GetPhoneType(brand))
}

// PhonePackageFor returns a copy of the package for t; unknown types fall
// back to android.
func PhonePackageFor(t PhoneType) PhonePackage {
	p, ok := phonePackages[t]
	if !ok {
		p = phonePackages[PhoneAndroid]
	}
	p.Features = append([]string(nil), p.Features...)
	return p
}

// PhonePackages returns both packages, iPhone first.
func PhonePackages() []PhonePackage {
	return []PhonePackage{PhonePackageFor(PhoneIPhone), PhonePackageFor(PhoneAndroid)}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
