// Package pricing rates device insurance premiums.
//
// Everything here is a pure function of its inputs: no I/O, no shared mutable
// state. Callers branch on UsesFixedPricing before choosing between the
// formula (CalculatePremium and friends) and the flat phone packages.
package pricing

import "github.com/shopspring/decimal"

// CoverageType is the insured product variant.
type CoverageType string

const (
	ExtendedWarranty CoverageType = "EXTENDED_WARRANTY"
	AccidentalDamage CoverageType = "ACCIDENTAL_DAMAGE"
	FullCoverage     CoverageType = "FULL_COVERAGE"
	TheftLoss        CoverageType = "THEFT_LOSS"
)

// CoverageTypes lists every coverage type the engine rates.
var CoverageTypes = []CoverageType{ExtendedWarranty, AccidentalDamage, FullCoverage, TheftLoss}

// Valid reports whether c is one of the four known variants.
func (c CoverageType) Valid() bool {
	_, ok := baseRates[c]
	return ok
}

const defaultCategory = "default"

var categoryMultipliers = map[string]float64{
	"phone":      1.0,
	"smartphone": 1.0,
	"laptop":     0.8,
	"tablet":     0.9,
	"watch":      1.2,
	"headphones": 1.1,
	"camera":     0.9,
	"console":    0.85,

	defaultCategory: 1.0,
}

var coverageMultipliers = map[CoverageType]float64{
	ExtendedWarranty: 0.6,
	AccidentalDamage: 0.8,
	FullCoverage:     1.0,
	TheftLoss:        1.2,
}

// annual rate as a fraction of declared value
var baseRates = map[CoverageType]float64{
	ExtendedWarranty: 0.05,
	AccidentalDamage: 0.08,
	FullCoverage:     0.10,
	TheftLoss:        0.12,
}

const (
	fallbackBaseRate           = 0.08
	fallbackCoverageMultiplier = 1.0
)

// term length in years -> discount percent
var termDiscounts = map[int]float64{
	1: 0,
	2: 10,
	3: 15,
}

type limitRule struct {
	maxClaims int
	fraction  float64
}

var claimLimits = map[CoverageType]limitRule{
	ExtendedWarranty: {maxClaims: 3, fraction: 0.5},
	AccidentalDamage: {maxClaims: 2, fraction: 0.8},
	FullCoverage:     {maxClaims: 4, fraction: 1.0},
	TheftLoss:        {maxClaims: 1, fraction: 0.9},
}

var defaultLimitRule = limitRule{maxClaims: 2, fraction: 0.7}

var percentageDeductibles = map[CoverageType]float64{
	ExtendedWarranty: 10,
	FullCoverage:     5,
	// applies to device value rather than repair cost
	TheftLoss: 15,
}

const defaultDeductiblePercent = 10

var (
	accidentalDeductibleRate = decimal.NewFromFloat(0.02)
	accidentalDeductibleCap  = decimal.NewFromInt(750)
)

// MinAnnualPremium is the floor applied to every formula premium before any
// term discount.
const MinAnnualPremium = 300

// CategoryMultiplier returns the risk multiplier for a device category.
// Matching is case-insensitive; unknown categories get the default 1.0.
func CategoryMultiplier(category string) float64 {
	if m, ok := categoryMultipliers[normalize(category)]; ok {
		return m
	}
	return categoryMultipliers[defaultCategory]
}

func coverageMultiplier(c CoverageType) float64 {
	if m, ok := coverageMultipliers[c]; ok {
		return m
	}
	return fallbackCoverageMultiplier
}

func baseRate(c CoverageType) float64 {
	if r, ok := baseRates[c]; ok {
		return r
	}
	return fallbackBaseRate
}

// TermDiscountPercent returns the prepayment discount for a term in years.
// Anything outside the table, including 0 (no term), yields 0.
func TermDiscountPercent(termYears int) float64 {
	return termDiscounts[termYears]
}
