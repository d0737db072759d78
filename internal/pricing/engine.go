package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DeductibleType tells downstream claim handling how to read Deductible.Value.
type DeductibleType string

const (
	DeductiblePercentage DeductibleType = "percentage"
	DeductibleFixed      DeductibleType = "fixed"
)

// Deductible is the policyholder's share of a claim. Percentages apply to the
// repair cost, except for THEFT_LOSS where they apply to the device value.
type Deductible struct {
	Type  DeductibleType `json:"type"`
	Value float64        `json:"value"`
}

// Limits caps claims per policy term.
type Limits struct {
	MaxClaims int     `json:"maxClaims"`
	MaxAmount float64 `json:"maxAmount"`
}

// TermDiscount is reported only when a multi-year prepayment discount applied.
type TermDiscount struct {
	TermYears       int     `json:"termYears"`
	DiscountPercent float64 `json:"discountPercent"`
}

// Input is a single rating request. TermYears is zero for subscription
// (non-prepaid) quotes.
type Input struct {
	DeclaredValue     float64      `json:"declaredValue"`
	DeviceCategory    string       `json:"deviceCategory"`
	PurchaseAgeMonths int          `json:"purchaseAgeMonths"`
	CoverageType      CoverageType `json:"coverageType"`
	TermYears         int          `json:"termYears,omitempty"`
}

// Output is the computed premium.
//
// MonthlyPremium is always 1/12 of the undiscounted annual premium, while
// AnnualPremium carries the term discount when one applied.
type Output struct {
	AnnualPremium  float64       `json:"annualPremium"`
	MonthlyPremium float64       `json:"monthlyPremium"`
	Deductible     Deductible    `json:"deductible"`
	Limits         Limits        `json:"limits"`
	Discounts      *TermDiscount `json:"discounts,omitempty"`
}

var (
	minAnnualPremium = decimal.NewFromInt(MinAnnualPremium)
	monthsPerYear    = decimal.NewFromInt(12)
	hundred          = decimal.NewFromInt(100)
)

// CalculatePremium rates a device with the formula engine.
func CalculatePremium(in Input) Output {
	value := decimal.NewFromFloat(in.DeclaredValue)

	raw := value.
		Mul(decimal.NewFromFloat(baseRate(in.CoverageType))).
		Mul(decimal.NewFromFloat(CategoryMultiplier(in.DeviceCategory))).
		Mul(decimal.NewFromFloat(coverageMultiplier(in.CoverageType))).
		Mul(decimal.NewFromFloat(AgeFactor(in.PurchaseAgeMonths)))

	annual := decimal.Max(minAnnualPremium, round2(raw))
	monthly := round2(annual.Div(monthsPerYear))

	out := Output{
		AnnualPremium:  annual.InexactFloat64(),
		MonthlyPremium: monthly.InexactFloat64(),
		Deductible:     deductibleFor(in.CoverageType, value),
		Limits:         limitsFor(in.CoverageType, value),
	}

	if pct := TermDiscountPercent(in.TermYears); pct > 0 {
		factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(pct).Div(hundred))
		out.AnnualPremium = round2(annual.Mul(factor)).InexactFloat64()
		out.Discounts = &TermDiscount{TermYears: in.TermYears, DiscountPercent: pct}
	}
	return out
}

func deductibleFor(c CoverageType, value decimal.Decimal) Deductible {
	if c == AccidentalDamage {
		amount := decimal.Min(accidentalDeductibleCap, value.Mul(accidentalDeductibleRate))
		return Deductible{Type: DeductibleFixed, Value: amount.InexactFloat64()}
	}
	if pct, ok := percentageDeductibles[c]; ok {
		return Deductible{Type: DeductiblePercentage, Value: pct}
	}
	return Deductible{Type: DeductiblePercentage, Value: defaultDeductiblePercent}
}

func limitsFor(c CoverageType, value decimal.Decimal) Limits {
	rule, ok := claimLimits[c]
	if !ok {
		rule = defaultLimitRule
	}
	return Limits{
		MaxClaims: rule.maxClaims,
		MaxAmount: value.Mul(decimal.NewFromFloat(rule.fraction)).Round(0).InexactFloat64(),
	}
}

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
