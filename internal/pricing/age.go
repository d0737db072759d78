package pricing

import "time"

type ageBracket struct {
	upToMonths int
	factor     float64
}

// inclusive upper bounds, ascending
var ageBrackets = []ageBracket{
	{upToMonths: 6, factor: 1.00},
	{upToMonths: 12, factor: 0.95},
	{upToMonths: 24, factor: 0.85},
	{upToMonths: 36, factor: 0.75},
}

const oldDeviceFactor = 0.65

// DefaultAgeMonths is assumed when the catalog has no release year.
const DefaultAgeMonths = 12

// AgeFactor maps a device age in months to the depreciation factor applied
// to the premium rate.
func AgeFactor(ageMonths int) float64 {
	for _, b := range ageBrackets {
		if ageMonths <= b.upToMonths {
			return b.factor
		}
	}
	return oldDeviceFactor
}

// AgeFromReleaseYear estimates a device age in months, assuming it was
// released in June of releaseYear. A zero releaseYear means unknown and
// yields DefaultAgeMonths.
func AgeFromReleaseYear(releaseYear int, now time.Time) int {
	if releaseYear <= 0 {
		return DefaultAgeMonths
	}
	months := (now.Year()-releaseYear)*12 + int(now.Month()) - 6
	if months < 0 {
		return 0
	}
	return months
}
