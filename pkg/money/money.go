// Package money handles monetary values as integer minor-currency units.
//
// All prices in the catalog are stored in euro cents to avoid floating
// point drift. Formatting renders cents as localized two-decimal strings
// ("9,00 €") and aggregates over offer prices are derived, never stored
// authoritatively.
package money

import (
	"fmt"
	"sort"
	"strings"
)

// Cents is a monetary amount in euro cents.
type Cents = int

// FormatEUR renders cents as a German-locale currency string, e.g.
// 900 → "9,00 €" and 123456 → "1.234,56 €". Negative amounts carry a
// leading minus sign.
func FormatEUR(c Cents) string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	euros := c / 100
	rem := c % 100
	return fmt.Sprintf("%s%s,%02d €", sign, groupThousands(euros), rem)
}

// FormatDecimal renders cents as a plain two-decimal string with a dot
// separator ("9.00"), the form schema.org offers expect.
func FormatDecimal(c Cents) string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

// groupThousands inserts dots as thousands separators: 1234567 → "1.234.567".
func groupThousands(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	return s + "." + strings.Join(parts, ".")
}

// Stats holds derived price aggregates over a set of offers.
// SampleSize is the number of prices that produced the aggregate;
// a zero SampleSize means no data and all other fields are zero.
type Stats struct {
	MinCents    Cents `json:"minCents" bson:"min_cents"`
	MaxCents    Cents `json:"maxCents" bson:"max_cents"`
	MedianCents Cents `json:"medianCents" bson:"median_cents"`
	AvgCents    Cents `json:"avgCents" bson:"avg_cents"`
	SampleSize  int   `json:"sampleSize" bson:"sample_size"`
}

// ComputeStats derives aggregates from raw cent values. The input is not
// mutated. Median of an even-sized sample is the mean of the two middle
// values, rounded down.
func ComputeStats(prices []Cents) Stats {
	if len(prices) == 0 {
		return Stats{}
	}

	sorted := make([]Cents, len(prices))
	copy(sorted, prices)
	sort.Ints(sorted)

	sum := 0
	for _, p := range sorted {
		sum += p
	}

	mid := len(sorted) / 2
	median := sorted[mid]
	if len(sorted)%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	}

	return Stats{
		MinCents:    sorted[0],
		MaxCents:    sorted[len(sorted)-1],
		MedianCents: median,
		AvgCents:    sum / len(sorted),
		SampleSize:  len(sorted),
	}
}
