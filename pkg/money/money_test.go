package money

import "testing"

func TestFormatEUR(t *testing.T) {
	tests := []struct {
		cents Cents
		want  string
	}{
		{900, "9,00 €"},
		{0, "0,00 €"},
		{5, "0,05 €"},
		{1250, "12,50 €"},
		{123456, "1.234,56 €"},
		{100000000, "1.000.000,00 €"},
		{-900, "-9,00 €"},
	}

	for _, tt := range tests {
		if got := FormatEUR(tt.cents); got != tt.want {
			t.Errorf("FormatEUR(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestFormatDecimal(t *testing.T) {
	tests := []struct {
		cents Cents
		want  string
	}{
		{900, "9.00"},
		{1205, "12.05"},
		{0, "0.00"},
		{-50, "-0.50"},
	}

	for _, tt := range tests {
		if got := FormatDecimal(tt.cents); got != tt.want {
			t.Errorf("FormatDecimal(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestComputeStats(t *testing.T) {
	stats := ComputeStats([]Cents{1200, 900})

	if stats.MinCents != 900 {
		t.Errorf("MinCents = %d, want 900", stats.MinCents)
	}
	if stats.MaxCents != 1200 {
		t.Errorf("MaxCents = %d, want 1200", stats.MaxCents)
	}
	if stats.MedianCents != 1050 {
		t.Errorf("MedianCents = %d, want 1050", stats.MedianCents)
	}
	if stats.AvgCents != 1050 {
		t.Errorf("AvgCents = %d, want 1050", stats.AvgCents)
	}
	if stats.SampleSize != 2 {
		t.Errorf("SampleSize = %d, want 2", stats.SampleSize)
	}
}

func TestComputeStatsOddSample(t *testing.T) {
	stats := ComputeStats([]Cents{1500, 900, 1200})
	if stats.MedianCents != 1200 {
		t.Errorf("MedianCents = %d, want 1200", stats.MedianCents)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil)
	if stats != (Stats{}) {
		t.Errorf("ComputeStats(nil) = %+v, want zero value", stats)
	}
}

func TestComputeStatsDoesNotMutateInput(t *testing.T) {
	in := []Cents{1200, 900, 1500}
	ComputeStats(in)
	if in[0] != 1200 || in[1] != 900 || in[2] != 1500 {
		t.Errorf("input mutated: %v", in)
	}
}
