package money_test

import (
	"fmt"

	"github.com/blattwerk/blattwerk/pkg/money"
)

func ExampleFormatEUR() {
	fmt.Println(money.FormatEUR(900))
	fmt.Println(money.FormatEUR(123456))
	fmt.Println(money.FormatEUR(-1550))
	// Output:
	// 9,00 €
	// 1.234,56 €
	// -15,50 €
}

func ExampleComputeStats() {
	stats := money.ComputeStats([]money.Cents{1200, 900, 1500, 1100})

	fmt.Println("min:", money.FormatEUR(stats.MinCents))
	fmt.Println("max:", money.FormatEUR(stats.MaxCents))
	fmt.Println("median:", money.FormatEUR(stats.MedianCents))
	fmt.Println("samples:", stats.SampleSize)
	// Output:
	// min: 9,00 €
	// max: 15,00 €
	// median: 11,50 €
	// samples: 4
}
