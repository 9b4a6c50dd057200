package slug_test

import (
	"fmt"

	"github.com/blattwerk/blattwerk/pkg/slug"
)

func ExampleGenerate() {
	fmt.Println(slug.Generate("Blue Dream"))
	fmt.Println(slug.Generate("Grünhorn Apotheke"))
	fmt.Println(slug.Generate("Müller & Söhne GmbH"))
	// Output:
	// blue-dream
	// gruenhorn-apotheke
	// mueller-soehne-gmbh
}

func ExampleValid() {
	fmt.Println(slug.Valid("blue-dream"))
	fmt.Println(slug.Valid("Blue-Dream"))
	fmt.Println(slug.Valid("blue--dream"))
	fmt.Println(slug.Valid("-blue"))
	// Output:
	// true
	// false
	// false
	// false
}
