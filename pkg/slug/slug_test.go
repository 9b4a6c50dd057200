package slug

import "testing"

func TestGenerate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"german pharmacy", "Grünhorn Apotheke", "gruenhorn-apotheke"},
		{"sharp s", "Straßen Apotheke", "strassen-apotheke"},
		{"umlauts", "Münchner Löwen Öl", "muenchner-loewen-oel"},
		{"plain", "Blue Dream", "blue-dream"},
		{"digits", "Pedanios 22/1", "pedanios-22-1"},
		{"punctuation runs", "THC -- 18%  (ca.)", "thc-18-ca"},
		{"leading trailing", "  -Amnesia Haze- ", "amnesia-haze"},
		{"already slug", "gorilla-glue-4", "gorilla-glue-4"},
		{"empty", "", ""},
		{"only symbols", "+++", ""},
		{"accents", "Crème Brûlée", "creme-brulee"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.in); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	const in = "Grünhorn Apotheke"
	first := Generate(in)
	for i := 0; i < 10; i++ {
		if got := Generate(in); got != first {
			t.Fatalf("Generate not deterministic: %q vs %q", got, first)
		}
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"gruenhorn-apotheke", true},
		{"a", true},
		{"22-1", true},
		{"", false},
		{"-leading", false},
		{"trailing-", false},
		{"double--hyphen", false},
		{"Upper-Case", false},
		{"umläut", false},
		{"under_score", false},
	}

	for _, tt := range tests {
		if got := Valid(tt.slug); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.slug, got, tt.want)
		}
	}
}

func TestGenerateProducesValidSlugs(t *testing.T) {
	inputs := []string{
		"Grünhorn Apotheke", "Blue Dream", "Pedanios 22/1 CA",
		"Späti & Co. KG", "Überlingen", "420 Blaze",
	}
	for _, in := range inputs {
		got := Generate(in)
		if got == "" {
			t.Errorf("Generate(%q) = empty", in)
			continue
		}
		if !Valid(got) {
			t.Errorf("Generate(%q) = %q, not a valid slug", in, got)
		}
	}
}
