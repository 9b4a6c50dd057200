package schema

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/blattwerk/blattwerk/pkg/catalog"
	"github.com/blattwerk/blattwerk/pkg/catalog/catalogtest"
)

const base = "https://www.blattwerk.de"

func TestBreadcrumbPositions(t *testing.T) {
	bc := Breadcrumbs(base, []Crumb{
		{Name: "Startseite", Path: "/"},
		{Name: "Sorten", Path: "/sorten"},
		{Name: "Blue Dream", Path: "/sorten/blue-dream"},
	})
	if bc.Type != "BreadcrumbList" {
		t.Fatalf("type = %q", bc.Type)
	}
	if len(bc.Elements) != 3 {
		t.Fatalf("elements = %d, want 3", len(bc.Elements))
	}
	for i, el := range bc.Elements {
		if el.Position != i+1 {
			t.Errorf("element %d position = %d, want %d", i, el.Position, i+1)
		}
	}
	if got := bc.Elements[2].Item; got != base+"/sorten/blue-dream" {
		t.Errorf("item = %q", got)
	}
}

func TestProductObject(t *testing.T) {
	g := catalogtest.FixtureGraph()
	p := g.ProductBySlug("pedanios-22-1")
	obj := Product(g, p)

	if obj.Type != "Product" {
		t.Fatalf("type = %q", obj.Type)
	}
	if obj.Brand == nil || obj.Brand.Name != "Pedanios" {
		t.Fatalf("brand = %+v", obj.Brand)
	}
	if obj.SKU != "17860478" || obj.GTIN != "17860478" {
		t.Errorf("sku/gtin = %q/%q", obj.SKU, obj.GTIN)
	}
	if len(obj.Offers) != 3 {
		t.Fatalf("offers = %d, want 3", len(obj.Offers))
	}
	for _, o := range obj.Offers {
		if o.PriceCurrency != "EUR" {
			t.Errorf("currency = %q", o.PriceCurrency)
		}
		if !strings.HasPrefix(o.Availability, "https://schema.org/") {
			t.Errorf("availability = %q", o.Availability)
		}
		if strings.Contains(o.Price, ",") {
			t.Errorf("price %q must use decimal point", o.Price)
		}
	}
}

func TestAvailabilityMapping(t *testing.T) {
	tests := []struct {
		status catalog.OfferStatus
		want   string
	}{
		{catalog.StatusInStock, "https://schema.org/InStock"},
		{catalog.StatusLowStock, "https://schema.org/LimitedAvailability"},
		{catalog.StatusOutOfStock, "https://schema.org/OutOfStock"},
		{catalog.StatusPreOrder, "https://schema.org/PreOrder"},
		{catalog.OfferStatus("unknown"), "https://schema.org/OutOfStock"},
	}
	for _, tt := range tests {
		if got := Availability(tt.status); got != tt.want {
			t.Errorf("Availability(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestLocalBusinessSkipsMalformedHours(t *testing.T) {
	g := catalogtest.FixtureGraph()
	ph := g.PharmacyBySlug("gruenhorn-apotheke")
	obj := LocalBusiness(ph)

	if obj.Type != "Pharmacy" {
		t.Fatalf("type = %q", obj.Type)
	}
	if obj.Address.AddressCountry != "DE" {
		t.Errorf("country = %q", obj.Address.AddressCountry)
	}
	if obj.Geo == nil {
		t.Fatal("geo missing")
	}
	for _, oh := range obj.OpeningHours {
		if oh.DayOfWeek == "Saturday" {
			t.Errorf("malformed saturday entry was not skipped: %+v", oh)
		}
		if len(oh.Opens) != 5 || len(oh.Closes) != 5 {
			t.Errorf("bad clock values: %+v", oh)
		}
	}
	if obj.Rating == nil || obj.Rating.ReviewCount != 213 {
		t.Errorf("rating = %+v", obj.Rating)
	}
}

func TestParseHours(t *testing.T) {
	tests := []struct {
		raw   string
		opens string
		ok    bool
	}{
		{"08:00-18:30", "08:00", true},
		{"bad-range", "", false},
		{"25:00-26:00", "", false},
		{"08:00", "", false},
		{"08:0x-18:00", "", false},
	}
	for _, tt := range tests {
		opens, _, ok := parseHours(tt.raw)
		if ok != tt.ok || opens != tt.opens {
			t.Errorf("parseHours(%q) = (%q, %v), want (%q, %v)", tt.raw, opens, ok, tt.opens, tt.ok)
		}
	}
}

func TestItemListCap(t *testing.T) {
	entries := make([]Entry, 30)
	for i := range entries {
		entries[i] = Entry{Name: "Eintrag", Path: "/sorten/x"}
	}
	obj := ItemList(base, "Top Sorten", entries)
	if len(obj.Elements) != MaxItemListEntries {
		t.Fatalf("elements = %d, want %d", len(obj.Elements), MaxItemListEntries)
	}
	if obj.Elements[19].Position != 20 {
		t.Errorf("last position = %d", obj.Elements[19].Position)
	}
}

func TestCombine(t *testing.T) {
	bc := Breadcrumbs(base, []Crumb{{Name: "Startseite", Path: "/"}})
	list := ItemList(base, "Top", []Entry{{Name: "A", Path: "/sorten/a"}})

	if got := Combine(nil); got != nil {
		t.Fatalf("empty combine = %v", got)
	}

	single := Combine([]Object{bc})
	raw, err := json.Marshal(single)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"@context":"https://schema.org"`) {
		t.Errorf("single object lost its context: %s", raw)
	}

	combined := Combine([]Object{bc, list})
	raw, err = json.Marshal(combined)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(string(raw), `"@context"`) != 1 {
		t.Errorf("graph members must not carry contexts: %s", raw)
	}
	if !strings.Contains(string(raw), `"@graph"`) {
		t.Errorf("missing @graph: %s", raw)
	}
}
