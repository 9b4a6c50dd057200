package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/blattwerk/blattwerk/pkg/errors"
)

func TestLoadSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	content := `{
		"strains": [{"id": "s1", "slug": "blue-dream", "name": "Blue Dream"}],
		"products": [{"id": "p1", "slug": "pedanios-22-1", "name": "Pedanios 22/1", "strainId": "s1"}],
		"offers": [{"id": "o1", "productId": "p1", "pharmacyId": "ph1", "priceCents": 900, "status": "in_stock", "active": true}]
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	records, err := New(path).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(records.Strains) != 1 || records.Strains[0].Slug != "blue-dream" {
		t.Errorf("strains = %+v", records.Strains)
	}
	if len(records.Offers) != 1 || records.Offers[0].PriceCents != 900 {
		t.Errorf("offers = %+v", records.Offers)
	}
	if len(records.Pharmacies) != 0 {
		t.Errorf("pharmacies = %+v", records.Pharmacies)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope.json")).Load(context.Background())
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestLoadMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := New(path).Load(context.Background())
	if !errors.Is(err, errors.ErrCodeSourceDecode) {
		t.Errorf("err = %v", err)
	}
}
