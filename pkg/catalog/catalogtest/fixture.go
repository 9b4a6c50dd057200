// Package catalogtest provides a canonical catalog snapshot for tests.
//
// The fixture is intentionally small but covers every decision branch the
// engine cares about: strains with and without data, products with active
// offers, historical-only pricing and no pricing at all, cities above and
// below the pharmacy-density threshold, and a category with one curated
// facet.
package catalogtest

import (
	"github.com/blattwerk/blattwerk/pkg/catalog"
)

func ptr(v float64) *float64 { return &v }

// Fixture returns a fresh Records snapshot. Each call returns an
// independent copy, so tests may mutate freely before calling Build.
func Fixture() catalog.Records {
	return catalog.Records{
		Terpenes: []catalog.Terpene{
			{ID: "t1", Slug: "myrcen", NameDE: "Myrcen", NameEN: "Myrcene", Aroma: "erdig", Effects: []string{"beruhigend"}},
			{ID: "t2", Slug: "limonen", NameDE: "Limonen", NameEN: "Limonene", Aroma: "zitrus"},
		},
		Strains: []catalog.Strain{
			{
				ID: "s1", Slug: "blue-dream", Name: "Blue Dream",
				Synonyms: []string{"Azure Haze"},
				THC:      &catalog.Range{Min: 17, Max: 24},
				CBD:      &catalog.Range{Min: 0, Max: 1},
				Genetics: catalog.Genetics{
					Type: catalog.GeneticHybrid, Dominance: "sativa-dominant",
					Breeder: "DJ Short", Lineage: []string{"Blueberry", "Haze"},
				},
				ParentIDs:  []string{"s3"},
				TerpeneIDs: []string{"t1", "t2"},
				Effects:    []string{"entspannend", "kreativ"},
				Flavors:    []string{"beere", "suess"},
				Similar: []catalog.SimilarStrain{
					{StrainID: "s3", Weight: 0.8, Reasons: []catalog.SimilarityReason{catalog.SimSharedParent, catalog.SimSimilarTHC}},
					{StrainID: "s2", Weight: 0.3, Reasons: []catalog.SimilarityReason{catalog.SimSameGeneticType}},
				},
			},
			{
				// No potency data, no products, no lineage: thin content.
				ID: "s2", Slug: "mystery-kush", Name: "Mystery Kush",
				Genetics: catalog.Genetics{Type: catalog.GeneticHybrid},
			},
			{
				ID: "s3", Slug: "amnesia-haze", Name: "Amnesia Haze",
				THC:      &catalog.Range{Min: 18, Max: 22},
				Genetics: catalog.Genetics{Type: catalog.GeneticSativa, Breeder: "Soma Seeds"},
				ChildIDs: []string{"s1"},
			},
		},
		Brands: []catalog.Brand{
			{ID: "b1", Slug: "pedanios", Name: "Pedanios"},
			{ID: "b2", Slug: "cannamedical", Name: "Cannamedical"},
			{ID: "b3", Slug: "ghost-brand", Name: "Ghost Brand"}, // no products
		},
		Products: []catalog.Product{
			{
				ID: "p1", Slug: "pedanios-22-1", Name: "Pedanios 22/1",
				BrandID: "b1", StrainID: "s1", Form: catalog.FormFlower,
				THCPercent: ptr(22), CBDPercent: ptr(1), PZN: "17860478",
				Alternatives: []catalog.Alternative{
					{ProductID: "p2", Reason: catalog.AltSameStrain},
					{ProductID: "p3", Reason: catalog.AltSameBrand},
				},
			},
			{
				// Zero active offers but five historical price samples.
				ID: "p2", Slug: "pedanios-18-1", Name: "Pedanios 18/1",
				BrandID: "b1", StrainID: "s1", Form: catalog.FormFlower,
				THCPercent: ptr(18), PZN: "17860479",
			},
			{
				// No offers and no history at all.
				ID: "p3", Slug: "cannamedical-og", Name: "Cannamedical OG",
				BrandID: "b2", Form: catalog.FormExtract,
			},
		},
		Pharmacies: []catalog.Pharmacy{
			{
				ID: "ph1", Slug: "gruenhorn-apotheke", Name: "Grünhorn Apotheke",
				Address:  catalog.Address{Street: "Hauptstraße 1", PostalCode: "04109", City: "Leipzig", State: "Sachsen"},
				Contact:  catalog.Contact{Phone: "+49 341 123456", Website: "https://gruenhorn.example"},
				Delivery: catalog.Delivery{Courier: true, Shipping: true},
				Geo:      &catalog.Geo{Lat: 51.34, Lng: 12.37},
				OpeningHours: map[string]string{
					"monday": "08:00-18:00", "tuesday": "08:00-18:00", "saturday": "bad-range",
				},
				Rating: &catalog.Rating{Value: 4.8, Count: 213},
				CityID: "c1",
			},
			{
				ID: "ph2", Slug: "adler-apotheke", Name: "Adler Apotheke",
				Address: catalog.Address{Street: "Marktplatz 2", PostalCode: "10115", City: "Berlin"},
				Geo:     &catalog.Geo{Lat: 52.53, Lng: 13.38},
				CityID:  "c2",
			},
			{
				ID: "ph3", Slug: "linden-apotheke", Name: "Linden Apotheke",
				Address: catalog.Address{Street: "Unter den Linden 5", PostalCode: "10117", City: "Berlin"},
				Geo:     &catalog.Geo{Lat: 52.51, Lng: 13.39},
				CityID:  "c2",
			},
			{
				ID: "ph4", Slug: "sonnen-apotheke", Name: "Sonnen Apotheke",
				Address: catalog.Address{Street: "Sonnenallee 9", PostalCode: "12045", City: "Berlin"},
				Geo:     &catalog.Geo{Lat: 52.48, Lng: 13.44},
				CityID:  "c2",
			},
		},
		Cities: []catalog.City{
			{ID: "c1", Slug: "leipzig", Name: "Leipzig", State: "Sachsen", NearbyCityIDs: []string{"c2"}},
			{ID: "c2", Slug: "berlin", Name: "Berlin", State: "Berlin", NearbyCityIDs: []string{"c1"}},
		},
		Categories: []catalog.Category{
			{
				ID: "cat1", Slug: "blueten", Name: "Cannabisblüten",
				Forms:         []catalog.ProductForm{catalog.FormFlower},
				CuratedFacets: []string{"hoher-thc-gehalt", "indica"},
			},
			{
				ID: "cat2", Slug: "extrakte", Name: "Extrakte",
				Forms: []catalog.ProductForm{catalog.FormExtract, catalog.FormOil},
			},
		},
		Offers: []catalog.Offer{
			{
				ID: "o1", ProductID: "p1", PharmacyID: "ph1",
				PriceCents: 900, PricePerGramCents: 900,
				Status: catalog.StatusInStock, Active: true,
				URL: "https://gruenhorn.example/p/17860478",
			},
			{
				ID: "o2", ProductID: "p1", PharmacyID: "ph2",
				PriceCents: 1200, PricePerGramCents: 1200,
				Status: catalog.StatusLowStock, Active: true,
			},
			{
				ID: "o3", ProductID: "p2", PharmacyID: "ph1",
				PriceCents: 1100, PricePerGramCents: 1100,
				Status: catalog.StatusOutOfStock, Active: false,
				History: []catalog.PricePoint{
					{Date: "2026-05-01", PriceCents: 1000},
					{Date: "2026-06-01", PriceCents: 1050},
					{Date: "2026-07-01", PriceCents: 1050},
					{Date: "2026-08-01", PriceCents: 1100},
				},
			},
			{
				ID: "o4", ProductID: "p1", PharmacyID: "ph3",
				PriceCents: 980, PricePerGramCents: 980,
				Status: catalog.StatusInStock, Active: true,
			},
		},
	}
}

// FixtureGraph builds the fixture and discards the report.
func FixtureGraph() *catalog.Graph {
	g, _ := catalog.Build(Fixture())
	return g
}
