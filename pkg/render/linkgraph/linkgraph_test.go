package linkgraph

import (
	"strings"
	"testing"

	"github.com/blattwerk/blattwerk/pkg/catalog"
	"github.com/blattwerk/blattwerk/pkg/catalog/catalogtest"
	"github.com/blattwerk/blattwerk/pkg/seo/links"
)

func strainSections(t *testing.T) links.Sections {
	t.Helper()
	g := catalogtest.FixtureGraph()
	b := links.New(g, links.DefaultLimits(), 3)
	return b.ForStrain(g.StrainBySlug("blue-dream"))
}

func TestToDOT(t *testing.T) {
	dot := ToDOT("/sorten/blue-dream", strainSections(t), Options{})

	if !strings.HasPrefix(dot, "digraph G {") {
		t.Fatalf("not a digraph:\n%s", dot)
	}
	if !strings.Contains(dot, `"/sorten/blue-dream" [style="rounded,filled,bold"`) {
		t.Error("center node missing")
	}
	if !strings.Contains(dot, `"/sorten/blue-dream" -> "/produkte/pedanios-22-1"`) {
		t.Errorf("product edge missing:\n%s", dot)
	}
	if !strings.Contains(dot, `fillcolor="#dae8fc"`) {
		t.Error("product fill color missing")
	}
}

func TestToDOTSectionLabels(t *testing.T) {
	sections := links.Sections{
		links.SectionProducts: {{
			TargetKind: catalog.KindProduct,
			URL:        "/produkte/pedanios-22-1",
			Anchor:     "Pedanios 22/1",
		}},
	}
	dot := ToDOT("/sorten/blue-dream", sections, Options{ShowSections: true})
	if !strings.Contains(dot, `label="products"`) {
		t.Errorf("section label missing:\n%s", dot)
	}
}

func TestToDOTCapsPerSection(t *testing.T) {
	sections := links.Sections{
		links.SectionProducts: {
			{TargetKind: catalog.KindProduct, URL: "/produkte/a", Anchor: "A"},
			{TargetKind: catalog.KindProduct, URL: "/produkte/b", Anchor: "B"},
			{TargetKind: catalog.KindProduct, URL: "/produkte/c", Anchor: "C"},
		},
	}
	dot := ToDOT("/sorten/x", sections, Options{MaxPerSection: 2})
	if strings.Contains(dot, "/produkte/c") {
		t.Errorf("cap not applied:\n%s", dot)
	}
	if !strings.Contains(dot, "/produkte/b") {
		t.Errorf("kept links missing:\n%s", dot)
	}
}

func TestToDOTDeterminism(t *testing.T) {
	sections := strainSections(t)
	if ToDOT("/sorten/blue-dream", sections, Options{}) != ToDOT("/sorten/blue-dream", sections, Options{}) {
		t.Error("DOT output differs between runs")
	}
}
