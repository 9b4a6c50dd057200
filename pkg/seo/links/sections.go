package links

// Section names one group of internal links on a page.
type Section string

// Link sections.
const (
	SectionBreadcrumb     Section = "breadcrumb"
	SectionRelatedStrains Section = "related_strains"
	SectionParentStrains  Section = "parent_strains"
	SectionChildStrains   Section = "child_strains"
	SectionTerpenes       Section = "terpenes"
	SectionProducts       Section = "products"
	SectionPharmacies     Section = "pharmacies"
	SectionCity           Section = "city"
	SectionBrand          Section = "brand"
	SectionCategory       Section = "category"
	SectionAlternatives   Section = "alternatives"
	SectionNearby         Section = "nearby"
	SectionFooter         Section = "footer"
)

// Limit is one section's cardinality cap and link priority.
// Higher priority means more important; every link emitted into the
// section carries exactly this priority.
type Limit struct {
	Max      int `toml:"max"`
	Priority int `toml:"priority"`
}

// Limits maps each section to its cap and priority.
type Limits map[Section]Limit

// DefaultLimits returns the production section configuration.
func DefaultLimits() Limits {
	return Limits{
		SectionBreadcrumb:     {Max: 5, Priority: 100},
		SectionProducts:       {Max: 10, Priority: 85},
		SectionParentStrains:  {Max: 4, Priority: 80},
		SectionChildStrains:   {Max: 6, Priority: 75},
		SectionAlternatives:   {Max: 6, Priority: 72},
		SectionRelatedStrains: {Max: 6, Priority: 70},
		SectionTerpenes:       {Max: 5, Priority: 65},
		SectionPharmacies:     {Max: 8, Priority: 60},
		SectionCity:           {Max: 1, Priority: 55},
		SectionBrand:          {Max: 1, Priority: 50},
		SectionCategory:       {Max: 1, Priority: 50},
		SectionNearby:         {Max: 5, Priority: 40},
		SectionFooter:         {Max: 10, Priority: 10},
	}
}
