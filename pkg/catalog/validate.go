package catalog

import (
	"fmt"

	"github.com/blattwerk/blattwerk/pkg/errors"
	"github.com/blattwerk/blattwerk/pkg/slug"
)

// Severity distinguishes blocking validation errors from data-quality
// warnings. Errors invalidate the single entity they belong to, never
// the whole run; warnings only feed the content-quality report.
type Severity string

// Severities.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one validation finding, collected per entity and field.
type Issue struct {
	Kind     Kind        `json:"kind"`
	EntityID string      `json:"entityId"`
	Field    string      `json:"field"`
	Code     errors.Code `json:"code"`
	Severity Severity    `json:"severity"`
	Message  string      `json:"message"`
}

// ValidationReport is the batch validator's summary. Issues are grouped
// in input order; Invalid lists the IDs of entities with at least one
// error-severity issue.
type ValidationReport struct {
	Issues  []Issue  `json:"issues,omitempty"`
	Invalid []string `json:"invalid,omitempty"`

	ErrorCount   int `json:"errorCount"`
	WarningCount int `json:"warningCount"`
}

func (r *ValidationReport) add(issue Issue) {
	r.Issues = append(r.Issues, issue)
	if issue.Severity == SeverityError {
		r.ErrorCount++
	} else {
		r.WarningCount++
	}
}

type entityIssues struct {
	report   *ValidationReport
	kind     Kind
	entityID string
	failed   bool
}

func (e *entityIssues) errorf(field string, code errors.Code, format string, args ...any) {
	e.failed = true
	e.report.add(Issue{
		Kind: e.kind, EntityID: e.entityID, Field: field,
		Code: code, Severity: SeverityError,
		Message: fmt.Sprintf(format, args...),
	})
}

func (e *entityIssues) warnf(field string, code errors.Code, format string, args ...any) {
	e.report.add(Issue{
		Kind: e.kind, EntityID: e.entityID, Field: field,
		Code: code, Severity: SeverityWarning,
		Message: fmt.Sprintf(format, args...),
	})
}

// Validate runs the batch validator over the whole graph. Findings are
// collected and returned, never raised mid-run.
func Validate(g *Graph) *ValidationReport {
	report := &ValidationReport{}

	for _, s := range g.Strains() {
		e := &entityIssues{report: report, kind: KindStrain, entityID: s.ID}
		checkIdentity(e, s.ID, s.Slug)
		checkRange(e, "thc", s.THC)
		checkRange(e, "cbd", s.CBD)
		if s.THC == nil && s.CBD == nil {
			e.warnf("thc", errors.ErrCodeInvalidInput, "no THC/CBD data")
		}
		if len(s.ProductIDs) == 0 {
			e.warnf("productIds", errors.ErrCodeInvalidInput, "no linked products")
		}
		if e.failed {
			report.Invalid = append(report.Invalid, s.ID)
		}
	}

	for _, p := range g.Products() {
		e := &entityIssues{report: report, kind: KindProduct, entityID: p.ID}
		checkIdentity(e, p.ID, p.Slug)
		checkPercent(e, "thcPercent", p.THCPercent)
		checkPercent(e, "cbdPercent", p.CBDPercent)
		if len(p.OfferIDs) == 0 {
			e.warnf("offerIds", errors.ErrCodeInvalidInput, "no offers")
		}
		if p.StrainID == "" {
			e.warnf("strainId", errors.ErrCodeInvalidInput, "no strain link")
		}
		if e.failed {
			report.Invalid = append(report.Invalid, p.ID)
		}
	}

	for _, ph := range g.Pharmacies() {
		e := &entityIssues{report: report, kind: KindPharmacy, entityID: ph.ID}
		checkIdentity(e, ph.ID, ph.Slug)
		if e.failed {
			report.Invalid = append(report.Invalid, ph.ID)
		}
	}

	for _, c := range g.Cities() {
		e := &entityIssues{report: report, kind: KindCity, entityID: c.ID}
		checkIdentity(e, c.ID, c.Slug)
		if len(c.PharmacyIDs) == 0 {
			e.warnf("pharmacyIds", errors.ErrCodeInvalidInput, "no pharmacies")
		}
		if e.failed {
			report.Invalid = append(report.Invalid, c.ID)
		}
	}

	for _, b := range g.Brands() {
		e := &entityIssues{report: report, kind: KindBrand, entityID: b.ID}
		checkIdentity(e, b.ID, b.Slug)
		if e.failed {
			report.Invalid = append(report.Invalid, b.ID)
		}
	}

	for _, tp := range g.Terpenes() {
		e := &entityIssues{report: report, kind: KindTerpene, entityID: tp.ID}
		checkIdentity(e, tp.ID, tp.Slug)
		if e.failed {
			report.Invalid = append(report.Invalid, tp.ID)
		}
	}

	for _, cat := range g.Categories() {
		e := &entityIssues{report: report, kind: KindCategory, entityID: cat.ID}
		checkIdentity(e, cat.ID, cat.Slug)
		for _, facet := range cat.CuratedFacets {
			if !slug.Valid(facet) {
				e.errorf("curatedFacets", errors.ErrCodeInvalidSlug, "facet %q is not a valid slug", facet)
			}
		}
		if e.failed {
			report.Invalid = append(report.Invalid, cat.ID)
		}
	}

	for _, o := range g.Offers() {
		e := &entityIssues{report: report, kind: KindProduct, entityID: o.ID}
		if o.ID == "" {
			e.errorf("id", errors.ErrCodeMissingID, "offer has no id")
		}
		if o.PriceCents < 0 {
			e.errorf("priceCents", errors.ErrCodeInvalidPrice, "negative price %d", o.PriceCents)
		}
		if o.PricePerGramCents < 0 {
			e.errorf("pricePerGramCents", errors.ErrCodeInvalidPrice, "negative price %d", o.PricePerGramCents)
		}
		if e.failed {
			report.Invalid = append(report.Invalid, o.ID)
		}
	}

	return report
}

func checkIdentity(e *entityIssues, id, s string) {
	if id == "" {
		e.errorf("id", errors.ErrCodeMissingID, "missing id")
	}
	switch {
	case s == "":
		e.errorf("slug", errors.ErrCodeMissingSlug, "missing slug")
	case !slug.Valid(s):
		e.errorf("slug", errors.ErrCodeInvalidSlug, "malformed slug %q", s)
	}
}

func checkRange(e *entityIssues, field string, r *Range) {
	if r == nil {
		return
	}
	if r.Min < 0 || r.Min > 100 || r.Max < 0 || r.Max > 100 {
		e.errorf(field, errors.ErrCodeInvalidPercent, "percent out of [0,100]: %.1f–%.1f", r.Min, r.Max)
		return
	}
	if r.Min > r.Max {
		e.errorf(field, errors.ErrCodeInvalidRange, "inverted range: %.1f > %.1f", r.Min, r.Max)
	}
}

func checkPercent(e *entityIssues, field string, v *float64) {
	if v == nil {
		return
	}
	if *v < 0 || *v > 100 {
		e.errorf(field, errors.ErrCodeInvalidPercent, "percent out of [0,100]: %.1f", *v)
	}
}
