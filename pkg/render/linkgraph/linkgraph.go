// Package linkgraph renders a page's internal-link neighborhood as a
// Graphviz diagram.
//
// The center node is the page itself; every internal link becomes an
// edge to its target, grouped and colored by target entity type. The
// DOT source can be rendered in-process to SVG, or saved and processed
// with external Graphviz tools.
package linkgraph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/blattwerk/blattwerk/pkg/catalog"
	"github.com/blattwerk/blattwerk/pkg/seo/links"
)

// Options configures link-graph rendering.
type Options struct {
	// ShowSections labels edges with their link section.
	ShowSections bool

	// MaxPerSection caps edges per section, zero means unlimited.
	MaxPerSection int
}

// fillColors distinguishes target entity types.
var fillColors = map[catalog.Kind]string{
	catalog.KindStrain:   "#d5e8d4",
	catalog.KindProduct:  "#dae8fc",
	catalog.KindPharmacy: "#ffe6cc",
	catalog.KindCity:     "#fff2cc",
	catalog.KindBrand:    "#e1d5e7",
	catalog.KindTerpene:  "#f8cecc",
	catalog.KindCategory: "#d4e7e8",
}

// ToDOT converts one page's link sections to Graphviz DOT format.
// Sections and links are emitted in deterministic order.
func ToDOT(page string, sections links.Sections, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=1.2;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")
	fmt.Fprintf(&buf, "  %q [style=\"rounded,filled,bold\", fillcolor=\"#cccccc\"];\n", page)

	names := make([]string, 0, len(sections))
	for section := range sections {
		names = append(names, string(section))
	}
	sort.Strings(names)

	seen := map[string]bool{page: true}
	for _, name := range names {
		section := sections[links.Section(name)]
		if opts.MaxPerSection > 0 && len(section) > opts.MaxPerSection {
			section = section[:opts.MaxPerSection]
		}
		for _, l := range section {
			node := l.URL
			if !seen[node] {
				seen[node] = true
				attrs := []string{fmt.Sprintf("label=%q", l.Anchor)}
				if color, ok := fillColors[l.TargetKind]; ok {
					attrs = append(attrs, fmt.Sprintf("fillcolor=%q", color))
				}
				fmt.Fprintf(&buf, "  %q [%s];\n", node, strings.Join(attrs, ", "))
			}
			if opts.ShowSections {
				fmt.Fprintf(&buf, "  %q -> %q [label=%q, fontsize=10];\n", page, node, name)
			} else {
				fmt.Fprintf(&buf, "  %q -> %q;\n", page, node)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg element so width and height
// match the viewBox, keeping embeds scalable.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
