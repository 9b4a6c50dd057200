package cli

import (
	"github.com/spf13/cobra"

	"github.com/blattwerk/blattwerk/pkg/errors"
	"github.com/blattwerk/blattwerk/pkg/render/linkgraph"
	"github.com/blattwerk/blattwerk/pkg/resolve"
	"github.com/blattwerk/blattwerk/pkg/seo/links"
	"github.com/blattwerk/blattwerk/pkg/seo/urls"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// linkGraphOpts holds the command-line flags for the linkgraph command.
type linkGraphOpts struct {
	output        string // output file path (stdout if empty)
	format        string // "dot" or "svg"
	showSections  bool   // label edges with their section
	maxPerSection int    // cap links per section, zero means all
}

// newLinkGraphCmd creates the linkgraph command for visualizing a
// page's internal links.
func newLinkGraphCmd(configPath *string) *cobra.Command {
	opts := linkGraphOpts{format: formatDOT, showSections: true}

	cmd := &cobra.Command{
		Use:   "linkgraph <hub>/<slug>",
		Short: "Render a page's internal links as DOT or SVG",
		Long: `Render a page's internal link sections as a Graphviz graph.

Examples:
  blattwerk linkgraph sorten/amnesia-haze
  blattwerk linkgraph staedte/berlin --format svg -o berlin.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != formatDOT && opts.format != formatSVG {
				return errors.New(errors.ErrCodeInvalidInput, "unknown format %q, want dot or svg", opts.format)
			}
			return runLinkGraph(cmd, configPath, &opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot (default), svg")
	cmd.Flags().BoolVar(&opts.showSections, "sections", opts.showSections, "label edges with their section")
	cmd.Flags().IntVar(&opts.maxPerSection, "max-per-section", 0, "cap links per section (0 = all)")

	return cmd
}

func runLinkGraph(cmd *cobra.Command, configPath *string, opts *linkGraphOpts, arg string) error {
	ref, err := parsePageRef(arg)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	resolver, err := buildResolver(cmd, cfg)
	if err != nil {
		return err
	}

	var page any
	if ref.Facet != "" {
		if fp := resolver.Facet(ref.Slug, ref.Facet); fp != nil {
			page = fp
		}
	} else {
		page = resolver.Resolve(ref.Kind, ref.Slug)
	}
	if page == nil {
		return errors.New(errors.ErrCodeEntityNotFound, "no %s with slug %q", ref.Kind, ref.Slug)
	}
	sections, ok := pageSections(page)
	if !ok {
		return errors.New(errors.ErrCodeInternal, "page %s has no link sections", arg)
	}

	label := urls.Path(ref.Kind, ref.Slug)
	if ref.Facet != "" {
		label = urls.FacetPath(ref.Slug, ref.Facet)
	}

	dot := linkgraph.ToDOT(label, sections, linkgraph.Options{
		ShowSections:  opts.showSections,
		MaxPerSection: opts.maxPerSection,
	})

	out := []byte(dot)
	if opts.format == formatSVG {
		spin := newSpinnerWithContext(cmd.Context(), "Rendering SVG...")
		spin.Start()
		out, err = linkgraph.RenderSVG(dot)
		spin.Stop()
		if err != nil {
			return err
		}
	}

	if err := writeOutput(opts.output, out); err != nil {
		return err
	}
	if opts.output != "" {
		printFile(opts.output)
	}
	return nil
}

// pageSections extracts the link sections from a resolved page payload.
func pageSections(page any) (links.Sections, bool) {
	switch p := page.(type) {
	case *resolve.StrainPage:
		return p.Links, true
	case *resolve.ProductPage:
		return p.Links, true
	case *resolve.PharmacyPage:
		return p.Links, true
	case *resolve.CityPage:
		return p.Links, true
	case *resolve.BrandPage:
		return p.Links, true
	case *resolve.TerpenePage:
		return p.Links, true
	case *resolve.CategoryPage:
		return p.Links, true
	case *resolve.FacetPage:
		return p.Links, true
	}
	return nil, false
}
