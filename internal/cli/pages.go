package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/blattwerk/blattwerk/pkg/pipeline"
)

// pagesOpts holds the command-line flags for the pages command.
type pagesOpts struct {
	plain   bool // print a static listing instead of the TUI
	refresh bool // bypass cache reads
}

// newPagesCmd creates the pages command for browsing the resolved page
// inventory.
func newPagesCmd(configPath *string) *cobra.Command {
	var opts pagesOpts

	cmd := &cobra.Command{
		Use:   "pages",
		Short: "Browse the resolved page inventory",
		Long: `Browse the resolved page inventory.

Runs the pipeline and lists every page with its path, kind,
indexability and title. Interactive by default; selecting a page
prints its payload. Use --plain for a static listing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPages(cmd, configPath, &opts)
		},
	}

	cmd.Flags().BoolVar(&opts.plain, "plain", false, "print a static listing")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")

	return cmd
}

func runPages(cmd *cobra.Command, configPath *string, opts *pagesOpts) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	result, err := runPipeline(ctx, cfg, pipeline.Options{Refresh: opts.refresh})
	if err != nil {
		return err
	}

	rows := pageRows(result)

	if opts.plain {
		for _, r := range rows {
			indexable := " "
			if r.Indexable {
				indexable = "✓"
			}
			fmt.Printf("%s  %-10s %-40s %s\n", indexable, r.Kind, r.Path, StyleDim.Render(r.Title))
		}
		printDetail("%d pages", len(rows))
		return nil
	}

	p := tea.NewProgram(NewPageListModel(rows))
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	fm, ok := finalModel.(PageListModel)
	if !ok || fm.Selected == nil {
		printDetail("No selection made")
		return nil
	}

	var pretty json.RawMessage = result.Pages[fm.Selected.Path]
	out, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// pagePayload is the subset of a page payload the listing needs.
type pagePayload struct {
	SEO struct {
		Meta struct {
			Title string `json:"title"`
		} `json:"meta"`
	} `json:"seo"`
	Indexability struct {
		ShouldIndex bool `json:"shouldIndex"`
	} `json:"indexability"`
}

// pageRows flattens a pipeline result into sorted listing rows.
func pageRows(result *pipeline.Result) []pageRow {
	rows := make([]pageRow, 0, len(result.Pages))
	for path, payload := range result.Pages {
		var probe pagePayload
		_ = json.Unmarshal(payload, &probe)

		kind := ""
		parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
		if k, ok := kindForSegment(parts[0]); ok {
			kind = string(k)
			if len(parts) == 3 {
				kind = "facet"
			}
		}

		rows = append(rows, pageRow{
			Path:      path,
			Kind:      kind,
			Title:     probe.SEO.Meta.Title,
			Indexable: probe.Indexability.ShouldIndex,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Path < rows[j].Path })
	return rows
}
