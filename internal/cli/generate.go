package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blattwerk/blattwerk/pkg/pipeline"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	output  string // artifact output directory
	refresh bool   // bypass cache reads
	workers int    // concurrent page resolution workers
}

// newGenerateCmd creates the generate command. It runs the full
// pipeline and writes every artifact to the output directory: resolved
// page payloads, the sitemap set, robots.txt and the run report.
func newGenerateCmd(configPath *string) *cobra.Command {
	opts := generateOpts{output: "dist"}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run the full pipeline and write artifacts to disk",
		Long: `Run the full pipeline and write artifacts to disk.

The output directory is laid out as the site is served:

  dist/
    pages/sorten/amnesia-haze.json   resolved page payloads
    sitemap.xml                      sitemap index
    sitemaps/sitemap-sorten.xml      sitemap shards
    robots.txt
    report.json                      run report with stats and warnings`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, configPath, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output directory")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "resolution workers (0 = NumCPU)")

	return cmd
}

func runGenerate(cmd *cobra.Command, configPath *string, opts *generateOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	result, err := runPipeline(ctx, cfg, pipeline.Options{
		Refresh: opts.refresh,
		Workers: opts.workers,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Generated %d pages and %d sitemap files",
		result.Stats.PageCount, result.Stats.SitemapFiles))

	written, err := writeArtifacts(opts.output, result)
	if err != nil {
		return err
	}

	printSuccess("Wrote %d files to %s", written, opts.output)
	printRunStats(result.Stats.PageCount, result.Stats.IndexablePages,
		result.Stats.SitemapFiles, result.CacheInfo.PageHits == result.Stats.PageCount)
	if result.Validation.ErrorCount > 0 {
		printWarning("%d entities failed validation, see report.json", result.Validation.ErrorCount)
	}
	return nil
}

// writeArtifacts writes every artifact of a run under dir and returns
// the number of files written.
func writeArtifacts(dir string, result *pipeline.Result) (int, error) {
	written := 0

	for path, payload := range result.Pages {
		target := filepath.Join(dir, "pages", strings.TrimPrefix(path, "/")+".json")
		if err := writeOutput(target, payload); err != nil {
			return written, err
		}
		written++
	}

	if err := writeOutput(filepath.Join(dir, "sitemap.xml"), result.Sitemaps.IndexXML); err != nil {
		return written, err
	}
	written++

	for _, f := range result.Sitemaps.Files {
		raw, err := f.XML()
		if err != nil {
			return written, err
		}
		if err := writeOutput(filepath.Join(dir, "sitemaps", f.Name), raw); err != nil {
			return written, err
		}
		written++
	}

	if err := writeOutput(filepath.Join(dir, "robots.txt"), []byte(result.Sitemaps.Robots)); err != nil {
		return written, err
	}
	written++

	report, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return written, err
	}
	if err := writeOutput(filepath.Join(dir, "report.json"), report); err != nil {
		return written, err
	}
	written++

	return written, nil
}
