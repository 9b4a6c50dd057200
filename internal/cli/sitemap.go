package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blattwerk/blattwerk/pkg/catalog"
	"github.com/blattwerk/blattwerk/pkg/errors"
	"github.com/blattwerk/blattwerk/pkg/seo/sitemap"
)

// sitemapOpts holds the command-line flags for the sitemap command.
type sitemapOpts struct {
	output string // output directory (index to stdout if empty)
}

// newSitemapCmd creates the sitemap command. It generates the sitemap
// set without resolving any pages.
func newSitemapCmd(configPath *string) *cobra.Command {
	var opts sitemapOpts

	cmd := &cobra.Command{
		Use:   "sitemap",
		Short: "Generate the sitemap set",
		Long: `Generate the sitemap set from the configured source.

Without --output the sitemap index is printed to stdout. With --output
the index, every shard and robots.txt are written to the directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSitemap(cmd, configPath, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (stdout if empty)")

	return cmd
}

func runSitemap(cmd *cobra.Command, configPath *string, opts *sitemapOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	src, closeSource, err := newSource(cfg.Source)
	if err != nil {
		return err
	}
	defer closeSource(ctx)

	records, err := src.Load(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSource, err, "loading records from %s", src.Name())
	}
	g, _ := catalog.Build(records)

	prog := newProgress(logger)
	set, err := sitemap.New(g, sitemap.Options{
		BaseURL:    cfg.Site.BaseURL,
		MaxPerFile: cfg.Sitemap.MaxPerFile,
		Thresholds: cfg.Gate,
	}).Generate()
	if err != nil {
		return err
	}

	total := 0
	for _, f := range set.Files {
		total += len(f.URLs)
	}
	prog.done(fmt.Sprintf("Generated %d URLs in %d files", total, len(set.Files)))

	if opts.output == "" {
		return writeOutput("", set.IndexXML)
	}

	if err := writeOutput(filepath.Join(opts.output, "sitemap.xml"), set.IndexXML); err != nil {
		return err
	}
	printFile(filepath.Join(opts.output, "sitemap.xml"))
	for _, f := range set.Files {
		raw, err := f.XML()
		if err != nil {
			return err
		}
		target := filepath.Join(opts.output, "sitemaps", f.Name)
		if err := writeOutput(target, raw); err != nil {
			return err
		}
		printFile(target)
	}
	if err := writeOutput(filepath.Join(opts.output, "robots.txt"), []byte(set.Robots)); err != nil {
		return err
	}
	printFile(filepath.Join(opts.output, "robots.txt"))

	printSuccess("Wrote sitemap set to %s", opts.output)
	return nil
}
