package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blattwerk/blattwerk/pkg/catalog"
	"github.com/blattwerk/blattwerk/pkg/config"
	"github.com/blattwerk/blattwerk/pkg/errors"
	"github.com/blattwerk/blattwerk/pkg/resolve"
)

// resolveOpts holds the command-line flags for the resolve command.
type resolveOpts struct {
	output string // output file path (stdout if empty)
}

// newResolveCmd creates the resolve command. It resolves one page
// against the configured source and prints its payload as JSON,
// bypassing the pipeline cache entirely.
func newResolveCmd(configPath *string) *cobra.Command {
	var opts resolveOpts

	cmd := &cobra.Command{
		Use:   "resolve <hub>/<slug>",
		Short: "Resolve a single page and print its payload",
		Long: `Resolve a single page and print its payload as JSON.

The page is addressed by its site-relative path:

  blattwerk resolve sorten/amnesia-haze
  blattwerk resolve produkte/amnesia-haze-10g
  blattwerk resolve kategorien/blueten/indica`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, configPath, &opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

func runResolve(cmd *cobra.Command, configPath *string, opts *resolveOpts, arg string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

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

	data, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if err := writeOutput(opts.output, data); err != nil {
		return err
	}
	if opts.output != "" {
		logger.Infof("Wrote page to %s", opts.output)
	}
	return nil
}

// buildResolver loads records from the configured source and builds a
// resolver over the resulting graph. Build warnings are logged at
// debug level.
func buildResolver(cmd *cobra.Command, cfg config.Config) (*resolve.Resolver, error) {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	src, closeSource, err := newSource(cfg.Source)
	if err != nil {
		return nil, err
	}
	defer closeSource(ctx)

	prog := newProgress(logger)
	records, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "loading records from %s", src.Name())
	}

	g, report := catalog.Build(records)
	prog.done(fmt.Sprintf("Built graph from %s", src.Name()))
	for _, w := range report.Warnings {
		logger.Debug("build warning", "kind", w.Kind, "entity", w.EntityID, "message", w.Message)
	}

	return resolve.New(g, resolve.Config{
		BaseURL:       cfg.Site.BaseURL,
		SiteName:      cfg.Site.Name,
		DefaultLocale: cfg.Site.Locale,
		Thresholds:    cfg.Gate,
		LinkLimits:    cfg.Links,
	}), nil
}
