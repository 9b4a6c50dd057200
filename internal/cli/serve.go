package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blattwerk/blattwerk/internal/server"
	"github.com/blattwerk/blattwerk/pkg/pipeline"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string // listen address, overrides config when set
	refresh bool   // bypass cache reads
	workers int    // concurrent page resolution workers
}

// newServeCmd creates the serve command. It runs the full pipeline
// once and serves the resulting artifacts over HTTP until interrupted.
func newServeCmd(configPath *string) *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the pipeline and serve artifacts over HTTP",
		Long: `Run the pipeline once and serve the resulting artifacts over HTTP.

Endpoints:
  GET /healthz                 liveness probe
  GET /report                  run report with stats and warnings
  GET /pages/<hub>/<slug>      resolved page payload
  GET /sitemap.xml             sitemap index
  GET /sitemaps/<name>         sitemap shard
  GET /robots.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "resolution workers (0 = NumCPU)")

	return cmd
}

func runServe(cmd *cobra.Command, configPath *string, opts *serveOpts) error {
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

	addr := opts.addr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	printInfo("Serving on %s", StyleLink.Render(addr))
	return server.New(result, logger).ListenAndServe(ctx, addr)
}
