package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blattwerk/blattwerk/pkg/catalog/catalogtest"
	"github.com/blattwerk/blattwerk/pkg/config"
	"github.com/blattwerk/blattwerk/pkg/pipeline"
)

// snapshotFile writes the canonical fixture to disk so the local
// source can load it.
func snapshotFile(t *testing.T) string {
	t.Helper()
	raw, err := json.Marshal(catalogtest.Fixture())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path
}

func testConfig(t *testing.T) config.Config {
	cfg := config.Default()
	cfg.Source = config.Source{Kind: "local", Path: snapshotFile(t)}
	cfg.Cache = config.Cache{Kind: "none"}
	return cfg
}

func quietContext(t *testing.T) context.Context {
	t.Helper()
	return withLogger(context.Background(), newLogger(io.Discard, log.ErrorLevel))
}

// testCommand returns a command carrying the quiet test context, for
// helpers that take a *cobra.Command.
func testCommand(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{}
	cmd.SetContext(quietContext(t))
	return cmd
}

func TestRunPipelineAndWriteArtifacts(t *testing.T) {
	cfg := testConfig(t)

	result, err := runPipeline(quietContext(t), cfg, pipeline.Options{})
	require.NoError(t, err)
	require.NotEmpty(t, result.Pages)

	dir := t.TempDir()
	written, err := writeArtifacts(dir, result)
	require.NoError(t, err)

	// pages + index + shards + robots + report
	assert.Equal(t, len(result.Pages)+len(result.Sitemaps.Files)+3, written)

	for _, rel := range []string{
		"pages/sorten/blue-dream.json",
		"pages/staedte/berlin.json",
		"pages/kategorien/blueten/indica.json",
		"sitemap.xml",
		"robots.txt",
		"report.json",
	} {
		_, err := os.Stat(filepath.Join(dir, rel))
		assert.NoError(t, err, rel)
	}

	var report struct {
		RunID string `json:"runId"`
		Stats struct {
			PageCount int `json:"pageCount"`
		} `json:"stats"`
	}
	raw, err := os.ReadFile(filepath.Join(dir, "report.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &report))
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, len(result.Pages), report.Stats.PageCount)
}

func TestPageRows(t *testing.T) {
	cfg := testConfig(t)

	result, err := runPipeline(quietContext(t), cfg, pipeline.Options{})
	require.NoError(t, err)

	rows := pageRows(result)
	require.Len(t, rows, len(result.Pages))

	// Sorted by path
	for i := 1; i < len(rows); i++ {
		assert.Less(t, rows[i-1].Path, rows[i].Path)
	}

	byPath := make(map[string]pageRow, len(rows))
	for _, r := range rows {
		byPath[r.Path] = r
	}

	strain, ok := byPath["/sorten/blue-dream"]
	require.True(t, ok)
	assert.Equal(t, "strain", strain.Kind)
	assert.NotEmpty(t, strain.Title)

	facet, ok := byPath["/kategorien/blueten/indica"]
	require.True(t, ok)
	assert.Equal(t, "facet", facet.Kind)
}

func TestBuildResolverFromSource(t *testing.T) {
	cfg := testConfig(t)

	cmd := testCommand(t)
	resolver, err := buildResolver(cmd, cfg)
	require.NoError(t, err)

	page := resolver.Strain("blue-dream")
	require.NotNil(t, page)
	assert.Equal(t, "blue-dream", page.Strain.Slug)
}
