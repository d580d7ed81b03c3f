package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ambarahq/ambara/graphdoc"
	"github.com/ambarahq/ambara/validate"
	"github.com/ambarahq/ambara/value"
)

func TestDefaultConfigToSettings(t *testing.T) {
	cfg := DefaultConfig()
	settings := cfg.ToSettings()
	assert.Equal(t, int64(500*1024*1024), settings.MemoryLimitBytes)
	assert.Equal(t, 512, settings.TileW)
	assert.True(t, settings.AutoChunk)
	assert.True(t, settings.StopOnError)
}

func TestLoadConfigWithoutPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Execution.MemoryLimitMB)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigFromYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "execution:\n  memory_limit_mb: 1000\n  parallel: true\nlog_level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Execution.MemoryLimitMB)
	assert.True(t, cfg.Execution.Parallel)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestRegistryListsBuiltinFilters(t *testing.T) {
	r := NewRegistry()
	metas := r.List()
	assert.Len(t, metas, 6)

	f, err := r.Resolve("grayscale")
	require.NoError(t, err)
	assert.Equal(t, "grayscale", f.Metadata().ID)

	_, err = r.Resolve("does-not-exist")
	assert.Error(t, err)
}

func TestEngineValidateGraphWarnsOnEmptyGraph(t *testing.T) {
	e, err := New(DefaultConfig())
	require.NoError(t, err)

	g := graphdoc.NewGraph()
	report := e.ValidateGraph(g)
	assert.True(t, report.Success)
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, validate.KindEmptyGraph, report.Warnings[0].Kind)
}

func TestEngineValidateGraphRejectsGraphWithNoOutputNode(t *testing.T) {
	e, err := New(DefaultConfig())
	require.NoError(t, err)

	loadFilter, _ := e.Registry.Get("load")
	g := graphdoc.NewGraph()
	g.AddNode(loadFilter)

	report := e.ValidateGraph(g)
	assert.False(t, report.Success)
}

func TestEngineSaveThenLoadRoundTrips(t *testing.T) {
	e, err := New(DefaultConfig())
	require.NoError(t, err)

	loadFilter, _ := e.Registry.Get("load")
	grayFilter, _ := e.Registry.Get("grayscale")
	saveFilter, _ := e.Registry.Get("save")

	g := graphdoc.NewGraph()
	ld := g.AddNode(loadFilter)
	gr := g.AddNode(grayFilter)
	sv := g.AddNode(saveFilter)
	_, err = g.Connect(ld, "image", gr, "image")
	require.NoError(t, err)
	_, err = g.Connect(gr, "image", sv, "image")
	require.NoError(t, err)

	require.NoError(t, g.SetParameter(ld, "path", value.NewString("in.png")))
	require.NoError(t, g.SetParameter(sv, "path", value.NewString("out.png")))

	data, err := e.SaveGraph(g)
	require.NoError(t, err)

	reloaded, err := e.LoadGraph(data)
	require.NoError(t, err)
	assert.Len(t, reloaded.Nodes(), 3)
	assert.Len(t, reloaded.Connections(), 2)
}

func TestExecuteGraphRejectsFatalValidationFailure(t *testing.T) {
	e, err := New(DefaultConfig())
	require.NoError(t, err)

	loadFilter, _ := e.Registry.Get("load")
	g := graphdoc.NewGraph()
	g.AddNode(loadFilter) // no sink node -> NoOutputNodes is fatal

	_, _, err = e.ExecuteGraph(context.Background(), g, nil)
	assert.Error(t, err)
}
