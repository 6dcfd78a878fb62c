package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TheBitDrifter/depot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
  "resources": {"bounds": {"W": 10, "H": 10}},
  "entities": {"1": {"position": {"X": 1, "Y": 2}}, "2": {}}
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConvertRoundTrip(t *testing.T) {
	in := writeFile(t, "world.json", sampleJSON)
	yamlPath := filepath.Join(t.TempDir(), "world.yaml")
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, run(ctx, []string{"convert", "-in", in, "-out", yamlPath}, &out))

	back := filepath.Join(t.TempDir(), "back.json")
	require.NoError(t, run(ctx, []string{"convert", "-in", yamlPath, "-out", back}, &out))

	original, err := readSnapshot(in, "")
	require.NoError(t, err)
	converted, err := readSnapshot(back, "")
	require.NoError(t, err)
	assert.Equal(t, original, converted)

	out.Reset()
	require.NoError(t, run(ctx, []string{"convert", "-in", in, "-to", "yaml"}, &out))
	assert.Contains(t, out.String(), "entities:")
}

func TestChecksumMatchesAcrossFormats(t *testing.T) {
	in := writeFile(t, "world.json", sampleJSON)
	yamlPath := filepath.Join(t.TempDir(), "world.yml")
	ctx := context.Background()
	require.NoError(t, run(ctx, []string{"convert", "-in", in, "-out", yamlPath}, &bytes.Buffer{}))

	var a, b bytes.Buffer
	require.NoError(t, run(ctx, []string{"checksum", "-in", in}, &a))
	require.NoError(t, run(ctx, []string{"checksum", "-in", yamlPath}, &b))
	assert.Equal(t, strings.Fields(a.String())[0], strings.Fields(b.String())[0])
}

func TestRunErrors(t *testing.T) {
	ctx := context.Background()
	assert.ErrorContains(t, run(ctx, []string{"explode"}, &bytes.Buffer{}), "unknown command")
	assert.ErrorContains(t, run(ctx, []string{"convert"}, &bytes.Buffer{}), "-in is required")
	assert.Error(t, run(ctx, []string{"-config", "/does/not/exist.toml", "convert"}, &bytes.Buffer{}))
	assert.Error(t, run(ctx, nil, &bytes.Buffer{}))
}

func TestBench(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"bench", "-entities", "50", "-ticks", "3", "-trace"}, &out))
	assert.Contains(t, out.String(), "50 entities, 3 ticks")
	assert.Contains(t, out.String(), "move")
}

func TestBenchWorldWraps(t *testing.T) {
	w, d, err := benchWorld(4)
	require.NoError(t, err)
	pos := depot.FactoryNewComponent[position]()

	p, err := pos.Require(w, 1)
	require.NoError(t, err)
	p.X = 999.5
	require.NoError(t, d.Run(w))

	p, err = pos.Require(w, 1)
	require.NoError(t, err)
	assert.Equal(t, &position{}, p)

	snap, err := w.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"W": float64(1000), "H": float64(1000)}, snap.Resources["bounds"])
}
