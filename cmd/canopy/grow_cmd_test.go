package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/dataset/sqldataset"
	"github.com/pbanos/canopy/feature"
)

func writeKEELFile(t *testing.T) string {
	var b strings.Builder
	b.WriteString("@relation patients\n@attribute Age real\n@attribute Class {Tak, Nie}\n@inputs Age\n@outputs Class\n@data\n")
	for i := 0; i < 20; i++ {
		class := "Tak"
		if i >= 10 {
			class = "Nie"
		}
		fmt.Fprintf(&b, "%d, %s\n", 10+3*i, class)
	}
	path := filepath.Join(t.TempDir(), "patients.dat")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

// writeSQLiteFiles stores the samples of writeKEELFile on a SQLite3 database
// and returns its path together with the path of its metadata.
func writeSQLiteFiles(t *testing.T) (string, string) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "patients.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()
	features := []feature.Feature{feature.NewContinuousFeature("Age"), feature.NewDiscreteFeature("Class", []string{"Tak", "Nie"})}
	s, err := sqldataset.Create(ctx, db, sqldataset.SQLite3, "samples", features)
	require.NoError(t, err)
	var samples []dataset.Sample
	for i := 0; i < 20; i++ {
		class := "Tak"
		if i >= 10 {
			class = "Nie"
		}
		samples = append(samples, dataset.NewSample(map[string]interface{}{"Age": float64(10 + 3*i), "Class": class}))
	}
	_, err = s.Write(ctx, samples)
	require.NoError(t, err)
	metadata := filepath.Join(dir, "patients.yml")
	require.NoError(t, os.WriteFile(metadata, []byte("features:\n  Age: continuous\n  Class:\n    - Tak\n    - Nie\n"), 0o644))
	return path, metadata
}

func execute(args ...string) (string, error) {
	cmd := cliParser()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return -1
}

func TestGrowPrintsTreeAndAccuracies(t *testing.T) {
	out, err := execute("grow", "-i", writeKEELFile(t), "--num-splits", "3")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "└──"), out)
	assert.Contains(t, out, "Tak Nie\n")
	assert.Contains(t, out, "(Train Set)")
	assert.Contains(t, out, "(Test Set)")
}

func TestGrowOnSQLiteWithoutTestSet(t *testing.T) {
	path, metadata := writeSQLiteFiles(t)
	out, err := execute("grow", "-i", path, "-m", metadata, "--test-size", "0")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "└──"), out)
	assert.Contains(t, out, "Age")
	assert.Contains(t, out, "(Train Set)")
	assert.NotContains(t, out, "(Test Set)")
}

func TestGrowWritesGraph(t *testing.T) {
	graph := filepath.Join(t.TempDir(), "tree.svg")
	_, err := execute("grow", "-i", writeKEELFile(t), "--graph", graph)
	require.NoError(t, err)
	content, err := os.ReadFile(graph)
	require.NoError(t, err)
	assert.Contains(t, string(content), "<svg")
}

func TestGrowReadsEnvironment(t *testing.T) {
	t.Setenv("CANOPY_SPLIT_METHOD", "median")
	_, err := execute("grow", "-i", writeKEELFile(t))
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
}

func TestGrowReadsConfigFile(t *testing.T) {
	config := filepath.Join(t.TempDir(), "canopy.yml")
	require.NoError(t, os.WriteFile(config, []byte("num-splits: 1\n"), 0o644))
	_, err := execute("grow", "--config", config, "-i", writeKEELFile(t))
	require.Error(t, err)
	assert.Equal(t, 5, exitCode(err))
}

func TestGrowExitCodes(t *testing.T) {
	cases := map[string]struct {
		args []string
		code int
	}{
		"missing input":     {[]string{"grow"}, 1},
		"invalid format":    {[]string{"grow", "-i", "data.dat", "--graph", "tree.gif"}, 1},
		"missing metadata":  {[]string{"grow", "-i", "data.csv"}, 1},
		"unreadable file":   {[]string{"grow", "-i", filepath.Join(t.TempDir(), "missing.dat")}, 3},
		"invalid test size": {[]string{"grow", "-i", "data.dat", "--test-size", "1"}, 1},
	}
	for name, c := range cases {
		_, err := execute(c.args...)
		require.Error(t, err, name)
		assert.Equal(t, c.code, exitCode(err), name)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute("version")
	require.NoError(t, err)
	assert.Equal(t, "canopy v0.1.0\n", out)
}
