package bio

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/dataset/sqldataset"
	"github.com/pbanos/canopy/feature"
)

func TestOpenSQLSetHoldsConnectionUntilClosed(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "patients.db")
	features := []feature.Feature{feature.NewContinuousFeature("Age"), feature.NewDiscreteFeature("Class", []string{"Tak", "Nie"})}
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	s, err := sqldataset.Create(ctx, db, sqldataset.SQLite3, "samples", features)
	require.NoError(t, err)
	_, err = s.Write(ctx, []dataset.Sample{dataset.NewSample(map[string]interface{}{"Age": 20.0, "Class": "Tak"})})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	set, err := OpenSQLSet(ctx, "sqlite3", path, "samples", features, "Class", 1)
	require.NoError(t, err)
	count, err := set.Dataset.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.NoError(t, set.Close())
	_, err = set.Dataset.Samples(ctx)
	assert.Error(t, err, "the database is closed along with the set")
	assert.NoError(t, set.Close())
}

func TestOpenSQLSetRejectsTablesMissingFeatures(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "patients.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE samples ("Age" REAL)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())
	features := []feature.Feature{feature.NewContinuousFeature("Age"), feature.NewDiscreteFeature("Class", nil)}
	_, err = OpenSQLSet(ctx, "sqlite3", path, "samples", features, "Class", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Class")
}

func TestCloseWithoutConnection(t *testing.T) {
	assert.NoError(t, (&Set{}).Close())
}

func TestExtractCollection(t *testing.T) {
	u, c, err := extractCollection("mongodb://localhost:27017/clinic?collection=patients")
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017/clinic", u)
	assert.Equal(t, "patients", c)
}
