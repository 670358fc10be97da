package fetch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/execdash/internal/records"
	"github.com/roach88/execdash/internal/testutil"
)

func TestLoadDir(t *testing.T) {
	dir := testutil.WriteFixtureDir(t)
	client := newTestClient(t, "http://unused.test/api")

	snap, err := client.LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "snap-1", snap.ID)
	assert.Equal(t, dir, snap.Source)
	assert.Equal(t, testutil.Epoch, snap.FetchedAt)
	assert.Equal(t, 6, snap.RND.Len())
	assert.Equal(t, "The Narrows", snap.Security.Records[4].District)
}

func TestLoadDir_MissingFile(t *testing.T) {
	dir := testutil.WriteFixtureDir(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "rnd.json")))

	client := newTestClient(t, "http://unused.test/api")
	_, err := client.LoadDir(dir)
	require.Error(t, err)

	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, records.CategoryRND, fe.Category)
	assert.Equal(t, CodeFile, fe.Code)
}

func TestLoadDir_SchemaError(t *testing.T) {
	dir := testutil.WriteFixtureDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hr.json"), []byte(`{"summary": {}}`), 0644))

	client := newTestClient(t, "http://unused.test/api")
	_, err := client.LoadDir(dir)
	require.Error(t, err)
	assert.True(t, records.IsSchemaError(err))

	cat, ok := FailedCategory(err)
	require.True(t, ok)
	assert.Equal(t, records.CategoryHR, cat)
}

func TestSnapshot_CountsOnEmptySnapshot(t *testing.T) {
	snap := &Snapshot{FetchedAt: time.Now()}
	for _, n := range snap.Counts() {
		assert.Zero(t, n)
	}
	assert.Zero(t, snap.Skipped())
}

func TestUUIDv7Generator(t *testing.T) {
	id := UUIDv7Generator{}.Generate()
	assert.Len(t, id, 36)
	assert.NotEqual(t, id, UUIDv7Generator{}.Generate())
}
