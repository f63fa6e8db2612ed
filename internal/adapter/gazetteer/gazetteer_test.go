package gazetteer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `sites:
  - location: Kvichak River
    lat: 59.05
    lon: -156.85
  - location: Bethel Test Fishery
    lat: 60.79
    lon: -161.76
`

func TestParse(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		table, err := Parse([]byte(sampleYAML))
		require.NoError(t, err)
		assert.Equal(t, 2, table.Len())

		coord, ok := table.Lookup("Kvichak River")
		require.True(t, ok)
		assert.Equal(t, 59.05, coord.Lat)
		assert.Equal(t, -156.85, coord.Lon)
	})

	t.Run("lookup is case-insensitive and trims", func(t *testing.T) {
		table, err := Parse([]byte(sampleYAML))
		require.NoError(t, err)

		_, ok := table.Lookup("  kvichak river ")
		assert.True(t, ok)
	})

	t.Run("miss", func(t *testing.T) {
		table, err := Parse([]byte(sampleYAML))
		require.NoError(t, err)

		_, ok := table.Lookup("Nowhere Creek")
		assert.False(t, ok)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Parse([]byte("sites: ["))
		require.Error(t, err)
	})

	t.Run("entry without location", func(t *testing.T) {
		_, err := Parse([]byte("sites:\n  - lat: 1.0\n    lon: 2.0\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no location")
	})

	t.Run("empty file yields empty table", func(t *testing.T) {
		table, err := Parse(nil)
		require.NoError(t, err)
		assert.Equal(t, 0, table.Len())
	})
}

func TestLoad(t *testing.T) {
	t.Run("reads from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sites.yaml")
		require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

		table, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 2, table.Len())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})
}
