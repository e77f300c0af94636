package settings_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoaoAdministrator/proago-recruitment-sub000/settings"
)

const settingsYAML = `
rate_bands:
  - start: "2025-01-01"
    rate: 15.0
  - start: "2025-06-01"
    rate: 17.0
conversion:
  D2D:
    no:  { box2: 30, box4: 15 }
    yes: { box2: 25, box4: 12 }
  EVENT:
    no:  { box2: 20, box4: 10 }
`

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FileShape(t *testing.T) {
	src, err := settings.NewSource(writeSettings(t, settingsYAML))
	require.NoError(t, err)

	vals := src.Current()
	require.Len(t, vals.RateBands, 2)
	assert.Equal(t, "2025-01-01", vals.RateBands[0].StartISO)
	assert.True(t, vals.RateBands[1].Rate.Equal(decimal.NewFromInt(17)))

	require.Contains(t, vals.Conversion, "D2D")
	assert.Equal(t, 30.0, vals.Conversion["D2D"]["no"].Box2)
	assert.Equal(t, 12.0, vals.Conversion["D2D"]["yes"].Box4)
	assert.Equal(t, 10.0, vals.Conversion["EVENT"]["no"].Box4)
}

func TestLoad_MissingFileYieldsEmptySettings(t *testing.T) {
	src, err := settings.NewSource(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, src.Current().RateBands)
}

func TestLoad_HotReloadPicksUpChanges(t *testing.T) {
	// GIVEN: a loaded settings file
	// WHEN: the operator edits it and Load runs again
	// THEN: the new rate band is visible without a restart

	path := writeSettings(t, settingsYAML)
	src, err := settings.NewSource(path)
	require.NoError(t, err)
	require.Len(t, src.Current().RateBands, 2)

	rewritten := `
rate_bands:
  - start: "2025-01-01"
    rate: 15.0
  - start: "2025-06-01"
    rate: 17.0
  - start: "2025-10-01"
    rate: 18.5
`
	require.NoError(t, os.WriteFile(path, []byte(rewritten), 0o644))

	require.NoError(t, src.Load())
	vals := src.Current()
	require.Len(t, vals.RateBands, 3)
	assert.True(t, vals.RateBands[2].Rate.Equal(decimal.NewFromFloat(18.5)))
}

func TestLoad_MalformedFileFails(t *testing.T) {
	path := writeSettings(t, "rate_bands: [")
	_, err := settings.NewSource(path)
	assert.Error(t, err)
}
