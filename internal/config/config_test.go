package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajack/sheetlive"
)

const sampleTOML = `
presets = ["format"]

[sheet]
spreadsheet_id = "1AbC"
worksheet = "Match Day"

[poll]
interval_ms = 1500

[overlay]
elements = ["title", "logo", "dot1", "dot2"]

[settings.string]
A1 = "title"

[settings.image]
A2 = ["logo", "logo-small"]

[settings.counter]
C4 = ["dot1", "dot2"]

[settings.switch.B2]
home = "home-banner"
away = "away-banner"
`

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "sheetlive.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 3*time.Second, cfg.Interval())
	assert.True(t, cfg.Poll.AutoStart)
	assert.Equal(t, "values", cfg.Sheet.Source)
	assert.Equal(t, time.Duration(0), cfg.Timeout())
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, t.TempDir(), sampleTOML))
	require.NoError(t, err)

	assert.Equal(t, "1AbC", cfg.Sheet.SpreadsheetID)
	assert.Equal(t, "Match Day", cfg.Sheet.Worksheet)
	assert.Equal(t, 1500*time.Millisecond, cfg.Interval())
	assert.True(t, cfg.Poll.AutoStart, "defaults survive a partial [poll] table")
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, []string{"format"}, cfg.Presets)
	assert.Len(t, cfg.Overlay.Elements, 4)
	require.NoError(t, cfg.Validate())

	plan, err := sheetlive.Compile(cfg.UpdaterSettings())
	require.NoError(t, err)
	assert.Equal(t, "A1:C4", plan.Range.String())

	e, ok := plan.Lookup("switch", sheetlive.RelativeCoord{Col: 1, Row: 1})
	require.True(t, ok)
	assert.Equal(t, map[string]any{"home": "home-banner", "away": "away-banner"}, e.Descriptor)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SHEETLIVE_API_KEY", "from-env")
	t.Setenv("SHEETLIVE_POLL_INTERVAL_MS", "500")
	t.Setenv("SHEETLIVE_AUTO_START", "false")

	cfg, err := Load(writeConfig(t, t.TempDir(), sampleTOML))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Sheet.APIKey)
	assert.Equal(t, 500*time.Millisecond, cfg.Interval())
	assert.False(t, cfg.Poll.AutoStart)
	assert.Equal(t, "Match Day", cfg.Sheet.Worksheet)
}

func TestLoad_DotEnv(t *testing.T) {
	t.Cleanup(func() { os.Unsetenv("SHEETLIVE_LOG_LEVEL") })

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SHEETLIVE_LOG_LEVEL=debug\n"), 0o644))

	cfg, err := Load(writeConfig(t, dir, sampleTOML))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, t.TempDir(), "[sheet\nworksheet = 1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")

	t.Setenv("SHEETLIVE_POLL_INTERVAL_MS", "soon")
	_, err = Load(writeConfig(t, t.TempDir(), sampleTOML))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Poll.IntervalMS = 0
	cfg.Log.Level = "loud"
	cfg.Log.Format = "xml"
	cfg.Presets = []string{"confetti"}

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"sheet", "interval_ms", "log.level", "log.format", "confetti", "settings"} {
		assert.Contains(t, err.Error(), want)
	}
	assert.ErrorIs(t, err, sheetlive.ErrEmptyConfiguration)
}

func TestSourceConfigAndOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sheet = SheetConfig{Source: "xlsx", File: "rehearsal.xlsx", Worksheet: "Scores"}
	cfg.Presets = []string{"format", "toggle"}

	sc := cfg.SourceConfig()
	assert.Equal(t, "xlsx", sc.Kind)
	assert.Equal(t, "rehearsal.xlsx", sc.File)
	assert.Len(t, cfg.Options(nil), 5)
}
