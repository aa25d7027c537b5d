package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// rehearsal writes a workbook and a config pointing at it, and returns the config path.
func rehearsal(t *testing.T, settings string) string {
	t.Helper()
	dir := t.TempDir()

	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Rewind"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", 2))
	require.NoError(t, f.SaveAs(filepath.Join(dir, "rehearsal.xlsx")))
	require.NoError(t, f.Close())

	cfg := `
[sheet]
source = "xlsx"
file = "` + filepath.ToSlash(filepath.Join(dir, "rehearsal.xlsx")) + `"

[log]
level = "error"

[overlay]
elements = ["title", "dot1", "dot2", "dot3"]
` + settings
	path := filepath.Join(dir, "sheetlive.toml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func execute(t *testing.T, path string, cmdFn func() *cobra.Command) (string, error) {
	t.Helper()
	configPath = path
	cmd := cmdFn()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	return out.String(), err
}

func TestOnce(t *testing.T) {
	path := rehearsal(t, `
[settings.string]
A1 = "title"

[settings.counter]
B1 = ["dot1", "dot2", "dot3"]
`)
	out, err := execute(t, path, onceCmd)
	require.NoError(t, err)
	assert.Contains(t, out, `"text": "Rewind"`)
	assert.Contains(t, out, `"id": "dot3"`)
}

func TestPlan(t *testing.T) {
	path := rehearsal(t, `
[settings.string]
A1 = "title"

[settings.marquee]
C3 = "ticker"
`)
	out, err := execute(t, path, planCmd)
	assert.Error(t, err)
	assert.Contains(t, out, "Range: A1:C3 (3x3)")
	assert.Contains(t, out, "rehearsal.xlsx A1:C3")
	assert.Contains(t, out, `[ERROR] marquee C3`)
}

func TestBuild_InvalidConfig(t *testing.T) {
	path := rehearsal(t, "")
	_, err := build(path)
	assert.Error(t, err)
}
