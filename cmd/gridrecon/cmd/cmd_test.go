package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeInputs(t *testing.T, dir string) (string, string) {
	t.Helper()

	gl := filepath.Join(dir, "gridlog 5 Jan 2024.csv")
	require.NoError(t, os.WriteFile(gl, []byte(
		"Option Portfolio,UserID,Message,Timestamp\n"+
			"P1,u1,Combined SL: 100 hit,14:30:45:123\n"+
			"P1,u2,Combined SL: 100 hit,14:30:46\n"+
			"P2,u1,started,09:15:00\n"), 0o644))

	summary := filepath.Join(dir, "SUMMARY.xlsx")
	fx := excelize.NewFile()
	defer fx.Close()
	fx.SetSheetName("Sheet1", "Legs")
	require.NoError(t, fx.SetSheetRow("Legs", "A1", &[]interface{}{"Portfolio Name", "Status", "Exit Type", "Exit Time"}))
	require.NoError(t, fx.SetSheetRow("Legs", "A2", &[]interface{}{"P1", "Completed", "SL", "14:31:00"}))
	require.NoError(t, fx.SetSheetRow("Legs", "A3", &[]interface{}{"P2", "Open", "", ""}))
	require.NoError(t, fx.SaveAs(summary))

	return gl, summary
}

func TestProcessCommand(t *testing.T) {
	dir := t.TempDir()
	gl, summary := writeInputs(t, dir)
	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(outDir, 0o755))

	out, err := execute(t, "process", "-g", gl, "-s", summary, "-o", outDir, "-m", "2", "--log-level", "error")
	require.NoError(t, err)

	assert.Contains(t, out, "✓ Processing completed")
	assert.Contains(t, out, "GridLog rows processed: 2")
	assert.Contains(t, out, "Portfolios in GridLog: 2")
	assert.Contains(t, out, "Portfolios after UserID filter: 1")
	assert.Contains(t, out, "Fully completed portfolios: 1")
	assert.Contains(t, out, "Final results: 1")

	data, err := os.ReadFile(filepath.Join(outDir, "completed portfolio of 5 jan.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Option Portfolio,Reason,Time\nP1,Combined SL: 100 hit,14:30:46\n", string(data))
}

func TestProcessCommandRejectsMinUsers(t *testing.T) {
	dir := t.TempDir()
	gl, summary := writeInputs(t, dir)

	_, err := execute(t, "process", "-g", gl, "-s", summary, "-o", dir, "-m", "0", "--log-level", "error")
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "completed portfolio of 5 jan.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridrecon.yaml")

	out, err := execute(t, "config", "init", "-o", path, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Created default configuration")

	out, err = execute(t, "config", "validate", "-f", path, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Min users: 1")
	assert.Contains(t, out, "Journal: none")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gridrecon version "+version)
}
