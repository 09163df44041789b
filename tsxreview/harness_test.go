package tsxreview

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/stretchr/testify/require"

	"github.com/arjunmahishi/tsxreview/config"
	"github.com/arjunmahishi/tsxreview/types"
)

func TestDataDriven(t *testing.T) {
	datadriven.Walk(t, "testdata", func(t *testing.T, path string) {
		// Create temp dir for this test file
		tmpDir, err := os.MkdirTemp("", "tsxreview-test-*")
		require.NoError(t, err)
		defer os.RemoveAll(tmpDir)

		datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
			switch d.Cmd {
			case "file":
				return handleFile(t, d, tmpDir)
			case "check":
				return handleCheck(t, d, tmpDir)
			case "query":
				return handleQuery(t, d, tmpDir)
			case "rules":
				return handleRules(t, d)
			default:
				t.Fatalf("unknown command: %s", d.Cmd)
				return ""
			}
		})
	})
}

// handleFile creates a file in the temp directory
func handleFile(t *testing.T, d *datadriven.TestData, tmpDir string) string {
	var name string
	d.ScanArgs(t, "name", &name)

	absPath := filepath.Join(tmpDir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(absPath), 0755))
	require.NoError(t, os.WriteFile(absPath, []byte(d.Input), 0644))
	return ""
}

// handleCheck runs Check over the temp directory. The input, if any, is a
// YAML config; rules=(a,b) restricts the enabled rules.
func handleCheck(t *testing.T, d *datadriven.TestData, tmpDir string) string {
	cfg, err := config.Parse([]byte(d.Input))
	if err != nil {
		return fmt.Sprintf("error: %s", err)
	}
	for _, arg := range d.CmdArgs {
		if arg.Key == "rules" {
			cfg.EnabledRules = arg.Vals
		}
	}

	opts := Options{Path: tmpDir, Config: cfg}
	if d.HasArg("file") {
		var name string
		d.ScanArgs(t, "file", &name)
		opts.Files = []string{filepath.Join(tmpDir, filepath.FromSlash(name))}
	}

	report, err := Check(context.Background(), opts)
	if err != nil {
		return fmt.Sprintf("error: %s", err)
	}
	return formatReport(report, tmpDir)
}

// handleQuery runs Query with the input as the query text.
func handleQuery(t *testing.T, d *datadriven.TestData, tmpDir string) string {
	opts := QueryOptions{
		Query: d.Input,
		Path:  tmpDir,
		Jobs:  1,
	}
	if d.HasArg("lang") {
		d.ScanArgs(t, "lang", &opts.Language)
	}

	results, err := Query(context.Background(), opts)
	if err != nil {
		return fmt.Sprintf("error: %s", err)
	}
	if len(results) == 0 {
		return "(no matches)"
	}

	var lines []string
	for _, match := range results {
		for _, c := range match.Captures {
			lines = append(lines, fmt.Sprintf("@%s: %s (%s:%d:%d)",
				c.Name,
				c.Text,
				match.File,
				c.Range.Start.Line,
				c.Range.Start.Column,
			))
		}
	}
	return strings.Join(lines, "\n")
}

// handleRules lists the built-in rules with the config in the input.
func handleRules(t *testing.T, d *datadriven.TestData) string {
	cfg, err := config.Parse([]byte(d.Input))
	require.NoError(t, err)

	infos, err := Rules(cfg)
	if err != nil {
		return fmt.Sprintf("error: %s", err)
	}
	var lines []string
	for _, info := range infos {
		state := "on"
		if !info.Enabled {
			state = "off"
		}
		lines = append(lines, fmt.Sprintf("%s %s %s %s", info.ID, info.Category, info.Severity, state))
	}
	return strings.Join(lines, "\n")
}

// formatReport prints one line per finding in report order.
func formatReport(r *types.Report, tmpDir string) string {
	var lines []string
	for _, p := range r.Paths() {
		for _, f := range r.Files[p] {
			file := strings.TrimPrefix(filepath.ToSlash(f.File), filepath.ToSlash(tmpDir)+"/")
			line := fmt.Sprintf("%s:%d:%d %s %s: %s",
				file,
				f.Range.Start.Line,
				f.Range.Start.Column,
				f.RuleID,
				f.Severity,
				f.Message,
			)
			if f.Fix != "" {
				line += fmt.Sprintf(" [fix: %s]", f.Fix)
			}
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return "(no findings)"
	}
	return strings.Join(lines, "\n")
}
