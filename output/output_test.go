package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arjunmahishi/tsxreview/types"
)

func sampleReport() *types.Report {
	f := types.Finding{
		RuleID:   "naming.boolean-prefix",
		Category: types.CategoryNaming,
		Severity: types.SeverityWarning,
		File:     "src/App.tsx",
		Span:     types.Span{Start: 6, End: 13},
		Range: types.Range{
			Start: types.Position{Line: 1, Column: 7},
			End:   types.Position{Line: 1, Column: 14},
		},
		Message: "boolean `visible` should start with a predicate prefix",
		Fix:     "isVisible",
	}
	return &types.Report{
		Files: map[string][]types.Finding{
			"src/App.tsx":  {f},
			"src/empty.ts": {},
		},
		Summary: types.Summary{
			Files:      2,
			Findings:   1,
			BySeverity: map[string]int{"warning": 1},
			ByCategory: map[string]int{"naming": 1},
		},
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sampleReport()))
	require.Equal(t,
		"src/App.tsx:1:7: warning [naming.boolean-prefix] boolean `visible` should start with a predicate prefix (fix: isVisible)\n"+
			"1 findings in 2 files (1 warning)\n",
		buf.String())
}

func TestWriteReportJSON(t *testing.T) {
	var buf bytes.Buffer
	w := New(Config{Compact: true, Output: &buf})
	require.NoError(t, w.WriteReport(sampleReport()))

	var decoded struct {
		Files map[string][]struct {
			Rule     string `json:"rule"`
			Category string `json:"category"`
			Severity string `json:"severity"`
			Fix      string `json:"fix"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	got := decoded.Files["src/App.tsx"]
	require.Len(t, got, 1)
	require.Equal(t, "naming.boolean-prefix", got[0].Rule)
	require.Equal(t, "naming", got[0].Category)
	require.Equal(t, "warning", got[0].Severity)
	require.Equal(t, "isVisible", got[0].Fix)
	require.Contains(t, decoded.Files, "src/empty.ts")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("TEXT")
	require.NoError(t, err)
	require.Equal(t, FormatText, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	require.Error(t, err)
}

func TestWriteError(t *testing.T) {
	var buf bytes.Buffer
	writeError(&buf, "read %s: %v", "a.ts", "denied")
	require.JSONEq(t, `{"error":"read a.ts: denied"}`, buf.String())
}
