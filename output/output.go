// Package output renders reports and other command results.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arjunmahishi/tsxreview/types"
)

// Format selects how Write renders a report.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatText:
		return f, nil
	case "":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown format %q (want json or text)", s)
}

// Writer handles structured output.
type Writer struct {
	out     io.Writer
	encoder *json.Encoder
	format  Format
}

// Config holds output configuration.
type Config struct {
	Compact bool
	Format  Format
	Output  io.Writer
}

// New creates a new output Writer.
func New(cfg Config) *Writer {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.Format == "" {
		cfg.Format = FormatJSON
	}

	enc := json.NewEncoder(cfg.Output)
	enc.SetEscapeHTML(false)
	if !cfg.Compact {
		enc.SetIndent("", "  ")
	}

	return &Writer{
		out:     cfg.Output,
		encoder: enc,
		format:  cfg.Format,
	}
}

// Write outputs a value as JSON.
func (w *Writer) Write(v any) error {
	return w.encoder.Encode(v)
}

// WriteReport renders a report in the configured format.
func (w *Writer) WriteReport(r *types.Report) error {
	if w.format == FormatText {
		return WriteText(w.out, r)
	}
	return w.Write(r)
}

// WriteText renders one line per finding, in path order then finding
// order, followed by a summary line:
//
//	src/App.tsx:3:7: warning [naming.boolean-prefix] boolean `visible` ... (fix: isVisible)
func WriteText(out io.Writer, r *types.Report) error {
	for _, p := range r.Paths() {
		for _, f := range r.Files[p] {
			line := fmt.Sprintf("%s:%d:%d: %s [%s] %s", f.File, f.Range.Start.Line, f.Range.Start.Column, f.Severity, f.RuleID, f.Message)
			if f.Fix != "" {
				line += " (fix: " + f.Fix + ")"
			}
			if _, err := fmt.Fprintln(out, line); err != nil {
				return err
			}
		}
	}

	summary := fmt.Sprintf("%d findings in %d files", r.Summary.Findings, r.Summary.Files)
	var parts []string
	for _, sev := range []types.Severity{types.SeverityError, types.SeverityWarning, types.SeverityInfo} {
		if n := r.Summary.BySeverity[sev.String()]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, sev))
		}
	}
	if len(parts) > 0 {
		summary += " (" + strings.Join(parts, ", ") + ")"
	}
	if r.Cancelled {
		summary += fmt.Sprintf("; cancelled, %d files skipped", len(r.Skipped))
	}
	_, err := fmt.Fprintln(out, summary)
	return err
}

// WriteError writes an error message to stderr as JSON.
func WriteError(format string, args ...any) {
	writeError(os.Stderr, format, args...)
}

func writeError(out io.Writer, format string, args ...any) {
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(map[string]any{
		"error": fmt.Sprintf(format, args...),
	})
}
