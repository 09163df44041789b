// Package types defines shared data types for tsxreview.
package types

import (
	"fmt"
	"sort"
)

// Position represents a location in a source file.
// Line and Column are 1-based; Column counts bytes like tree-sitter points.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range represents a span in a source file.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Span is a half-open byte range [Start, End) into the file text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether o lies fully within s.
func (s Span) Contains(o Span) bool {
	return s.Start <= o.Start && o.End <= s.End
}

// Severity is the importance of a finding.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseSeverity maps "info", "warning" or "error" to a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "info":
		return SeverityInfo, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	}
	return 0, fmt.Errorf("unknown severity %q", s)
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Category groups rules by what they inspect.
type Category int

const (
	CategoryNaming Category = iota
	CategoryStructure
	CategoryComponentDesign
	// CategoryEngine is used for findings produced by the engine itself,
	// such as parse errors.
	CategoryEngine
)

func (c Category) String() string {
	switch c {
	case CategoryNaming:
		return "naming"
	case CategoryStructure:
		return "structure"
	case CategoryComponentDesign:
		return "component-design"
	case CategoryEngine:
		return "engine"
	default:
		return "unknown"
	}
}

// ParseCategory maps a category name to a Category.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "naming":
		return CategoryNaming, nil
	case "structure":
		return CategoryStructure, nil
	case "component-design":
		return CategoryComponentDesign, nil
	case "engine":
		return CategoryEngine, nil
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	v, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Finding is a single located rule violation.
type Finding struct {
	RuleID   string   `json:"rule"`
	Category Category `json:"category"`
	Severity Severity `json:"severity"`
	File     string   `json:"file"`
	Span     Span     `json:"span"`
	Range    Range    `json:"range"`
	Message  string   `json:"message"`
	Fix      string   `json:"fix,omitempty"` // suggested replacement text
}

// Summary holds aggregate counts for a report.
type Summary struct {
	Files      int            `json:"files"`
	Findings   int            `json:"findings"`
	BySeverity map[string]int `json:"by_severity"`
	ByCategory map[string]int `json:"by_category"`
}

// Report is the result of one analysis session.
type Report struct {
	// Files maps every analyzed path to its ordered findings.
	Files     map[string][]Finding `json:"files"`
	Summary   Summary              `json:"summary"`
	Cancelled bool                 `json:"cancelled,omitempty"`
	// Skipped lists inputs not analyzed because the session was cancelled.
	Skipped []string `json:"skipped,omitempty"`
}

// Paths returns the report's file paths in sorted order.
func (r *Report) Paths() []string {
	paths := make([]string, 0, len(r.Files))
	for p := range r.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Max returns the highest severity present in the report and false when
// there are no findings.
func (r *Report) Max() (Severity, bool) {
	var (
		top   Severity
		found bool
	)
	for _, findings := range r.Files {
		for _, f := range findings {
			if !found || f.Severity > top {
				top = f.Severity
				found = true
			}
		}
	}
	return top, found
}

// QueryMatch represents a raw tree-sitter query match.
type QueryMatch struct {
	File     string          `json:"file"`
	Pattern  int             `json:"pattern"`
	Captures []CaptureResult `json:"captures"`
}

// CaptureResult represents a single capture within a query match.
type CaptureResult struct {
	Name     string `json:"name"`
	NodeType string `json:"node_type"`
	Text     string `json:"text"`
	Range    Range  `json:"range"`
}

// FileJob represents a file to be processed.
type FileJob struct {
	AbsPath     string
	DisplayPath string
}
