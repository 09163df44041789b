package engine

import (
	"fmt"
	"sort"

	"github.com/arjunmahishi/tsxreview/source"
	"github.com/arjunmahishi/tsxreview/types"
)

// Engine finding ids. These are produced by the session itself, not by a
// registered rule, and cannot be disabled.
const (
	ParseErrorID     = "engine.parse-error"
	ExcessiveDepthID = "engine.excessive-depth"
)

// Classifier returns the category and effective severity of a rule id.
type Classifier func(ruleID string) (types.Category, types.Severity)

type findingKey struct {
	rule       string
	start, end int
}

// Collector accumulates the findings of one unit. It is not safe for
// concurrent use.
type Collector struct {
	unit     *source.Unit
	classify Classifier
	seen     map[findingKey]struct{}
	findings []types.Finding
}

// NewCollector creates a collector for unit.
func NewCollector(unit *source.Unit, classify Classifier) *Collector {
	return &Collector{
		unit:     unit,
		classify: classify,
		seen:     make(map[findingKey]struct{}),
	}
}

// Add resolves f against the unit and records it. A fragment repeating
// the rule and span of an earlier one is dropped. Offsets outside the
// text fail with source.ErrOutOfRange.
func (c *Collector) Add(f Fragment) error {
	span := types.Span{Start: f.Start, End: f.End}
	rng, err := c.unit.ResolveSpan(span)
	if err != nil {
		return fmt.Errorf("rule %s: %w", f.RuleID, err)
	}
	cat, sev := c.classify(f.RuleID)
	c.AddFinding(types.Finding{
		RuleID:   f.RuleID,
		Category: cat,
		Severity: sev,
		File:     c.unit.Path,
		Span:     span,
		Range:    rng,
		Message:  f.Message,
		Fix:      f.Fix,
	})
	return nil
}

// AddFinding records an already located finding, subject to the same
// duplicate check as Add.
func (c *Collector) AddFinding(f types.Finding) {
	key := findingKey{rule: f.RuleID, start: f.Span.Start, end: f.Span.End}
	if _, dup := c.seen[key]; dup {
		return
	}
	c.seen[key] = struct{}{}
	c.findings = append(c.findings, f)
}

// Len returns the number of findings recorded so far.
func (c *Collector) Len() int {
	return len(c.findings)
}

// Findings returns the findings ordered by start line, start column and
// rule id, then by end position and message.
func (c *Collector) Findings() []types.Finding {
	out := make([]types.Finding, len(c.findings))
	copy(out, c.findings)
	SortFindings(out)
	return out
}

// SortFindings orders findings the way Collector.Findings does.
func SortFindings(fs []types.Finding) {
	sort.SliceStable(fs, func(i, j int) bool {
		a, b := fs[i], fs[j]
		if a.Range.Start.Line != b.Range.Start.Line {
			return a.Range.Start.Line < b.Range.Start.Line
		}
		if a.Range.Start.Column != b.Range.Start.Column {
			return a.Range.Start.Column < b.Range.Start.Column
		}
		if a.RuleID != b.RuleID {
			return a.RuleID < b.RuleID
		}
		if a.Range.End.Line != b.Range.End.Line {
			return a.Range.End.Line < b.Range.End.Line
		}
		if a.Range.End.Column != b.Range.End.Column {
			return a.Range.End.Column < b.Range.End.Column
		}
		return a.Message < b.Message
	})
}
