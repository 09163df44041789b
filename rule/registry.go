package rule

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arjunmahishi/tsxreview/ast"
	"github.com/arjunmahishi/tsxreview/types"
)

// ErrUnknownRule matches any *UnknownRuleError.
var ErrUnknownRule = errors.New("unknown rule id")

// UnknownRuleError reports configuration naming rules that do not exist.
type UnknownRuleError struct {
	IDs []string
}

func (e *UnknownRuleError) Error() string {
	return fmt.Sprintf("unknown rule id: %s", strings.Join(e.IDs, ", "))
}

func (e *UnknownRuleError) Is(target error) bool {
	return target == ErrUnknownRule
}

// Selection chooses which rules a registry enables.
type Selection struct {
	// Only, when non-empty, enables exactly these rules.
	Only []string
	// Disable removes rules after Only is applied.
	Disable []string
	// DisableCategories removes every rule in the listed categories.
	DisableCategories []types.Category
}

// Registry holds the enabled rules in their declared order and indexes
// them by the node kinds they subscribe to.
type Registry struct {
	all     []Rule
	enabled []Rule
	byID    map[string]Rule
	byKind  [][]Rule
}

// NewRegistry builds a registry from the full rule set, in declared order,
// and a selection. Ids in the selection that are not part of all fail the
// construction with *UnknownRuleError.
func NewRegistry(all []Rule, sel Selection) (*Registry, error) {
	r := &Registry{
		all:  all,
		byID: make(map[string]Rule, len(all)),
	}
	for _, rl := range all {
		if _, dup := r.byID[rl.ID()]; dup {
			return nil, fmt.Errorf("duplicate rule id %q", rl.ID())
		}
		r.byID[rl.ID()] = rl
	}

	if err := r.Check(append(append([]string(nil), sel.Only...), sel.Disable...)...); err != nil {
		return nil, err
	}

	only := toSet(sel.Only)
	disabled := toSet(sel.Disable)
	for _, rl := range all {
		if len(only) > 0 && !only[rl.ID()] {
			continue
		}
		if disabled[rl.ID()] || hasCategory(sel.DisableCategories, rl.Category()) {
			continue
		}
		r.enabled = append(r.enabled, rl)
	}

	r.byKind = make([][]Rule, int(ast.KindError)+1)
	for _, rl := range r.enabled {
		for _, k := range rl.Kinds() {
			if !k.Valid() || k == ast.KindUnknown {
				continue
			}
			if contains(r.byKind[k], rl) {
				continue
			}
			r.byKind[k] = append(r.byKind[k], rl)
		}
	}
	return r, nil
}

// Check returns *UnknownRuleError listing the ids that are not built in.
func (r *Registry) Check(ids ...string) error {
	var unknown []string
	seen := make(map[string]bool)
	for _, id := range ids {
		if _, ok := r.byID[id]; ok || seen[id] {
			continue
		}
		seen[id] = true
		unknown = append(unknown, id)
	}
	if len(unknown) > 0 {
		return &UnknownRuleError{IDs: unknown}
	}
	return nil
}

// Rules returns the enabled rules in declared order.
func (r *Registry) Rules() []Rule {
	return r.enabled
}

// All returns every known rule, enabled or not, in declared order.
func (r *Registry) All() []Rule {
	return r.all
}

// ByCategory returns the enabled rules of a category in declared order.
func (r *Registry) ByCategory(c types.Category) []Rule {
	var out []Rule
	for _, rl := range r.enabled {
		if rl.Category() == c {
			out = append(out, rl)
		}
	}
	return out
}

// Lookup returns a known rule by id, enabled or not.
func (r *Registry) Lookup(id string) (Rule, bool) {
	rl, ok := r.byID[id]
	return rl, ok
}

// Enabled reports whether the rule with id is enabled.
func (r *Registry) Enabled(id string) bool {
	for _, rl := range r.enabled {
		if rl.ID() == id {
			return true
		}
	}
	return false
}

// For returns the enabled rules subscribed to kind, in declared order.
func (r *Registry) For(kind ast.Kind) []Rule {
	if kind < 0 || int(kind) >= len(r.byKind) {
		return nil
	}
	return r.byKind[kind]
}

// CrossFile returns the enabled cross-file rules in declared order.
func (r *Registry) CrossFile() []CrossFile {
	var out []CrossFile
	for _, rl := range r.enabled {
		if cf, ok := rl.(CrossFile); ok {
			out = append(out, cf)
		}
	}
	return out
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func hasCategory(cats []types.Category, c types.Category) bool {
	for _, x := range cats {
		if x == c {
			return true
		}
	}
	return false
}

func contains(rules []Rule, r Rule) bool {
	for _, x := range rules {
		if x.ID() == r.ID() {
			return true
		}
	}
	return false
}
