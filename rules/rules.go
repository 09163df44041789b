// Package rules contains the built-in checks.
//
// Rules are grouped by category: naming (identifier conventions),
// structure (file layout and imports) and component design (complexity of
// React components). All returns them in the registry's declared order.
package rules

import "github.com/arjunmahishi/tsxreview/rule"

// All returns every built-in rule in declared order. The order is part of
// the output contract: it decides dispatch order within a node, and so the
// order of findings that share a position and rule id prefix.
func All() []rule.Rule {
	return []rule.Rule{
		// naming
		BooleanPrefix(),
		CamelCase(),
		PascalCaseTypes(),
		CamelCaseKeys(),
		HandlerPrefix(),
		DescriptiveName(),
		NoDollar(),
		DuplicateComponent(),

		// structure
		ForbiddenImport(),
		ComponentLocation(),
		ComponentFolder(),
		ComponentFileName(),
		ColocatedFiles(),
		ModuleStyles(),
		PropsTypesFile(),

		// component design
		MaxState(),
		MaxEffects(),
		MaxResponsibilities(),
		TypedProps(),
		PropsStylePassthrough(),
		TernaryNull(),
	}
}
