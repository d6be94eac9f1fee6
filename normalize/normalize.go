// Package normalize holds the passes that rewrite compiled selection sets
// for code generators. Each pass returns a new tree and leaves its input as is.
package normalize

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/gqlir/ir"
)

// FragmentResolver resolves fragment spreads. *compiler.Context implements it.
type FragmentResolver interface {
	FragmentNamed(fragmentName string) (*ir.Fragment, error)
}

// wrapInBooleanConditions nests selections under conditions, conditions[0]
// outermost. possibleTypes are the ones of the set selections belong to.
func wrapInBooleanConditions(selections []ir.Selection, possibleTypes []*ast.Definition, conditions []*ir.BooleanCondition) []ir.Selection {
	if len(conditions) == 0 {
		return selections
	}

	condition := conditions[0]
	return []ir.Selection{
		&ir.BooleanCondition{
			VariableName: condition.VariableName,
			Inverted:     condition.Inverted,
			SelectionSet: &ir.SelectionSet{
				PossibleTypes: possibleTypes,
				Selections:    wrapInBooleanConditions(selections, possibleTypes, conditions[1:]),
			},
		},
	}
}
