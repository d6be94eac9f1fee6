package normalize

import (
	"github.com/vvakame/gqlir/internal/utils"
	"github.com/vvakame/gqlir/ir"
)

// InlineRedundantTypeConditions splices the selections of every TypeCondition
// that narrows nothing into its parent. Kept type conditions and boolean
// conditions are simplified recursively. PossibleTypes is never changed.
func InlineRedundantTypeConditions(selectionSet *ir.SelectionSet) *ir.SelectionSet {
	selections := make([]ir.Selection, 0, len(selectionSet.Selections))
	for _, selection := range selectionSet.Selections {
		switch selection := selection.(type) {
		case *ir.TypeCondition:
			inlined := InlineRedundantTypeConditions(selection.SelectionSet)
			if utils.ContainsAllTypes(selection.SelectionSet.PossibleTypes, selectionSet.PossibleTypes) {
				selections = append(selections, inlined.Selections...)
				continue
			}
			selections = append(selections, &ir.TypeCondition{
				Type:         selection.Type,
				SelectionSet: inlined,
			})

		case *ir.BooleanCondition:
			selections = append(selections, &ir.BooleanCondition{
				VariableName: selection.VariableName,
				Inverted:     selection.Inverted,
				SelectionSet: InlineRedundantTypeConditions(selection.SelectionSet),
			})

		default:
			selections = append(selections, selection)
		}
	}

	return &ir.SelectionSet{
		PossibleTypes: selectionSet.PossibleTypes,
		Selections:    selections,
	}
}
