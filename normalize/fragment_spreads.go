package normalize

import (
	"fmt"

	"github.com/vvakame/gqlir/internal/utils"
	"github.com/vvakame/gqlir/ir"
)

// MergeInFragmentSpreads replaces every fragment spread with a TypeCondition
// on the fragment's type, narrowed to the enclosing possible types.
// Spreads nested in the fragment are expanded too. Field sub-selections are
// left alone.
func MergeInFragmentSpreads(resolver FragmentResolver, selectionSet *ir.SelectionSet) (*ir.SelectionSet, error) {
	selections := make([]ir.Selection, 0, len(selectionSet.Selections))
	for _, selection := range selectionSet.Selections {
		switch selection := selection.(type) {
		case *ir.FragmentSpread:
			fragment, err := resolver.FragmentNamed(selection.FragmentName)
			if err != nil {
				return nil, err
			}
			possibleTypes := utils.IntersectTypes(fragment.SelectionSet.PossibleTypes, selectionSet.PossibleTypes)
			merged, err := MergeInFragmentSpreads(resolver, &ir.SelectionSet{
				PossibleTypes: possibleTypes,
				Selections:    fragment.SelectionSet.Selections,
			})
			if err != nil {
				return nil, err
			}
			selections = append(selections, &ir.TypeCondition{
				Type:         fragment.Type,
				SelectionSet: merged,
			})

		case *ir.TypeCondition:
			merged, err := MergeInFragmentSpreads(resolver, selection.SelectionSet)
			if err != nil {
				return nil, err
			}
			selections = append(selections, &ir.TypeCondition{
				Type:         selection.Type,
				SelectionSet: merged,
			})

		case *ir.BooleanCondition:
			merged, err := MergeInFragmentSpreads(resolver, selection.SelectionSet)
			if err != nil {
				return nil, err
			}
			selections = append(selections, &ir.BooleanCondition{
				VariableName: selection.VariableName,
				Inverted:     selection.Inverted,
				SelectionSet: merged,
			})

		case *ir.Field:
			selections = append(selections, selection)

		default:
			return nil, fmt.Errorf("unexpected selection type: %T", selection)
		}
	}

	return &ir.SelectionSet{
		PossibleTypes: selectionSet.PossibleTypes,
		Selections:    selections,
	}, nil
}
