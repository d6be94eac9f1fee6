package normalize

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/gqlir/internal/utils"
	"github.com/vvakame/gqlir/ir"
)

// CollectAndMergeFields returns one field per response key in first-seen order.
// Boolean conditions are unwrapped into Field.Conditions and Field.IsConditional,
// and the nested selections of every occurrence are concatenated under the
// conditions they were found in. Nested sets are not merged recursively.
// Type conditions are only entered when they cover all of the set's possible
// types. Fragment spreads are skipped, inline them first to merge their fields.
func CollectAndMergeFields(selectionSet *ir.SelectionSet) []*ir.Field {
	var responseKeys []string
	fieldsByResponseKey := make(map[string]*ir.Field)

	var visit func(selectionSet *ir.SelectionSet, conditions []*ir.BooleanCondition)
	visit = func(selectionSet *ir.SelectionSet, conditions []*ir.BooleanCondition) {
		for _, selection := range selectionSet.Selections {
			switch selection := selection.(type) {
			case *ir.Field:
				existing, ok := fieldsByResponseKey[selection.ResponseKey]
				if !ok {
					field := selection.Clone()
					field.IsConditional = len(conditions) > 0
					if field.IsConditional {
						field.Conditions = append([]*ir.BooleanCondition(nil), conditions...)
					} else {
						field.Conditions = nil
					}
					if selection.SelectionSet != nil {
						field.SelectionSet = &ir.SelectionSet{
							PossibleTypes: selection.SelectionSet.PossibleTypes,
							Selections:    wrapInBooleanConditions(copySelections(selection.SelectionSet.Selections), selection.SelectionSet.PossibleTypes, conditions),
						}
					}
					responseKeys = append(responseKeys, field.ResponseKey)
					fieldsByResponseKey[field.ResponseKey] = field
					continue
				}

				if existing.IsConditional && len(conditions) > 0 {
					existing.Conditions = append(existing.Conditions, conditions...)
				} else {
					existing.Conditions = nil
				}
				existing.IsConditional = existing.IsConditional && len(conditions) > 0
				if existing.SelectionSet != nil && selection.SelectionSet != nil {
					existing.SelectionSet.Selections = append(
						existing.SelectionSet.Selections,
						wrapInBooleanConditions(copySelections(selection.SelectionSet.Selections), selection.SelectionSet.PossibleTypes, conditions)...,
					)
				}

			case *ir.TypeCondition:
				if !utils.ContainsAllTypes(selection.SelectionSet.PossibleTypes, selectionSet.PossibleTypes) {
					continue
				}
				visit(selection.SelectionSet, conditions)

			case *ir.BooleanCondition:
				next := make([]*ir.BooleanCondition, 0, len(conditions)+1)
				next = append(next, conditions...)
				next = append(next, selection)
				visit(selection.SelectionSet, next)

			case *ir.FragmentSpread:
				// opaque here
			}
		}
	}
	visit(selectionSet, nil)

	fields := make([]*ir.Field, 0, len(responseKeys))
	for _, responseKey := range responseKeys {
		fields = append(fields, fieldsByResponseKey[responseKey])
	}

	// a concrete type may document a field more specifically than its interface
	if len(selectionSet.PossibleTypes) == 1 {
		refreshDescriptions(fields, selectionSet.PossibleTypes[0])
	}

	return fields
}

func refreshDescriptions(fields []*ir.Field, typ *ast.Definition) {
	for _, field := range fields {
		fieldDef := typ.Fields.ForName(field.Name)
		if fieldDef == nil || fieldDef.Description == "" {
			continue
		}
		field.Description = fieldDef.Description
	}
}

func copySelections(selections []ir.Selection) []ir.Selection {
	copied := make([]ir.Selection, len(selections))
	copy(copied, selections)
	return copied
}
