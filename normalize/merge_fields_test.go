package normalize

import (
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvakame/gqlir/ir"
)

func TestCollectAndMergeFields(t *testing.T) {
	t.Run("conditional flag", func(t *testing.T) {
		cctx := compileDocument(t, heredoc.Doc(`
			query Q($v: Boolean!, $w: Boolean!) {
				animal {
					name
					name @include(if: $v)
					nick: name @include(if: $v)
					nick: name @skip(if: $w)
				}
			}
		`))

		fields := CollectAndMergeFields(fieldSelectionSet(t, cctx.Operations["Q"], "animal"))
		require.Len(t, fields, 2)

		assert.Equal(t, "name", fields[0].ResponseKey)
		assert.False(t, fields[0].IsConditional)
		assert.Empty(t, fields[0].Conditions)

		assert.Equal(t, "nick", fields[1].ResponseKey)
		assert.True(t, fields[1].IsConditional)
		require.Len(t, fields[1].Conditions, 2)
		assert.Equal(t, "v", fields[1].Conditions[0].VariableName)
		assert.False(t, fields[1].Conditions[0].Inverted)
		assert.Equal(t, "w", fields[1].Conditions[1].VariableName)
		assert.True(t, fields[1].Conditions[1].Inverted)
	})

	t.Run("nested selections are concatenated", func(t *testing.T) {
		cctx := compileDocument(t, heredoc.Doc(`
			query Q($v: Boolean!) {
				node {
					id
				}
				node @include(if: $v) {
					... on Dog {
						name
					}
				}
				dog {
					name
				}
			}
		`))

		operation := cctx.Operations["Q"]
		fields := CollectAndMergeFields(operation.SelectionSet)
		require.Len(t, fields, 2)

		node := fields[0]
		assert.False(t, node.IsConditional)
		assert.Equal(t, []string{"id", "@include($v) [... on Dog [name]]"}, describe(node.SelectionSet.Selections))
		assert.Equal(t, []string{"Dog", "Cat"}, typeNames(node.SelectionSet.PossibleTypes))

		// the input is left as is
		original := operation.SelectionSet.Selections[0].(*ir.Field)
		assert.Equal(t, []string{"id"}, describe(original.SelectionSet.Selections))

		t.Run("idempotent", func(t *testing.T) {
			selections := make([]ir.Selection, 0, len(fields))
			for _, field := range fields {
				selections = append(selections, field)
			}
			again := CollectAndMergeFields(&ir.SelectionSet{
				PossibleTypes: operation.SelectionSet.PossibleTypes,
				Selections:    selections,
			})

			require.Len(t, again, len(fields))
			for i := range fields {
				assert.Equal(t, fields[i].ResponseKey, again[i].ResponseKey)
				if fields[i].SelectionSet != nil {
					assert.Equal(t, fields[i].SelectionSet.Selections, again[i].SelectionSet.Selections)
				}
			}
		})
	})

	t.Run("only covering type conditions are entered", func(t *testing.T) {
		cctx := compileDocument(t, heredoc.Doc(`
			query Q {
				animal {
					... on Animal {
						name
					}
					... on Dog {
						barks
					}
					...Names
				}
			}

			fragment Names on Animal {
				name
			}
		`))

		fields := CollectAndMergeFields(fieldSelectionSet(t, cctx.Operations["Q"], "animal"))
		require.Len(t, fields, 1)
		assert.Equal(t, "name", fields[0].ResponseKey)
	})

	t.Run("description from the only possible type", func(t *testing.T) {
		cctx := compileDocument(t, heredoc.Doc(`
			query Q {
				dog {
					...AnimalName
				}
				animal {
					...AnimalName
				}
			}

			fragment AnimalName on Animal {
				name
			}
		`))

		dog, err := MergeInFragmentSpreads(cctx, fieldSelectionSet(t, cctx.Operations["Q"], "dog"))
		require.NoError(t, err)
		fields := CollectAndMergeFields(dog)
		require.Len(t, fields, 1)
		assert.Equal(t, "The dog's name", fields[0].Description)

		animal, err := MergeInFragmentSpreads(cctx, fieldSelectionSet(t, cctx.Operations["Q"], "animal"))
		require.NoError(t, err)
		fields = CollectAndMergeFields(animal)
		require.Len(t, fields, 1)
		assert.Equal(t, "The animal's name", fields[0].Description)
	})
}
