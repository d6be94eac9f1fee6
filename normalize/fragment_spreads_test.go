package normalize

import (
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvakame/gqlir/compiler"
	"github.com/vvakame/gqlir/ir"
)

func TestMergeInFragmentSpreads(t *testing.T) {
	t.Run("spread on the same type collapses", func(t *testing.T) {
		cctx := compileDocument(t, heredoc.Doc(`
			query Q {
				node {
					...F
				}
			}

			fragment F on Node {
				id
			}
		`))

		node := fieldSelectionSet(t, cctx.Operations["Q"], "node")

		merged, err := MergeInFragmentSpreads(cctx, node)
		require.NoError(t, err)
		require.Len(t, merged.Selections, 1)

		typeCondition, ok := merged.Selections[0].(*ir.TypeCondition)
		require.True(t, ok)
		assert.Equal(t, "Node", typeCondition.Type.Name)
		assert.Equal(t, node.PossibleTypes, typeCondition.SelectionSet.PossibleTypes)
		assert.Equal(t, []string{"id"}, describe(typeCondition.SelectionSet.Selections))

		inlined := InlineRedundantTypeConditions(merged)
		assert.Equal(t, []string{"id"}, describe(inlined.Selections))
		assert.Equal(t, merged.PossibleTypes, inlined.PossibleTypes)

		// the input still holds the spread
		assert.Equal(t, []string{"...F"}, describe(node.Selections))
	})

	t.Run("narrowing spread is kept", func(t *testing.T) {
		cctx := compileDocument(t, heredoc.Doc(`
			query Q {
				animal {
					name
					...DogFields
				}
			}

			fragment DogFields on Dog {
				barks
				...NodeID
			}

			fragment NodeID on Node {
				id
			}
		`))

		animal := fieldSelectionSet(t, cctx.Operations["Q"], "animal")

		merged, err := MergeInFragmentSpreads(cctx, animal)
		require.NoError(t, err)
		assert.Equal(t, []string{"name", "... on Dog [barks ... on Node [id]]"}, describe(merged.Selections))

		dog := merged.Selections[1].(*ir.TypeCondition)
		assert.Equal(t, []string{"Dog"}, typeNames(dog.SelectionSet.PossibleTypes))
		nodeID := dog.SelectionSet.Selections[1].(*ir.TypeCondition)
		assert.Equal(t, []string{"Dog"}, typeNames(nodeID.SelectionSet.PossibleTypes))

		inlined := InlineRedundantTypeConditions(merged)
		assert.Equal(t, []string{"name", "... on Dog [barks id]"}, describe(inlined.Selections))
		assert.Equal(t, []string{"Dog", "Cat", "Bird"}, typeNames(inlined.PossibleTypes))
	})

	t.Run("boolean conditions are descended into", func(t *testing.T) {
		cctx := compileDocument(t, heredoc.Doc(`
			query Q($v: Boolean!) {
				animal {
					...AnimalName @include(if: $v)
				}
			}

			fragment AnimalName on Animal {
				name
			}
		`))

		animal := fieldSelectionSet(t, cctx.Operations["Q"], "animal")

		merged, err := MergeInFragmentSpreads(cctx, animal)
		require.NoError(t, err)
		assert.Equal(t, []string{"@include($v) [... on Animal [name]]"}, describe(merged.Selections))

		inlined := InlineRedundantTypeConditions(merged)
		assert.Equal(t, []string{"@include($v) [name]"}, describe(inlined.Selections))
	})

	t.Run("unknown fragment", func(t *testing.T) {
		cctx := compileDocument(t, "query Q { node { id } }")

		_, err := MergeInFragmentSpreads(cctx, &ir.SelectionSet{
			Selections: []ir.Selection{
				&ir.FragmentSpread{FragmentName: "Missing"},
			},
		})
		assert.ErrorIs(t, err, compiler.ErrFragmentNotFound)
	})
}

func TestInlineRedundantTypeConditions(t *testing.T) {
	cctx := compileDocument(t, heredoc.Doc(`
		query Q {
			animal {
				... on Animal {
					name
					... on Node {
						id
						... on Dog {
							barks
						}
					}
				}
			}
		}
	`))

	animal := fieldSelectionSet(t, cctx.Operations["Q"], "animal")
	inlined := InlineRedundantTypeConditions(animal)

	assert.Equal(t, []string{"name", "... on Node [id ... on Dog [barks]]"}, describe(inlined.Selections))
	assert.Equal(t, animal.PossibleTypes, inlined.PossibleTypes)
}
