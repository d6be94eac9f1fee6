package normalize

import (
	"fmt"
	"io"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/gqlir/internal/utils"
	"github.com/vvakame/gqlir/ir"
)

// Variant is one cell of a type case: every type in PossibleTypes gets
// exactly Selections.
type Variant struct {
	PossibleTypes []*ast.Definition
	Selections    []ir.Selection
}

// SelectionSet returns the variant as a selection set.
func (v *Variant) SelectionSet() *ir.SelectionSet {
	return &ir.SelectionSet{
		PossibleTypes: v.PossibleTypes,
		Selections:    v.Selections,
	}
}

// TypeCase partitions the possible types of a polymorphic selection set into
// variants that share one shape each.
//
// Buckets live in an arena. Index 0 is the default bucket: it holds the
// selections that apply to every type and its PossibleTypes is never
// changed. owners maps each type that has been split off to its bucket.
type TypeCase struct {
	buckets []*Variant
	owners  map[*ast.Definition]int

	// types in the order they first got an owner
	ownedOrder []*ast.Definition
}

const defaultBucket = 0

// NewTypeCase runs the analysis over selectionSet. Fragment spreads are
// treated as leaves, run MergeInFragmentSpreads first when their contents
// should take part.
func NewTypeCase(selectionSet *ir.SelectionSet) *TypeCase {
	possibleTypes := make([]*ast.Definition, len(selectionSet.PossibleTypes))
	copy(possibleTypes, selectionSet.PossibleTypes)

	tc := &TypeCase{
		buckets: []*Variant{{PossibleTypes: possibleTypes}},
		owners:  make(map[*ast.Definition]int),
	}
	tc.visit(selectionSet.Selections, possibleTypes, nil)

	return tc
}

// conditions is innermost first.
func (tc *TypeCase) visit(selections []ir.Selection, possibleTypes []*ast.Definition, conditions []*ir.BooleanCondition) {
	if len(possibleTypes) == 0 {
		return
	}

	for _, selection := range selections {
		switch selection := selection.(type) {
		case *ir.Field, *ir.FragmentSpread:
			wrapped := wrapInBooleanConditions([]ir.Selection{selection}, possibleTypes, conditions)[0]
			for _, idx := range tc.variantsFor(possibleTypes) {
				bucket := tc.buckets[idx]
				bucket.Selections = append(bucket.Selections, wrapped)
			}

		case *ir.TypeCondition:
			narrowed := utils.IntersectTypes(selection.SelectionSet.PossibleTypes, possibleTypes)
			tc.visit(selection.SelectionSet.Selections, narrowed, conditions)

		case *ir.BooleanCondition:
			next := make([]*ir.BooleanCondition, 0, len(conditions)+1)
			next = append(next, selection)
			next = append(next, conditions...)
			tc.visit(selection.SelectionSet.Selections, possibleTypes, next)

		default:
			panic(fmt.Sprintf("unexpected selection type: %T", selection))
		}
	}
}

// variantsFor returns the buckets a selection applying to possibleTypes goes
// into, splitting buckets that are only partly covered.
func (tc *TypeCase) variantsFor(possibleTypes []*ast.Definition) []int {
	var variants []int

	matchesDefault := utils.ContainsAllTypes(possibleTypes, tc.buckets[defaultBucket].PossibleTypes)
	if matchesDefault {
		variants = append(variants, defaultBucket)
	}

	// owner -> split
	splits := make(map[int]int)
	for _, typ := range possibleTypes {
		owner, owned := tc.owners[typ]
		if !owned {
			if matchesDefault {
				continue
			}
			owner = defaultBucket
		}

		split, ok := splits[owner]
		if !ok {
			selections := make([]ir.Selection, len(tc.buckets[owner].Selections))
			copy(selections, tc.buckets[owner].Selections)

			split = len(tc.buckets)
			tc.buckets = append(tc.buckets, &Variant{Selections: selections})
			splits[owner] = split
			variants = append(variants, split)
		}

		if owner != defaultBucket {
			tc.buckets[owner].PossibleTypes = removeType(tc.buckets[owner].PossibleTypes, typ)
		}
		tc.buckets[split].PossibleTypes = append(tc.buckets[split].PossibleTypes, typ)
		if !owned {
			tc.ownedOrder = append(tc.ownedOrder, typ)
		}
		tc.owners[typ] = split
	}

	return variants
}

func (tc *TypeCase) Default() *Variant {
	return tc.buckets[defaultBucket]
}

// Variants returns the buckets that own at least one type.
func (tc *TypeCase) Variants() []*Variant {
	var variants []*Variant
	seen := make(map[int]struct{})
	for _, typ := range tc.ownedOrder {
		idx := tc.owners[typ]
		if _, ok := seen[idx]; ok {
			continue
		}
		seen[idx] = struct{}{}
		variants = append(variants, tc.buckets[idx])
	}

	return variants
}

// Remainder covers the types no split claimed, with the default selections.
// It is nil when every type is owned by a variant.
func (tc *TypeCase) Remainder() *Variant {
	def := tc.buckets[defaultBucket]

	var possibleTypes []*ast.Definition
	for _, typ := range def.PossibleTypes {
		if _, ok := tc.owners[typ]; ok {
			continue
		}
		possibleTypes = append(possibleTypes, typ)
	}
	if len(possibleTypes) == 0 {
		return nil
	}

	return &Variant{
		PossibleTypes: possibleTypes,
		Selections:    def.Selections,
	}
}

// ExhaustiveVariants is Variants plus Remainder. Generators emit one shape
// per entry.
func (tc *TypeCase) ExhaustiveVariants() []*Variant {
	variants := tc.Variants()
	if remainder := tc.Remainder(); remainder != nil {
		variants = append(variants, remainder)
	}
	return variants
}

// OwnerOf returns the bucket currently owning typ: a split, the default
// bucket for unclaimed types, or nil when typ is not a possible type.
func (tc *TypeCase) OwnerOf(typ *ast.Definition) *Variant {
	if idx, ok := tc.owners[typ]; ok {
		return tc.buckets[idx]
	}
	if utils.ContainsType(tc.buckets[defaultBucket].PossibleTypes, typ) {
		return tc.buckets[defaultBucket]
	}
	return nil
}

// Format writes the default bucket and each exhaustive variant.
func (tc *TypeCase) Format(w io.Writer) {
	f := ir.NewFormatter(w)

	_, _ = io.WriteString(w, "default ")
	f.FormatSelectionSet(tc.Default().SelectionSet())

	for _, variant := range tc.Variants() {
		_, _ = io.WriteString(w, "variant ")
		f.FormatSelectionSet(variant.SelectionSet())
	}
	if remainder := tc.Remainder(); remainder != nil {
		_, _ = io.WriteString(w, "remainder ")
		f.FormatSelectionSet(remainder.SelectionSet())
	}
}

func removeType(defs []*ast.Definition, typ *ast.Definition) []*ast.Definition {
	result := make([]*ast.Definition, 0, len(defs))
	for _, def := range defs {
		if def == typ {
			continue
		}
		result = append(result, def)
	}
	return result
}
