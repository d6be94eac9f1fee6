package ir

import (
	"strconv"

	"github.com/vektah/gqlparser/v2/ast"
)

// SelectionSet is the set of selections under one object position together
// with the concrete object types that position may resolve to.
// Every concrete type appearing under the set is one of PossibleTypes.
type SelectionSet struct {
	PossibleTypes []*ast.Definition
	Selections    []Selection
}

// Selection is one of *Field, *TypeCondition, *BooleanCondition or
// *FragmentSpread. The set is closed; consumers switch over all four.
type Selection interface {
	isSelection()
}

var _ Selection = (*Field)(nil)
var _ Selection = (*TypeCondition)(nil)
var _ Selection = (*BooleanCondition)(nil)
var _ Selection = (*FragmentSpread)(nil)

type Field struct {
	ResponseKey       string
	Name              string
	Alias             string      // optional
	Arguments         []*Argument // optional
	Type              *ast.Type
	Description       string // optional
	IsDeprecated      bool
	DeprecationReason string        // optional
	SelectionSet      *SelectionSet // only for composite return types

	// populated by normalize.CollectAndMergeFields
	IsConditional bool
	Conditions    []*BooleanCondition
}

func (f *Field) isSelection() {}

// Clone returns a shallow copy. nested selection sets are shared.
func (f *Field) Clone() *Field {
	copied := *f
	return &copied
}

type TypeCondition struct {
	Type         *ast.Definition
	SelectionSet *SelectionSet
}

func (c *TypeCondition) isSelection() {}

// BooleanCondition applies SelectionSet only when the variable evaluates to !Inverted.
// @skip(if: $v) compiles to Inverted=true, @include(if: $v) to Inverted=false.
type BooleanCondition struct {
	VariableName string
	Inverted     bool
	SelectionSet *SelectionSet
}

func (c *BooleanCondition) isSelection() {}

// FragmentSpread references a fragment by name. it is resolved lazily through
// the fragment registry.
type FragmentSpread struct {
	FragmentName string
}

func (s *FragmentSpread) isSelection() {}

type Argument struct {
	Name  string
	Value interface{}
}

// VariableValue is an argument value that refers to an operation variable.
type VariableValue struct {
	Name string
}

func (v *VariableValue) String() string {
	return "$" + v.Name
}

// ValueFromAST transcribes a literal without coercing it against its input type.
func ValueFromAST(value *ast.Value) interface{} {
	if value == nil {
		return nil
	}

	switch value.Kind {
	case ast.Variable:
		return &VariableValue{Name: value.Raw}
	case ast.IntValue:
		v, err := strconv.ParseInt(value.Raw, 10, 64)
		if err != nil {
			// out of int64 range. keep the literal as written
			return value.Raw
		}
		return v
	case ast.FloatValue:
		v, err := strconv.ParseFloat(value.Raw, 64)
		if err != nil {
			return value.Raw
		}
		return v
	case ast.BooleanValue:
		return value.Raw == "true"
	case ast.NullValue:
		return nil
	case ast.ListValue:
		list := make([]interface{}, 0, len(value.Children))
		for _, child := range value.Children {
			list = append(list, ValueFromAST(child.Value))
		}
		return list
	case ast.ObjectValue:
		obj := make(map[string]interface{}, len(value.Children))
		for _, child := range value.Children {
			obj[child.Name] = ValueFromAST(child.Value)
		}
		return obj
	default:
		// StringValue, BlockValue, EnumValue
		return value.Raw
	}
}
