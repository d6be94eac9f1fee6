package normalize

import (
	"github.com/vvakame/gqlir/ir"
)

// FragmentNames is a set of fragment names that remembers insertion order.
type FragmentNames struct {
	names []string
	set   map[string]struct{}
}

func NewFragmentNames(names ...string) *FragmentNames {
	fn := &FragmentNames{
		set: make(map[string]struct{}),
	}
	for _, name := range names {
		fn.Add(name)
	}
	return fn
}

// Add reports whether name was newly added.
func (fn *FragmentNames) Add(name string) bool {
	if fn.Has(name) {
		return false
	}
	fn.names = append(fn.names, name)
	fn.set[name] = struct{}{}
	return true
}

func (fn *FragmentNames) Has(name string) bool {
	_, ok := fn.set[name]
	return ok
}

func (fn *FragmentNames) Len() int {
	return len(fn.names)
}

// Names returns the names in insertion order.
func (fn *FragmentNames) Names() []string {
	names := make([]string, len(fn.names))
	copy(names, fn.names)
	return names
}

// CollectFragmentsReferenced adds every fragment reachable from selectionSet
// to seen, depth-first in discovery order, and returns it. A nil seen starts
// an empty set. Fragments already in seen keep their position but are still
// walked, so fragments only they reference are collected too.
func CollectFragmentsReferenced(resolver FragmentResolver, selectionSet *ir.SelectionSet, seen *FragmentNames) (*FragmentNames, error) {
	if seen == nil {
		seen = NewFragmentNames()
	}

	// walked in this call. cuts cycles
	visited := make(map[string]struct{})
	if err := collectFragmentsReferenced(resolver, selectionSet, seen, visited); err != nil {
		return nil, err
	}

	return seen, nil
}

func collectFragmentsReferenced(resolver FragmentResolver, selectionSet *ir.SelectionSet, seen *FragmentNames, visited map[string]struct{}) error {
	if selectionSet == nil {
		return nil
	}

	for _, selection := range selectionSet.Selections {
		var err error
		switch selection := selection.(type) {
		case *ir.Field:
			err = collectFragmentsReferenced(resolver, selection.SelectionSet, seen, visited)

		case *ir.TypeCondition:
			err = collectFragmentsReferenced(resolver, selection.SelectionSet, seen, visited)

		case *ir.BooleanCondition:
			err = collectFragmentsReferenced(resolver, selection.SelectionSet, seen, visited)

		case *ir.FragmentSpread:
			seen.Add(selection.FragmentName)
			if _, ok := visited[selection.FragmentName]; ok {
				continue
			}
			visited[selection.FragmentName] = struct{}{}

			var fragment *ir.Fragment
			fragment, err = resolver.FragmentNamed(selection.FragmentName)
			if err != nil {
				return err
			}
			err = collectFragmentsReferenced(resolver, fragment.SelectionSet, seen, visited)
		}
		if err != nil {
			return err
		}
	}

	return nil
}
