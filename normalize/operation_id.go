package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/vvakame/gqlir/ir"
)

type OperationID struct {
	// OperationID is the lowercase hex SHA-256 of SourceWithFragments.
	OperationID         string
	SourceWithFragments string
}

// GenerateOperationID hashes the operation source followed by the sources of
// the fragments it references, in discovery order. referenced may be nil.
// The same fragments referenced in a different order produce a different id.
func GenerateOperationID(resolver FragmentResolver, operation *ir.Operation, referenced *FragmentNames) (*OperationID, error) {
	if referenced == nil {
		var err error
		referenced, err = CollectFragmentsReferenced(resolver, operation.SelectionSet, nil)
		if err != nil {
			return nil, err
		}
	}

	sources := make([]string, 0, referenced.Len()+1)
	sources = append(sources, operation.Source)
	for _, fragmentName := range referenced.Names() {
		fragment, err := resolver.FragmentNamed(fragmentName)
		if err != nil {
			return nil, err
		}
		sources = append(sources, fragment.Source)
	}
	sourceWithFragments := strings.Join(sources, "\n")

	sum := sha256.Sum256([]byte(sourceWithFragments))

	return &OperationID{
		OperationID:         hex.EncodeToString(sum[:]),
		SourceWithFragments: sourceWithFragments,
	}, nil
}
