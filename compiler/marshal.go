package compiler

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/gqlir/internal/utils"
	"github.com/vvakame/gqlir/ir"
)

var _ json.Marshaler = (*Context)(nil)
var _ yaml.InterfaceMarshaler = (*Context)(nil)

type contextObject struct {
	Options    *Options           `yaml:"options" json:"options"`
	TypesUsed  []string           `yaml:"typesUsed" json:"typesUsed"`
	Operations []*operationObject `yaml:"operations" json:"operations"`
	Fragments  []*fragmentObject  `yaml:"fragments" json:"fragments"`
}

type operationObject struct {
	Name         string              `yaml:"name" json:"name"`
	FilePath     string              `yaml:"filePath,omitempty" json:"filePath,omitempty"`
	Type         string              `yaml:"operationType" json:"operationType"`
	Variables    []*variableObject   `yaml:"variables,omitempty" json:"variables,omitempty"`
	RootType     string              `yaml:"rootType" json:"rootType"`
	Source       string              `yaml:"source" json:"source"`
	SelectionSet *selectionSetObject `yaml:"selectionSet" json:"selectionSet"`
}

type variableObject struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
}

type fragmentObject struct {
	Name         string              `yaml:"name" json:"name"`
	FilePath     string              `yaml:"filePath,omitempty" json:"filePath,omitempty"`
	Type         string              `yaml:"type" json:"type"`
	Source       string              `yaml:"source" json:"source"`
	SelectionSet *selectionSetObject `yaml:"selectionSet" json:"selectionSet"`
}

type selectionSetObject struct {
	PossibleTypes []string           `yaml:"possibleTypes" json:"possibleTypes"`
	Selections    []*selectionObject `yaml:"selections" json:"selections"`
}

type selectionObject struct {
	Kind string `yaml:"kind" json:"kind"`

	// Field
	ResponseKey       string             `yaml:"responseKey,omitempty" json:"responseKey,omitempty"`
	Name              string             `yaml:"name,omitempty" json:"name,omitempty"`
	Alias             string             `yaml:"alias,omitempty" json:"alias,omitempty"`
	Arguments         []*argumentObject  `yaml:"arguments,omitempty" json:"arguments,omitempty"`
	Type              string             `yaml:"type,omitempty" json:"type,omitempty"`
	Description       string             `yaml:"description,omitempty" json:"description,omitempty"`
	IsDeprecated      bool               `yaml:"isDeprecated,omitempty" json:"isDeprecated,omitempty"`
	DeprecationReason string             `yaml:"deprecationReason,omitempty" json:"deprecationReason,omitempty"`
	IsConditional     bool               `yaml:"isConditional,omitempty" json:"isConditional,omitempty"`
	Conditions        []*conditionObject `yaml:"conditions,omitempty" json:"conditions,omitempty"`

	// TypeCondition
	TypeCondition string `yaml:"typeCondition,omitempty" json:"typeCondition,omitempty"`

	// BooleanCondition
	VariableName string `yaml:"variableName,omitempty" json:"variableName,omitempty"`
	Inverted     bool   `yaml:"inverted,omitempty" json:"inverted,omitempty"`

	// FragmentSpread
	FragmentName string `yaml:"fragmentName,omitempty" json:"fragmentName,omitempty"`

	SelectionSet *selectionSetObject `yaml:"selectionSet,omitempty" json:"selectionSet,omitempty"`
}

type argumentObject struct {
	Name  string      `yaml:"name" json:"name"`
	Value interface{} `yaml:"value" json:"value"`
}

type conditionObject struct {
	VariableName string `yaml:"variableName" json:"variableName"`
	Inverted     bool   `yaml:"inverted" json:"inverted"`
}

func (cctx *Context) marshalObject() (interface{}, error) {
	result := &contextObject{
		Options:   cctx.Options,
		TypesUsed: utils.TypeNames(cctx.TypesUsed),
	}

	for _, operation := range cctx.OperationList() {
		var variables []*variableObject
		for _, variable := range operation.Variables {
			variables = append(variables, &variableObject{
				Name: variable.Name,
				Type: variable.Type.String(),
			})
		}
		selectionSet, err := marshalSelectionSet(operation.SelectionSet)
		if err != nil {
			return nil, err
		}
		result.Operations = append(result.Operations, &operationObject{
			Name:         operation.OperationName,
			FilePath:     operation.FilePath,
			Type:         string(operation.OperationType),
			Variables:    variables,
			RootType:     operation.RootType.Name,
			Source:       operation.Source,
			SelectionSet: selectionSet,
		})
	}

	for _, fragment := range cctx.FragmentList() {
		selectionSet, err := marshalSelectionSet(fragment.SelectionSet)
		if err != nil {
			return nil, err
		}
		result.Fragments = append(result.Fragments, &fragmentObject{
			Name:         fragment.FragmentName,
			FilePath:     fragment.FilePath,
			Type:         fragment.Type.Name,
			Source:       fragment.Source,
			SelectionSet: selectionSet,
		})
	}

	return result, nil
}

func (cctx *Context) MarshalYAML() (interface{}, error) {
	return cctx.marshalObject()
}

func (cctx *Context) MarshalJSON() ([]byte, error) {
	obj, err := cctx.marshalObject()
	if err != nil {
		return nil, err
	}

	return json.Marshal(obj)
}

func marshalSelectionSet(selectionSet *ir.SelectionSet) (*selectionSetObject, error) {
	if selectionSet == nil {
		return nil, nil
	}

	result := &selectionSetObject{
		PossibleTypes: utils.TypeNames(selectionSet.PossibleTypes),
		Selections:    make([]*selectionObject, 0, len(selectionSet.Selections)),
	}
	for _, selection := range selectionSet.Selections {
		obj, err := marshalSelection(selection)
		if err != nil {
			return nil, err
		}
		result.Selections = append(result.Selections, obj)
	}

	return result, nil
}

func marshalSelection(selection ir.Selection) (*selectionObject, error) {
	switch selection := selection.(type) {
	case *ir.Field:
		selectionSet, err := marshalSelectionSet(selection.SelectionSet)
		if err != nil {
			return nil, err
		}
		obj := &selectionObject{
			Kind:              "Field",
			ResponseKey:       selection.ResponseKey,
			Name:              selection.Name,
			Alias:             selection.Alias,
			Type:              typeString(selection.Type),
			Description:       selection.Description,
			IsDeprecated:      selection.IsDeprecated,
			DeprecationReason: selection.DeprecationReason,
			IsConditional:     selection.IsConditional,
			SelectionSet:      selectionSet,
		}
		for _, arg := range selection.Arguments {
			obj.Arguments = append(obj.Arguments, &argumentObject{
				Name:  arg.Name,
				Value: plainValue(arg.Value),
			})
		}
		for _, condition := range selection.Conditions {
			obj.Conditions = append(obj.Conditions, &conditionObject{
				VariableName: condition.VariableName,
				Inverted:     condition.Inverted,
			})
		}
		return obj, nil

	case *ir.TypeCondition:
		selectionSet, err := marshalSelectionSet(selection.SelectionSet)
		if err != nil {
			return nil, err
		}
		return &selectionObject{
			Kind:          "TypeCondition",
			TypeCondition: selection.Type.Name,
			SelectionSet:  selectionSet,
		}, nil

	case *ir.BooleanCondition:
		selectionSet, err := marshalSelectionSet(selection.SelectionSet)
		if err != nil {
			return nil, err
		}
		return &selectionObject{
			Kind:         "BooleanCondition",
			VariableName: selection.VariableName,
			Inverted:     selection.Inverted,
			SelectionSet: selectionSet,
		}, nil

	case *ir.FragmentSpread:
		return &selectionObject{
			Kind:         "FragmentSpread",
			FragmentName: selection.FragmentName,
		}, nil

	default:
		return nil, fmt.Errorf("unexpected selection type: %T", selection)
	}
}

// plainValue replaces variable references so values survive encoding.
func plainValue(value interface{}) interface{} {
	switch value := value.(type) {
	case *ir.VariableValue:
		return map[string]interface{}{"variable": value.Name}
	case []interface{}:
		list := make([]interface{}, 0, len(value))
		for _, v := range value {
			list = append(list, plainValue(v))
		}
		return list
	case map[string]interface{}:
		obj := make(map[string]interface{}, len(value))
		for k, v := range value {
			obj[k] = plainValue(v)
		}
		return obj
	default:
		return value
	}
}

func typeString(typ *ast.Type) string {
	if typ == nil {
		return ""
	}
	return typ.String()
}
