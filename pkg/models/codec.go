package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeError describes a value of the wrong JSON type in a model document
type DecodeError struct {
	Path     string
	Expected string
	Got      string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Path, e.Expected, e.Got)
}

func DecodeMedianTimeDeltas(data []byte) (*MedianTimeDeltas, error) {
	root, err := decodeRoot(MedianTimeDeltasName, data)
	if err != nil {
		return nil, err
	}

	medians := NewMedianTimeDeltas()
	for key, value := range root {
		number, ok := value.(json.Number)
		if !ok {
			return nil, &DecodeError{Path: childPath(MedianTimeDeltasName, key), Expected: "number", Got: jsonType(value)}
		}

		milliseconds, err := number.Float64()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", childPath(MedianTimeDeltasName, key), err)
		}

		medians.Set(key, milliseconds)
	}

	return medians, nil
}

func DecodeUsualPaths(data []byte) (*UsualPaths, error) {
	nested, err := decodeNestedStrings(UsualPathsName, data)
	if err != nil {
		return nil, err
	}

	return &UsualPaths{paths: nested}, nil
}

func DecodeUsualDestinations(data []byte) (*UsualDestinations, error) {
	nested, err := decodeNestedStrings(UsualDestinationsName, data)
	if err != nil {
		return nil, err
	}

	return &UsualDestinations{destinations: nested}, nil
}

func decodeNestedStrings(name string, data []byte) (map[string]map[string]string, error) {
	root, err := decodeRoot(name, data)
	if err != nil {
		return nil, err
	}

	nested := map[string]map[string]string{}
	for outerKey, outerValue := range root {
		outerPath := childPath(name, outerKey)

		inner, ok := outerValue.(map[string]any)
		if !ok {
			return nil, &DecodeError{Path: outerPath, Expected: "object", Got: jsonType(outerValue)}
		}

		nested[outerKey] = map[string]string{}
		for innerKey, innerValue := range inner {
			value, ok := innerValue.(string)
			if !ok {
				return nil, &DecodeError{Path: childPath(outerPath, innerKey), Expected: "string", Got: jsonType(innerValue)}
			}

			nested[outerKey][innerKey] = value
		}
	}

	return nested, nil
}

func decodeRoot(name string, data []byte) (map[string]any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var root any
	if err := decoder.Decode(&root); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if decoder.More() {
		return nil, fmt.Errorf("%s: unexpected data after document", name)
	}

	object, ok := root.(map[string]any)
	if !ok {
		return nil, &DecodeError{Path: name, Expected: "object", Got: jsonType(root)}
	}

	return object, nil
}

func childPath(path string, key string) string {
	return fmt.Sprintf("%s[%q]", path, key)
}

func jsonType(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case string:
		return "string"
	case json.Number, float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", value)
	}
}
