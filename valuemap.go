package clarg

import (
	"fmt"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// ValueMap translates the text of a token into a value through a fixed
// table. It is immutable once built and remembers the insertion order of
// its keys for error messages.
type ValueMap[T any] struct {
	keys   []string
	values map[string]T
}

// Pair is one ValueMap entry.
type Pair[T any] struct {
	Key   string
	Value T
}

// NewValueMap builds a ValueMap from pairs. A repeated key fails with
// ErrDuplicateKey.
func NewValueMap[T any](pairs ...Pair[T]) (*ValueMap[T], error) {
	vm := &ValueMap[T]{
		keys:   make([]string, 0, len(pairs)),
		values: make(map[string]T, len(pairs)),
	}
	for _, p := range pairs {
		if err := vm.add(p.Key, p.Value); err != nil {
			return nil, err
		}
	}
	return vm, nil
}

func (vm *ValueMap[T]) add(key string, value T) error {
	if _, exists := vm.values[key]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}
	vm.keys = append(vm.keys, key)
	vm.values[key] = value
	return nil
}

// Lookup returns the value for key.
func (vm *ValueMap[T]) Lookup(key string) (T, bool) {
	v, ok := vm.values[key]
	return v, ok
}

// Has reports whether key is in the map.
func (vm *ValueMap[T]) Has(key string) bool {
	_, ok := vm.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (vm *ValueMap[T]) Keys() []string {
	out := make([]string, len(vm.keys))
	copy(out, vm.keys)
	return out
}

// Len returns the number of entries.
func (vm *ValueMap[T]) Len() int { return len(vm.keys) }

// ValueMapFromJSON builds a ValueMap from a JSON object, keeping the key
// order of the document. Each value is converted from its text with As[T].
//
//	{"low": 1, "medium": 5, "high": 10}
func ValueMapFromJSON[T any](doc string) (*ValueMap[T], error) {
	if !gjson.Valid(doc) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedValueMap)
	}
	root := gjson.Parse(doc)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: got %s", ErrMalformedValueMap, root.Type)
	}

	vm := &ValueMap[T]{values: make(map[string]T)}
	convert := As[T]()

	var err error
	root.ForEach(func(key, value gjson.Result) bool {
		var v T
		if v, err = convert.format(value.String()); err != nil {
			err = fmt.Errorf("value map key %q: %w", key.String(), err)
			return false
		}
		err = vm.add(key.String(), v)
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return vm, nil
}

// ValueMapFromYAML builds a ValueMap from a YAML mapping, keeping the key
// order of the document. Values are decoded by yaml.v3 directly into T.
//
//	low: 1
//	medium: 5
//	high: 10
func ValueMapFromYAML[T any](doc []byte) (*ValueMap[T], error) {
	var root yaml.Node
	if err := yaml.Unmarshal(doc, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedValueMap, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) != 1 || root.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: expected a mapping", ErrMalformedValueMap)
	}

	mapping := root.Content[0]
	vm := &ValueMap[T]{values: make(map[string]T, len(mapping.Content)/2)}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key, value := mapping.Content[i], mapping.Content[i+1]

		var v T
		if err := value.Decode(&v); err != nil {
			return nil, fmt.Errorf("value map key %q: %w", key.Value, err)
		}
		if err := vm.add(key.Value, v); err != nil {
			return nil, err
		}
	}
	return vm, nil
}
