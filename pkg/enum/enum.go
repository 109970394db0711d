package enum

import (
	"fmt"
	"reflect"
)

var enumManager = map[string]any{}

type enum[T comparable] struct {
	toEnum map[string]T
}

// New registers value as a member of its enum type. It must only be called
// during package initialization.
func New[T comparable](value T) T {
	t := reflect.TypeOf(value)
	name := t.PkgPath() + "." + t.Name()
	if _, ok := enumManager[name]; !ok {
		enumManager[name] = enum[T]{toEnum: make(map[string]T)}
	}

	enumManager[name].(enum[T]).toEnum[fmt.Sprint(value)] = value
	return value
}

func ToEnum[T comparable](s string) (T, error) {
	var defaultT T
	t := reflect.TypeOf(defaultT)
	e, ok := enumManager[t.PkgPath()+"."+t.Name()]
	if !ok {
		return defaultT, fmt.Errorf("not found enum type %T", defaultT)
	}

	v, ok := e.(enum[T]).toEnum[s]
	if !ok {
		return defaultT, fmt.Errorf("not found value %s in enum %T", s, defaultT)
	}

	return v, nil
}
