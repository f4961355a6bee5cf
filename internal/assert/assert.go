// Package assert panics on programming errors, like a constructor called
// without one of its dependencies.
package assert

import (
	"fmt"
	"reflect"
)

// NotNil also catches nil pointers, maps and the like stored in an interface.
func NotNil(value any) {
	if value == nil {
		panic("expected value to be not nil")
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		if v.IsNil() {
			panic(fmt.Sprintf("expected %T to be not nil", value))
		}
	}
}

func Positive(n int) {
	if n <= 0 {
		panic(fmt.Sprintf("expected a positive integer, got %d", n))
	}
}
