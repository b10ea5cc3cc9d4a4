// Package example shows overloads generated for functions taking unions.
package example

import (
	"fmt"
	"strconv"

	"github.com/sirkon/go-union"
)

//go:generate go run ../../cmd/go-union-overload .

// processSingle describes which alternative the value holds.
//
//union:overload
func processSingle(value union.Union[string, int]) string {
	res, err := union.Match(value, func(s string) string {
		return "First: " + s
	}, func(n int) string {
		return "Second: " + strconv.Itoa(n)
	})
	if err != nil {
		return "Invalid"
	}
	return res
}

//union:overload
func processMultiple(name string, value union.Union[string, int], scale union.Union[float32, float64]) string {
	return fmt.Sprintf("Name: %s, Value: %v, Scale: %v", name, present(value), present(scale))
}

func present[A, B any](u union.Union[A, B]) any {
	res, err := union.Match(u, func(a A) any {
		return a
	}, func(b B) any {
		return b
	})
	if err != nil {
		return nil
	}
	return res
}
