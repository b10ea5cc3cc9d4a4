package union

import "fmt"

// Assert is a type assertion wrapped into a function. It is the default type predicate of Of.
func Assert[T any](value any) (T, bool) {
	v, ok := value.(T)
	return v, ok
}

// Of creates a union out of a dynamically typed value. The first alternative is tried first,
// thus it takes priority when value fits both. ErrTypeMismatch is returned when value fits none.
func Of[A, B any](value any) (Union[A, B], error) {
	return OfFunc(value, Assert[A], Assert[B])
}

// OfFunc is Of with explicit type predicates. asA is checked before asB.
func OfFunc[A, B any](value any, asA func(any) (A, bool), asB func(any) (B, bool)) (Union[A, B], error) {
	if a, ok := asA(value); ok {
		return build(option[A]{value: a, ok: true}, option[B]{})
	}
	if b, ok := asB(value); ok {
		return build(option[A]{}, option[B]{value: b, ok: true})
	}

	return Union[A, B]{}, fmt.Errorf("%w: %T is neither %s nor %s", ErrTypeMismatch, value, typeName[A](), typeName[B]())
}
