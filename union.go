// Package union provides Union, a value holding exactly one of two alternatives.
//
// Functions taking Union parameters can be marked with the
//
//     //union:overload
//
// directive. go-union-overload then generates forwarding functions that accept
// the concrete alternative types directly.
package union

import (
	"fmt"
	"reflect"
)

type option[T any] struct {
	value T
	ok    bool
}

// Union holds exactly one value of either type A or type B.
//
// Use First, Second, Of or OfFunc to build it. The zero value is empty and
// breaks the invariant: Validate reports it and accessors refuse to work on it.
type Union[A, B any] struct {
	first  option[A]
	second option[B]
}

// build is the only place where Union values are constructed
func build[A, B any](first option[A], second option[B]) (Union[A, B], error) {
	if first.ok == second.ok {
		if first.ok {
			return Union[A, B]{}, fmt.Errorf("%w: both alternatives are set", ErrInvariantViolation)
		}
		return Union[A, B]{}, fmt.Errorf("%w: no alternative is set", ErrInvariantViolation)
	}

	return Union[A, B]{
		first:  first,
		second: second,
	}, nil
}

// First creates a union holding the first alternative.
func First[A, B any](value A) Union[A, B] {
	u, err := build(option[A]{value: value, ok: true}, option[B]{})
	if err != nil {
		// a single set slot always satisfies the invariant
		panic(err)
	}
	return u
}

// Second creates a union holding the second alternative.
func Second[A, B any](value B) Union[A, B] {
	u, err := build(option[A]{}, option[B]{value: value, ok: true})
	if err != nil {
		panic(err)
	}
	return u
}

// New is a raw constructor: nil means the slot is absent. Exactly one of first and second must be non-nil,
// ErrInvariantViolation is returned otherwise.
func New[A, B any](first *A, second *B) (Union[A, B], error) {
	var a option[A]
	if first != nil {
		a = option[A]{value: *first, ok: true}
	}
	var b option[B]
	if second != nil {
		b = option[B]{value: *second, ok: true}
	}

	return build(a, b)
}

// IsFirst checks if the first alternative is set.
func (u Union[A, B]) IsFirst() bool {
	return u.first.ok
}

// IsSecond checks if the second alternative is set.
func (u Union[A, B]) IsSecond() bool {
	return u.second.ok
}

// GetFirst returns the first alternative or ErrInvalidState if it is not set.
func (u Union[A, B]) GetFirst() (A, error) {
	if !u.first.ok {
		var zero A
		return zero, fmt.Errorf("%w: no value of type %s present", ErrInvalidState, typeName[A]())
	}

	return u.first.value, nil
}

// GetSecond returns the second alternative or ErrInvalidState if it is not set.
func (u Union[A, B]) GetSecond() (B, error) {
	if !u.second.ok {
		var zero B
		return zero, fmt.Errorf("%w: no value of type %s present", ErrInvalidState, typeName[B]())
	}

	return u.second.value, nil
}

// Validate returns ErrInvariantViolation for unions not built with constructors of this package.
func (u Union[A, B]) Validate() error {
	_, err := build(u.first, u.second)
	return err
}

// value returns the set alternative boxed
func (u Union[A, B]) value() (any, bool) {
	switch {
	case u.first.ok:
		return u.first.value, true
	case u.second.ok:
		return u.second.value, true
	default:
		return nil, false
	}
}

// MatchesType checks if the runtime type of the stored value is t.
func (u Union[A, B]) MatchesType(t reflect.Type) bool {
	v, ok := u.value()
	if !ok {
		return false
	}

	return reflect.TypeOf(v) == t
}

// Holds checks if the runtime type of the value stored in u is T.
func Holds[T, A, B any](u Union[A, B]) bool {
	return u.MatchesType(reflect.TypeFor[T]())
}

// Equal reports whether both unions hold the same alternative with equal values.
//
// Values having method Equal(T) bool are compared with it, comparable values with ==, and
// reflect.DeepEqual is used for everything else. Two empty unions are equal.
func (u Union[A, B]) Equal(other Union[A, B]) bool {
	switch {
	case u.first.ok && other.first.ok:
		return equal(u.first.value, other.first.value)
	case u.second.ok && other.second.ok:
		return equal(u.second.value, other.second.value)
	default:
		return !u.first.ok && !u.second.ok && !other.first.ok && !other.second.ok
	}
}

func equal[T any](x, y T) bool {
	if eq, ok := any(x).(interface{ Equal(T) bool }); ok {
		return eq.Equal(y)
	}

	vx, vy := reflect.ValueOf(&x).Elem(), reflect.ValueOf(&y).Elem()
	if vx.Comparable() && vy.Comparable() {
		return any(x) == any(y)
	}
	return reflect.DeepEqual(x, y)
}

// Hash returns a hash of the stored value, 0 for the empty union. Unions equal by Equal have
// equal hashes.
//
// Values with an Equal method are hashed with their Hash() uint64 method when they have one,
// otherwise only their type and alternative are hashed.
func (u Union[A, B]) Hash() uint64 {
	switch {
	case u.first.ok:
		return hashOf(1, u.first.value)
	case u.second.ok:
		return hashOf(2, u.second.value)
	default:
		return 0
	}
}

// String renders which alternative is stored along with its type and value.
func (u Union[A, B]) String() string {
	switch {
	case u.first.ok:
		return fmt.Sprintf("Union(first=%T: %v)", u.first.value, u.first.value)
	case u.second.ok:
		return fmt.Sprintf("Union(second=%T: %v)", u.second.value, u.second.value)
	default:
		return "Union(empty)"
	}
}

// Match calls onFirst or onSecond depending on the alternative stored.
func Match[A, B, R any](u Union[A, B], onFirst func(A) R, onSecond func(B) R) (R, error) {
	switch {
	case u.first.ok:
		return onFirst(u.first.value), nil
	case u.second.ok:
		return onSecond(u.second.value), nil
	default:
		var zero R
		return zero, u.Validate()
	}
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}
