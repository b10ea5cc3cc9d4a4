package union_test

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/sirkon/go-union"
)

func TestFirst(t *testing.T) {
	f := func(value string) {
		t.Helper()

		u := union.First[string, int](value)
		if !u.IsFirst() {
			t.Fatalf("IsFirst() must be true")
		}
		if u.IsSecond() {
			t.Fatalf("IsSecond() must be false")
		}
		got, err := u.GetFirst()
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if got != value {
			t.Fatalf("unexpected value; got %q; want %q", got, value)
		}
		if _, err := u.GetSecond(); !errors.Is(err, union.ErrInvalidState) {
			t.Fatalf("GetSecond() must fail with ErrInvalidState; got %v", err)
		}
		if err := u.Validate(); err != nil {
			t.Fatalf("unexpected validation error: %s", err)
		}
	}

	f("")
	f("test")
	f("example")
}

func TestSecond(t *testing.T) {
	f := func(value int) {
		t.Helper()

		u := union.Second[string, int](value)
		if u.IsFirst() {
			t.Fatalf("IsFirst() must be false")
		}
		if !u.IsSecond() {
			t.Fatalf("IsSecond() must be true")
		}
		got, err := u.GetSecond()
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if got != value {
			t.Fatalf("unexpected value; got %d; want %d", got, value)
		}
		_, err = u.GetFirst()
		if !errors.Is(err, union.ErrInvalidState) {
			t.Fatalf("GetFirst() must fail with ErrInvalidState; got %v", err)
		}
		if err.Error() != "invalid union state: no value of type string present" {
			t.Fatalf("unexpected error message: %s", err)
		}
	}

	f(0)
	f(42)
	f(-1)
}

func TestNew(t *testing.T) {
	s := "test"
	n := 123

	if _, err := union.New[string, int](nil, nil); !errors.Is(err, union.ErrInvariantViolation) {
		t.Fatalf("both absent must fail with ErrInvariantViolation; got %v", err)
	}
	if _, err := union.New(&s, &n); !errors.Is(err, union.ErrInvariantViolation) {
		t.Fatalf("both present must fail with ErrInvariantViolation; got %v", err)
	}

	u, err := union.New[string, int](&s, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !u.Equal(union.First[string, int]("test")) {
		t.Fatalf("unexpected union %s", u)
	}

	u, err = union.New[string](nil, &n)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !u.Equal(union.Second[string](123)) {
		t.Fatalf("unexpected union %s", u)
	}
}

func TestZeroValue(t *testing.T) {
	var u union.Union[string, int]

	if u.IsFirst() || u.IsSecond() {
		t.Fatalf("zero value must hold nothing")
	}
	if err := u.Validate(); !errors.Is(err, union.ErrInvariantViolation) {
		t.Fatalf("zero value must fail validation with ErrInvariantViolation; got %v", err)
	}
	if _, err := u.GetFirst(); !errors.Is(err, union.ErrInvalidState) {
		t.Fatalf("GetFirst() must fail with ErrInvalidState; got %v", err)
	}
	if _, err := u.GetSecond(); !errors.Is(err, union.ErrInvalidState) {
		t.Fatalf("GetSecond() must fail with ErrInvalidState; got %v", err)
	}
	if u.Hash() != 0 {
		t.Fatalf("zero value hash must be 0; got %d", u.Hash())
	}
	if u.String() != "Union(empty)" {
		t.Fatalf("unexpected rendering %q", u.String())
	}
	if u.MatchesType(reflect.TypeFor[string]()) {
		t.Fatalf("zero value must match no type")
	}
	if _, err := union.Match(u, func(string) int { return 1 }, func(int) int { return 2 }); !errors.Is(err, union.ErrInvariantViolation) {
		t.Fatalf("Match on zero value must fail with ErrInvariantViolation; got %v", err)
	}
}

func TestOf(t *testing.T) {
	f := func(value any, wantFirst bool) {
		t.Helper()

		u, err := union.Of[string, int](value)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if u.IsFirst() != wantFirst {
			t.Fatalf("unexpected alternative for %v: %s", value, u)
		}
		var got any
		if wantFirst {
			got, err = u.GetFirst()
		} else {
			got, err = u.GetSecond()
		}
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if diff := cmp.Diff(value, got); diff != "" {
			t.Fatalf("unexpected value (-want +got):\n%s", diff)
		}
	}

	f("test", true)
	f("", true)
	f(42, false)

	for _, v := range []any{3.14, nil, int64(42), []string{"test"}} {
		_, err := union.Of[string, int](v)
		if !errors.Is(err, union.ErrTypeMismatch) {
			t.Fatalf("%v must fail with ErrTypeMismatch; got %v", v, err)
		}
	}
}

func TestOfPriority(t *testing.T) {
	u, err := union.Of[any, int](42)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !u.IsFirst() {
		t.Fatalf("value fitting both alternatives must take the first one; got %s", u)
	}

	u2, err := union.Of[int, int](42)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !u2.IsFirst() {
		t.Fatalf("value fitting both alternatives must take the first one; got %s", u2)
	}
}

func TestOfFunc(t *testing.T) {
	type celsius float64
	type kelvin float64

	asCelsius := func(v any) (celsius, bool) {
		switch x := v.(type) {
		case celsius:
			return x, true
		case float64:
			return celsius(x), x < 1000
		default:
			return 0, false
		}
	}
	asKelvin := func(v any) (kelvin, bool) {
		switch x := v.(type) {
		case kelvin:
			return x, true
		case float64:
			return kelvin(x), true
		default:
			return 0, false
		}
	}

	u, err := union.OfFunc(20.0, asCelsius, asKelvin)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !u.Equal(union.First[celsius, kelvin](20)) {
		t.Fatalf("unexpected union %s", u)
	}

	u, err = union.OfFunc(5000.0, asCelsius, asKelvin)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !u.Equal(union.Second[celsius, kelvin](5000)) {
		t.Fatalf("unexpected union %s", u)
	}

	if _, err := union.OfFunc("hot", asCelsius, asKelvin); !errors.Is(err, union.ErrTypeMismatch) {
		t.Fatalf("must fail with ErrTypeMismatch; got %v", err)
	}
}

func TestMatchesType(t *testing.T) {
	a := union.First[string, int]("test")
	b := union.Second[string, int](42)

	if !a.MatchesType(reflect.TypeFor[string]()) || a.MatchesType(reflect.TypeFor[int]()) {
		t.Fatalf("%s must match string only", a)
	}
	if !b.MatchesType(reflect.TypeFor[int]()) || b.MatchesType(reflect.TypeFor[string]()) {
		t.Fatalf("%s must match int only", b)
	}
	if union.Holds[float64](a) {
		t.Fatalf("%s must not hold float64", a)
	}
	if !union.Holds[int](b) {
		t.Fatalf("%s must hold int", b)
	}

	var err error = errors.New("boom")
	c := union.First[error, int](err)
	if !c.MatchesType(reflect.TypeOf(err)) {
		t.Fatalf("the runtime type of the stored value must be used")
	}
	if union.Holds[error](c) {
		t.Fatalf("the static interface type is not the runtime type")
	}
}

func TestEqual(t *testing.T) {
	x := union.First[string, int]("test")
	y := union.First[string, int]("test")
	z := union.First[string, int]("test")
	other := union.Second[string, int](42)

	if !x.Equal(x) {
		t.Fatalf("equality must be reflexive")
	}
	if !x.Equal(y) || !y.Equal(x) {
		t.Fatalf("equality must be symmetric")
	}
	if !y.Equal(z) || !x.Equal(z) {
		t.Fatalf("equality must be transitive")
	}
	if x.Equal(other) || other.Equal(x) {
		t.Fatalf("different alternatives must not be equal")
	}
	if x.Hash() != y.Hash() {
		t.Fatalf("equal unions must have equal hashes")
	}
	if x.Hash() == other.Hash() {
		t.Fatalf("unexpected hash collision")
	}

	// same rendering in different slots
	p := union.First[string, string]("42")
	q := union.Second[string, string]("42")
	if p.Equal(q) {
		t.Fatalf("%s and %s must not be equal", p, q)
	}

	var e1, e2 union.Union[string, int]
	if !e1.Equal(e2) {
		t.Fatalf("empty unions must be equal")
	}
	if e1.Equal(x) {
		t.Fatalf("empty union must not be equal to a set one")
	}
}

func TestEqualUsesEqualMethod(t *testing.T) {
	moment := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	local := moment.In(time.FixedZone("UTC+3", 3*60*60))

	a := union.First[time.Time, string](moment)
	b := union.First[time.Time, string](local)
	if !a.Equal(b) {
		t.Fatalf("the same instant in different zones must be equal")
	}

	if a.Hash() != b.Hash() {
		t.Fatalf("unions equal by the Equal method must have equal hashes")
	}

	s1 := union.Second[int, []string]([]string{"a", "b"})
	s2 := union.Second[int, []string]([]string{"a", "b"})
	if !s1.Equal(s2) {
		t.Fatalf("slices must be compared deeply")
	}
	if s1.Hash() != s2.Hash() {
		t.Fatalf("deeply equal unions must have equal hashes")
	}
}

func TestEqualHashConsistent(t *testing.T) {
	f := func(x, y union.Union[any, string], wantEqual bool) {
		t.Helper()

		if got := x.Equal(y); got != wantEqual {
			t.Fatalf("%s equal to %s: got %v; want %v", x, y, got, wantEqual)
		}
		if got := y.Equal(x); got != wantEqual {
			t.Fatalf("equality must be symmetric for %s and %s", x, y)
		}
		if wantEqual && x.Hash() != y.Hash() {
			t.Fatalf("equal %s and %s have different hashes %x and %x", x, y, x.Hash(), y.Hash())
		}
	}

	type pair struct {
		name  string
		value float64
	}
	a, b := 5, 5

	f(union.First[any, string](0.0), union.First[any, string](math.Copysign(0, -1)), true)
	f(union.First[any, string](&a), union.First[any, string](&a), true)
	f(union.First[any, string](&a), union.First[any, string](&b), false)
	f(union.First[any, string](pair{"x", 0}), union.First[any, string](pair{"x", math.Copysign(0, -1)}), true)
	f(union.First[any, string](int64(1)), union.First[any, string](1), false)
	f(union.First[any, string](nil), union.First[any, string](nil), true)
	f(
		union.First[any, string](map[string][]int{"a": {1}, "b": {2}}),
		union.First[any, string](map[string][]int{"b": {2}, "a": {1}}),
		true,
	)
	f(union.First[any, string]([]*int{&a}), union.First[any, string]([]*int{&b}), true)
	f(union.Second[any]("x"), union.Second[any]("x"), true)
}

func TestEqualPointers(t *testing.T) {
	x, y := 5, 5

	p := union.First[*int, string](&x)
	q := union.First[*int, string](&y)
	if p.Equal(q) {
		t.Fatalf("distinct pointers must not be equal even when their targets are")
	}
	if !p.Equal(union.First[*int, string](&x)) {
		t.Fatalf("the same pointer must be equal")
	}
	if p.Hash() != union.First[*int, string](&x).Hash() {
		t.Fatalf("the same pointer must have the same hash")
	}

	zero := union.First[float64, string](0.0)
	negZero := union.First[float64, string](math.Copysign(0, -1))
	if !zero.Equal(negZero) {
		t.Fatalf("0 and -0 must be equal")
	}
	if zero.Hash() != negZero.Hash() {
		t.Fatalf("0 and -0 must have the same hash")
	}
}

func TestString(t *testing.T) {
	f := func(u fmtStringer, want string) {
		t.Helper()

		if got := u.String(); got != want {
			t.Fatalf("unexpected rendering; got %q; want %q", got, want)
		}
	}

	f(union.First[string, int]("test"), "Union(first=string: test)")
	f(union.Second[string, int](42), "Union(second=int: 42)")
	f(union.Second[string, float64](1.5), "Union(second=float64: 1.5)")
}

type fmtStringer interface {
	String() string
}

func TestMatch(t *testing.T) {
	describe := func(u union.Union[string, int]) string {
		res, err := union.Match(
			u,
			func(s string) string { return "First: " + s },
			func(n int) string { return "Second: " + time.Duration(n).String() },
		)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		return res
	}

	if got := describe(union.First[string, int]("Hello")); got != "First: Hello" {
		t.Fatalf("unexpected result %q", got)
	}
	if got := describe(union.Second[string, int](42)); got != "Second: 42ns" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestCustomTypes(t *testing.T) {
	type customA struct {
		data string
	}
	type customB struct {
		number int
	}

	a := union.First[customA, customB](customA{data: "data"})
	v, err := a.GetFirst()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if v.data != "data" {
		t.Fatalf("unexpected value %+v", v)
	}

	b := union.Second[customA](customB{number: 42})
	w, err := b.GetSecond()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if w.number != 42 {
		t.Fatalf("unexpected value %+v", w)
	}
}
