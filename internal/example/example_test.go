package example

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sirkon/go-union"
)

func TestProcessSingle(t *testing.T) {
	f := func(got, want string) {
		t.Helper()

		if got != want {
			t.Fatalf("unexpected result; got %q; want %q", got, want)
		}
	}

	f(processSingleString("Hello"), "First: Hello")
	f(processSingleInt(42), "Second: 42")
	f(processSingleString("Hello"), processSingle(union.First[string, int]("Hello")))
	f(processSingle(union.Union[string, int]{}), "Invalid")
}

func TestProcessMultiple(t *testing.T) {
	f := func(got, want string) {
		t.Helper()

		if got != want {
			t.Fatalf("unexpected result; got %q; want %q", got, want)
		}
	}

	f(processMultipleStringFloat32("Test", "StringValue", 1.5), "Name: Test, Value: StringValue, Scale: 1.5")
	f(processMultipleIntFloat64("Test", 42, 2.0), "Name: Test, Value: 42, Scale: 2")
	f(processMultipleStringFloat64("Test", "StringValue", 2.0), "Name: Test, Value: StringValue, Scale: 2")
	f(processMultipleIntFloat32("Test", 42, 1.5), "Name: Test, Value: 42, Scale: 1.5")
	f(
		processMultipleIntFloat32("Test", 42, 1.5),
		processMultiple("Test", union.Second[string, int](42), union.First[float32, float64](1.5)),
	)
}

func TestVecAdd(t *testing.T) {
	v := Vec{X: 1, Y: 2}

	if diff := cmp.Diff(Vec{X: 4, Y: 6}, VecAddVec(v, Vec{X: 3, Y: 4})); diff != "" {
		t.Fatalf("unexpected sum (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Vec{X: 1.5, Y: 2.5}, VecAddFloat64(v, 0.5)); diff != "" {
		t.Fatalf("unexpected sum (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(v.Add(union.Second[Vec, float64](0.5)), VecAddFloat64(v, 0.5)); diff != "" {
		t.Fatalf("overload must match the direct call (-want +got):\n%s", diff)
	}
}

func TestBoardSet(t *testing.T) {
	var b Board
	b.SetString("name", "gopher")
	b.SetError("status", errors.New("offline"))
	b.Set("direct", union.First[string, error]("call"))

	want := []string{"name=gopher", "status=error: offline", "direct=call"}
	if diff := cmp.Diff(want, b.Items()); diff != "" {
		t.Fatalf("unexpected items (-want +got):\n%s", diff)
	}
}
