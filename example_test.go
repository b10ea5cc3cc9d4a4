package union_test

import (
	"fmt"

	"github.com/sirkon/go-union"
)

func ExampleOf() {
	for _, v := range []any{"Hello", 42, 3.14} {
		u, err := union.Of[string, int](v)
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Println(u)
	}

	// Output:
	// Union(first=string: Hello)
	// Union(second=int: 42)
	// value matches neither alternative: float64 is neither string nor int
}

func ExampleMatch() {
	u := union.Second[string, int](42)
	res, _ := union.Match(
		u,
		func(s string) string { return "First: " + s },
		func(n int) string { return fmt.Sprintf("Second: %d", n) },
	)
	fmt.Println(res)

	// Output:
	// Second: 42
}
