package example

import (
	"github.com/sirkon/go-union"
)

// Vec a vector on a plane
type Vec struct {
	X float64
	Y float64
}

// Add adds either a vector or a scalar to both coordinates.
//
//union:overload infix
func (v Vec) Add(rhs union.Union[Vec, float64]) Vec {
	if w, err := rhs.GetFirst(); err == nil {
		return Vec{X: v.X + w.X, Y: v.Y + w.Y}
	}
	d, _ := rhs.GetSecond()
	return Vec{X: v.X + d, Y: v.Y + d}
}

// Board keeps labeled values
type Board struct {
	items []string
}

// Set records a value under the key.
//
//union:overload
func (b *Board) Set(key string, value union.Union[string, error]) {
	text, err := value.GetFirst()
	if err != nil {
		e, _ := value.GetSecond()
		text = "error: " + e.Error()
	}
	b.items = append(b.items, key+"="+text)
}

// Items returns records in the order they were set
func (b *Board) Items() []string {
	return b.items
}
