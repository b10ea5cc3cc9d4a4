// Package signature describes functions eligible for overload expansion and the overloads produced out of them.
// All types and values here are plain Go source texts: resolution happens before, synthesis after.
package signature

// Function a function or method marked for overload expansion
type Function struct {
	Package string // package name
	PkgPath string
	File    string // path of the file declaring the function
	Pos     string // position of the declaration for diagnostics

	Name       string
	Receiver   *Receiver
	TypeParams []TypeParam
	Params     []Param
	Results    []string
	Variadic   bool
	Infix      bool

	// Union is the qualifier referring to the union package from the generated code, empty if the function
	// is declared in the union package itself.
	Union string

	// Imports are imports needed by type texts of the function.
	Imports []Import

	// Checksum of the declaration source.
	Checksum uint64

	// BuildConstraint is the //go:build line of the declaring file, if any.
	BuildConstraint string
}

// Receiver method receiver
type Receiver struct {
	Name       string // can be empty
	Type       string // receiver type text, e.g. *List[T]
	Base       string // base type name, e.g. List
	TypeParams []TypeParam
}

// TypeParam type parameter with its constraint
type TypeParam struct {
	Name       string
	Constraint string
}

// Param function parameter
type Param struct {
	Name string // can be empty or _
	Type string
	Sum  *Alternatives // not nil for sum-typed parameters
}

// Alternatives two types of a sum-typed parameter
type Alternatives struct {
	First  Alternative
	Second Alternative
}

// Alternative type of a union alternative and a name suffix to tell overloads apart
type Alternative struct {
	Type   string
	Suffix string
}

// Import package import
type Import struct {
	Name string // name the package is referred with, "." for dot imports
	Path string
}

// Eligible checks if the function has sum-typed parameters
func (f *Function) Eligible() bool {
	for _, p := range f.Params {
		if p.Sum != nil {
			return true
		}
	}
	return false
}

// SumParams returns indices of sum-typed parameters in declaration order
func (f *Function) SumParams() []int {
	var res []int
	for i, p := range f.Params {
		if p.Sum != nil {
			res = append(res, i)
		}
	}
	return res
}

// FullName function name qualified with receiver base type for methods
func (f *Function) FullName() string {
	if f.Receiver != nil {
		return f.Receiver.Base + "." + f.Name
	}
	return f.Name
}
