// Package expand turns a function with union parameters into the set of its forwarding overloads.
//
// Expansion is pure: the same function always yields the same overloads in the same order.
package expand

import (
	"errors"
	"fmt"
	"go/scanner"
	"go/token"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sirkon/go-union/internal/signature"
)

// ErrDuplicateOverload is returned when two combinations of the same function produce the same overload name.
// Go has no overloading, the generated code would not compile.
var ErrDuplicateOverload = errors.New("duplicate overload")

const (
	firstFactory  = "First"
	secondFactory = "Second"
)

// Combinations returns all 2^k choices of alternatives for k sum-typed parameters. The first alternative
// goes before the second one and the last parameter varies fastest.
func Combinations(k int) [][]signature.Choice {
	res := [][]signature.Choice{{}}
	for i := 0; i < k; i++ {
		next := make([][]signature.Choice, 0, len(res)*2)
		for _, prefix := range res {
			for _, c := range []signature.Choice{signature.ChooseFirst, signature.ChooseSecond} {
				comb := make([]signature.Choice, 0, k)
				comb = append(comb, prefix...)
				comb = append(comb, c)
				next = append(next, comb)
			}
		}
		res = next
	}
	return res
}

// ConventionOf returns the calling convention of overloads of the given function
func ConventionOf(fn *signature.Function) signature.Convention {
	switch {
	case fn.Infix && len(fn.Params) == 1:
		return signature.Infix
	case fn.Receiver != nil:
		return signature.Method
	default:
		return signature.Plain
	}
}

// Expand returns overloads of fn, nil for functions without sum-typed parameters
func Expand(fn *signature.Function) ([]*signature.Overload, error) {
	sums := fn.SumParams()
	if len(sums) == 0 {
		return nil, nil
	}

	conv := ConventionOf(fn)
	names := paramNames(fn, conv)
	var recv string
	if fn.Receiver != nil {
		taken := append(bodyIdents(fn, conv), names...)
		recv = receiverName(fn, taken)
	}
	combs := Combinations(len(sums))

	res := make([]*signature.Overload, 0, len(combs))
	seen := map[string][]signature.Choice{}
	for _, comb := range combs {
		o := synthesize(fn, conv, names, recv, sums, comb)
		if prev, ok := seen[o.Name]; ok {
			return nil, fmt.Errorf(
				"%w: %s is generated for both %s and %s",
				ErrDuplicateOverload,
				o.Name,
				describe(fn, sums, prev),
				describe(fn, sums, comb),
			)
		}
		seen[o.Name] = comb
		res = append(res, o)
	}

	return res, nil
}

func synthesize(
	fn *signature.Function,
	conv signature.Convention,
	names []string,
	recv string,
	sums []int,
	comb []signature.Choice,
) *signature.Overload {
	o := &signature.Overload{
		Source:      fn,
		Convention:  conv,
		Combination: comb,
		Params:      make([]signature.Param, len(fn.Params)),
		Args:        make([]string, len(fn.Params)),
	}

	var suffix strings.Builder
	sumIndex := 0
	for i, p := range fn.Params {
		name := names[i]
		if p.Sum == nil {
			o.Params[i] = signature.Param{Name: name, Type: p.Type}
			o.Args[i] = name
			continue
		}

		choice := comb[sumIndex]
		sumIndex++
		alt, factory := p.Sum.First, firstFactory
		if choice == signature.ChooseSecond {
			alt, factory = p.Sum.Second, secondFactory
		}
		altSuffix := alt.Suffix
		if altSuffix == "" {
			altSuffix = factory
		}
		suffix.WriteString(altSuffix)

		o.Params[i] = signature.Param{Name: name, Type: alt.Type}
		o.Args[i] = fmt.Sprintf("%s%s[%s, %s](%s)", qualifier(fn.Union), factory, p.Sum.First.Type, p.Sum.Second.Type, name)
	}
	if fn.Variadic && len(o.Args) > 0 {
		o.Args[len(o.Args)-1] += "..."
	}

	switch conv {
	case signature.Plain:
		o.Name = fn.Name + suffix.String()
		o.TypeParams = fn.TypeParams
		o.TypeArgs = typeArgs(fn.TypeParams)
	case signature.Method:
		o.Name = fn.Name + suffix.String()
		o.Receiver = recv
	case signature.Infix:
		if fn.Receiver == nil {
			o.Name = fn.Name + suffix.String()
			o.TypeParams = fn.TypeParams
			o.TypeArgs = typeArgs(fn.TypeParams)
			break
		}
		o.Name = infixName(fn) + suffix.String()
		o.Left = &signature.Param{
			Name: recv,
			Type: fn.Receiver.Type,
		}
		o.TypeParams = fn.Receiver.TypeParams
	}

	return o
}

func receiverName(fn *signature.Function, taken []string) string {
	name := fn.Receiver.Name
	if name == "" || name == "_" {
		name = "recv"
		if ConventionOf(fn) == signature.Infix {
			name = "lhs"
		}
	}
	return unique(name, taken)
}

// paramNames returns parameter names to use in overloads. Missing and blank names are replaced, names hiding
// identifiers the forwarding call refers to are renamed.
func paramNames(fn *signature.Function, conv signature.Convention) []string {
	reserved := bodyIdents(fn, conv)
	taken := make([]string, 0, len(fn.Params)+len(fn.TypeParams)+len(reserved)+1)
	taken = append(taken, reserved...)
	for _, p := range fn.Params {
		if p.Name != "" && p.Name != "_" && !contains(reserved, p.Name) {
			taken = append(taken, p.Name)
		}
	}
	for _, tp := range fn.TypeParams {
		taken = append(taken, tp.Name)
	}
	if fn.Receiver != nil {
		if fn.Receiver.Name != "" && fn.Receiver.Name != "_" && !contains(reserved, fn.Receiver.Name) {
			taken = append(taken, fn.Receiver.Name)
		}
		for _, tp := range fn.Receiver.TypeParams {
			taken = append(taken, tp.Name)
		}
	}

	res := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		switch {
		case p.Name == "" || p.Name == "_":
			base := "p" + strconv.Itoa(i)
			if conv == signature.Infix {
				base = "rhs"
			}
			res[i] = unique(base, taken)
		case contains(reserved, p.Name):
			res[i] = unique(p.Name, taken)
		default:
			res[i] = p.Name
			continue
		}
		taken = append(taken, res[i])
	}

	return res
}

// bodyIdents returns identifiers the forwarding call refers to besides parameters: the union package,
// the function itself for calls without a receiver and names used in alternative types.
func bodyIdents(fn *signature.Function, conv signature.Convention) []string {
	var res []string
	add := func(name string) {
		if name != "" && !contains(res, name) {
			res = append(res, name)
		}
	}

	if fn.Union == "" {
		// dot imported union package
		add(firstFactory)
		add(secondFactory)
	} else {
		add(fn.Union)
	}
	if fn.Receiver == nil {
		add(fn.Name)
	}
	for _, p := range fn.Params {
		if p.Sum == nil {
			continue
		}
		for _, text := range []string{p.Sum.First.Type, p.Sum.Second.Type} {
			for _, ident := range typeIdents(text) {
				add(ident)
			}
		}
	}
	return res
}

// typeIdents returns identifiers of the type expression text
func typeIdents(text string) []string {
	var s scanner.Scanner
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(text))
	s.Init(file, []byte(text), nil, 0)

	var res []string
	for {
		_, tok, lit := s.Scan()
		if tok == token.EOF {
			return res
		}
		if tok == token.IDENT {
			res = append(res, lit)
		}
	}
}

func unique(name string, taken []string) string {
	candidate := name
	for i := 1; contains(taken, candidate); i++ {
		candidate = name + "_" + strconv.Itoa(i)
	}
	return candidate
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// infixName builds a free function name out of receiver base type and method name. The case of the first letter
// follows the method name to keep visibility.
func infixName(fn *signature.Function) string {
	first, _ := utf8.DecodeRuneInString(fn.Name)
	base := fn.Receiver.Base
	if unicode.IsUpper(first) {
		base = upperFirst(base)
	} else {
		base = lowerFirst(base)
	}
	return base + upperFirst(fn.Name)
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

func qualifier(pkg string) string {
	if pkg == "" {
		return ""
	}
	return pkg + "."
}

func typeArgs(params []signature.TypeParam) []string {
	if len(params) == 0 {
		return nil
	}
	res := make([]string, len(params))
	for i, tp := range params {
		res[i] = tp.Name
	}
	return res
}

func describe(fn *signature.Function, sums []int, comb []signature.Choice) string {
	parts := make([]string, len(sums))
	for i, idx := range sums {
		p := fn.Params[idx]
		if comb[i] == signature.ChooseFirst {
			parts[i] = p.Sum.First.Type
		} else {
			parts[i] = p.Sum.Second.Type
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
