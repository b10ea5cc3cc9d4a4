// Package collect finds functions marked for overload expansion and describes them as signature.Function records.
package collect

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/printer"
	"go/token"
	"go/types"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/sirkon/gotify"

	"github.com/sirkon/go-union/internal/signature"
)

const (
	// DefaultDirective marks functions to generate overloads for
	DefaultDirective = "union:overload"

	// DefaultUnionPackage is the import path of the package declaring Union
	DefaultUnionPackage = "github.com/sirkon/go-union"

	infixOption = "infix"
	unionName   = "Union"
)

var (
	// ErrUnresolved marks symbols which cannot be processed right now
	ErrUnresolved = errors.New("unresolved symbol")

	errInvalidType = errors.New("type cannot be resolved")
)

// Unresolved a marked declaration which cannot be processed. It may become resolvable once other code is generated.
type Unresolved struct {
	Pos string
	// File declaring the symbol
	File string
	// Name of the symbol, Type.Method for methods
	Name   string
	Reason error
}

func (u *Unresolved) Error() string {
	return fmt.Sprintf("%s: %s: %s", u.Pos, u.Name, u.Reason)
}

// Unwrap makes Unresolved match both ErrUnresolved and its reason
func (u *Unresolved) Unwrap() []error {
	return []error{ErrUnresolved, u.Reason}
}

// Options of collection
type Options struct {
	UnionPackage string
	Directive    string
}

func (o Options) withDefaults() Options {
	if o.UnionPackage == "" {
		o.UnionPackage = DefaultUnionPackage
	}
	if o.Directive == "" {
		o.Directive = DefaultDirective
	}
	return o
}

// Package a type checked package
type Package struct {
	Name    string
	PkgPath string
	Fset    *token.FileSet
	Files   []*ast.File
	Types   *types.Package
	Info    *types.Info
}

// Result of package inspection
type Result struct {
	Functions  []*signature.Function
	Unresolved []*Unresolved
	Warnings   []string
}

// Inspect collects marked functions of the package. Marked functions without union parameters are ignored.
func Inspect(pkg *Package, opts Options) *Result {
	c := &collector{
		pkg:      pkg,
		opts:     opts.withDefaults(),
		gotifier: gotify.New(nil),
		res:      &Result{},
	}
	for _, file := range pkg.Files {
		c.file(file)
	}
	return c.res
}

type collector struct {
	pkg      *Package
	opts     Options
	gotifier *gotify.Gotify
	res      *Result
}

func (c *collector) file(file *ast.File) {
	for _, decl := range file.Decls {
		switch v := decl.(type) {
		case *ast.FuncDecl:
			marked, infix, err := c.directive(v.Doc)
			if !marked {
				continue
			}
			if err != nil {
				c.unresolved(v.Pos(), declName(v), err)
				continue
			}
			fn, err := c.function(file, v, infix)
			if err != nil {
				c.unresolved(v.Pos(), declName(v), err)
				continue
			}
			if !fn.Eligible() {
				continue
			}
			if fn.Infix && len(fn.Params) != 1 {
				c.res.Warnings = append(c.res.Warnings, fmt.Sprintf(
					"%s: %s: infix needs exactly one parameter, got %d, generating regular overloads",
					fn.Pos,
					fn.FullName(),
					len(fn.Params),
				))
			}
			c.res.Functions = append(c.res.Functions, fn)
		case *ast.GenDecl:
			if marked, _, _ := c.directive(v.Doc); marked {
				c.unresolved(v.Pos(), v.Tok.String(), errors.New("directive can only be applied to functions"))
			}
		}
	}
}

// directive looks for the directive in the comment group
func (c *collector) directive(doc *ast.CommentGroup) (marked bool, infix bool, err error) {
	if doc == nil {
		return false, false, nil
	}

	for _, comment := range doc.List {
		text := strings.TrimPrefix(comment.Text, "//")
		if text == comment.Text {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) == 0 || fields[0] != c.opts.Directive || !strings.HasPrefix(text, c.opts.Directive) {
			continue
		}
		for _, option := range fields[1:] {
			if option != infixOption {
				return true, false, fmt.Errorf("unknown %s option %q", c.opts.Directive, option)
			}
			infix = true
		}
		return true, infix, nil
	}

	return false, false, nil
}

func (c *collector) unresolved(pos token.Pos, name string, err error) {
	position := c.pkg.Fset.Position(pos)
	c.res.Unresolved = append(c.res.Unresolved, &Unresolved{
		Pos:    position.String(),
		File:   position.Filename,
		Name:   name,
		Reason: err,
	})
}

// declName returns the name of the declaration as signature.Function.FullName does, it works without type
// information
func declName(decl *ast.FuncDecl) string {
	if decl.Recv == nil || len(decl.Recv.List) == 0 {
		return decl.Name.Name
	}

	expr := decl.Recv.List[0].Type
	for {
		switch v := expr.(type) {
		case *ast.StarExpr:
			expr = v.X
			continue
		case *ast.ParenExpr:
			expr = v.X
			continue
		case *ast.IndexExpr:
			expr = v.X
			continue
		case *ast.IndexListExpr:
			expr = v.X
			continue
		case *ast.Ident:
			return v.Name + "." + decl.Name.Name
		}
		return decl.Name.Name
	}
}

func (c *collector) function(file *ast.File, decl *ast.FuncDecl, infix bool) (*signature.Function, error) {
	obj, ok := c.pkg.Info.Defs[decl.Name].(*types.Func)
	if !ok {
		return nil, fmt.Errorf("no type information for %s", decl.Name.Name)
	}
	sig, ok := obj.Type().(*types.Signature)
	if !ok {
		return nil, fmt.Errorf("%s is not a function", decl.Name.Name)
	}

	q := newQualifier(c.pkg, file)
	pos := c.pkg.Fset.Position(decl.Pos())
	fn := &signature.Function{
		Package:  c.pkg.Name,
		PkgPath:  c.pkg.PkgPath,
		File:     pos.Filename,
		Pos:      pos.String(),
		Name:     decl.Name.Name,
		Infix:    infix,
		Variadic: sig.Variadic(),
	}

	if recv := sig.Recv(); recv != nil {
		r, err := c.receiver(q, recv, sig.RecvTypeParams())
		if err != nil {
			return nil, fmt.Errorf("receiver: %w", err)
		}
		fn.Receiver = r
	}

	tps, err := c.typeParams(q, sig.TypeParams())
	if err != nil {
		return nil, err
	}
	fn.TypeParams = tps

	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		p := params.At(i)
		param, err := c.param(q, p, fn.Variadic && i == params.Len()-1)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", paramName(p, i), err)
		}
		if param.Sum != nil && fn.Union == "" {
			fn.Union = q.qualify(param.unionPkg)
		}
		fn.Params = append(fn.Params, param.Param)
	}

	results := sig.Results()
	for i := 0; i < results.Len(); i++ {
		text, err := q.typeString(results.At(i).Type())
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}
		fn.Results = append(fn.Results, text)
	}

	fn.Imports = q.imports()
	fn.BuildConstraint = buildConstraint(file)
	sum, err := checksum(c.pkg.Fset, decl)
	if err != nil {
		return nil, fmt.Errorf("checksum: %w", err)
	}
	fn.Checksum = sum

	return fn, nil
}

func (c *collector) receiver(q *qualifier, recv *types.Var, tparams *types.TypeParamList) (*signature.Receiver, error) {
	text, err := q.typeString(recv.Type())
	if err != nil {
		return nil, err
	}

	t := recv.Type()
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return nil, fmt.Errorf("unsupported receiver type %s", text)
	}

	tps, err := c.typeParams(q, tparams)
	if err != nil {
		return nil, err
	}

	return &signature.Receiver{
		Name:       recv.Name(),
		Type:       text,
		Base:       named.Obj().Name(),
		TypeParams: tps,
	}, nil
}

func (c *collector) typeParams(q *qualifier, list *types.TypeParamList) ([]signature.TypeParam, error) {
	if list == nil || list.Len() == 0 {
		return nil, nil
	}

	res := make([]signature.TypeParam, list.Len())
	for i := 0; i < list.Len(); i++ {
		tp := list.At(i)
		constraint, err := q.typeString(tp.Constraint())
		if err != nil {
			return nil, fmt.Errorf("type parameter %s: %w", tp.Obj().Name(), err)
		}
		res[i] = signature.TypeParam{
			Name:       tp.Obj().Name(),
			Constraint: constraint,
		}
	}
	return res, nil
}

type param struct {
	signature.Param
	unionPkg *types.Package
}

func (c *collector) param(q *qualifier, p *types.Var, variadic bool) (param, error) {
	if variadic {
		slice, ok := p.Type().(*types.Slice)
		if !ok {
			return param{}, fmt.Errorf("unexpected variadic parameter type %s", p.Type())
		}
		text, err := q.typeString(slice.Elem())
		if err != nil {
			return param{}, err
		}
		return param{Param: signature.Param{Name: p.Name(), Type: "..." + text}}, nil
	}

	named, ok := c.union(p.Type())
	if !ok {
		text, err := q.typeString(p.Type())
		if err != nil {
			return param{}, err
		}
		return param{Param: signature.Param{Name: p.Name(), Type: text}}, nil
	}

	args := named.TypeArgs()
	first, err := c.alternative(q, args.At(0))
	if err != nil {
		return param{}, fmt.Errorf("first alternative: %w", err)
	}
	second, err := c.alternative(q, args.At(1))
	if err != nil {
		return param{}, fmt.Errorf("second alternative: %w", err)
	}

	return param{
		Param: signature.Param{
			Name: p.Name(),
			Type: q.peek(p.Type()),
			Sum: &signature.Alternatives{
				First:  first,
				Second: second,
			},
		},
		unionPkg: named.Obj().Pkg(),
	}, nil
}

func (c *collector) alternative(q *qualifier, t types.Type) (signature.Alternative, error) {
	text, err := q.typeString(t)
	if err != nil {
		return signature.Alternative{}, err
	}
	return signature.Alternative{
		Type:   text,
		Suffix: c.suffix(t),
	}, nil
}

// union checks if t is an instantiation of Union
func (c *collector) union(t types.Type) (*types.Named, bool) {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return nil, false
	}
	obj := named.Origin().Obj()
	if obj.Pkg() == nil || obj.Pkg().Path() != c.opts.UnionPackage || obj.Name() != unionName {
		return nil, false
	}
	if named.TypeArgs().Len() != 2 {
		return nil, false
	}
	return named, true
}

// suffix builds a Go identifier out of the type to tell overloads apart. Empty for types which have no natural name.
func (c *collector) suffix(t types.Type) string {
	switch v := t.(type) {
	case *types.Alias:
		return c.gotifier.Public(v.Obj().Name())
	case *types.Basic:
		return c.gotifier.Public(v.Name())
	case *types.Named:
		res := c.gotifier.Public(v.Obj().Name())
		args := v.TypeArgs()
		for i := 0; i < args.Len(); i++ {
			res += c.suffix(args.At(i))
		}
		return res
	case *types.TypeParam:
		return c.gotifier.Public(v.Obj().Name())
	case *types.Pointer:
		return c.wrapped(v.Elem(), "", "Ptr")
	case *types.Slice:
		return c.wrapped(v.Elem(), "", "Slice")
	case *types.Array:
		return c.wrapped(v.Elem(), "", "Array")
	case *types.Map:
		key := c.suffix(v.Key())
		if key == "" {
			return ""
		}
		return c.wrapped(v.Elem(), "Map"+key, "")
	case *types.Interface:
		if v.Empty() {
			return "Any"
		}
		return ""
	default:
		return ""
	}
}

func (c *collector) wrapped(t types.Type, prefix, suffix string) string {
	inner := c.suffix(t)
	if inner == "" {
		return ""
	}
	return prefix + inner + suffix
}

func paramName(p *types.Var, i int) string {
	if p.Name() == "" {
		return "#" + strconv.Itoa(i)
	}
	return p.Name()
}

// buildConstraint returns the //go:build line of the file
func buildConstraint(file *ast.File) string {
	for _, group := range file.Comments {
		if group.Pos() >= file.Package {
			break
		}
		for _, comment := range group.List {
			if strings.HasPrefix(comment.Text, "//go:build ") {
				return comment.Text
			}
		}
	}
	return ""
}

func checksum(fset *token.FileSet, decl *ast.FuncDecl) (uint64, error) {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, decl); err != nil {
		return 0, err
	}
	return xxhash.Sum64(buf.Bytes()), nil
}
