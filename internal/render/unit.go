// Package render synthesizes Go source of generated overloads.
package render

import (
	"bytes"
	"fmt"
	"go/parser"
	"go/printer"
	"go/token"
	"path"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/ettle/strcase"
	"github.com/sirkon/gosrcfmt"
	"golang.org/x/tools/go/ast/astutil"

	"github.com/sirkon/go-union/internal/signature"
)

const (
	// Header marks files produced by the generator
	Header = "// Code generated by go-union-overload. DO NOT EDIT."

	// DefaultFileSuffix is appended to names of generated files
	DefaultFileSuffix = "_overloads"
)

// Options of rendering
type Options struct {
	FileSuffix string
}

// Unit a generated file with all overloads of one declaration
type Unit struct {
	Path    string
	Source  *signature.Function
	Content []byte
}

// FileName returns path of the unit generated for the given function
func FileName(fn *signature.Function, suffix string) string {
	return unitPath(fn, stem(fn), suffix)
}

// TaggedFileName returns path of the unit with a tag derived from the full name of the function. It is used
// when names of different declarations map to the same file, like Process and process do.
func TaggedFileName(fn *signature.Function, suffix string) string {
	tag := xxhash.Sum64String(fn.PkgPath + "." + fn.FullName())
	return unitPath(fn, fmt.Sprintf("%s_%08x", stem(fn), uint32(tag)), suffix)
}

func stem(fn *signature.Function) string {
	if fn.Receiver != nil {
		return strcase.ToSnake(fn.Receiver.Base) + "_" + strcase.ToSnake(fn.Name)
	}
	return strcase.ToSnake(fn.Name)
}

func unitPath(fn *signature.Function, name, suffix string) string {
	if suffix == "" {
		suffix = DefaultFileSuffix
	}

	name += suffix
	if strings.HasSuffix(fn.File, "_test.go") {
		name += "_test"
	}

	return filepath.Join(filepath.Dir(fn.File), name+".go")
}

// Render renders overloads of fn into a formatted unit
func Render(fn *signature.Function, overloads []*signature.Overload, opts Options) (*Unit, error) {
	var r Collector

	if fn.BuildConstraint != "" {
		r.Rawl(fn.BuildConstraint)
		r.Newl()
	}
	r.Rawl(Header)
	r.Comment(`Source: $0: $1, checksum $2.`, filepath.Base(fn.File), fn.FullName(), fmt.Sprintf("%016x", fn.Checksum))
	r.Newl()
	r.Line(`package $0`, fn.Package)
	r.Newl()

	if len(fn.Imports) > 0 {
		r.Rawl(`import (`)
		for _, imp := range fn.Imports {
			if imp.Name != path.Base(imp.Path) {
				r.Line(`$0 "$1"`, imp.Name, imp.Path)
			} else {
				r.Line(`"$0"`, imp.Path)
			}
		}
		r.Rawl(`)`)
		r.Newl()
	}

	for _, o := range overloads {
		overload(&r, o)
		r.Newl()
	}

	res, err := tidy(r.Bytes())
	if err != nil {
		return nil, fmt.Errorf("render overloads of %s: %w\n%s", fn.FullName(), err, r.Listing())
	}

	return &Unit{
		Path:    FileName(fn, opts.FileSuffix),
		Source:  fn,
		Content: res,
	}, nil
}

func overload(r *Collector, o *signature.Overload) {
	fn := o.Source

	r.Comment(`$0 calls $1 with $2.`, o.Name, original(fn), wrapped(o))

	params := paramList(o.Params)
	results := resultList(fn.Results)
	call := o.Source.Name + typeArgList(o.TypeArgs) + "(" + strings.Join(o.Args, ", ") + ")"

	var end func()
	switch o.Convention {
	case signature.Method:
		end = r.Block(`func ($0 $1) $2($3) $4`, o.Receiver, fn.Receiver.Type, o.Name, params, results)
		call = o.Receiver + "." + call
	case signature.Infix:
		if o.Left != nil {
			params = o.Left.Name + " " + o.Left.Type + ", " + params
			call = o.Left.Name + "." + call
		}
		end = r.Block(`func $0$1($2) $3`, o.Name, typeParamList(o.TypeParams), params, results)
	default:
		end = r.Block(`func $0$1($2) $3`, o.Name, typeParamList(o.TypeParams), params, results)
	}

	if len(fn.Results) > 0 {
		r.Line(`return $0`, call)
	} else {
		r.Rawl(call)
	}
	end()
}

func original(fn *signature.Function) string {
	if fn.Receiver != nil {
		return fn.Receiver.Base + "." + fn.Name
	}
	return fn.Name
}

// wrapped describes which alternatives the overload passes
func wrapped(o *signature.Overload) string {
	var parts []string
	sumIndex := 0
	for i, p := range o.Source.Params {
		if p.Sum == nil {
			continue
		}
		alt := "first"
		if o.Combination[sumIndex] == signature.ChooseSecond {
			alt = "second"
		}
		sumIndex++
		parts = append(parts, o.Params[i].Name+" as the "+alt)
	}

	switch len(parts) {
	case 1:
		return parts[0] + " alternative"
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1] + " alternatives"
	}
}

func paramList(params []signature.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name + " " + p.Type
	}
	return strings.Join(parts, ", ")
}

func resultList(results []string) string {
	switch len(results) {
	case 0:
		return ""
	case 1:
		return results[0]
	default:
		return "(" + strings.Join(results, ", ") + ")"
	}
}

func typeParamList(params []signature.TypeParam) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, len(params))
	for i, tp := range params {
		parts[i] = tp.Name + " " + tp.Constraint
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func typeArgList(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return "[" + strings.Join(args, ", ") + "]"
}

// tidy drops imports the synthesized code does not use and formats the result
func tidy(src []byte) ([]byte, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", src, parser.ParseComments|parser.AllErrors)
	if err != nil {
		return nil, err
	}

	type unused struct {
		name string
		path string
	}
	var drop []unused
	for _, spec := range file.Imports {
		p := strings.Trim(spec.Path.Value, `"`)
		if astutil.UsesImport(file, p) {
			continue
		}
		var name string
		if spec.Name != nil {
			name = spec.Name.Name
		}
		drop = append(drop, unused{name: name, path: p})
	}
	for _, imp := range drop {
		astutil.DeleteNamedImport(fset, file, imp.name, imp.path)
	}

	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, file); err != nil {
		return nil, err
	}

	return gosrcfmt.Source(buf.Bytes(), "<output>")
}
