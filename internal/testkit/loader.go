// Package testkit type checks packages from directories without the go command, for tests of the generator.
package testkit

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirkon/go-union/internal/collect"
)

// UnionSource is a minimal stand-in of the union package
const UnionSource = `package union

type Union[A, B any] struct {
	a  A
	b  B
	ok bool
}

func First[A, B any](v A) Union[A, B] { return Union[A, B]{a: v, ok: true} }

func Second[A, B any](v B) Union[A, B] { return Union[A, B]{b: v} }

func (u Union[A, B]) IsFirst() bool { return u.ok }
`

// Package a package to type check
type Package struct {
	Path string
	Dir  string
}

var _ collect.Loader = &Loader{}

// Loader type checks packages in the listed order, thus dependencies must go first. Files are read on each Load.
// Type errors are ignored like the real loader does.
type Loader struct {
	Packages []Package
}

// Load loads all packages, patterns are ignored
func (l *Loader) Load(ctx context.Context, patterns ...string) ([]*collect.Package, error) {
	fset := token.NewFileSet()
	imp := importer{}

	var res []*collect.Package
	for _, p := range l.Packages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		files, err := parseDir(fset, p.Dir)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", p.Path, err)
		}

		info := &types.Info{
			Types:     map[ast.Expr]types.TypeAndValue{},
			Defs:      map[*ast.Ident]types.Object{},
			Uses:      map[*ast.Ident]types.Object{},
			Implicits: map[ast.Node]types.Object{},
		}
		conf := types.Config{
			Importer: imp,
			Error:    func(error) {},
		}
		pkg, _ := conf.Check(p.Path, fset, files, info)
		if pkg == nil {
			return nil, fmt.Errorf("type check %s failed", p.Path)
		}
		imp[p.Path] = pkg

		res = append(res, &collect.Package{
			Name:    pkg.Name(),
			PkgPath: p.Path,
			Fset:    fset,
			Files:   files,
			Types:   pkg,
			Info:    info,
		})
	}

	return res, nil
}

// WriteFile writes a file for a test, failing it on error
func WriteFile(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, path string, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("create directory for %s: %s", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %s", path, err)
	}
}

func parseDir(fset *token.FileSet, dir string) ([]*ast.File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".go") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	files := make([]*ast.File, 0, len(names))
	for _, name := range names {
		file, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ParseComments)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

type importer map[string]*types.Package

func (m importer) Import(path string) (*types.Package, error) {
	if pkg, ok := m[path]; ok {
		return pkg, nil
	}
	return nil, fmt.Errorf("package %s is not known", path)
}
