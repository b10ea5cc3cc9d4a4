package collect

import (
	"context"
	"fmt"
	"go/ast"
	"strings"

	"golang.org/x/tools/go/packages"
)

// Loader loads type checked packages
type Loader interface {
	Load(ctx context.Context, patterns ...string) ([]*Package, error)
}

var _ Loader = &PackagesLoader{}

// PackagesLoader loads packages with golang.org/x/tools/go/packages
type PackagesLoader struct {
	Dir   string
	Tests bool
	Env   []string
}

// Load loads packages matching patterns.
//
// Type errors do not fail the load: code calling overloads which are not generated yet does not type check, while
// declarations we need are still resolved. Declarations whose types are broken are reported by Inspect.
func (l *PackagesLoader) Load(ctx context.Context, patterns ...string) ([]*Package, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedTypes |
			packages.NeedTypesInfo |
			packages.NeedSyntax |
			packages.NeedImports |
			packages.NeedDeps,
		Dir:   l.Dir,
		Env:   l.Env,
		Tests: l.Tests,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}

	var errs []string
	var res []*Package
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			if e.Kind == packages.ListError {
				errs = append(errs, fmt.Sprintf("%s: %s", pkg.PkgPath, e.Msg))
			}
		}
		if pkg.Types == nil || pkg.TypesInfo == nil {
			continue
		}
		if strings.HasSuffix(pkg.PkgPath, ".test") {
			// generated test main
			continue
		}

		files := pkg.Syntax
		if pkg.ID != pkg.PkgPath {
			// test variant of the package: regular files are already taken from the package itself
			files = testFiles(pkg)
		}

		res = append(res, &Package{
			Name:    pkg.Name,
			PkgPath: pkg.PkgPath,
			Fset:    pkg.Fset,
			Files:   files,
			Types:   pkg.Types,
			Info:    pkg.TypesInfo,
		})
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors:\n  %s", strings.Join(errs, "\n  "))
	}

	return res, nil
}

func testFiles(pkg *packages.Package) []*ast.File {
	var res []*ast.File
	for _, file := range pkg.Syntax {
		if strings.HasSuffix(pkg.Fset.Position(file.Pos()).Filename, "_test.go") {
			res = append(res, file)
		}
	}
	return res
}
