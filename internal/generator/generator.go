// Package generator runs overload generation over a batch of packages.
package generator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/sirkon/go-union/internal/collect"
	"github.com/sirkon/go-union/internal/expand"
	"github.com/sirkon/go-union/internal/render"
	"github.com/sirkon/go-union/internal/signature"
)

// ErrUnitClash is returned for a declaration whose unit would overwrite the unit of another one
var ErrUnitClash = errors.New("unit file is produced by another declaration")

// Reporter receives diagnostics of the generation
type Reporter interface {
	Infof(format string, a ...interface{})
	Warningf(format string, a ...interface{})
	Errorf(format string, a ...interface{})
}

// Config of generation
type Config struct {
	UnionPackage string
	Directive    string
	FileSuffix   string
	Workers      int
	Rounds       int
	Prune        bool
}

// Failure declaration that could not be generated
type Failure struct {
	Function *signature.Function
	Err      error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s: %s", f.Function.Pos, f.Function.FullName(), f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Report summary of a generation run
type Report struct {
	Rounds     int
	Written    []string
	Unchanged  []string
	Pruned     []string
	Failed     []*Failure
	Unresolved []*collect.Unresolved
}

// Err returns an error if some declarations were not processed
func (r *Report) Err() error {
	switch {
	case len(r.Failed) > 0 && len(r.Unresolved) > 0:
		return fmt.Errorf("%d declarations failed, %d unresolved", len(r.Failed), len(r.Unresolved))
	case len(r.Failed) > 0:
		return fmt.Errorf("%d declarations failed", len(r.Failed))
	case len(r.Unresolved) > 0:
		return fmt.Errorf("%d declarations unresolved", len(r.Unresolved))
	default:
		return nil
	}
}

// Generator generates overloads for marked functions of packages
type Generator struct {
	loader   collect.Loader
	writer   Writer
	reporter Reporter
	cfg      Config
}

// New creates a generator
func New(loader collect.Loader, writer Writer, reporter Reporter, cfg Config) *Generator {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Rounds <= 0 {
		cfg.Rounds = 1
	}
	if cfg.FileSuffix == "" {
		cfg.FileSuffix = render.DefaultFileSuffix
	}

	return &Generator{
		loader:   loader,
		writer:   writer,
		reporter: reporter,
		cfg:      cfg,
	}
}

// Run processes packages matching patterns.
//
// Declarations which cannot be resolved are retried in the next round if the current one wrote something, as
// they may depend on code generated just now. Errors of individual declarations do not stop the run, they are
// collected in the report.
func (g *Generator) Run(ctx context.Context, patterns ...string) (*Report, error) {
	report := &Report{}
	produced := map[string]struct{}{}
	dirs := map[string]struct{}{}
	// unit path -> position of the declaration it belongs to
	owners := map[string]string{}

	// nil means everything, otherwise positions of symbols deferred by the previous round
	var deferred map[string]struct{}

	for round := 1; round <= g.cfg.Rounds; round++ {
		report.Rounds = round

		pkgs, err := g.loader.Load(ctx, patterns...)
		if err != nil {
			return report, err
		}
		for _, pkg := range pkgs {
			for _, file := range pkg.Files {
				dirs[dirOf(pkg.Fset.Position(file.Pos()).Filename)] = struct{}{}
			}
		}

		fns, unresolved, warnings := g.collect(pkgs, deferred)
		for _, w := range warnings {
			g.reporter.Warningf("%s", w)
		}

		units, failures, err := g.generate(ctx, fns)
		if err != nil {
			return report, err
		}
		units, clashes := g.assign(units, owners)
		failures = append(failures, clashes...)
		report.Failed = append(report.Failed, failures...)
		for _, f := range failures {
			g.reporter.Errorf("%s", f)
		}

		written := 0
		for _, unit := range units {
			produced[unit.Path] = struct{}{}

			changed, err := g.writer.Write(unit)
			if err != nil {
				return report, fmt.Errorf("write %s: %w", unit.Path, err)
			}
			if changed {
				written++
				report.Written = append(report.Written, unit.Path)
				g.reporter.Infof("%s: generated %s", unit.Source.FullName(), unit.Path)
			} else {
				report.Unchanged = append(report.Unchanged, unit.Path)
			}
		}

		if len(unresolved) == 0 || written == 0 || round == g.cfg.Rounds {
			report.Unresolved = unresolved
			break
		}

		deferred = map[string]struct{}{}
		for _, u := range unresolved {
			deferred[u.Pos] = struct{}{}
			g.reporter.Infof("%s: %s deferred to round %d: %s", u.Pos, u.Name, round+1, u.Reason)
		}
	}

	for _, u := range report.Unresolved {
		g.reporter.Errorf("%s", u)
	}

	if g.cfg.Prune {
		kept := map[string]struct{}{}
		for _, f := range report.Failed {
			kept[sourceKey(f.Function.File, f.Function.FullName())] = struct{}{}
		}
		for _, u := range report.Unresolved {
			kept[sourceKey(u.File, u.Name)] = struct{}{}
		}
		pruned, err := g.prune(dirs, produced, kept)
		if err != nil {
			return report, err
		}
		report.Pruned = pruned
	}

	return report, nil
}

// collect inspects packages, only symbols from only are taken if it is not nil
func (g *Generator) collect(
	pkgs []*collect.Package,
	only map[string]struct{},
) ([]*signature.Function, []*collect.Unresolved, []string) {
	opts := collect.Options{
		UnionPackage: g.cfg.UnionPackage,
		Directive:    g.cfg.Directive,
	}

	var fns []*signature.Function
	var unresolved []*collect.Unresolved
	var warnings []string
	seen := map[string]struct{}{}
	for _, pkg := range pkgs {
		res := collect.Inspect(pkg, opts)
		for _, fn := range res.Functions {
			if !pick(only, seen, fn.Pos) {
				continue
			}
			fns = append(fns, fn)
		}
		for _, u := range res.Unresolved {
			if !pick(only, seen, u.Pos) {
				continue
			}
			unresolved = append(unresolved, u)
		}
		warnings = append(warnings, res.Warnings...)
	}

	// declarations of a file are already in source order
	sort.SliceStable(fns, func(i, j int) bool {
		return fns[i].File < fns[j].File
	})

	return fns, unresolved, warnings
}

// pick checks if the symbol at pos must be processed and was not seen yet. The same file can come with
// several variants of a package.
func pick(only, seen map[string]struct{}, pos string) bool {
	if only != nil {
		if _, ok := only[pos]; !ok {
			return false
		}
	}
	if _, ok := seen[pos]; ok {
		return false
	}
	seen[pos] = struct{}{}
	return true
}

// generate expands and renders functions in parallel. Units are returned in the order of functions.
func (g *Generator) generate(ctx context.Context, fns []*signature.Function) ([]*render.Unit, []*Failure, error) {
	units := make([]*render.Unit, len(fns))
	failures := make([]*Failure, len(fns))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Workers)
	for i, fn := range fns {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			unit, err := g.unit(fn)
			if err != nil {
				failures[i] = &Failure{Function: fn, Err: err}
				return nil
			}
			units[i] = unit
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}

	var resUnits []*render.Unit
	var resFailures []*Failure
	for i := range fns {
		switch {
		case failures[i] != nil:
			resFailures = append(resFailures, failures[i])
		case units[i] != nil:
			resUnits = append(resUnits, units[i])
		}
	}
	return resUnits, resFailures, nil
}

// assign makes unit paths unique. Declarations whose names map to the same file, in this round or
// in a previous one, get tagged file names. Units still clashing after that fail.
func (g *Generator) assign(units []*render.Unit, owners map[string]string) ([]*render.Unit, []*Failure) {
	byPath := map[string][]*render.Unit{}
	for _, unit := range units {
		byPath[unit.Path] = append(byPath[unit.Path], unit)
	}
	for _, unit := range units {
		owner, taken := owners[unit.Path]
		if len(byPath[unit.Path]) == 1 && (!taken || owner == unit.Source.Pos) {
			continue
		}
		tagged := render.TaggedFileName(unit.Source, g.cfg.FileSuffix)
		g.reporter.Warningf(
			"%s: %s: %s is shared with another declaration, using %s",
			unit.Source.Pos,
			unit.Source.FullName(),
			filepath.Base(unit.Path),
			filepath.Base(tagged),
		)
		unit.Path = tagged
	}

	var res []*render.Unit
	var failures []*Failure
	for _, unit := range units {
		if owner, ok := owners[unit.Path]; ok && owner != unit.Source.Pos {
			failures = append(failures, &Failure{
				Function: unit.Source,
				Err:      fmt.Errorf("%w: %s", ErrUnitClash, unit.Path),
			})
			continue
		}
		owners[unit.Path] = unit.Source.Pos
		res = append(res, unit)
	}
	return res, failures
}

func (g *Generator) unit(fn *signature.Function) (*render.Unit, error) {
	overloads, err := expand.Expand(fn)
	if err != nil {
		return nil, err
	}
	if len(overloads) == 0 {
		return nil, nil
	}

	return render.Render(fn, overloads, render.Options{FileSuffix: g.cfg.FileSuffix})
}

// IsDuplicate checks if err is caused by colliding overload names
func IsDuplicate(err error) bool {
	return errors.Is(err, expand.ErrDuplicateOverload)
}
