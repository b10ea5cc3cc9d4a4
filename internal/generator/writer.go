package generator

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirkon/go-union/internal/render"
)

// Writer stores generated units
type Writer interface {
	// Write stores the unit and reports whether anything was changed
	Write(unit *render.Unit) (bool, error)
}

var (
	_ Writer = FileWriter{}
	_ Writer = &DryRunWriter{}
)

// FileWriter writes units into files. Files with the same content are left untouched, so their modification
// time only changes when the source declaration does.
type FileWriter struct{}

// Write writes the unit
func (FileWriter) Write(unit *render.Unit) (bool, error) {
	prev, err := os.ReadFile(unit.Path)
	switch {
	case err == nil:
		if bytes.Equal(prev, unit.Content) {
			return false, nil
		}
		if !generated(prev) {
			return false, fmt.Errorf("%s exists and was not generated by go-union-overload", unit.Path)
		}
	case !errors.Is(err, os.ErrNotExist):
		return false, err
	}

	if err := os.WriteFile(unit.Path, unit.Content, 0644); err != nil {
		return false, err
	}
	return true, nil
}

// DryRunWriter prints units instead of writing them
type DryRunWriter struct {
	W io.Writer
}

// Write prints the unit
func (w *DryRunWriter) Write(unit *render.Unit) (bool, error) {
	if _, err := fmt.Fprintf(w.W, "// %s\n", unit.Path); err != nil {
		return false, err
	}
	if _, err := w.W.Write(unit.Content); err != nil {
		return false, err
	}
	if _, err := fmt.Fprintln(w.W); err != nil {
		return false, err
	}
	return true, nil
}

// prune removes generated files which were not produced in this run. Files of declarations listed in kept
// stay, these declarations failed or could not be resolved and may come back.
func (g *Generator) prune(dirs, produced, kept map[string]struct{}) ([]string, error) {
	var candidates []string
	for dir := range dirs {
		for _, pattern := range []string{"*" + g.cfg.FileSuffix + ".go", "*" + g.cfg.FileSuffix + "_test.go"} {
			matches, err := filepath.Glob(filepath.Join(dir, pattern))
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, matches...)
		}
	}
	sort.Strings(candidates)

	var res []string
	for _, path := range candidates {
		if _, ok := produced[path]; ok {
			continue
		}
		hdr, err := readHeader(path)
		if err != nil {
			return res, err
		}
		if !hdr.generated {
			continue
		}
		if _, ok := kept[hdr.source]; ok && hdr.source != "" {
			g.reporter.Infof("keeping %s, its declaration was not processed", path)
			continue
		}
		if err := os.Remove(path); err != nil {
			return res, fmt.Errorf("prune %s: %w", path, err)
		}
		res = append(res, path)
		g.reporter.Infof("removed stale %s", path)
	}

	return res, nil
}

// sourceKey identifies a declaration by its file and full name
func sourceKey(file, name string) string {
	return file + ":" + name
}

type header struct {
	generated bool
	// sourceKey of the declaration the unit was produced for, empty if unknown
	source string
}

const sourcePrefix = "// Source: "

// readHeader reads the header of a file. The header can be preceded by a build constraint.
func readHeader(path string) (header, error) {
	file, err := os.Open(path)
	if err != nil {
		return header{}, err
	}
	defer file.Close()

	var res header
	scanner := bufio.NewScanner(file)
	for i := 0; i < 4 && scanner.Scan(); i++ {
		line := scanner.Text()
		switch {
		case line == render.Header:
			res.generated = true
		case res.generated && strings.HasPrefix(line, sourcePrefix):
			rest := strings.TrimPrefix(line, sourcePrefix)
			base, rest, ok := strings.Cut(rest, ": ")
			if !ok {
				break
			}
			name, _, ok := strings.Cut(rest, ", checksum ")
			if !ok {
				break
			}
			res.source = sourceKey(filepath.Join(filepath.Dir(path), base), name)
		}
	}
	return res, scanner.Err()
}

func generated(content []byte) bool {
	lines := strings.SplitN(string(content), "\n", 4)
	for i := 0; i < len(lines) && i < 3; i++ {
		if lines[i] == render.Header {
			return true
		}
	}
	return false
}

func dirOf(path string) string {
	return filepath.Dir(path)
}
