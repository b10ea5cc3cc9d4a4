package collect

import (
	"fmt"
	"go/ast"
	"go/types"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/sirkon/go-union/internal/signature"
)

// qualifier renders types the way the file refers them and remembers imports rendered texts need
type qualifier struct {
	self  *types.Package
	names map[string]string
	used  map[string]signature.Import
}

func newQualifier(pkg *Package, file *ast.File) *qualifier {
	q := &qualifier{
		self:  pkg.Types,
		names: map[string]string{},
		used:  map[string]signature.Import{},
	}

	for _, spec := range file.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		switch {
		case spec.Name != nil && spec.Name.Name != "_":
			q.names[p] = spec.Name.Name
		case spec.Name == nil:
			if pkgName := pkg.Info.PkgNameOf(spec); pkgName != nil {
				q.names[p] = pkgName.Imported().Name()
			} else {
				q.names[p] = path.Base(p)
			}
		}
	}

	return q
}

func (q *qualifier) qualify(pkg *types.Package) string {
	if pkg == nil || pkg == q.self || (q.self != nil && pkg.Path() == q.self.Path()) {
		return ""
	}

	name, ok := q.names[pkg.Path()]
	if !ok {
		name = pkg.Name()
	}
	q.used[pkg.Path()] = signature.Import{
		Name: name,
		Path: pkg.Path(),
	}

	if name == "." {
		return ""
	}
	return name
}

// typeString renders the type and records imports it needs
func (q *qualifier) typeString(t types.Type) (string, error) {
	text := types.TypeString(t, q.qualify)
	if strings.Contains(text, "invalid type") {
		return "", fmt.Errorf("%w: %s", errInvalidType, text)
	}
	return text, nil
}

// peek renders the type without recording imports
func (q *qualifier) peek(t types.Type) string {
	return types.TypeString(t, func(pkg *types.Package) string {
		if pkg == nil || pkg == q.self {
			return ""
		}
		if name, ok := q.names[pkg.Path()]; ok && name != "." {
			return name
		}
		return pkg.Name()
	})
}

// imports returns recorded imports sorted by path
func (q *qualifier) imports() []signature.Import {
	if len(q.used) == 0 {
		return nil
	}

	res := make([]signature.Import, 0, len(q.used))
	for _, imp := range q.used {
		res = append(res, imp)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Path < res[j].Path
	})
	return res
}
