// Package stubgen generates apitest stand-ins for API interfaces declared in
// Go source files.
package stubgen

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"path"
	"slices"
	"strconv"
	"strings"
)

const (
	resultImportPath  = "github.com/byte4ever/apiresult"
	contextImportPath = "context"
)

var (
	// ErrInterfaceNotFound is returned when the requested interface is not
	// declared in the source file.
	ErrInterfaceNotFound = errors.New("interface not found")
	// ErrUnresolvedEmbed is returned for embedded interfaces declared in
	// another file or package.
	ErrUnresolvedEmbed = errors.New("cannot resolve embedded interface")
	// ErrNameCollision is returned when a generated declaration would
	// redeclare an identifier of the source file.
	ErrNameCollision = errors.New("generated name collides with a declaration")
)

type (
	// Interface is the parsed form of a target interface.
	Interface struct {
		Package string
		Name    string
		Embeds  []string
		Methods []Method
		Imports []Import
		// Declared lists the top-level identifiers of the source file.
		Declared []string
	}

	// Import is an import of the source file needed by the generated code.
	Import struct {
		Name string // explicit name, empty when the default applies
		Path string
	}

	// Method is one interface method, flattened from embedded interfaces.
	Method struct {
		Owner   string
		Name    string
		Params  []Param
		Results []string
		// Success and Error are the type arguments of the returned
		// apiresult.Result, empty when the method returns anything else.
		Success string
		Error   string
		// Async reports whether the first parameter is a context.Context.
		Async bool
	}

	// Param is one method parameter.
	Param struct {
		Name     string
		Type     string // as declared, "...T" for variadics
		KeyType  string // type used for the parameter key, "[]T" for variadics
		Variadic bool
	}
)

// Valid reports whether m can be served by a stand-in.
func (m Method) Valid() bool {
	return m.Async && m.Success != ""
}

// KeyParams returns the parameters that take part in the endpoint key.
func (m Method) KeyParams() []Param {
	if m.Async {
		return m.Params[1:]
	}

	return m.Params
}

// fileScope holds what the parser needs to know about the source file.
type fileScope struct {
	interfaces map[string]*ast.InterfaceType
	imports    map[string]Import // keyed by local name
	used       map[string]bool   // local import names referenced
	methods    map[string]bool   // method names already collected
}

// Parse reads the Go source in src (named filename for error messages) and
// returns the interface called name.
func Parse(filename string, src []byte, name string) (*Interface, error) {
	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("stubgen: parse %s: %w", filename, err)
	}

	scope := &fileScope{
		interfaces: make(map[string]*ast.InterfaceType),
		imports:    make(map[string]Import),
		used:       make(map[string]bool),
		methods:    make(map[string]bool),
	}

	for _, spec := range file.Imports {
		imp, local := importOf(spec)
		scope.imports[local] = imp
	}

	ast.Inspect(file, func(n ast.Node) bool {
		ts, ok := n.(*ast.TypeSpec)
		if !ok {
			return true
		}

		if it, ok := ts.Type.(*ast.InterfaceType); ok {
			scope.interfaces[ts.Name.Name] = it
		}

		return false
	})

	it, ok := scope.interfaces[name]
	if !ok {
		return nil, fmt.Errorf("stubgen: %w: %s in %s", ErrInterfaceNotFound, name, filename)
	}

	out := &Interface{
		Package:  file.Name.Name,
		Name:     name,
		Declared: topLevelNames(file),
	}

	if err = scope.collect(out, name, it, map[string]bool{name: true}); err != nil {
		return nil, err
	}

	for local := range scope.used {
		if imp, ok := scope.imports[local]; ok {
			out.Imports = append(out.Imports, imp)
		}
	}

	slices.SortFunc(out.Imports, func(a, b Import) int {
		return strings.Compare(a.Path, b.Path)
	})

	return out, nil
}

// collect appends the methods of it, declared on owner, to out, descending
// into embedded interfaces of the same file.
func (s *fileScope) collect(
	out *Interface,
	owner string,
	it *ast.InterfaceType,
	seen map[string]bool,
) error {
	for _, field := range it.Methods.List {
		if len(field.Names) == 0 {
			if err := s.collectEmbed(out, field.Type, seen); err != nil {
				return err
			}

			continue
		}

		ft, ok := field.Type.(*ast.FuncType)
		if !ok {
			continue
		}

		for _, ident := range field.Names {
			// An interface may repeat a method of an interface it embeds.
			if s.methods[ident.Name] {
				continue
			}

			s.methods[ident.Name] = true
			out.Methods = append(out.Methods, s.method(owner, ident.Name, ft))
		}
	}

	return nil
}

func (s *fileScope) collectEmbed(
	out *Interface,
	expr ast.Expr,
	seen map[string]bool,
) error {
	ident, ok := expr.(*ast.Ident)
	if !ok {
		return fmt.Errorf("stubgen: %w: %s", ErrUnresolvedEmbed, types.ExprString(expr))
	}

	embedded, ok := s.interfaces[ident.Name]
	if !ok {
		return fmt.Errorf("stubgen: %w: %s", ErrUnresolvedEmbed, ident.Name)
	}

	if seen[ident.Name] {
		return nil
	}

	seen[ident.Name] = true
	out.Embeds = append(out.Embeds, ident.Name)

	return s.collect(out, ident.Name, embedded, seen)
}

func (s *fileScope) method(owner, name string, ft *ast.FuncType) Method {
	m := Method{Owner: owner, Name: name}

	taken := map[string]bool{"stub": true, "apitest": true}

	for _, field := range ft.Params.List {
		s.markUsed(field.Type)

		names := field.Names
		if len(names) == 0 {
			names = []*ast.Ident{nil}
		}

		for _, ident := range names {
			p := Param{Type: types.ExprString(field.Type)}
			p.KeyType = p.Type

			if ell, ok := field.Type.(*ast.Ellipsis); ok {
				p.Variadic = true
				p.KeyType = "[]" + types.ExprString(ell.Elt)
			}

			if ident != nil && ident.Name != "_" && !taken[ident.Name] {
				p.Name = ident.Name
			} else {
				p.Name = "p" + strconv.Itoa(len(m.Params))
			}

			taken[p.Name] = true
			m.Params = append(m.Params, p)
		}
	}

	if len(ft.Params.List) > 0 {
		m.Async = s.isImported(ft.Params.List[0].Type, contextImportPath, "Context")
	}

	if ft.Results != nil {
		for _, field := range ft.Results.List {
			s.markUsed(field.Type)

			n := max(len(field.Names), 1)
			for range n {
				m.Results = append(m.Results, types.ExprString(field.Type))
			}
		}

		if len(ft.Results.List) == 1 && len(ft.Results.List[0].Names) <= 1 {
			m.Success, m.Error = s.resultArgs(ft.Results.List[0].Type)
		}
	}

	return m
}

// resultArgs returns T and E when expr is apiresult.Result[T, E].
func (s *fileScope) resultArgs(expr ast.Expr) (string, string) {
	idx, ok := expr.(*ast.IndexListExpr)
	if !ok || len(idx.Indices) != 2 {
		return "", ""
	}

	if !s.isImported(idx.X, resultImportPath, "Result") {
		return "", ""
	}

	return types.ExprString(idx.Indices[0]), types.ExprString(idx.Indices[1])
}

// isImported reports whether expr is the selector pkg.name for the import
// with the given path.
func (s *fileScope) isImported(expr ast.Expr, importPath, name string) bool {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != name {
		return false
	}

	x, ok := sel.X.(*ast.Ident)
	if !ok {
		return false
	}

	imp, ok := s.imports[x.Name]

	return ok && imp.Path == importPath
}

// markUsed records every package referenced by expr.
func (s *fileScope) markUsed(expr ast.Expr) {
	ast.Inspect(expr, func(n ast.Node) bool {
		if sel, ok := n.(*ast.SelectorExpr); ok {
			if x, ok := sel.X.(*ast.Ident); ok {
				s.used[x.Name] = true
			}
		}

		return true
	})
}

// topLevelNames returns the identifiers declared at file scope. Methods are
// left out: they live in the scope of their receiver.
func topLevelNames(file *ast.File) []string {
	var names []string

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil {
				names = append(names, d.Name.Name)
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch sp := spec.(type) {
				case *ast.TypeSpec:
					names = append(names, sp.Name.Name)
				case *ast.ValueSpec:
					for _, n := range sp.Names {
						names = append(names, n.Name)
					}
				}
			}
		}
	}

	return names
}

// importOf returns the import and the name it is referenced by.
func importOf(spec *ast.ImportSpec) (Import, string) {
	p, _ := strconv.Unquote(spec.Path.Value)
	imp := Import{Path: p}

	if spec.Name != nil {
		imp.Name = spec.Name.Name
		return imp, spec.Name.Name
	}

	return imp, defaultName(p)
}

// defaultName guesses the package name of an import path the way most
// packages are named: the last element, without a major version suffix, a
// "go-" prefix or a ".vN" suffix.
func defaultName(importPath string) string {
	base := path.Base(importPath)

	if len(base) > 1 && base[0] == 'v' {
		if _, err := strconv.Atoi(base[1:]); err == nil {
			base = path.Base(path.Dir(importPath))
		}
	}

	base = strings.TrimPrefix(base, "go-")

	if i := strings.Index(base, ".v"); i > 0 {
		base = base[:i]
	}

	return strings.ReplaceAll(base, "-", "_")
}
