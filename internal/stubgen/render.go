package stubgen

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"
	"text/template"
)

const apitestImportPath = resultImportPath + "/apitest"

// Options tunes [Render]. The generated file always belongs to the package
// declaring the interface.
type Options struct {
	// Command is mentioned in the generated header.
	Command string
}

var stubTemplate = template.Must(template.New("stub").Funcs(template.FuncMap{
	"imports": renderImports,
	"params":  renderParams,
	"args":    renderArgs,
	"keys":    renderKeys,
	"results": renderResults,
	"quote":   func(s string) string { return fmt.Sprintf("%q", s) },
	"embeds":  renderEmbeds,
}).Parse(`// Code generated by {{.Command}}. DO NOT EDIT.

package {{.Package}}

import (
{{imports .Imports}})
{{$iface := .Iface}}
// Endpoints of {{$iface.Name}}.
var (
{{- range .Methods}}{{if .Valid}}
	{{.Var}} = apitest.NewEndpoint[{{.Success}}, {{.Error}}]({{quote .Owner}}, {{quote .Name}}{{keys .Method}})
{{- end}}{{end}}
)

// {{.ServiceVar}} describes {{$iface.Name}}.
var {{.ServiceVar}} = apitest.NewService(
	{{quote $iface.Name}},
	{{embeds $iface.Embeds}},
{{- range .Methods}}
{{- if .Valid}}
	{{.Var}}.Method(),
{{- else}}
	apitest.Method{
		Owner:      {{quote .Owner}},
		Name:       {{quote .Name}},
		Parameters: []apitest.ParameterKey{ {{- range $i, $p := .KeyParams}}{{if $i}}, {{end}}apitest.ParameterOf[{{$p.KeyType}}](){{end -}} },
		Async:      {{.Async}},
		{{- if .Success}}
		Result:     apitest.Returning[{{.Success}}, {{.Error}}](),
		{{- end}}
	},
{{- end}}
{{- end}}
)

// {{.StubType}} implements {{$iface.Name}} by serving every call from
// the queues of an [apitest.Orchestrator].
type {{.StubType}} struct {
	o *apitest.Orchestrator
}
{{range .Methods}}
func (stub *{{$.StubType}}) {{.Name}}({{params .Method}}){{results .Method}} {
{{- if .Valid}}
	return apitest.Invoke({{(index .Params 0).Name}}, stub.o, {{.Var}}{{args .Method}})
{{- else}}
	panic("apitest: {{$iface.Name}}.{{.Name}} cannot be served")
{{- end}}
}
{{end}}
// {{.Constructor}} validates {{$iface.Name}} and returns a
// controller whose API is a [{{.StubType}}].
func {{.Constructor}}(opts ...apitest.Option) (*apitest.Controller[{{$iface.Name}}], error) {
	return apitest.NewController(
		{{.ServiceVar}},
		func(o *apitest.Orchestrator) {{$iface.Name}} {
			return &{{.StubType}}{o: o}
		},
		opts...,
	)
}
`))

type (
	renderData struct {
		Command     string
		Package     string
		ServiceVar  string
		StubType    string
		Constructor string
		Imports     []Import
		Methods     []renderMethod
		Iface       *Interface
	}

	// renderMethod is a method with the name of its endpoint variable.
	renderMethod struct {
		Method
		Var string
	}
)

// Render returns the formatted source of the stand-in, endpoint handles,
// service descriptor and controller constructor of iface.
//
// Endpoint variables are named after the interface and the method, with an
// "Endpoint" suffix added until the name is free. Render fails with
// [ErrNameCollision] when the service, stand-in or constructor name is
// already declared in the source file.
func Render(iface *Interface, opts Options) ([]byte, error) {
	data := renderData{
		Command:     opts.Command,
		Package:     iface.Package,
		ServiceVar:  iface.Name + "Service",
		StubType:    iface.Name + "Stub",
		Constructor: "New" + iface.Name + "Controller",
		Imports:     withApitest(iface.Imports),
		Iface:       iface,
	}

	if data.Command == "" {
		data.Command = "apitestgen"
	}

	taken := make(map[string]bool, len(iface.Declared)+len(iface.Methods)+3)
	for _, name := range iface.Declared {
		taken[name] = true
	}

	for _, name := range []string{data.ServiceVar, data.StubType, data.Constructor} {
		if taken[name] {
			return nil, fmt.Errorf("stubgen: %w: %s", ErrNameCollision, name)
		}

		taken[name] = true
	}

	for _, m := range iface.Methods {
		v := iface.Name + m.Name
		for taken[v] {
			v += "Endpoint"
		}

		if m.Valid() {
			taken[v] = true
		}

		data.Methods = append(data.Methods, renderMethod{Method: m, Var: v})
	}

	var buf bytes.Buffer
	if err := stubTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("stubgen: render %s: %w", iface.Name, err)
	}

	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("stubgen: format %s: %w", iface.Name, err)
	}

	return out, nil
}

func withApitest(imports []Import) []Import {
	for _, imp := range imports {
		if imp.Path == apitestImportPath {
			return imports
		}
	}

	return append(imports[:len(imports):len(imports)], Import{Path: apitestImportPath})
}

// renderImports lists standard library imports first, then the others,
// as goimports groups them.
func renderImports(imports []Import) string {
	var std, other strings.Builder

	for _, imp := range imports {
		sb := &other
		if isStd(imp.Path) {
			sb = &std
		}

		sb.WriteString("\t")

		if imp.Name != "" {
			sb.WriteString(imp.Name + " ")
		}

		fmt.Fprintf(sb, "%q\n", imp.Path)
	}

	if std.Len() > 0 && other.Len() > 0 {
		std.WriteString("\n")
	}

	return std.String() + other.String()
}

// isStd reports whether importPath belongs to the standard library, whose
// first path element never contains a dot.
func isStd(importPath string) bool {
	first, _, _ := strings.Cut(importPath, "/")
	return !strings.Contains(first, ".")
}

func renderParams(m Method) string {
	parts := make([]string, len(m.Params))
	for i, p := range m.Params {
		parts[i] = p.Name + " " + p.Type
	}

	return strings.Join(parts, ", ")
}

func renderArgs(m Method) string {
	var sb strings.Builder
	for _, p := range m.KeyParams() {
		sb.WriteString(", ")
		sb.WriteString(p.Name)
	}

	return sb.String()
}

func renderKeys(m Method) string {
	var sb strings.Builder
	for _, p := range m.KeyParams() {
		fmt.Fprintf(&sb, ", apitest.ParameterOf[%s]()", p.KeyType)
	}

	return sb.String()
}

func renderResults(m Method) string {
	switch len(m.Results) {
	case 0:
		return ""
	case 1:
		return " " + m.Results[0]
	default:
		return " (" + strings.Join(m.Results, ", ") + ")"
	}
}

func renderEmbeds(embeds []string) string {
	if len(embeds) == 0 {
		return "nil"
	}

	quoted := make([]string, len(embeds))
	for i, e := range embeds {
		quoted[i] = fmt.Sprintf("%q", e)
	}

	return "[]string{" + strings.Join(quoted, ", ") + "}"
}
