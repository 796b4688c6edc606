package stubgen_test

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/apiresult/internal/stubgen"
)

const pandaSource = `package pandas

import (
	"context"

	"github.com/byte4ever/apiresult"
)

type Panda struct{ Name string }

type ErrorBody struct{ Message string }

type Health interface {
	Ping(ctx context.Context) apiresult.Result[apiresult.Unit, ErrorBody]
}

type PandaAPI interface {
	Health
	GetPandas(ctx context.Context) apiresult.Result[[]Panda, ErrorBody]
	GetPanda(ctx context.Context, _ string) apiresult.Result[Panda, ErrorBody]
	Tag(ctx context.Context, stub string, names ...string) apiresult.Result[int, ErrorBody]
	Count() int
}
`

func TestParse(t *testing.T) {
	t.Parallel()

	iface, err := stubgen.Parse("pandas.go", []byte(pandaSource), "PandaAPI")
	require.NoError(t, err)

	assert.Equal(t, "pandas", iface.Package)
	assert.Equal(t, []string{"Health"}, iface.Embeds)
	require.Len(t, iface.Methods, 5)

	ping := iface.Methods[0]
	assert.Equal(t, "Health", ping.Owner)
	assert.Equal(t, "Ping", ping.Name)
	assert.True(t, ping.Valid())
	assert.Equal(t, "apiresult.Unit", ping.Success)

	pandas := iface.Methods[1]
	assert.Equal(t, "PandaAPI", pandas.Owner)
	assert.Equal(t, "[]Panda", pandas.Success)
	assert.Equal(t, "ErrorBody", pandas.Error)
	assert.Empty(t, pandas.KeyParams())

	panda := iface.Methods[2]
	require.Len(t, panda.KeyParams(), 1)
	assert.Equal(t, "p1", panda.KeyParams()[0].Name)
	assert.Equal(t, "string", panda.KeyParams()[0].KeyType)

	tag := iface.Methods[3]
	require.Len(t, tag.KeyParams(), 2)
	assert.Equal(t, "p1", tag.KeyParams()[0].Name)
	assert.True(t, tag.KeyParams()[1].Variadic)
	assert.Equal(t, "...string", tag.KeyParams()[1].Type)
	assert.Equal(t, "[]string", tag.KeyParams()[1].KeyType)

	count := iface.Methods[4]
	assert.False(t, count.Async)
	assert.False(t, count.Valid())
	assert.Equal(t, []string{"int"}, count.Results)

	assert.Equal(t, []stubgen.Import{
		{Path: "context"},
		{Path: "github.com/byte4ever/apiresult"},
	}, iface.Imports)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	_, err := stubgen.Parse("pandas.go", []byte(pandaSource), "Missing")
	require.ErrorIs(t, err, stubgen.ErrInterfaceNotFound)

	_, err = stubgen.Parse("x.go", []byte(`package x

import "io"

type API interface {
	io.Reader
}
`), "API")
	require.ErrorIs(t, err, stubgen.ErrUnresolvedEmbed)

	_, err = stubgen.Parse("x.go", []byte("package x\nfunc {"), "API")
	require.Error(t, err)
}

func TestRender(t *testing.T) {
	t.Parallel()

	iface, err := stubgen.Parse("pandas.go", []byte(pandaSource), "PandaAPI")
	require.NoError(t, err)

	out, err := stubgen.Render(iface, stubgen.Options{})
	require.NoError(t, err)

	src := string(out)

	_, err = parser.ParseFile(token.NewFileSet(), "pandas_stub.go", out, 0)
	require.NoError(t, err, src)

	for _, want := range []string{
		"// Code generated by apitestgen. DO NOT EDIT.",
		"package pandas",
		`"github.com/byte4ever/apiresult/apitest"`,
		`apitest.ParameterOf[[]string]()`,
		`var PandaAPIService = apitest.NewService(`,
		`[]string{"Health"},`,
		`func (stub *PandaAPIStub) GetPanda(ctx context.Context, p1 string) apiresult.Result[Panda, ErrorBody] {`,
		`return apitest.Invoke(ctx, stub.o, PandaAPIGetPanda, p1)`,
		`return apitest.Invoke(ctx, stub.o, PandaAPITag, p1, names)`,
		`func (stub *PandaAPIStub) Count() int {`,
		`panic("apitest: PandaAPI.Count cannot be served")`,
		`func NewPandaAPIController(opts ...apitest.Option) (*apitest.Controller[PandaAPI], error) {`,
	} {
		assert.Contains(t, src, want)
	}

	for _, pattern := range []string{
		`PandaAPIGetPanda\s+= apitest\.NewEndpoint\[Panda, ErrorBody\]\("PandaAPI", "GetPanda", apitest\.ParameterOf\[string\]\(\)\)`,
		`PandaAPIPing\s+= apitest\.NewEndpoint\[apiresult\.Unit, ErrorBody\]\("Health", "Ping"\)`,
		`Name:\s+"Count",`,
		`Async:\s+false,`,
	} {
		assert.Regexp(t, pattern, src)
	}

	assert.NotContains(t, src, "PandaAPICount")
	assert.Contains(t, src, "import (\n\t\"context\"\n\n\t\"github.com/byte4ever/apiresult\"\n")
}

const zooSource = `package zoo

import (
	"context"

	"github.com/byte4ever/apiresult"
)

type Keeper interface {
	Ping(ctx context.Context) apiresult.Result[apiresult.Unit, string]
}

type ZooAPI interface {
	Keeper
	Ping(ctx context.Context) apiresult.Result[apiresult.Unit, string]
	Service(ctx context.Context) apiresult.Result[string, string]
	Stub(ctx context.Context) apiresult.Result[int, string]
	StubEndpoint(ctx context.Context) apiresult.Result[bool, string]
}
`

func TestParseRepeatedEmbeddedMethod(t *testing.T) {
	t.Parallel()

	iface, err := stubgen.Parse("zoo.go", []byte(zooSource), "ZooAPI")
	require.NoError(t, err)

	names := make([]string, len(iface.Methods))
	for i, m := range iface.Methods {
		names[i] = m.Name
	}

	assert.Equal(t, []string{"Ping", "Service", "Stub", "StubEndpoint"}, names)
	assert.Equal(t, "Keeper", iface.Methods[0].Owner)
	assert.Equal(t, []string{"Keeper", "ZooAPI"}, iface.Declared)
}

func TestRenderAvoidsGeneratedNames(t *testing.T) {
	t.Parallel()

	iface, err := stubgen.Parse("zoo.go", []byte(zooSource), "ZooAPI")
	require.NoError(t, err)

	out, err := stubgen.Render(iface, stubgen.Options{})
	require.NoError(t, err)

	src := string(out)

	_, err = parser.ParseFile(token.NewFileSet(), "zoo_stub.go", out, 0)
	require.NoError(t, err, src)

	for _, pattern := range []string{
		`ZooAPIPing\s+= apitest\.NewEndpoint\[apiresult\.Unit, string\]\("Keeper", "Ping"\)`,
		`ZooAPIServiceEndpoint\s+= apitest\.NewEndpoint\[string, string\]\("ZooAPI", "Service"\)`,
		`ZooAPIStubEndpoint\s+= apitest\.NewEndpoint\[int, string\]\("ZooAPI", "Stub"\)`,
		`ZooAPIStubEndpointEndpoint\s+= apitest\.NewEndpoint\[bool, string\]\("ZooAPI", "StubEndpoint"\)`,
	} {
		assert.Regexp(t, pattern, src)
	}

	assert.Equal(t, 1, strings.Count(src, "func (stub *ZooAPIStub) Ping("))
	assert.Equal(t, 1, strings.Count(src, "var ZooAPIService = "))
	assert.Contains(t, src, "return apitest.Invoke(ctx, stub.o, ZooAPIServiceEndpoint)")
}

func TestRenderNameCollision(t *testing.T) {
	t.Parallel()

	iface, err := stubgen.Parse("zoo.go", []byte(zooSource+"\ntype ZooAPIStub struct{}\n"), "ZooAPI")
	require.NoError(t, err)

	_, err = stubgen.Render(iface, stubgen.Options{})
	require.ErrorIs(t, err, stubgen.ErrNameCollision)
}

func TestRenderCommand(t *testing.T) {
	t.Parallel()

	iface, err := stubgen.Parse("pandas.go", []byte(pandaSource), "Health")
	require.NoError(t, err)

	out, err := stubgen.Render(iface, stubgen.Options{Command: "go run ./cmd/apitestgen"})
	require.NoError(t, err)

	assert.Contains(t, string(out), "// Code generated by go run ./cmd/apitestgen. DO NOT EDIT.")
	assert.Contains(t, string(out), "apitest.NewService(\n\t\"Health\",\n\tnil,")
}
