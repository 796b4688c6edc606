package httpx_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/apiresult"
	"github.com/byte4ever/apiresult/httpx"
)

type panda struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

type errorBody struct {
	Message string `json:"message"`
}

func serve(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return srv
}

func reply(code int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = io.WriteString(w, body)
	}
}

// ---------------------------------------------------------------------------
// Success
// ---------------------------------------------------------------------------

func TestDoDecodesSuccess(t *testing.T) {
	t.Parallel()

	srv := serve(t, reply(http.StatusOK, `[{"name":"po","age":3},{"name":"mei","age":5}]`))

	r := httpx.Get[[]panda, errorBody](context.Background(), httpx.NewClient(nil), srv.URL)

	pandas, ok := r.Value()
	require.True(t, ok, r.String())
	assert.Equal(t, []panda{{Name: "po", Age: 3}, {Name: "mei", Age: 5}}, pandas)

	req, ok := apiresult.Tag[*http.Request](r)
	require.True(t, ok)
	assert.Equal(t, http.MethodGet, req.Method)

	resp, ok := apiresult.Tag[*http.Response](r)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDoUnitSkipsBody(t *testing.T) {
	t.Parallel()

	for _, code := range []int{http.StatusNoContent, http.StatusResetContent, http.StatusOK} {
		srv := serve(t, reply(code, ""))

		r := httpx.Get[apiresult.Unit, errorBody](context.Background(), httpx.NewClient(nil), srv.URL)
		assert.True(t, r.IsSuccess(), "status %d: %v", code, r)
	}
}

func TestDoNoContentForNonUnitIsUnknownFailure(t *testing.T) {
	t.Parallel()

	srv := serve(t, reply(http.StatusNoContent, ""))

	r := httpx.Get[panda, errorBody](context.Background(), httpx.NewClient(nil), srv.URL)
	assert.Equal(t, apiresult.KindUnknownFailure, r.Kind())
}

func TestDoUndecodableSuccessIsUnknownFailure(t *testing.T) {
	t.Parallel()

	srv := serve(t, reply(http.StatusOK, `{"name":`))

	r := httpx.Get[panda, errorBody](context.Background(), httpx.NewClient(nil), srv.URL)
	assert.Equal(t, apiresult.KindUnknownFailure, r.Kind())
	assert.Error(t, r.Exception())
}

// envelopeDecoder unwraps {"ok": bool, "data": ..., "error": ...} envelopes
// and reports ok=false as an API error.
type envelopeDecoder struct{}

func (envelopeDecoder) Decode(data []byte, v any) error {
	var env struct {
		Data  json.RawMessage `json:"data"`
		Error *errorBody      `json:"error"`
		OK    bool            `json:"ok"`
	}

	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	if !env.OK {
		if env.Error == nil {
			return &apiresult.APIError[errorBody]{}
		}

		return apiresult.NewAPIError(*env.Error)
	}

	return json.Unmarshal(env.Data, v)
}

func TestDoDecoderReportsAPIFailure(t *testing.T) {
	t.Parallel()

	client := httpx.NewClient(nil, httpx.WithDecoder(envelopeDecoder{}))

	srv := serve(t, reply(http.StatusOK, `{"ok":false,"error":{"message":"quota exceeded"}}`))
	r := httpx.Get[panda, errorBody](context.Background(), client, srv.URL)

	f, failed := r.Failure()
	require.True(t, failed)
	assert.Equal(t, apiresult.KindAPIFailure, f.Kind)
	assert.True(t, f.HasBody)
	assert.Equal(t, errorBody{Message: "quota exceeded"}, f.Body)

	srv = serve(t, reply(http.StatusOK, `{"ok":false}`))
	r = httpx.Get[panda, errorBody](context.Background(), client, srv.URL)

	f, failed = r.Failure()
	require.True(t, failed)
	assert.Equal(t, apiresult.KindAPIFailure, f.Kind)
	assert.False(t, f.HasBody)

	srv = serve(t, reply(http.StatusOK, `{"ok":true,"data":{"name":"po"}}`))
	r = httpx.Get[panda, errorBody](context.Background(), client, srv.URL)

	v, ok := r.Value()
	require.True(t, ok)
	assert.Equal(t, "po", v.Name)
}

// ---------------------------------------------------------------------------
// HTTP failures
// ---------------------------------------------------------------------------

func TestDoHTTPFailureWithoutBodyDecoding(t *testing.T) {
	t.Parallel()

	srv := serve(t, reply(http.StatusNotFound, `{"message":"no such panda"}`))

	r := httpx.Get[panda, errorBody](context.Background(), httpx.NewClient(nil), srv.URL)

	f, failed := r.Failure()
	require.True(t, failed)
	assert.Equal(t, apiresult.KindHTTPFailure, f.Kind)
	assert.Equal(t, http.StatusNotFound, f.Code)
	assert.False(t, f.HasBody)
}

func TestDoHTTPFailureWithBodyDecoding(t *testing.T) {
	t.Parallel()

	client := httpx.NewClient(nil, httpx.WithErrorBodyDecoding())

	tests := []struct {
		name     string
		code     int
		body     string
		wantKind apiresult.Kind
		wantBody bool
	}{
		{"decoded body", http.StatusBadRequest, `{"message":"bad id"}`, apiresult.KindHTTPFailure, true},
		{"empty body", http.StatusServiceUnavailable, ``, apiresult.KindHTTPFailure, false},
		{"undecodable body", http.StatusInternalServerError, `<html>`, apiresult.KindUnknownFailure, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := serve(t, reply(tt.code, tt.body))

			r := httpx.Get[panda, errorBody](context.Background(), client, srv.URL)
			require.Equal(t, tt.wantKind, r.Kind(), r.String())

			f, _ := r.Failure()
			assert.Equal(t, tt.wantBody, f.HasBody)

			if tt.wantBody {
				assert.Equal(t, tt.code, f.Code)
				assert.Equal(t, errorBody{Message: "bad id"}, f.Body)
			}
		})
	}
}

type statusDecoder struct {
	httpx.JSONDecoder
}

func (statusDecoder) DecodeStatus(code int, _ []byte, v any) error {
	body, ok := v.(*errorBody)
	if !ok {
		return errors.New("unexpected error type")
	}

	body.Message = http.StatusText(code)

	return nil
}

func TestDoUsesStatusDecoderForErrors(t *testing.T) {
	t.Parallel()

	srv := serve(t, reply(http.StatusTeapot, `ignored`))
	client := httpx.NewClient(nil, httpx.WithDecoder(statusDecoder{}), httpx.WithErrorBodyDecoding())

	r := httpx.Get[panda, errorBody](context.Background(), client, srv.URL)

	f, failed := r.Failure()
	require.True(t, failed)
	assert.Equal(t, errorBody{Message: "I'm a teapot"}, f.Body)
}

func TestDoUnexpectedStatusIsUnknownFailure(t *testing.T) {
	t.Parallel()

	srv := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	})

	r := httpx.Get[panda, errorBody](context.Background(), httpx.NewClient(nil), srv.URL)
	assert.Equal(t, apiresult.KindUnknownFailure, r.Kind())
}

// ---------------------------------------------------------------------------
// Transport failures
// ---------------------------------------------------------------------------

func TestDoConnectionRefusedIsNetworkFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	r := httpx.Get[panda, errorBody](context.Background(), httpx.NewClient(nil), url)
	assert.Equal(t, apiresult.KindNetworkFailure, r.Kind(), r.String())

	_, ok := apiresult.Tag[*http.Request](r)
	assert.True(t, ok)

	_, ok = apiresult.Tag[*http.Response](r)
	assert.False(t, ok)
}

func TestDoCancelledContextIsNetworkFailure(t *testing.T) {
	t.Parallel()

	srv := serve(t, reply(http.StatusOK, `{}`))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := httpx.Get[panda, errorBody](ctx, httpx.NewClient(nil), srv.URL)
	assert.Equal(t, apiresult.KindNetworkFailure, r.Kind())
	assert.ErrorIs(t, r.Exception(), context.Canceled)
}

func TestGetInvalidURLIsUnknownFailure(t *testing.T) {
	t.Parallel()

	r := httpx.Get[panda, errorBody](context.Background(), httpx.NewClient(nil), "://bad")
	assert.Equal(t, apiresult.KindUnknownFailure, r.Kind())
}

// ---------------------------------------------------------------------------
// Hooks and requests
// ---------------------------------------------------------------------------

func TestClientHooks(t *testing.T) {
	t.Parallel()

	var codes []int

	hooks := &apiresult.Hooks{OnHTTPFailure: func(code int) { codes = append(codes, code) }}
	client := httpx.NewClient(nil, httpx.WithHooks(hooks))

	srv := serve(t, reply(http.StatusBadGateway, ""))
	_ = httpx.Get[panda, errorBody](context.Background(), client, srv.URL)

	assert.Equal(t, []int{http.StatusBadGateway}, codes)
}

func TestNewJSONRequest(t *testing.T) {
	t.Parallel()

	var got panda

	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &got)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(data)
	})

	req, err := httpx.NewJSONRequest(context.Background(), http.MethodPost, srv.URL, panda{Name: "po", Age: 3})
	require.NoError(t, err)

	r := httpx.Do[panda, errorBody](httpx.NewClient(srv.Client()), req)

	v, ok := r.Value()
	require.True(t, ok, r.String())
	assert.Equal(t, panda{Name: "po", Age: 3}, v)
	assert.Equal(t, v, got)

	req, err = httpx.NewJSONRequest(context.Background(), http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	assert.Empty(t, req.Header.Get("Content-Type"))

	_, err = httpx.NewJSONRequest(context.Background(), http.MethodPost, srv.URL, make(chan int))
	require.Error(t, err)
}
