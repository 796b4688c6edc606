package httpx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/byte4ever/apiresult"
)

// Client executes HTTP requests and turns their outcome into results.
//
// Pattern: Adapter: bridges net/http and apiresult by classifying transport
// errors and status codes into result variants.
type Client struct {
	hc              *http.Client
	decoder         Decoder
	hooks           *apiresult.Hooks
	decodeErrorBody bool
}

// Option configures a [Client].
type Option func(*Client)

// WithDecoder sets the body decoder. The default is [JSONDecoder].
func WithDecoder(d Decoder) Option {
	return func(c *Client) {
		c.decoder = d
	}
}

// WithErrorBodyDecoding makes the client decode the body of non-2xx
// responses into the declared error type. Bodies with a zero content length
// are skipped.
func WithErrorBodyDecoding() Option {
	return func(c *Client) {
		c.decodeErrorBody = true
	}
}

// WithHooks sets hooks notified of every classified failure. The hooks must
// not be mutated afterwards.
func WithHooks(h *apiresult.Hooks) Option {
	return func(c *Client) {
		c.hooks = h
	}
}

// NewClient returns a Client sending requests through hc; nil uses
// [http.DefaultClient].
func NewClient(hc *http.Client, opts ...Option) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}

	c := &Client{hc: hc, decoder: JSONDecoder{}}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Do sends req and classifies the outcome as a Result[T, E]:
//
//   - a transport error is a network failure, or an unknown failure when it
//     is not I/O related;
//   - a 2xx response decodes into T; when T is [apiresult.Unit] it succeeds
//     with Unit without reading the body, which is how 204 and 205 responses
//     are declared; a 204 or 205 for any other T is an unknown failure; a
//     decoder returning *apiresult.APIError[E] yields an API failure and any
//     other decoding error an unknown failure;
//   - a 4xx or 5xx response is an HTTP failure, with the body decoded into E
//     when error body decoding is enabled; an undecodable error body is an
//     unknown failure;
//   - any other status is an unknown failure.
//
// The response body is always consumed and closed.
func Do[T, E any](c *Client, req *http.Request) apiresult.Result[T, E] {
	resp, err := c.hc.Do(req)
	if err != nil {
		return notify(c, Classify[T, E](err)).WithTags(req)
	}

	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	return notify(c, handle[T, E](c, resp)).WithTags(req, resp)
}

// Get is a convenience for [Do] with a GET request to url.
func Get[T, E any](ctx context.Context, c *Client, url string) apiresult.Result[T, E] {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return apiresult.NewUnknownFailure[T, E](err)
	}

	return Do[T, E](c, req)
}

// NewJSONRequest builds a request whose body is body encoded as JSON with
// goccy/go-json. A nil body sends no content.
func NewJSONRequest(
	ctx context.Context,
	method, url string,
	body any,
) (*http.Request, error) {
	var reader io.Reader = http.NoBody

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("httpx: encode request body: %w", err)
		}

		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("httpx: build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func handle[T, E any](c *Client, resp *http.Response) apiresult.Result[T, E] {
	code := resp.StatusCode

	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return decodeSuccess[T, E](c, resp)
	}

	if code < http.StatusBadRequest || code > 599 {
		return apiresult.NewUnknownFailure[T, E](
			fmt.Errorf("httpx: unexpected status %d", code),
		)
	}

	if !c.decodeErrorBody || resp.ContentLength == 0 {
		r, _ := apiresult.NewHTTPFailureWithoutBody[T, E](code)
		return r
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiresult.NewNetworkFailure[T, E](err)
	}

	// Chunked responses report an unknown length; treat an empty one like a
	// zero content length.
	if len(data) == 0 {
		r, _ := apiresult.NewHTTPFailureWithoutBody[T, E](code)
		return r
	}

	var body E
	if err = c.decodeError(code, data, &body); err != nil {
		return apiresult.NewUnknownFailure[T, E](err)
	}

	r, _ := apiresult.NewHTTPFailure[T, E](code, body)

	return r
}

func decodeSuccess[T, E any](c *Client, resp *http.Response) apiresult.Result[T, E] {
	if apiresult.TypeOf[T]() == apiresult.TypeOf[apiresult.Unit]() {
		//nolint:forcetypeassert // T is apiresult.Unit
		return apiresult.Success[T, E](any(apiresult.Unit{}).(T))
	}

	if resp.StatusCode == http.StatusNoContent ||
		resp.StatusCode == http.StatusResetContent {
		return apiresult.NewUnknownFailure[T, E](fmt.Errorf(
			"httpx: status %d has no body to decode into %s",
			resp.StatusCode, apiresult.TypeOf[T](),
		))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiresult.NewNetworkFailure[T, E](err)
	}

	var value T
	if err = c.decoder.Decode(data, &value); err != nil {
		// A decode error is never an I/O error: the body is already read.
		if r := Classify[T, E](err); r.Kind() == apiresult.KindAPIFailure {
			return r
		}

		return apiresult.NewUnknownFailure[T, E](err)
	}

	return apiresult.Success[T, E](value)
}

func (c *Client) decodeError(code int, data []byte, v any) error {
	if sd, ok := c.decoder.(StatusDecoder); ok {
		//nolint:wrapcheck // decode errors are surfaced as unknown failures
		return sd.DecodeStatus(code, data, v)
	}

	//nolint:wrapcheck // decode errors are surfaced as unknown failures
	return c.decoder.Decode(data, v)
}

// notify reports a failure to the client's hooks and returns r unchanged.
func notify[T, E any](c *Client, r apiresult.Result[T, E]) apiresult.Result[T, E] {
	return r.
		OnNetworkFailure(func(f apiresult.Failure[E]) {
			c.hooks.EmitNetworkFailure(f.Err)
		}).
		OnUnknownFailure(func(f apiresult.Failure[E]) {
			c.hooks.EmitUnknownFailure(f.Err)
		}).
		OnHTTPFailure(func(f apiresult.Failure[E]) {
			c.hooks.EmitHTTPFailure(f.Code)
		})
}
