package httpx

import (
	json "github.com/goccy/go-json"
)

// Decoder decodes a response body into v, a pointer to the declared success
// or error type. A decoder may return an *apiresult.APIError to report an
// application-level error carried by a successful response.
type Decoder interface {
	Decode(data []byte, v any) error
}

// StatusDecoder is implemented by decoders that need the HTTP status code to
// decode error bodies. Its DecodeStatus is used instead of Decode for non-2xx
// responses.
type StatusDecoder interface {
	Decoder
	DecodeStatus(code int, data []byte, v any) error
}

// DecoderFunc adapts a function to [Decoder].
type DecoderFunc func(data []byte, v any) error

// Decode calls f.
func (f DecoderFunc) Decode(data []byte, v any) error { return f(data, v) }

// JSONDecoder decodes JSON bodies with goccy/go-json.
type JSONDecoder struct{}

// Decode unmarshals data into v.
func (JSONDecoder) Decode(data []byte, v any) error {
	//nolint:wrapcheck // decode errors are classified by the caller
	return json.Unmarshal(data, v)
}
