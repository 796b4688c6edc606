// Package apiresult models the outcome of a remote API call as a closed result
// type.
//
// The central type is Result[T, E]: either a Success carrying T, or one of four
// failure kinds (network, unknown, HTTP, API) optionally carrying a decoded
// error body E. Results carry type-keyed tags (for instance the original
// *http.Request and *http.Response) and are transformed with fold-style
// combinators. [RetryWithBackoff] retries result-producing calls with an
// exponential, jittered delay schedule.
//
// The httpx package adapts net/http calls into results, and the apitest
// package provides programmable stand-ins for API interfaces in tests.
package apiresult
