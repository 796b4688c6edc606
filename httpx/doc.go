// Package httpx adapts net/http calls into apiresult.Result values.
//
// [Do] executes a request with a [Client] and classifies the outcome:
// transport errors become network failures, non-2xx responses HTTP failures
// (optionally with a decoded error body), undecodable payloads unknown
// failures, and decoders returning *apiresult.APIError API failures. Every
// result is tagged with the *http.Request and, when one was received, the
// *http.Response.
package httpx
