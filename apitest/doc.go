// Package apitest replaces API interfaces with programmable stand-ins in
// tests.
//
// A [Service] describes the target interface: its name, the interfaces it
// embeds and every method as a [Method]. A stand-in type implements the
// interface by forwarding each call to [Invoke] with a static [Endpoint];
// apitestgen generates both from the interface declaration:
//
//	//go:generate go run github.com/byte4ever/apiresult/cmd/apitestgen --type PandaAPI --in api.go --out pandaapi_apitest.go
//
// Tests then build a [Controller], queue responses and hand the stand-in to
// the code under test:
//
//	ctl, err := NewPandaAPIController()
//	require.NoError(t, err)
//	require.NoError(t, apitest.EnqueueResult(ctl, PandaAPIGetPandas,
//		apiresult.Success[[]Panda, APIError](pandas)))
//	svc := NewPandaService(ctl.API())
//	...
//	require.NoError(t, ctl.AssertNoMoreQueuedResults())
//
// Calling an endpoint with nothing queued panics with a [*NoResultError], in
// the same way an unexpected call on a mock fails the test.
package apitest
