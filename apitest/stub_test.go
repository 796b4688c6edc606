package apitest_test

import (
	"context"

	"github.com/byte4ever/apiresult"
	"github.com/byte4ever/apiresult/apitest"
)

// The declarations below are what apitestgen emits for PandaAPI.

type panda struct {
	Name string
}

type errorBody struct {
	Message string
}

type Health interface {
	Ping(ctx context.Context) apiresult.Result[apiresult.Unit, errorBody]
}

type PandaAPI interface {
	Health
	GetPandas(ctx context.Context) apiresult.Result[[]panda, errorBody]
	GetPanda(ctx context.Context, name string) apiresult.Result[panda, errorBody]
}

var (
	PandaAPIPing      = apitest.NewEndpoint[apiresult.Unit, errorBody]("Health", "Ping")
	PandaAPIGetPandas = apitest.NewEndpoint[[]panda, errorBody]("PandaAPI", "GetPandas")
	PandaAPIGetPanda  = apitest.NewEndpoint[panda, errorBody]("PandaAPI", "GetPanda", apitest.ParameterOf[string]())
)

var PandaAPIService = apitest.NewService(
	"PandaAPI",
	[]string{"Health"},
	PandaAPIPing.Method(),
	PandaAPIGetPandas.Method(),
	PandaAPIGetPanda.Method(),
)

type PandaAPIStub struct {
	o *apitest.Orchestrator
}

func (stub *PandaAPIStub) Ping(ctx context.Context) apiresult.Result[apiresult.Unit, errorBody] {
	return apitest.Invoke(ctx, stub.o, PandaAPIPing)
}

func (stub *PandaAPIStub) GetPandas(ctx context.Context) apiresult.Result[[]panda, errorBody] {
	return apitest.Invoke(ctx, stub.o, PandaAPIGetPandas)
}

func (stub *PandaAPIStub) GetPanda(ctx context.Context, name string) apiresult.Result[panda, errorBody] {
	return apitest.Invoke(ctx, stub.o, PandaAPIGetPanda, name)
}

func NewPandaAPIController(opts ...apitest.Option) (*apitest.Controller[PandaAPI], error) {
	return apitest.NewController(
		PandaAPIService,
		func(o *apitest.Orchestrator) PandaAPI {
			return &PandaAPIStub{o: o}
		},
		opts...,
	)
}
