package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/berfenger/ariston2mqtt/internal/core/domain"
	"github.com/berfenger/ariston2mqtt/internal/util"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMaster answers like the master actor with fixed data.
type fakeMaster struct {
	healthy bool
}

func (f *fakeMaster) Receive(ctx actor.Context) {
	switch ctx.Message().(type) {
	case domain.ActorHealthRequest:
		ctx.Respond(domain.ActorHealthResponse{Id: domain.ACTOR_ID_MASTER, Healthy: f.healthy})
	case domain.GetSelectsRequest:
		ctx.Respond(domain.GetSelectsResponse{
			States: []domain.SelectState{
				{
					Id:            "currency",
					UniqueId:      "F0AD4E0590BD-Consumption currency",
					Name:          "Consumption currency",
					Options:       []string{"ARS", "EUR"},
					CurrentOption: "EUR",
				},
				{
					Id:       "gasType",
					UniqueId: "F0AD4E0590BD-Consumption gas type",
					Name:     "Consumption gas type",
					Options:  []string{"NATURAL_GAS"},
					Error:    "GasType gasType=9: unknown enum value",
				},
			},
		})
	}
}

func newTestHandler(t *testing.T, healthy bool) (http.Handler, func()) {
	as := actor.NewActorSystem()
	pid := as.Root.Spawn(actor.PropsFromProducer(func() actor.Actor { return &fakeMaster{healthy: healthy} }))
	s := &Server{
		port:        util.LoadTestConfig().Port,
		rootContext: as.Root,
		masterActor: pid,
	}
	return s.RegisterRoutes(), func() {
		as.Root.Stop(pid)
		time.Sleep(10 * time.Millisecond)
		as.Shutdown()
	}
}

func TestHealthCheck(t *testing.T) {

	handler, stop := newTestHandler(t, true)
	defer stop()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "health_check: OK", rec.Body.String())
}

func TestHealthCheckFail(t *testing.T) {

	handler, stop := newTestHandler(t, false)
	defer stop()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSelects(t *testing.T) {

	handler, stop := newTestHandler(t, true)
	defer stop()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/selects", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var states []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &states))
	require.Len(t, states, 2)
	assert.Equal(t, "EUR", states[0]["current_option"])
	assert.Nil(t, states[0]["error"])
	assert.Nil(t, states[1]["current_option"])
	assert.NotEmpty(t, states[1]["error"])
}
