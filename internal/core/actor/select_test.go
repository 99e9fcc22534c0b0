package actor

import (
	"errors"
	"testing"
	"time"

	"github.com/berfenger/ariston2mqtt/internal/ariston"
	"github.com/berfenger/ariston2mqtt/internal/core/coordinator"
	"github.com/berfenger/ariston2mqtt/internal/core/domain"
	"github.com/berfenger/ariston2mqtt/internal/core/entity"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stateRecorder struct {
	events chan domain.SelectStateUpdateEvent
}

func newStateRecorder(es *eventstream.EventStream) *stateRecorder {
	r := &stateRecorder{events: make(chan domain.SelectStateUpdateEvent, 16)}
	es.Subscribe(func(value any) {
		if ev, ok := value.(domain.SelectStateUpdateEvent); ok {
			r.events <- ev
		}
	})
	return r
}

func (r *stateRecorder) next(t *testing.T) domain.SelectStateUpdateEvent {
	select {
	case ev := <-r.events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no state written")
		return domain.SelectStateUpdateEvent{}
	}
}

func spawnSelectActor(t *testing.T, as *actor.ActorSystem, dev ariston.Device, es *eventstream.EventStream) *actor.PID {
	logger := zap.NewNop()
	data := coordinator.NewDeviceDataCoordinator(dev, time.Minute)
	energy := coordinator.NewEnergyCoordinator(dev, time.Minute)

	var selects []*entity.Select
	entity.SetupSelects(data, energy, domain.DefaultSelectDescriptions(), EventStreamStateWriter(es, logger),
		func(entities []*entity.Select) { selects = entities })
	require.Len(t, selects, 3)

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewSelectActor(selects, domain.PlantDevice(dev.Attributes()), es, nil, time.Second, logger)
	})
	return as.Root.Spawn(props)
}

func TestSelectActorWritesStatesOnEnergyUpdate(t *testing.T) {

	as := actor.NewActorSystem()
	es := &eventstream.EventStream{}
	rec := newStateRecorder(es)
	dev := ariston.NewTestDevice()

	pid := spawnSelectActor(t, as, dev, es)

	// initial states
	for i := 0; i < 3; i++ {
		rec.next(t)
	}

	dev.StoreSetting(ariston.CONSUMPTION_GAS_TYPE, 5)
	es.Publish(domain.CoordinatorUpdatedEvent{Coordinator: coordinator.DEVICE_DATA})
	es.Publish(domain.CoordinatorUpdatedEvent{Coordinator: coordinator.ENERGY, Error: errors.New("timeout")})
	es.Publish(domain.CoordinatorUpdatedEvent{Coordinator: coordinator.ENERGY})

	states := map[string]string{}
	for i := 0; i < 3; i++ {
		ev := rec.next(t)
		states[ev.Id] = ev.Option
	}
	assert.Equal(t, "PROPANE", states[ariston.CONSUMPTION_GAS_TYPE])
	assert.Equal(t, "EUR", states[ariston.CONSUMPTION_CURRENCY])

	select {
	case ev := <-rec.events:
		t.Fatalf("unexpected state write %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}

	as.Root.Stop(pid)
	as.Shutdown()
}

func TestSelectActorSelectOption(t *testing.T) {

	as := actor.NewActorSystem()
	es := &eventstream.EventStream{}
	rec := newStateRecorder(es)
	dev := ariston.NewTestDevice()

	pid := spawnSelectActor(t, as, dev, es)
	for i := 0; i < 3; i++ {
		rec.next(t)
	}

	res, err := as.Root.RequestFuture(pid, domain.SelectOptionRequest{
		EntityId: ariston.CONSUMPTION_GAS_ENERGY_UNIT,
		Option:   "THERM",
	}, 2*time.Second).Result()
	require.NoError(t, err)
	resp, ok := res.(domain.SelectOptionResponse)
	require.True(t, ok)
	assert.NoError(t, resp.GetResponseError())

	ev := rec.next(t)
	assert.Equal(t, ariston.CONSUMPTION_GAS_ENERGY_UNIT, ev.Id)
	assert.Equal(t, "THERM", ev.Option)
	assert.Equal(t, []ariston.SetCall{{Key: ariston.CONSUMPTION_GAS_ENERGY_UNIT, Value: 3}}, dev.SetCalls())

	// device failure
	offline := errors.New("plant offline")
	dev.FailSettings(offline)
	res, err = as.Root.RequestFuture(pid, domain.SelectOptionRequest{
		EntityId: ariston.CONSUMPTION_GAS_ENERGY_UNIT,
		Option:   "KWH",
	}, 2*time.Second).Result()
	require.NoError(t, err)
	resp = res.(domain.SelectOptionResponse)
	assert.ErrorIs(t, resp.GetResponseError(), offline)

	res, err = as.Root.RequestFuture(pid, domain.GetSelectsRequest{}, 2*time.Second).Result()
	require.NoError(t, err)
	selects := res.(domain.GetSelectsResponse)
	require.Len(t, selects.Selects, 3)
	assert.Equal(t, "ariston_F0AD4E0590BD", selects.Selects[0].Device.Id)
	assert.Equal(t, "Ariston Home", selects.Selects[0].Device.Name)
	assert.Empty(t, selects.Selects[1].Device.Manufacturer, "only the first select carries full device info")
	assert.Equal(t, "THERM", selects.States[2].CurrentOption, "failed write leaves the state unchanged")

	as.Root.Stop(pid)
	as.Shutdown()
}
