package actor

import (
	"errors"
	"testing"
	"time"

	"github.com/berfenger/ariston2mqtt/internal/ariston/mocks"
	"github.com/berfenger/ariston2mqtt/internal/core/coordinator"
	"github.com/berfenger/ariston2mqtt/internal/core/domain"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestCoordinatorActorRefresh(t *testing.T) {

	ctrl := gomock.NewController(t)
	dev := mocks.NewMockDevice(ctrl)
	gomock.InOrder(
		dev.EXPECT().UpdateEnergy(gomock.Any()).Return(nil),
		dev.EXPECT().UpdateEnergy(gomock.Any()).Return(errors.New("http 500")),
	)

	as := actor.NewActorSystem()
	es := &eventstream.EventStream{}
	updates := make(chan domain.CoordinatorUpdatedEvent, 4)
	es.Subscribe(func(value any) {
		if ev, ok := value.(domain.CoordinatorUpdatedEvent); ok {
			updates <- ev
		}
	})

	// a long interval keeps the timer out of the way
	c := coordinator.NewEnergyCoordinator(dev, time.Hour)
	pid := as.Root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewCoordinatorActor(domain.ACTOR_ID_ENERGY_COORDINATOR, c, es, time.Second, zap.NewNop())
	}))

	res, err := as.Root.RequestFuture(pid, domain.RefreshRequest{}, 2*time.Second).Result()
	require.NoError(t, err)
	assert.NoError(t, res.(domain.RefreshResponse).GetResponseError())
	ev := <-updates
	assert.Equal(t, coordinator.ENERGY, ev.Coordinator)
	assert.NoError(t, ev.Error)

	res, err = as.Root.RequestFuture(pid, domain.RefreshRequest{}, 2*time.Second).Result()
	require.NoError(t, err)
	assert.Error(t, res.(domain.RefreshResponse).GetResponseError())
	ev = <-updates
	assert.Error(t, ev.Error, "failed refreshes are announced too")

	res, err = as.Root.RequestFuture(pid, domain.GetCoordinatorStatusRequest{}, 2*time.Second).Result()
	require.NoError(t, err)
	status := res.(domain.GetCoordinatorStatusResponse)
	assert.Equal(t, coordinator.ENERGY, status.Name)
	assert.False(t, status.LastSuccess.IsZero())
	assert.Error(t, status.LastError)

	res, err = as.Root.RequestFuture(pid, domain.ActorHealthRequest{}, 2*time.Second).Result()
	require.NoError(t, err)
	health := res.(domain.ActorHealthResponse)
	assert.True(t, health.Healthy)
	assert.Equal(t, domain.ACTOR_ID_ENERGY_COORDINATOR, health.Id)

	as.Root.Stop(pid)
	as.Shutdown()
}
