package actor

import (
	"testing"
	"time"

	"github.com/berfenger/ariston2mqtt/internal/core/domain"
	"github.com/berfenger/ariston2mqtt/internal/util"
	"github.com/berfenger/ariston2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMQTTActor(t *testing.T) {

	cfg := util.LoadTestConfig()

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)

	context := as.Root

	es := &eventstream.EventStream{}

	mqttActor := NewTestMQTTActor(&cfg, es, logger)
	props := actor.PropsFromProducer(func() actor.Actor { return mqttActor })
	pid := context.Spawn(props)

	msg := domain.ActorHealthRequest{}
	result, err := context.RequestFuture(pid, msg, 2*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp, ok := result.(domain.ActorHealthResponse)
	assert.True(t, ok)
	assert.True(t, resp.Healthy)

	es.Publish(domain.SelectStateUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{
			Id: "consumption_currency",
		},
		Option: "EUR",
	})
	es.Publish(domain.CoordinatorUpdatedEvent{Coordinator: "energy"})

	assert.Eventually(t, func() bool {
		return len(mqttActor.Published()) == 1
	}, 2*time.Second, 50*time.Millisecond)

	published := mqttActor.Published()[0]
	assert.Equal(t, "ariston/select/consumption_currency/state", published.Topic)
	assert.Equal(t, "EUR", published.Payload)
	assert.True(t, published.Retain, "select states are retained")

	context.Stop(pid)

	as.Shutdown()
}
