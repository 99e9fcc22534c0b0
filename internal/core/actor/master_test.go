package actor

import (
	"testing"
	"time"

	adactor "github.com/berfenger/ariston2mqtt/internal/adapter/actor"
	"github.com/berfenger/ariston2mqtt/internal/ariston"
	"github.com/berfenger/ariston2mqtt/internal/core/coordinator"
	"github.com/berfenger/ariston2mqtt/internal/core/domain"
	"github.com/berfenger/ariston2mqtt/internal/mqtt"
	"github.com/berfenger/ariston2mqtt/internal/util"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func hasMessage(published []adactor.PublishedMessage, topic, payload string) bool {
	for _, m := range published {
		if m.Topic == topic && m.Payload == payload {
			return true
		}
	}
	return false
}

func TestMasterActor(t *testing.T) {

	as := actor.NewActorSystem()
	context := as.Root

	cfg := util.LoadTestConfig()
	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger := zap.Must(logCfg.Build())

	dev := ariston.NewTestDevice()
	data := coordinator.NewDeviceDataCoordinator(dev, time.Minute)
	energy := coordinator.NewEnergyCoordinator(dev, time.Minute)

	var mqttActor *adactor.MQTTActor
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewMasterOfPuppetsActor(cfg, data, energy, domain.DefaultSelectDescriptions(), func(es *eventstream.EventStream) *adactor.MQTTActor {
			mqttActor = adactor.NewTestMQTTActor(&cfg, es, logger)
			return mqttActor
		}, logger)
	})
	pid, err := context.SpawnNamed(props, domain.ACTOR_ID_MASTER)
	require.NoError(t, err)

	time.Sleep(1 * time.Second)

	res, err := context.RequestFuture(pid, domain.ActorHealthRequest{}, 10*time.Second).Result()
	require.NoError(t, err)
	healthResp, ok := res.(domain.ActorHealthResponse)
	assert.True(t, ok)
	assert.True(t, healthResp.Healthy, "healthy is true")

	// initial states and discovery
	stateTopic := "ariston/select/" + ariston.CONSUMPTION_CURRENCY + "/state"
	assert.Eventually(t, func() bool {
		return hasMessage(mqttActor.Published(), stateTopic, "EUR")
	}, 5*time.Second, 50*time.Millisecond, "initial state published")
	assert.Eventually(t, func() bool {
		for _, m := range mqttActor.Published() {
			if m.Topic == "homeassistant/select/ariston_F0AD4E0590BD/"+ariston.CONSUMPTION_CURRENCY+"/config" {
				return true
			}
		}
		return false
	}, 5*time.Second, 50*time.Millisecond, "discovery published")

	// command from MQTT
	context.Send(pid, adactor.ParsedCommand{Command: &mqtt.ParsedMQTTCommand{
		DeviceId: ariston.CONSUMPTION_CURRENCY,
		Command:  mqtt.COMMAND_SELECT,
		Payload:  "USD",
	}})
	assert.Eventually(t, func() bool {
		return dev.ConsumptionsSettings()[ariston.CONSUMPTION_CURRENCY] == 7
	}, 5*time.Second, 50*time.Millisecond, "device written")
	assert.Eventually(t, func() bool {
		return hasMessage(mqttActor.Published(), stateTopic, "USD")
	}, 5*time.Second, 50*time.Millisecond, "new state published")

	// selects listing through master
	res, err = context.RequestFuture(pid, domain.GetSelectsRequest{}, 2*time.Second).Result()
	require.NoError(t, err)
	selects, ok := res.(domain.GetSelectsResponse)
	require.True(t, ok)
	require.Len(t, selects.States, 3)
	assert.Equal(t, "USD", selects.States[0].CurrentOption)

	context.Stop(pid)

	as.Shutdown()
}

func TestMasterActorUnknownOption(t *testing.T) {

	as := actor.NewActorSystem()
	context := as.Root

	cfg := util.LoadTestConfig()
	cfg.MQTT.HADiscoveryEnable = false
	logger := zap.NewNop()

	dev := ariston.NewTestDevice()
	data := coordinator.NewDeviceDataCoordinator(dev, time.Minute)
	energy := coordinator.NewEnergyCoordinator(dev, time.Minute)

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewMasterOfPuppetsActor(cfg, data, energy, domain.DefaultSelectDescriptions(), func(es *eventstream.EventStream) *adactor.MQTTActor {
			return adactor.NewTestMQTTActor(&cfg, es, logger)
		}, logger)
	})
	pid := context.Spawn(props)

	res, err := context.RequestFuture(pid, domain.SelectOptionRequest{
		EntityId: ariston.CONSUMPTION_GAS_TYPE,
		Option:   "COAL",
	}, 5*time.Second).Result()
	require.NoError(t, err)
	resp, ok := res.(domain.SelectOptionResponse)
	require.True(t, ok)
	assert.ErrorIs(t, resp.GetResponseError(), domain.ErrUnknownOption)
	assert.Empty(t, dev.SetCalls(), "nothing written")

	res, err = context.RequestFuture(pid, domain.SelectOptionRequest{
		EntityId: "boost_mode",
		Option:   "ON",
	}, 5*time.Second).Result()
	require.NoError(t, err)
	resp, ok = res.(domain.SelectOptionResponse)
	require.True(t, ok)
	assert.ErrorIs(t, resp.GetResponseError(), ErrUnknownEntity)

	context.Stop(pid)

	as.Shutdown()
}
