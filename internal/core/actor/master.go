package actor

import (
	"fmt"
	"log"
	"time"

	adactor "github.com/berfenger/ariston2mqtt/internal/adapter/actor"
	"github.com/berfenger/ariston2mqtt/internal/config"
	"github.com/berfenger/ariston2mqtt/internal/core/coordinator"
	"github.com/berfenger/ariston2mqtt/internal/core/domain"
	"github.com/berfenger/ariston2mqtt/internal/core/entity"
	. "github.com/berfenger/ariston2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"go.uber.org/zap"
)

type MQTTActorProvider func(*eventstream.EventStream) *adactor.MQTTActor

type MasterOfPuppetsActor struct {
	config   config.Config
	behavior actor.Behavior
	stash    *Stash

	currentHealthCheck healthCheckResult
	eventStream        *eventstream.EventStream
	dataCoordinator    *coordinator.DataCoordinator
	energyCoordinator  *coordinator.DataCoordinator
	descriptions       []domain.SelectEntityDescription
	mqttActor          *actor.PID
	dataActor          *actor.PID
	energyActor        *actor.PID
	selectActor        *actor.PID
	mqttActorProvider  MQTTActorProvider
	logger             *zap.Logger
}

type healthCheckResult struct {
	healthy        map[string]bool
	checksReceived int
	respondTo      *actor.PID
}

var healthCheckedActors = []string{
	domain.ACTOR_ID_MQTT,
	domain.ACTOR_ID_DATA_COORDINATOR,
	domain.ACTOR_ID_ENERGY_COORDINATOR,
	domain.ACTOR_ID_SELECT,
}

func NewMasterOfPuppetsActor(config config.Config, data *coordinator.DataCoordinator, energy *coordinator.DataCoordinator,
	descriptions []domain.SelectEntityDescription, mqttActorProvider MQTTActorProvider, logger *zap.Logger) *MasterOfPuppetsActor {
	act := &MasterOfPuppetsActor{
		config:            config,
		behavior:          actor.NewBehavior(),
		stash:             &Stash{},
		logger:            ActorLogger(domain.ACTOR_ID_MASTER, logger),
		eventStream:       &eventstream.EventStream{},
		dataCoordinator:   data,
		energyCoordinator: energy,
		descriptions:      descriptions,
		mqttActorProvider: mqttActorProvider,
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *MasterOfPuppetsActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *MasterOfPuppetsActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("master@starting started")

		state.currentHealthCheck.reset()

		// start MQTT child
		mqttActorPID, err := state.startMQTTActor(ctx)
		if err != nil {
			panic(err)
		}
		state.mqttActor = mqttActorPID

		// start coordinator children
		state.dataActor, err = state.startCoordinatorActor(ctx, domain.ACTOR_ID_DATA_COORDINATOR, state.dataCoordinator)
		if err != nil {
			panic(err)
		}
		state.energyActor, err = state.startCoordinatorActor(ctx, domain.ACTOR_ID_ENERGY_COORDINATOR, state.energyCoordinator)
		if err != nil {
			panic(err)
		}

		// build entities and start Select child
		var selects []*entity.Select
		entity.SetupSelects(state.dataCoordinator, state.energyCoordinator, state.descriptions,
			EventStreamStateWriter(state.eventStream, state.logger), func(entities []*entity.Select) {
				selects = append(selects, entities...)
			})
		state.logger.Info("master@starting entities created", zap.Int("selects", len(selects)))
		state.selectActor, err = state.startSelectActor(ctx, selects)
		if err != nil {
			panic(err)
		}

		// start HA Discovery
		if state.config.MQTT.HADiscoveryEnable {
			_, err := state.startHADiscoveryActor(ctx)
			if err != nil {
				panic(err)
			}
		}

		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("master@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MasterOfPuppetsActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("master@default ActorHealthRequest")
		state.currentHealthCheck.reset()
		state.currentHealthCheck.respondTo = ctx.Sender()
		for _, pid := range []*actor.PID{state.mqttActor, state.dataActor, state.energyActor, state.selectActor} {
			id := pid.Id
			PipeToSelfWithRecover(ctx, ctx.RequestFuture(pid, domain.ActorHealthRequest{}, 500*time.Millisecond), func(err error) any {
				return domain.ActorHealthResponse{
					Id:      childName(id),
					Healthy: false,
				}
			})
		}

		ctx.SetReceiveTimeout(1 * time.Second)

		state.behavior.BecomeStacked(state.HealthCheckReceive)
	case adactor.ParsedCommand:
		// redirect parsedCommand to actor
		state.logger.Debug("master@default parsedCommand", zap.Any("command", msg.Command))
		if msg.Command != nil {
			switch cmd := ParsedMQTTCommandToCommand(*msg.Command).(type) {
			case domain.SelectOptionRequest:
				ctx.Send(state.selectActor, cmd)
			}
		}
	case domain.SelectOptionRequest:
		ctx.Forward(state.selectActor)
	case domain.GetSelectsRequest:
		ctx.Forward(state.selectActor)
	case domain.RefreshRequest:
		ctx.Forward(state.energyActor)
	case *actor.Terminated:
		state.logger.Error("master@default child terminated", zap.String("who", msg.Who.Id))
	default:
		state.logger.Debug("master@default unhandled", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *MasterOfPuppetsActor) HealthCheckReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.ReceiveTimeout:
		// if some actor does not respond to healthCheck, assume not healthy
		ctx.CancelReceiveTimeout()
		state.currentHealthCheck.respond(ctx)
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	case domain.ActorHealthResponse:
		state.logger.Debug("master@healthcheck ActorHealthResponse", zap.String("sender", msg.Id), zap.Bool("healthy", msg.Healthy))
		state.currentHealthCheck.checksReceived++
		if msg.Healthy {
			state.currentHealthCheck.healthy[msg.Id] = true
		}
		if state.currentHealthCheck.allReceived() {
			ctx.CancelReceiveTimeout()
			state.currentHealthCheck.respond(ctx)

			state.behavior.UnbecomeStacked()
			state.stash.UnstashAll(ctx)
		}
	default:
		state.logger.Debug("master@healthcheck stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MasterOfPuppetsActor) requestTimeout() time.Duration {
	if state.config.Ariston.RequestTimeoutMillis == 0 {
		return 10 * time.Second
	}
	return time.Duration(state.config.Ariston.RequestTimeoutMillis) * time.Millisecond
}

func (state *MasterOfPuppetsActor) startCoordinatorActor(ctx actor.Context, id string, c *coordinator.DataCoordinator) (*actor.PID, error) {

	decider := func(reason interface{}) actor.Directive {
		log.Printf("handling failure for child. reason: %v", reason)
		return actor.RestartDirective
	}
	supervisor := actor.NewOneForOneStrategy(10, 10*time.Second, decider)

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewCoordinatorActor(id, c, state.eventStream, state.requestTimeout(), state.logger)
	}, actor.WithSupervisor(supervisor))
	return ctx.SpawnNamed(props, id)
}

func (state *MasterOfPuppetsActor) startSelectActor(ctx actor.Context, selects []*entity.Select) (*actor.PID, error) {

	decider := func(reason interface{}) actor.Directive {
		log.Printf("handling failure for child. reason: %v", reason)
		return actor.RestartDirective
	}
	supervisor := actor.NewOneForOneStrategy(10, 10*time.Second, decider)

	device := domain.PlantDevice(state.dataCoordinator.Device().Attributes())
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewSelectActor(selects, device, state.eventStream, state.mqttActor, state.requestTimeout(), state.logger)
	}, actor.WithSupervisor(supervisor))
	return ctx.SpawnNamed(props, domain.ACTOR_ID_SELECT)
}

func (state *MasterOfPuppetsActor) startHADiscoveryActor(ctx actor.Context) (*actor.PID, error) {

	decider := func(reason interface{}) actor.Directive {
		log.Printf("handling failure for child. reason: %v", reason)
		return actor.RestartDirective
	}
	supervisor := actor.NewOneForOneStrategy(1, 10*time.Second, decider)

	haDiscProps := actor.PropsFromProducer(func() actor.Actor {
		return NewHADiscoveryActor(&state.config, state.selectActor, state.mqttActor, state.logger)
	}, actor.WithSupervisor(supervisor))
	return ctx.SpawnNamed(haDiscProps, domain.ACTOR_ID_HA_DISCOVERY)
}

func (state *MasterOfPuppetsActor) startMQTTActor(ctx actor.Context) (*actor.PID, error) {

	supervisor := actor.NewExponentialBackoffStrategy(10*time.Second, 1*time.Second)

	mqttProps := actor.PropsFromProducer(func() actor.Actor {
		return state.mqttActorProvider(state.eventStream)
	}, actor.WithSupervisor(supervisor))
	return ctx.SpawnNamed(mqttProps, domain.ACTOR_ID_MQTT)
}

// childName strips the parent prefix from a child PID id.
func childName(pid string) string {
	prefix := domain.ACTOR_ID_MASTER + "/"
	if len(pid) > len(prefix) && pid[:len(prefix)] == prefix {
		return pid[len(prefix):]
	}
	return pid
}

func (state *healthCheckResult) reset() {
	state.healthy = map[string]bool{}
	state.checksReceived = 0
	state.respondTo = nil
}

func (state *healthCheckResult) allReceived() bool {
	return state.checksReceived == len(healthCheckedActors)
}

func (state *healthCheckResult) allHealthy() bool {
	for _, id := range healthCheckedActors {
		if !state.healthy[id] {
			return false
		}
	}
	return true
}

func (state *healthCheckResult) respond(ctx actor.Context) {
	resp := domain.ActorHealthResponse{
		Id:      domain.ACTOR_ID_MASTER,
		Healthy: state.allHealthy(),
	}
	if state.respondTo != nil {
		ctx.Send(state.respondTo, resp)
	}
}
