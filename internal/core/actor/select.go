package actor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/berfenger/ariston2mqtt/internal/core/coordinator"
	"github.com/berfenger/ariston2mqtt/internal/core/domain"
	"github.com/berfenger/ariston2mqtt/internal/core/entity"
	. "github.com/berfenger/ariston2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"go.uber.org/zap"
)

var ErrUnknownEntity = errors.New("unknown entity")

// SelectActor owns the select entities. Option changes are serialized: a
// request waits for the previous device write to finish.
type SelectActor struct {
	behavior       actor.Behavior
	stash          *Stash
	eventStream    *eventstream.EventStream
	eventStreamSub *eventstream.Subscription
	mqttActor      *actor.PID

	selects   []*entity.Select
	byId      map[string]*entity.Select
	device    domain.Device
	timeout   time.Duration
	readyWait time.Duration

	logger *zap.Logger
}

type onCoordinatorUpdated struct {
	event domain.CoordinatorUpdatedEvent
}

type selectOptionResult struct {
	replyTo  *actor.PID
	entityId string
	option   string
	err      error
}

func NewSelectActor(selects []*entity.Select, device domain.Device, eventStream *eventstream.EventStream,
	mqttActor *actor.PID, timeout time.Duration, logger *zap.Logger) *SelectActor {
	byId := make(map[string]*entity.Select, len(selects))
	for _, s := range selects {
		byId[s.Id()] = s
	}
	act := &SelectActor{
		selects:     selects,
		byId:        byId,
		device:      device,
		eventStream: eventStream,
		mqttActor:   mqttActor,
		timeout:     timeout,
		readyWait:   15 * time.Second,
		behavior:    actor.NewBehavior(),
		stash:       &Stash{},
		logger:      ActorLogger(domain.ACTOR_ID_SELECT, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

// EventStreamStateWriter publishes the state of an entity on the event
// stream. Entities whose state cannot be computed are logged and skipped.
func EventStreamStateWriter(eventStream *eventstream.EventStream, logger *zap.Logger) entity.StateWriter {
	return func(e entity.Entity) {
		option, err := e.State()
		if err != nil {
			logger.Error("select: current option", zap.String("entity", e.Id()), zap.Error(err))
			return
		}
		eventStream.Publish(domain.SelectStateUpdateEvent{
			SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{Id: e.Id()},
			Option:                 option,
		})
	}
}

func (state *SelectActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *SelectActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("select@starting started", zap.Int("entities", len(state.selects)))

		self := ctx.Self()
		root := ctx.ActorSystem().Root
		state.eventStreamSub = state.eventStream.Subscribe(func(value any) {
			if ev, ok := value.(domain.CoordinatorUpdatedEvent); ok {
				root.Send(self, onCoordinatorUpdated{event: ev})
			}
		})

		// initial states are written once MQTT listens to the event stream
		if state.mqttActor == nil {
			state.writeAll()
			state.behavior.Become(state.DefaultReceive)
			state.stash.UnstashAll(ctx)
			return
		}
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.mqttActor, domain.ActorHealthRequest{}, state.readyWait), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_MQTT,
				Healthy: false,
			}
		})
	case domain.ActorHealthResponse:
		if msg.Healthy {
			state.writeAll()
		} else {
			state.logger.Warn("select@starting mqtt not ready, states are written on next refresh")
		}
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case domain.ActorHealthRequest:
		ctx.Respond(state.health("starting"))
	case *actor.Stopping:
		state.unsubscribe()
	case *actor.Restarting:
		state.unsubscribe()
	default:
		state.logger.Debug("select@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *SelectActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("select@default: ActorHealthRequest")
		ctx.Respond(state.health("idle"))
	case onCoordinatorUpdated:
		state.handleCoordinatorUpdated(msg.event)
	case domain.SelectOptionRequest:
		state.logger.Debug("select@default SelectOptionRequest", zap.String("entity", msg.EntityId), zap.String("option", msg.Option))
		replyTo := ForRequest(msg).ReplyTo(ctx)
		sel, ok := state.byId[msg.EntityId]
		if !ok {
			err := fmt.Errorf("%s: %w", msg.EntityId, ErrUnknownEntity)
			state.logger.Error("select@default select option", zap.Error(err))
			RespondTo(ctx, replyTo, domain.SelectOptionResponse{ActorResponseMixIn: domain.ErrorMixIn(err)})
			return
		}
		state.selectOption(ctx, sel, msg.Option, replyTo)
	case domain.GetSelectsRequest:
		ForRequest(msg).Respond(ctx, state.getSelects())
	case *actor.Stopping:
		state.unsubscribe()
	case *actor.Restarting:
		state.unsubscribe()
	default:
		state.logger.Debug("select@default: unhandled", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *SelectActor) SelectingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case selectOptionResult:
		if msg.err != nil {
			state.logger.Error("select@selecting select option", zap.String("entity", msg.entityId),
				zap.String("option", msg.option), zap.Error(msg.err))
		}
		RespondTo(ctx, msg.replyTo, domain.SelectOptionResponse{
			ActorResponseMixIn: domain.ErrorMixIn(msg.err),
		})
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	case domain.ActorHealthRequest:
		ctx.Respond(state.health("selecting"))
	case domain.GetSelectsRequest:
		ForRequest(msg).Respond(ctx, state.getSelects())
	default:
		state.logger.Debug("select@selecting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *SelectActor) selectOption(ctx actor.Context, sel *entity.Select, option string, replyTo *actor.PID) {
	timeout := state.timeout
	NewBackgroundTask(ctx, func() (*selectOptionResult, error) {
		sctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return &selectOptionResult{
			replyTo:  replyTo,
			entityId: sel.Id(),
			option:   option,
			err:      sel.SelectOption(sctx, option),
		}, nil
	}).WithTimeout(timeout + time.Second).Recover(func(err error) selectOptionResult {
		return selectOptionResult{replyTo: replyTo, entityId: sel.Id(), option: option, err: err}
	}).PipeTo(ctx.Self())
	state.behavior.BecomeStacked(state.SelectingReceive)
}

func (state *SelectActor) handleCoordinatorUpdated(ev domain.CoordinatorUpdatedEvent) {
	if ev.Coordinator != coordinator.ENERGY {
		return
	}
	if ev.Error != nil {
		state.logger.Warn("select@default energy refresh failed, keeping last states", zap.Error(ev.Error))
		return
	}
	state.logger.Debug("select@default energy updated")
	state.writeAll()
}

func (state *SelectActor) writeAll() {
	for _, s := range state.selects {
		s.HandleCoordinatorUpdate()
	}
}

func (state *SelectActor) getSelects() domain.GetSelectsResponse {
	resp := domain.GetSelectsResponse{
		Device:  state.device,
		Selects: make([]domain.GenericSelect, 0, len(state.selects)),
		States:  make([]domain.SelectState, 0, len(state.selects)),
	}
	for i, s := range state.selects {
		dev := state.device
		if i > 0 {
			dev = domain.IdDevice(state.device)
		}
		d := s.Description()
		resp.Selects = append(resp.Selects, domain.GenericSelect{
			Device:         dev,
			Id:             s.Id(),
			Name:           s.Name(),
			UniqueId:       s.UniqueId(),
			Icon:           d.Icon,
			EntityCategory: d.EntityCategory,
			Options:        s.Options(),
		})

		st := domain.SelectState{
			Id:       s.Id(),
			UniqueId: s.UniqueId(),
			Name:     s.Name(),
			Options:  s.Options(),
		}
		if current, err := s.CurrentOption(); err != nil {
			st.Error = err.Error()
		} else {
			st.CurrentOption = current
		}
		resp.States = append(resp.States, st)
	}
	return resp
}

func (state *SelectActor) health(s string) domain.ActorHealthResponse {
	return domain.ActorHealthResponse{
		Id:      domain.ACTOR_ID_SELECT,
		Healthy: true,
		State:   s,
	}
}

func (state *SelectActor) unsubscribe() {
	if state.eventStreamSub != nil {
		state.eventStream.Unsubscribe(state.eventStreamSub)
		state.eventStreamSub = nil
	}
}
