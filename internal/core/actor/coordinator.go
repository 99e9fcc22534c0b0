package actor

import (
	"context"
	"fmt"
	"time"

	"github.com/berfenger/ariston2mqtt/internal/core/coordinator"
	"github.com/berfenger/ariston2mqtt/internal/core/domain"
	. "github.com/berfenger/ariston2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/asynkron/protoactor-go/scheduler"
	"go.uber.org/zap"
)

// CoordinatorActor polls one DataCoordinator and announces every refresh
// attempt on the event stream.
type CoordinatorActor struct {
	id        string
	behavior  actor.Behavior
	stash     *Stash
	scheduler *scheduler.TimerScheduler

	coordinator *coordinator.DataCoordinator
	eventStream *eventstream.EventStream
	timeout     time.Duration

	logger *zap.Logger
}

type coordinatorTick struct {
}

type refreshResult struct {
	replyTo *actor.PID
	err     error
}

func NewCoordinatorActor(id string, c *coordinator.DataCoordinator, eventStream *eventstream.EventStream,
	timeout time.Duration, logger *zap.Logger) *CoordinatorActor {
	act := &CoordinatorActor{
		id:          id,
		coordinator: c,
		eventStream: eventStream,
		timeout:     timeout,
		behavior:    actor.NewBehavior(),
		stash:       &Stash{},
		logger:      ActorLogger(id, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *CoordinatorActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *CoordinatorActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug(state.id+"@starting started", zap.Duration("interval", state.coordinator.Interval()))

		if state.coordinator.Interval() > 0 {
			state.scheduler = scheduler.NewTimerScheduler(ctx)
			state.scheduler.RequestOnce(state.coordinator.Interval(), ctx.Self(), coordinatorTick{})
		}
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case *actor.Restarting:
	default:
		state.logger.Debug(state.id+"@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *CoordinatorActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug(state.id + "@default: ActorHealthRequest")
		ctx.Respond(state.health("idle"))
	case coordinatorTick:
		state.logger.Debug(state.id + "@default tick")
		state.refresh(ctx, nil)

		// schedule next tick
		state.scheduler.RequestOnce(state.coordinator.Interval(), ctx.Self(), coordinatorTick{})
	case domain.RefreshRequest:
		state.logger.Debug(state.id + "@default RefreshRequest")
		state.refresh(ctx, ForRequest(msg).ReplyTo(ctx))
	case domain.GetCoordinatorStatusRequest:
		ForRequest(msg).Respond(ctx, state.status())
	default:
		state.logger.Debug(state.id+"@default: unhandled", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *CoordinatorActor) RefreshingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case refreshResult:
		if msg.err != nil {
			state.logger.Error(state.id+"@refreshing refresh error", zap.Error(msg.err))
		} else {
			state.logger.Debug(state.id + "@refreshing refreshed")
		}
		state.eventStream.Publish(domain.CoordinatorUpdatedEvent{
			Coordinator: state.coordinator.Name(),
			Error:       msg.err,
		})
		RespondTo(ctx, msg.replyTo, domain.RefreshResponse{
			ActorResponseMixIn: domain.ErrorMixIn(msg.err),
		})
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	case domain.ActorHealthRequest:
		ctx.Respond(state.health("refreshing"))
	case domain.GetCoordinatorStatusRequest:
		ForRequest(msg).Respond(ctx, state.status())
	case coordinatorTick:
		// a refresh is already running
		state.scheduler.RequestOnce(state.coordinator.Interval(), ctx.Self(), coordinatorTick{})
	default:
		state.logger.Debug(state.id+"@refreshing: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *CoordinatorActor) refresh(ctx actor.Context, replyTo *actor.PID) {
	c := state.coordinator
	timeout := state.timeout
	NewBackgroundTask(ctx, func() (*refreshResult, error) {
		rctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return &refreshResult{replyTo: replyTo, err: c.Refresh(rctx)}, nil
	}).WithTimeout(timeout + time.Second).Recover(func(err error) refreshResult {
		return refreshResult{replyTo: replyTo, err: err}
	}).PipeTo(ctx.Self())
	state.behavior.BecomeStacked(state.RefreshingReceive)
}

func (state *CoordinatorActor) health(s string) domain.ActorHealthResponse {
	return domain.ActorHealthResponse{
		Id:      state.id,
		Healthy: true,
		State:   s,
	}
}

func (state *CoordinatorActor) status() domain.GetCoordinatorStatusResponse {
	last, err := state.coordinator.LastUpdate()
	return domain.GetCoordinatorStatusResponse{
		Name:        state.coordinator.Name(),
		LastSuccess: last,
		LastError:   err,
	}
}
