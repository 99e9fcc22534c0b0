package domain

import "fmt"

type SensorUpdateEventMixIn struct {
	Id string
}

type SensorUpdateEvent interface {
	SensorUpdateEvent() string
	SensorId() string
}

func (e SensorUpdateEventMixIn) SensorUpdateEvent() string {
	return fmt.Sprintf("%T", e)
}

func (e SensorUpdateEventMixIn) SensorId() string {
	return e.Id
}

// SelectStateUpdateEvent carries the option currently selected on the plant.
type SelectStateUpdateEvent struct {
	SensorUpdateEventMixIn
	Option string
}

type BridgeStateUpdateEvent struct {
	SensorUpdateEventMixIn
	Value bool
}

// CoordinatorUpdatedEvent is published after every refresh attempt of a coordinator.
type CoordinatorUpdatedEvent struct {
	Coordinator string
	Error       error
}
