package entity

import (
	"github.com/berfenger/ariston2mqtt/internal/ariston"
	"github.com/berfenger/ariston2mqtt/internal/core/coordinator"
)

// Entity is anything the host can show: it has a stable identity and a state.
type Entity interface {
	Id() string
	UniqueId() string
	State() (string, error)
}

// StateWriter asks the host to publish the current state of an entity.
type StateWriter func(entity Entity)

// CoordinatorEntity is the part shared by every entity backed by a
// coordinator. It never mutates the coordinator snapshot.
type CoordinatorEntity struct {
	coordinator *coordinator.DataCoordinator
	writer      StateWriter
}

func NewCoordinatorEntity(c *coordinator.DataCoordinator, writer StateWriter) CoordinatorEntity {
	return CoordinatorEntity{
		coordinator: c,
		writer:      writer,
	}
}

func (e CoordinatorEntity) Coordinator() *coordinator.DataCoordinator {
	return e.coordinator
}

func (e CoordinatorEntity) Device() ariston.Device {
	return e.coordinator.Device()
}

// Available reports whether the last coordinator refresh succeeded.
func (e CoordinatorEntity) Available() bool {
	last, err := e.coordinator.LastUpdate()
	return err == nil && !last.IsZero()
}

func (e CoordinatorEntity) writeState(entity Entity) {
	if e.writer != nil {
		e.writer(entity)
	}
}
