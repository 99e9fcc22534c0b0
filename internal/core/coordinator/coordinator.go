package coordinator

import (
	"context"
	"sync"
	"time"

	"github.com/berfenger/ariston2mqtt/internal/ariston"
)

const (
	DEVICE_DATA = "device_data"
	ENERGY      = "energy"
)

// DataCoordinator refreshes one part of a device snapshot. Entities hold a
// reference to it and only read the device through it.
type DataCoordinator struct {
	name     string
	device   ariston.Device
	interval time.Duration
	update   func(ctx context.Context) error

	mu          sync.RWMutex
	lastSuccess time.Time
	lastError   error
}

func NewDeviceDataCoordinator(device ariston.Device, interval time.Duration) *DataCoordinator {
	return &DataCoordinator{
		name:     DEVICE_DATA,
		device:   device,
		interval: interval,
		update:   device.UpdateState,
	}
}

func NewEnergyCoordinator(device ariston.Device, interval time.Duration) *DataCoordinator {
	return &DataCoordinator{
		name:     ENERGY,
		device:   device,
		interval: interval,
		update:   device.UpdateEnergy,
	}
}

func (c *DataCoordinator) Name() string {
	return c.name
}

func (c *DataCoordinator) Device() ariston.Device {
	return c.device
}

func (c *DataCoordinator) Interval() time.Duration {
	return c.interval
}

func (c *DataCoordinator) Refresh(ctx context.Context) error {
	err := c.update(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastError = err
	if err == nil {
		c.lastSuccess = time.Now()
	}
	return err
}

// LastUpdate returns the time of the last successful refresh and the
// error of the last attempt.
func (c *DataCoordinator) LastUpdate() (time.Time, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastSuccess, c.lastError
}
