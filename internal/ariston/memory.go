package ariston

import (
	"context"
	"fmt"
	"maps"
	"os"
	"sync"

	"github.com/goccy/go-yaml"
)

// MemoryDevice keeps its snapshot in memory. It backs offline mode
// (snapshot loaded from a yaml fixture) and tests.
type MemoryDevice struct {
	mu                  sync.RWMutex
	attributes          map[DeviceAttribute]string
	features            map[DeviceFeature]bool
	extraEnergyFeatures bool
	settings            map[string]int

	setErr   error
	setCalls []SetCall
}

type SetCall struct {
	Key   string
	Value int
}

type fixture struct {
	Attributes          map[string]string `yaml:"attributes"`
	Features            map[string]bool   `yaml:"features"`
	ExtraEnergyFeatures bool              `yaml:"extra_energy_features"`
	Settings            map[string]int    `yaml:"consumptions_settings"`
}

func NewMemoryDevice(attributes map[DeviceAttribute]string, features map[DeviceFeature]bool,
	extraEnergyFeatures bool, settings map[string]int) *MemoryDevice {
	if settings == nil {
		settings = map[string]int{}
	}
	return &MemoryDevice{
		attributes:          maps.Clone(attributes),
		features:            maps.Clone(features),
		extraEnergyFeatures: extraEnergyFeatures,
		settings:            maps.Clone(settings),
	}
}

func LoadFixtureDevice(filename string) (*MemoryDevice, error) {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading fixture file: %v", err)
	}
	return ParseFixture(buf)
}

func ParseFixture(buf []byte) (*MemoryDevice, error) {
	f := fixture{}
	if err := yaml.Unmarshal(buf, &f); err != nil {
		return nil, fmt.Errorf("parsing yaml: %v", err)
	}
	if f.Attributes[string(GW_ID)] == "" {
		return nil, fmt.Errorf("fixture: attribute %s is required", GW_ID)
	}

	attributes := make(map[DeviceAttribute]string, len(f.Attributes))
	for k, v := range f.Attributes {
		attributes[DeviceAttribute(k)] = v
	}
	features := make(map[DeviceFeature]bool, len(f.Features))
	for k, v := range f.Features {
		features[DeviceFeature(k)] = v
	}
	return NewMemoryDevice(attributes, features, f.ExtraEnergyFeatures, f.Settings), nil
}

func (d *MemoryDevice) GatewayId() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.attributes[GW_ID]
}

func (d *MemoryDevice) Attributes() map[DeviceAttribute]string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return maps.Clone(d.attributes)
}

func (d *MemoryDevice) Features() map[DeviceFeature]bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return maps.Clone(d.features)
}

func (d *MemoryDevice) ExtraEnergyFeatures() bool {
	return d.extraEnergyFeatures
}

func (d *MemoryDevice) ConsumptionsSettings() map[string]int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return maps.Clone(d.settings)
}

func (d *MemoryDevice) UpdateState(ctx context.Context) error {
	return ctx.Err()
}

func (d *MemoryDevice) UpdateEnergy(ctx context.Context) error {
	return ctx.Err()
}

func (d *MemoryDevice) SetConsumptionsSettings(ctx context.Context, key string, value int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setCalls = append(d.setCalls, SetCall{Key: key, Value: value})
	if d.setErr != nil {
		return d.setErr
	}
	d.settings[key] = value
	return nil
}

// FailSettings makes every following SetConsumptionsSettings call return err.
// A nil err restores normal writes.
func (d *MemoryDevice) FailSettings(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setErr = err
}

// SetCalls returns every SetConsumptionsSettings call received so far.
func (d *MemoryDevice) SetCalls() []SetCall {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]SetCall(nil), d.setCalls...)
}

// StoreSetting changes the snapshot directly, as a refresh from the plant would.
func (d *MemoryDevice) StoreSetting(key string, value int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.settings[key] = value
}

func NewTestDevice() *MemoryDevice {
	return NewMemoryDevice(map[DeviceAttribute]string{
		GW_ID:            "F0AD4E0590BD",
		SERIAL_NUMBER:    "SN0123456789",
		NAME:             "Home",
		SYSTEM:           "1",
		FIRMWARE_VERSION: "01.10.12",
	}, map[DeviceFeature]bool{
		HAS_METERING: true,
		HAS_BOILER:   true,
		HAS_DHW:      true,
	}, true, map[string]int{
		CONSUMPTION_CURRENCY:        2,
		CONSUMPTION_GAS_TYPE:        1,
		CONSUMPTION_GAS_ENERGY_UNIT: 1,
	})
}

// ensure interface compliance
var _ Device = (*MemoryDevice)(nil)
