package ariston

import "context"

type DeviceAttribute string

const (
	GW_ID            DeviceAttribute = "gw"
	SERIAL_NUMBER    DeviceAttribute = "sn"
	NAME             DeviceAttribute = "name"
	SYSTEM           DeviceAttribute = "sys"
	FIRMWARE_VERSION DeviceAttribute = "fwVer"
)

type DeviceFeature string

const (
	HAS_METERING         DeviceFeature = "hasMetering"
	HAS_BOILER           DeviceFeature = "hasBoiler"
	HAS_DHW              DeviceFeature = "hasDhw"
	HAS_TWO_COOLING_TEMP DeviceFeature = "hasTwoCoolingTemp"
)

// Consumption settings keys as stored by the remote API.
const (
	CONSUMPTION_CURRENCY        = "currency"
	CONSUMPTION_GAS_TYPE        = "gasType"
	CONSUMPTION_GAS_ENERGY_UNIT = "gasEnergyUnit"
	CONSUMPTION_ELEC_COST       = "elecCost"
	CONSUMPTION_GAS_COST        = "gasCost"
)

//go:generate mockgen -source=device.go -destination=mocks/mock_device.go -package=mocks

// Device is a plant reachable through the Ariston NET remote API.
// Reads return copies of the last fetched snapshot; only UpdateState,
// UpdateEnergy and SetConsumptionsSettings change it.
type Device interface {
	GatewayId() string
	Attributes() map[DeviceAttribute]string
	Features() map[DeviceFeature]bool
	ExtraEnergyFeatures() bool
	ConsumptionsSettings() map[string]int

	UpdateState(ctx context.Context) error
	UpdateEnergy(ctx context.Context) error
	SetConsumptionsSettings(ctx context.Context, key string, value int) error
}
