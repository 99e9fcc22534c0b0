package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/berfenger/ariston2mqtt/internal/ariston"

	"github.com/carlmjohnson/versioninfo"
)

const (
	SENSOR_ID_BRIDGE_STATE    = "bridge_state"
	ENTITY_CLASS_DIAGNOSTIC   = "diagnostic"
	ENTITY_CLASS_CONFIG       = "config"
	DEVICE_CLASS_CONNECTIVITY = "connectivity"
	SENSOR_TYPE_BINARY        = "binary_sensor"
	PLATFORM_SELECT           = "select"
)

type Device struct {
	Id           string
	Name         string
	Version      string
	Model        string
	Manufacturer string
	ViaDevice    string
}

type GenericSensor struct {
	Device         Device
	Id             string
	SensorType     string
	Name           string
	UniqueId       string
	DeviceClass    string
	EntityCategory string // diagnostic, config, nil
	Icon           string
}

type GenericSelect struct {
	Device         Device
	Id             string
	Name           string
	UniqueId       string
	Icon           string
	EntityCategory string
	Options        []string
}

func BridgeDevice(baseTopic string) Device {
	return Device{
		Id:           fmt.Sprintf("ariston_bridge_%s", md5HashShort(baseTopic)),
		Manufacturer: "ACasal",
		Model:        "ariston2mqtt",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("Ariston bridge %s", md5HashShort(baseTopic)),
	}
}

func PlantDevice(attributes map[ariston.DeviceAttribute]string) Device {
	name := attributes[ariston.NAME]
	if name == "" {
		name = attributes[ariston.GW_ID]
	}
	return Device{
		Id:           fmt.Sprintf("ariston_%s", attributes[ariston.GW_ID]),
		Manufacturer: "Ariston",
		Model:        fmt.Sprintf("System %s", attributes[ariston.SYSTEM]),
		Version:      attributes[ariston.FIRMWARE_VERSION],
		Name:         fmt.Sprintf("Ariston %s", name),
	}
}

func IdDevice(device Device) Device {
	return Device{
		Id:   device.Id,
		Name: device.Name,
	}
}

func BridgeSensors(bridgeDevice Device) []GenericSensor {
	return []GenericSensor{
		{
			Device:         bridgeDevice,
			Id:             SENSOR_ID_BRIDGE_STATE,
			SensorType:     SENSOR_TYPE_BINARY,
			Name:           "Bridge state",
			DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
			EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
			UniqueId:       uniqueId(bridgeDevice.Id, SENSOR_ID_BRIDGE_STATE),
		},
	}
}

func uniqueId(deviceId, sensorId string) string {
	return fmt.Sprintf("%s_%s", deviceId, sensorId)
}

func md5HashShort(text string) string {
	hash := md5.Sum([]byte(text))
	return hex.EncodeToString(hash[:])[:6]
}
