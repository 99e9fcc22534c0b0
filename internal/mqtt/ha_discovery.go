package mqtt

import (
	"fmt"

	"github.com/berfenger/ariston2mqtt/internal/core/domain"
)

type HADiscoveryConfig struct {
	Device         HADiscoveryDevice `json:"device"`
	StateTopic     string            `json:"state_topic"`
	CommandTopic   string            `json:"command_topic,omitempty"`
	DeviceClass    string            `json:"device_class,omitempty"`
	AvTopic        string            `json:"availability_topic,omitempty"`
	EntityCategory string            `json:"entity_category,omitempty"`
	Name           string            `json:"name"`
	UniqueId       string            `json:"unique_id"`
	Platform       string            `json:"platform"`
	PayloadOn      string            `json:"payload_on,omitempty"`
	PayloadOff     string            `json:"payload_off,omitempty"`
	Icon           string            `json:"icon,omitempty"`
	Options        []string          `json:"options,omitempty"`
}

type HADiscoveryDevice struct {
	Id           []string `json:"identifiers"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	Version      string   `json:"sw_version,omitempty"`
	Model        string   `json:"model,omitempty"`
	Name         string   `json:"name,omitempty"`
	ViaDevice    string   `json:"via_device,omitempty"`
}

func HADiscoverySensorTopic(client *MQTTClient, sensor domain.GenericSensor) string {
	return fmt.Sprintf("%s/%s/%s/%s/config", client.DiscoveryTopic(), sensor.SensorType, sensor.Device.Id, sensor.Id)
}

func HADiscoverySelectTopic(client *MQTTClient, sel domain.GenericSelect) string {
	return fmt.Sprintf("%s/%s/%s/%s/config", client.DiscoveryTopic(), domain.PLATFORM_SELECT, sel.Device.Id, sel.Id)
}

func GenericSensorToHADiscoveryMessage(client *MQTTClient, sensor domain.GenericSensor) HADiscoveryConfig {
	var topic string
	if sensor.Id == domain.SENSOR_ID_BRIDGE_STATE {
		topic = client.BridgeStateTopic()
	} else {
		topic = client.BinarySensorStateTopic(sensor.Id)
	}
	disConfig := HADiscoveryConfig{
		Device:         device(sensor.Device),
		StateTopic:     topic,
		DeviceClass:    sensor.DeviceClass,
		EntityCategory: sensor.EntityCategory,
		Name:           sensor.Name,
		UniqueId:       sensor.UniqueId,
		Icon:           sensor.Icon,
		Platform:       "mqtt",
	}
	if sensor.Id == domain.SENSOR_ID_BRIDGE_STATE {
		disConfig.PayloadOn = MQTT_PAYLOAD_ONLINE
		disConfig.PayloadOff = MQTT_PAYLOAD_OFFLINE
	} else {
		disConfig.AvTopic = client.BridgeStateTopic()
		disConfig.PayloadOn = MQTT_PAYLOAD_ON
		disConfig.PayloadOff = MQTT_PAYLOAD_OFF
	}
	return disConfig
}

func GenericSelectToHADiscoveryMessage(client *MQTTClient, sel domain.GenericSelect) HADiscoveryConfig {
	return HADiscoveryConfig{
		Device:         device(sel.Device),
		StateTopic:     client.SelectStateTopic(sel.Id),
		CommandTopic:   client.SelectCommandTopic(sel.Id),
		AvTopic:        client.BridgeStateTopic(),
		EntityCategory: sel.EntityCategory,
		Name:           sel.Name,
		UniqueId:       sel.UniqueId,
		Icon:           sel.Icon,
		Platform:       "mqtt",
		Options:        sel.Options,
	}
}

func device(d domain.Device) HADiscoveryDevice {
	return HADiscoveryDevice{
		Id:           []string{d.Id},
		Manufacturer: d.Manufacturer,
		Version:      d.Version,
		Model:        d.Model,
		Name:         d.Name,
		ViaDevice:    d.ViaDevice,
	}
}
