package domain

import "time"

const (
	ACTOR_ID_MASTER             = "master"
	ACTOR_ID_DATA_COORDINATOR   = "data_coordinator"
	ACTOR_ID_ENERGY_COORDINATOR = "energy_coordinator"
	ACTOR_ID_SELECT             = "select"
	ACTOR_ID_MQTT               = "mqtt"
	ACTOR_ID_HA_DISCOVERY       = "hadiscovery"
)

type RefreshRequest struct {
	ActorRequestMixIn
}

type RefreshResponse struct {
	ActorResponseMixIn
}

type GetCoordinatorStatusRequest struct {
	ActorRequestMixIn
}

type GetCoordinatorStatusResponse struct {
	ActorResponseMixIn
	Name        string
	LastSuccess time.Time
	LastError   error
}

type SelectOptionRequest struct {
	ActorRequestMixIn
	EntityId string
	Option   string
}

type SelectOptionResponse struct {
	ActorResponseMixIn
}

type GetSelectsRequest struct {
	ActorRequestMixIn
}

// SelectState is a point-in-time view of a select entity.
type SelectState struct {
	Id            string   `json:"id"`
	UniqueId      string   `json:"unique_id"`
	Name          string   `json:"name"`
	Options       []string `json:"options"`
	CurrentOption string   `json:"current_option,omitempty"`
	Error         string   `json:"error,omitempty"`
}

type GetSelectsResponse struct {
	ActorResponseMixIn
	Device  Device
	Selects []GenericSelect
	States  []SelectState
}

type PublishSensorUpdateRequest struct {
	ActorRequestMixIn
	Retain bool
	Event  SensorUpdateEvent
}

type PublishSensorUpdateResponse struct {
	ActorResponseMixIn
}

type PublishDiscoveryRequest struct {
	ActorRequestMixIn
	Sensors []GenericSensor
	Selects []GenericSelect
}

type PublishDiscoveryResponse struct {
	ActorResponseMixIn
}

type ActorHealthRequest struct {
	ActorRequestMixIn
}

type ActorHealthResponse struct {
	ActorResponseMixIn
	Id      string
	Healthy bool
	State   string
}
