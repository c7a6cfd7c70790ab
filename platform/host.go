package platform

import (
	"github.com/evcc-io/onstar/api"
)

// ServiceUpdateState forces a status update
const ServiceUpdateState = "update_state"

// Entity is a host-polled entity
type Entity interface {
	EntityID() string
	Name() string
	ShouldPoll() bool
	Refresh()
}

// SensorEntity is an entity exposing a single value
type SensorEntity interface {
	Entity
	State() interface{}
	Unit() string
	Icon() string
	Attributes() map[string]interface{}
}

// DeviceSighting is a location report of a tracked device
type DeviceSighting struct {
	DevID      string                 `json:"dev_id"`
	HostName   string                 `json:"host_name"`
	GPS        api.Position           `json:"gps"`
	Attributes map[string]interface{} `json:"attributes"`
	Icon       string                 `json:"icon"`
}

// PlatformSetup creates the entities of one component.
// Returning api.ErrNotReady asks the host to retry later.
type PlatformSetup func(host Host) error

// Host is the automation platform the integration is loaded into
type Host interface {
	RegisterService(domain, service string, handler func() error)
	LoadPlatform(component string, setup PlatformSetup)
	AddEntities(entities ...Entity)
	See(sighting DeviceSighting)
}
