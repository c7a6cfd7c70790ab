package platform

import (
	"fmt"
	"sync"

	"github.com/evcc-io/onstar/api"
	"github.com/evcc-io/onstar/core"
	"github.com/evcc-io/onstar/util"
	"github.com/huandu/xstrings"
)

// Sensor exposes a single snapshot value as entity
type Sensor struct {
	mu       sync.Mutex
	log      *util.Logger
	store    *core.Store
	typ      core.SensorType
	entityID string
	state    interface{}
}

var _ SensorEntity = (*Sensor)(nil)

// NewSensor creates a sensor for the given key
func NewSensor(store *core.Store, key string) (*Sensor, error) {
	typ, ok := store.Types().Lookup(key)
	if !ok {
		return nil, fmt.Errorf("unknown sensor type: %s", key)
	}

	return &Sensor{
		log:      util.NewLogger("sensor"),
		store:    store,
		typ:      typ,
		entityID: "sensor." + xstrings.Translate(key, ".", "_"),
	}, nil
}

// Key returns the sensor key
func (s *Sensor) Key() string {
	return s.typ.Key
}

// EntityID implements the Entity interface
func (s *Sensor) EntityID() string {
	return s.entityID
}

// Name implements the Entity interface
func (s *Sensor) Name() string {
	return s.typ.Name
}

// Unit implements the SensorEntity interface
func (s *Sensor) Unit() string {
	return s.typ.Unit
}

// Icon implements the SensorEntity interface
func (s *Sensor) Icon() string {
	return s.typ.Icon
}

// ShouldPoll implements the Entity interface
func (s *Sensor) ShouldPoll() bool {
	return true
}

// Value returns the current value from the store or nil
func (s *Sensor) Value() interface{} {
	snap := s.store.Snapshot()
	if snap == nil {
		return nil
	}

	v, _ := snap.Value(s.typ.Key)
	return v
}

// PresenceState is ON if any status is available
func (s *Sensor) PresenceState() api.PresenceState {
	if s.store.Snapshot() == nil {
		return api.PresenceOff
	}
	return api.PresenceOn
}

// Attributes implements the SensorEntity interface
func (s *Sensor) Attributes() map[string]interface{} {
	return map[string]interface{}{
		"state": s.PresenceState(),
	}
}

// State returns the value cached by the last Refresh
func (s *Sensor) State() interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Refresh re-reads the value from the store. It never fetches.
func (s *Sensor) Refresh() {
	v := s.Value()
	s.log.TRACE.Printf("%s: %v", s.entityID, v)

	s.mu.Lock()
	s.state = v
	s.mu.Unlock()
}
