package server

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/evcc-io/onstar/platform"
	"github.com/evcc-io/onstar/util"
)

// EntityState is the published state of a sensor entity
type EntityState struct {
	EntityID   string                 `json:"entity_id"`
	Name       string                 `json:"name"`
	State      interface{}            `json:"state"`
	Unit       string                 `json:"unit_of_measurement,omitempty"`
	Icon       string                 `json:"icon,omitempty"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// Host is the in-process automation platform. It keeps the entity registry,
// polls entities and publishes their state.
type Host struct {
	log *util.Logger
	out chan<- util.Param

	mu        sync.Mutex
	services  map[string]func() error
	pending   map[string]platform.PlatformSetup
	entities  []platform.Entity
	sightings map[string]platform.DeviceSighting
}

var _ platform.Host = (*Host)(nil)

// NewHost creates a host publishing entity states to out
func NewHost(out chan<- util.Param) *Host {
	return &Host{
		log:       util.NewLogger("host"),
		out:       out,
		services:  make(map[string]func() error),
		pending:   make(map[string]platform.PlatformSetup),
		sightings: make(map[string]platform.DeviceSighting),
	}
}

func serviceName(domain, service string) string {
	return domain + "." + service
}

// RegisterService implements the platform.Host interface
func (h *Host) RegisterService(domain, service string, handler func() error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.log.DEBUG.Printf("register service %s", serviceName(domain, service))
	h.services[serviceName(domain, service)] = handler
}

// CallService invokes a registered service and refreshes all entities
func (h *Host) CallService(domain, service string) error {
	h.mu.Lock()
	handler, ok := h.services[serviceName(domain, service)]
	h.mu.Unlock()

	if !ok {
		return fmt.Errorf("unknown service: %s", serviceName(domain, service))
	}

	if err := handler(); err != nil {
		return err
	}

	h.Refresh()

	return nil
}

// Services returns the registered service names
func (h *Host) Services() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	res := make([]string, 0, len(h.services))
	for name := range h.services {
		res = append(res, name)
	}
	sort.Strings(res)

	return res
}

// LoadPlatform implements the platform.Host interface.
// Platforms that are not ready are retried on each refresh.
func (h *Host) LoadPlatform(component string, setup platform.PlatformSetup) {
	err := setup(h)

	switch {
	case err == nil:
		h.log.DEBUG.Printf("platform %s loaded", component)

	case platform.IsNotReady(err):
		h.log.WARN.Printf("platform %s not ready, retrying", component)
		h.mu.Lock()
		h.pending[component] = setup
		h.mu.Unlock()

	default:
		h.log.ERROR.Printf("platform %s: %v", component, err)
	}
}

// AddEntities implements the platform.Host interface
func (h *Host) AddEntities(entities ...platform.Entity) {
	h.mu.Lock()
	h.entities = append(h.entities, entities...)
	h.mu.Unlock()

	for _, e := range entities {
		h.publish(e)
	}
}

// See implements the platform.Host interface
func (h *Host) See(sighting platform.DeviceSighting) {
	h.mu.Lock()
	h.sightings[sighting.DevID] = sighting
	h.mu.Unlock()

	h.out <- util.Param{Key: "device_tracker." + sighting.DevID, Val: sighting}
}

// Entities returns the registered entities
func (h *Host) Entities() []platform.Entity {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]platform.Entity(nil), h.entities...)
}

// Entity returns the entity with given id
func (h *Host) Entity(id string) (platform.Entity, bool) {
	for _, e := range h.Entities() {
		if e.EntityID() == id {
			return e, true
		}
	}
	return nil, false
}

// Sighting returns the last sighting of the device
func (h *Host) Sighting(devID string) (platform.DeviceSighting, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sightings[devID]
	return s, ok
}

// Refresh retries pending platforms and refreshes all polled entities
func (h *Host) Refresh() {
	h.mu.Lock()
	pending := h.pending
	h.pending = make(map[string]platform.PlatformSetup)
	h.mu.Unlock()

	for component, setup := range pending {
		h.LoadPlatform(component, setup)
	}

	for _, e := range h.Entities() {
		if !e.ShouldPoll() {
			continue
		}

		e.Refresh()
		h.publish(e)
	}
}

// Run polls the update function and refreshes entities every interval until stopC is closed
func (h *Host) Run(stopC <-chan struct{}, interval time.Duration, update func() error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := update(); err != nil {
			h.log.ERROR.Println(err)
		}

		h.Refresh()

		select {
		case <-ticker.C:
		case <-stopC:
			return
		}
	}
}

func (h *Host) publish(e platform.Entity) {
	s, ok := e.(platform.SensorEntity)
	if !ok {
		return
	}

	h.out <- util.Param{
		Key: s.EntityID(),
		Val: EntityState{
			EntityID:   s.EntityID(),
			Name:       s.Name(),
			State:      s.State(),
			Unit:       s.Unit(),
			Icon:       s.Icon(),
			Attributes: s.Attributes(),
		},
	}
}
