package core

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/evcc-io/onstar/api"
	"github.com/evcc-io/onstar/provider"
	"github.com/evcc-io/onstar/util"
)

const topicUpdated = "updated"

// Store holds the data retrieved from OnStar.
// It is the single point responsible for fetching updates from the server.
type Store struct {
	log      *util.Logger
	client   Client
	types    SensorTypes
	throttle *provider.Throttle
	bus      EventBus.Bus

	mu       sync.Mutex // held during fetch
	snapshot atomic.Pointer[Snapshot]
	position atomic.Pointer[api.Position]
}

// NewStore creates a store using the given sensor table
func NewStore(log *util.Logger, client Client, types SensorTypes) *Store {
	return &Store{
		log:      log,
		client:   client,
		types:    types,
		throttle: provider.NewThrottle(MinTimeBetweenUpdates),
		bus:      EventBus.New(),
	}
}

// Update fetches the latest status from OnStar unless the last attempt is more
// recent than MinTimeBetweenUpdates. Force bypasses the interval.
// Connection resets clear the snapshot, other errors are returned and leave it unchanged.
func (s *Store) Update(force bool) error {
	if !s.mu.TryLock() {
		s.log.DEBUG.Println("update already in progress")
		return nil
	}
	defer s.mu.Unlock()

	if !s.throttle.Allow(force) {
		s.log.TRACE.Println("update throttled")
		return nil
	}

	s.log.INFO.Println("update onstar data")

	snap, err := Fetch(s.client)
	switch {
	case err == nil:
		if pos := snap.Position(); pos != nil {
			s.position.Store(pos)
		}
		s.snapshot.Store(snap)
		fetchTotal.WithLabelValues(resultOK).Inc()

	case errors.Is(err, api.ErrFetchFailed):
		s.log.DEBUG.Printf("error getting onstar info: %v", err)
		s.snapshot.Store(nil)
		fetchTotal.WithLabelValues(resultFailed).Inc()

	default:
		fetchTotal.WithLabelValues(resultError).Inc()
		return err
	}

	s.bus.Publish(topicUpdated, s.snapshot.Load())

	return nil
}

// Snapshot returns the current status or nil if none is available. It never fetches.
func (s *Store) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// Position returns the last known GPS position or nil
func (s *Store) Position() *api.Position {
	return s.position.Load()
}

// Types returns the sensor table
func (s *Store) Types() SensorTypes {
	return s.types
}

// NextUpdate returns the time until the next unforced update is allowed
func (s *Store) NextUpdate() time.Duration {
	return s.throttle.Remaining()
}

// Subscribe registers fn to be called with the new snapshot after each executed update
func (s *Store) Subscribe(fn func(*Snapshot)) error {
	return s.bus.Subscribe(topicUpdated, fn)
}
