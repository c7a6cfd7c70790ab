package platform

import (
	"github.com/evcc-io/onstar/core"
	"github.com/evcc-io/onstar/util"
)

// Tracker reports the vehicle location. Without PIN tracking is disabled.
type Tracker struct {
	log   *util.Logger
	see   func(DeviceSighting)
	store *core.Store
	creds core.Credentials
}

var _ Entity = (*Tracker)(nil)

// NewTracker creates a device tracker
func NewTracker(see func(DeviceSighting), store *core.Store, creds core.Credentials) *Tracker {
	return &Tracker{
		log:   util.NewLogger("tracker"),
		see:   see,
		store: store,
		creds: creds,
	}
}

// EntityID implements the Entity interface
func (t *Tracker) EntityID() string {
	return "device_tracker.onstar"
}

// Name implements the Entity interface
func (t *Tracker) Name() string {
	return "OnStar"
}

// ShouldPoll implements the Entity interface
func (t *Tracker) ShouldPoll() bool {
	return true
}

// Refresh reports the last known position to the host
func (t *Tracker) Refresh() {
	if !t.creds.Tracking() {
		t.log.DEBUG.Println("tracking is disabled")
		return
	}

	snap := t.store.Snapshot()
	if snap == nil {
		return
	}

	plate := snap.String(core.KeyPlate)
	devID := slugify(plate)

	pos := t.store.Position()
	if pos == nil {
		t.log.DEBUG.Printf("no position for %s", devID)
		return
	}

	t.log.DEBUG.Printf("updating %s", devID)

	t.see(DeviceSighting{
		DevID:    devID,
		HostName: plate,
		GPS:      *pos,
		Attributes: map[string]interface{}{
			"vin": snap.String(core.KeyVIN),
		},
		Icon: "mdi:car",
	})
}
