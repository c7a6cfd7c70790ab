package platform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/evcc-io/onstar/api"
	"github.com/evcc-io/onstar/core"
	"github.com/evcc-io/onstar/util"
	"github.com/evcc-io/onstar/vehicle/onstar"
	"github.com/thoas/go-funk"
)

var log = util.NewLogger("onstar")

// Config is the integration configuration
type Config struct {
	Username string
	Password string
	PIN      string
	URI      string
}

// ClientFactory creates the telematics client
type ClientFactory func(log *util.Logger, creds core.Credentials, uri string) (core.Client, error)

// NewClient creates the OnStar api client and logs in
func NewClient(log *util.Logger, creds core.Credentials, uri string) (core.Client, error) {
	if uri == "" {
		uri = onstar.ApiURI
	}

	identity := onstar.NewIdentity(log, uri, creds.Username, creds.Password)
	if err := identity.Login(); err != nil {
		return nil, err
	}

	return onstar.NewAPI(log, uri, identity, creds.PIN), nil
}

// Setup validates the configuration, creates the store, registers the update service
// and loads the entity platforms.
func Setup(host Host, other map[string]interface{}, factory ClientFactory) (*core.Store, error) {
	if other == nil {
		return nil, fmt.Errorf("configuration for %s is missing", core.Domain)
	}

	var cc Config
	if err := util.DecodeOther(other, &cc); err != nil {
		return nil, err
	}

	creds := core.Credentials{
		Username: strings.TrimSpace(cc.Username),
		Password: cc.Password,
		PIN:      cc.PIN,
	}

	var missing []string
	if creds.Username == "" {
		missing = append(missing, "username")
	}
	if creds.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", api.ErrMissingCredentials, strings.Join(missing, ", "))
	}

	log.INFO.Printf("user: %s, pin: %s", creds.Username, log.Redact(creds.PIN))

	client, err := factory(log, creds, cc.URI)
	if err != nil {
		return nil, fmt.Errorf("cannot create client: %w", err)
	}

	store := core.NewStore(util.NewLogger("store"), client, core.Sensors)
	if err := store.Update(false); err != nil {
		return nil, err
	}

	host.RegisterService(core.Domain, ServiceUpdateState, func() error {
		log.INFO.Println("update service called")
		return store.Update(true)
	})

	for _, component := range core.Components {
		switch component {
		case "sensor":
			host.LoadPlatform(component, func(host Host) error {
				return SetupSensors(host, store)
			})
		case "device_tracker":
			host.LoadPlatform(component, func(host Host) error {
				return SetupTracker(host, store, creds)
			})
		}
	}

	log.INFO.Println("done initialization")

	return store, nil
}

// SetupSensors creates one sensor per known snapshot key
func SetupSensors(host Host, store *core.Store) error {
	snap := store.Snapshot()
	if snap == nil {
		log.ERROR.Println("no data received from onstar, unable to setup")
		return api.ErrNotReady
	}

	keys := snap.Keys()
	log.INFO.Printf("onstar sensors available: %s", strings.Join(keys, ", "))

	var entities []Entity
	for _, key := range keys {
		sensor, err := NewSensor(store, strings.ToLower(key))
		if err != nil {
			log.WARN.Printf("cannot add sensor: %v", err)
			continue
		}

		sensor.Refresh()
		entities = append(entities, sensor)
	}

	if unused := unusedKeys(store.Types(), snap); len(unused) > 0 {
		log.DEBUG.Printf("sensor types without data: %s", strings.Join(unused, ", "))
	}

	host.AddEntities(entities...)

	return nil
}

// unusedKeys returns the sensor types without snapshot value
func unusedKeys(types core.SensorTypes, snap *core.Snapshot) []string {
	return funk.Subtract(types.Keys(), snap.Keys()).([]string)
}

// SetupTracker creates the vehicle device tracker
func SetupTracker(host Host, store *core.Store, creds core.Credentials) error {
	tracker := NewTracker(host.See, store, creds)
	log.INFO.Println("onstar device_tracker set-up")

	tracker.Refresh()
	host.AddEntities(tracker)

	return nil
}

// IsNotReady returns true if platform setup should be retried later
func IsNotReady(err error) bool {
	return errors.Is(err, api.ErrNotReady)
}
