package platform

import (
	"net"
	"os"
	"syscall"
	"testing"

	"github.com/evcc-io/onstar/core"
	"github.com/evcc-io/onstar/core/mock"
	"github.com/evcc-io/onstar/util"
	"github.com/evcc-io/onstar/vehicle/onstar"
	"github.com/golang/mock/gomock"
)

type host struct {
	services  map[string]func() error
	platforms map[string]error
	entities  []Entity
	sightings []DeviceSighting
}

func newHost() *host {
	return &host{
		services:  make(map[string]func() error),
		platforms: make(map[string]error),
	}
}

func (h *host) RegisterService(domain, service string, handler func() error) {
	h.services[domain+"."+service] = handler
}

func (h *host) LoadPlatform(component string, setup PlatformSetup) {
	h.platforms[component] = setup(h)
}

func (h *host) AddEntities(entities ...Entity) {
	h.entities = append(h.entities, entities...)
}

func (h *host) See(sighting DeviceSighting) {
	h.sightings = append(h.sightings, sighting)
}

func diagnostics() onstar.DiagnosticsResponse {
	var res onstar.Diagnostics
	res.Vehicle = onstar.Vehicle{LicensePlate: "AB-123-CD", VehicleVIN: "W0L000051T2123456"}
	res.UpdatedOn = "2019-10-16T10:54:52.535+02:00"
	res.ReportData.Metrics.OilLife = 0.855
	res.ReportData.Metrics.FuelLevel = 0.72
	res.ReportData.Metrics.Odometer = 45000
	res.ReportData.Metrics.TireStatusLf = "GREEN"

	return onstar.DiagnosticsResponse{Results: []onstar.Diagnostics{res}}
}

func locations() onstar.LocationResponse {
	return onstar.LocationResponse{Results: []onstar.LocationRecord{
		{Index: 1, Location: onstar.Location{Latitude: 1, Longitude: 2}},
		{Index: 0, Location: onstar.Location{Latitude: 48.8566, Longitude: 2.3522}},
	}}
}

func expectFetch(client *mock.MockClient) {
	client.EXPECT().Refresh().Return(nil)
	client.EXPECT().Diagnostics().Return(diagnostics(), nil)
	client.EXPECT().Location().Return(locations(), nil)
}

func connectionReset() error {
	return &net.OpError{Op: "read", Net: "tcp", Err: os.NewSyscallError("read", syscall.ECONNRESET)}
}

// newStore returns a store with mocked client and optionally performs the initial fetch
func newStore(t *testing.T, types core.SensorTypes, fetch bool) (*core.Store, *mock.MockClient) {
	client := mock.NewMockClient(gomock.NewController(t))
	store := core.NewStore(util.NewLogger("store"), client, types)

	if fetch {
		expectFetch(client)
		if err := store.Update(false); err != nil {
			t.Fatal(err)
		}
	}

	return store, client
}
