package core

import (
	"errors"
	"net"
	"os"
	"syscall"
	"testing"

	"github.com/evcc-io/onstar/api"
	"github.com/evcc-io/onstar/core/mock"
	"github.com/evcc-io/onstar/vehicle/onstar"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diagnostics() onstar.DiagnosticsResponse {
	return onstar.DiagnosticsResponse{
		Results: []onstar.Diagnostics{{
			Vehicle:      onstar.Vehicle{LicensePlate: "AB-123-CD", VehicleVIN: "W0L000051T2123456"},
			UpdatedOn:    "2019-10-16T10:54:52.535+02:00",
			WarningCount: 2,
			ErrorCount:   1,
			ReportData: onstar.ReportData{
				Metrics: onstar.Metrics{
					OilLife:        0.855,
					FuelLevel:      0.72,
					FuelRange:      449.6,
					Ignition:       "OFF",
					Odometer:       45000.4,
					TirePressureLf: 230,
					TirePressureLr: 228,
					TirePressureRf: 231,
					TirePressureRr: 229,
					TireStatusLf:   "GREEN",
					TireStatusLr:   "YELLOW",
					TireStatusRf:   "GREEN",
					TireStatusRr:   "RED",
					PlacardSetting: "Normal",
					PlacardFront:   230,
					PlacardRear:    250,
				},
				Maintenance: onstar.Maintenance{NextMaintDate: "2026-06-01", NextMaintOdometer: 49999.5},
				Sections:    onstar.Sections{Airbag: onstar.Section{Status: "GREEN"}},
			},
		}},
	}
}

func locations(indices ...int) onstar.LocationResponse {
	var res onstar.LocationResponse
	for _, idx := range indices {
		res.Results = append(res.Results, onstar.LocationRecord{
			Index:    idx,
			Location: onstar.Location{Latitude: 48.8566 + float64(idx), Longitude: 2.3522 + float64(idx)},
		})
	}
	return res
}

func expectFetch(client *mock.MockClient, loc onstar.LocationResponse) {
	client.EXPECT().Refresh().Return(nil)
	client.EXPECT().Diagnostics().Return(diagnostics(), nil)
	client.EXPECT().Location().Return(loc, nil)
}

func connectionReset() error {
	return &net.OpError{Op: "read", Net: "tcp", Err: os.NewSyscallError("read", syscall.ECONNRESET)}
}

func TestFetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockClient(ctrl)

	gomock.InOrder(
		client.EXPECT().Refresh().Return(nil),
		client.EXPECT().Diagnostics().Return(diagnostics(), nil),
		client.EXPECT().Location().Return(locations(1, 0), nil),
	)

	snap, err := Fetch(client)
	require.NoError(t, err)

	expect := map[string]interface{}{
		KeyPlate:         "AB-123-CD",
		KeyVIN:           "W0L000051T2123456",
		KeyLastStatus:    "2019-10-16 10:54:52",
		KeyWarningCount:  2,
		KeyErrorCount:    1,
		KeyOilLife:       85.5,
		KeyFuelLevel:     72,
		KeyRange:         450,
		KeyIgnition:      "OFF",
		KeyOdometer:      45000,
		KeyTireLF:        230.0,
		KeyTireLR:        228.0,
		KeyTireRF:        231.0,
		KeyTireRR:        229.0,
		KeyTireStatusLF:  true,
		KeyTireStatusLR:  false,
		KeyTireStatusRF:  true,
		KeyTireStatusRR:  false,
		KeyTireSetting:   "Normal",
		KeyFrontPressure: 230.0,
		KeyRearPressure:  250.0,
		KeyNextMainDate:  "2026-06-01",
		KeyNextMainOdo:   50000,
		KeyAirbagOK:      true,
		KeyLocalization:  api.Position{Lat: 48.8566, Lon: 2.3522},
	}

	assert.Equal(t, expect, snap.Values())
	assert.Equal(t, &api.Position{Lat: 48.8566, Lon: 2.3522}, snap.Position())
}

func TestFetchAllSensorsMapped(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockClient(ctrl)
	expectFetch(client, locations(0))

	snap, err := Fetch(client)
	require.NoError(t, err)

	assert.Equal(t, Sensors.Keys(), snap.Keys())
}

func TestFetchWithoutIndexZero(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockClient(ctrl)
	expectFetch(client, locations(1, 2))

	snap, err := Fetch(client)
	require.NoError(t, err)

	v, ok := snap.Value(KeyLocalization)
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.Nil(t, snap.Position())
}

func TestFetchConnectionReset(t *testing.T) {
	for _, tc := range []struct {
		name  string
		setup func(client *mock.MockClient)
	}{
		{"refresh", func(client *mock.MockClient) {
			client.EXPECT().Refresh().Return(connectionReset())
		}},
		{"diagnostics", func(client *mock.MockClient) {
			client.EXPECT().Refresh().Return(nil)
			client.EXPECT().Diagnostics().Return(onstar.DiagnosticsResponse{}, connectionReset())
		}},
		{"location", func(client *mock.MockClient) {
			client.EXPECT().Refresh().Return(nil)
			client.EXPECT().Diagnostics().Return(diagnostics(), nil)
			client.EXPECT().Location().Return(onstar.LocationResponse{}, connectionReset())
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mock.NewMockClient(ctrl)
			tc.setup(client)

			snap, err := Fetch(client)
			assert.Nil(t, snap)
			assert.ErrorIs(t, err, api.ErrFetchFailed)
		})
	}
}

func TestFetchUnexpectedError(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockClient(ctrl)

	boom := errors.New("boom")
	client.EXPECT().Refresh().Return(nil)
	client.EXPECT().Diagnostics().Return(onstar.DiagnosticsResponse{}, boom)

	_, err := Fetch(client)
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, api.ErrFetchFailed))
}

func TestFetchEmptyDiagnostics(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockClient(ctrl)

	client.EXPECT().Refresh().Return(nil)
	client.EXPECT().Diagnostics().Return(onstar.DiagnosticsResponse{}, nil)
	client.EXPECT().Location().Return(locations(0), nil)

	_, err := Fetch(client)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, api.ErrFetchFailed))
}

func TestFormatDate(t *testing.T) {
	for _, tc := range []struct {
		in, out string
	}{
		{"2019-10-16T10:54:52.535+02:00", "2019-10-16 10:54:52"},
		{"2019-10-16T23:59:59.1-05:00", "2019-10-16 23:59:59"},
		{"2020-01-01T00:00:00.000Z", "2020-01-01 00:00:00"},
	} {
		res, err := formatDate(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.out, res, tc.in)
	}

	_, err := formatDate("16.10.2019 10:54")
	assert.Error(t, err)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 85.5, round(0.855*100, 1))
	assert.Equal(t, 72, roundInt(0.72*100))
	assert.Equal(t, 2, roundInt(2.5))
	assert.Equal(t, 4, roundInt(3.5))
}
