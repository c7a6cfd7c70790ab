package core

import (
	"errors"
	"fmt"
	"math"
	"syscall"
	"time"

	"github.com/evcc-io/onstar/api"
	"github.com/evcc-io/onstar/vehicle/onstar"
)

//go:generate mockgen -package mock -destination mock/client.go github.com/evcc-io/onstar/core Client

// Client is the OnStar telematics client
type Client interface {
	Refresh() error
	Diagnostics() (onstar.DiagnosticsResponse, error)
	Location() (onstar.LocationResponse, error)
}

const (
	statusGood = "GREEN"

	timeLayout    = "2006-01-02T15:04:05.999999999Z07:00"
	displayLayout = "2006-01-02 15:04:05"
)

// Fetch refreshes the vehicle status and flattens it into a snapshot.
// Connection resets are reported as api.ErrFetchFailed, all other errors are returned as-is.
func Fetch(client Client) (*Snapshot, error) {
	if err := client.Refresh(); err != nil {
		return nil, classify(err)
	}

	diag, err := client.Diagnostics()
	if err != nil {
		return nil, classify(err)
	}

	loc, err := client.Location()
	if err != nil {
		return nil, classify(err)
	}

	values, err := decode(diag, loc)
	if err != nil {
		return nil, err
	}

	return NewSnapshot(values, time.Now()), nil
}

func classify(err error) error {
	if errors.Is(err, syscall.ECONNRESET) {
		return fmt.Errorf("%w: %v", api.ErrFetchFailed, err)
	}
	return err
}

func decode(diag onstar.DiagnosticsResponse, loc onstar.LocationResponse) (map[string]interface{}, error) {
	if len(diag.Results) == 0 {
		return nil, errors.New("diagnostics: empty results")
	}

	res := diag.Results[0]
	m := res.ReportData.Metrics

	updated, err := formatDate(res.UpdatedOn)
	if err != nil {
		return nil, fmt.Errorf("diagnostics: %w", err)
	}

	v := map[string]interface{}{
		KeyPlate:         res.Vehicle.LicensePlate,
		KeyVIN:           res.Vehicle.VehicleVIN,
		KeyLastStatus:    updated,
		KeyWarningCount:  res.WarningCount,
		KeyErrorCount:    res.ErrorCount,
		KeyOilLife:       round(m.OilLife*100, 1),
		KeyFuelLevel:     roundInt(m.FuelLevel * 100),
		KeyRange:         roundInt(m.FuelRange),
		KeyIgnition:      m.Ignition,
		KeyOdometer:      roundInt(m.Odometer),
		KeyTireLF:        m.TirePressureLf,
		KeyTireLR:        m.TirePressureLr,
		KeyTireRF:        m.TirePressureRf,
		KeyTireRR:        m.TirePressureRr,
		KeyTireStatusLF:  m.TireStatusLf == statusGood,
		KeyTireStatusLR:  m.TireStatusLr == statusGood,
		KeyTireStatusRF:  m.TireStatusRf == statusGood,
		KeyTireStatusRR:  m.TireStatusRr == statusGood,
		KeyTireSetting:   m.PlacardSetting,
		KeyFrontPressure: m.PlacardFront,
		KeyRearPressure:  m.PlacardRear,
		KeyNextMainDate:  res.ReportData.Maintenance.NextMaintDate,
		KeyNextMainOdo:   roundInt(res.ReportData.Maintenance.NextMaintOdometer),
		KeyAirbagOK:      res.ReportData.Sections.Airbag.Status == statusGood,
		KeyLocalization:  nil,
	}

	if pos := location(loc.Results); pos != nil {
		v[KeyLocalization] = *pos
	}

	return v, nil
}

// formatDate converts 2019-10-16T10:54:52.535+02:00 to 2019-10-16 10:54:52 keeping the supplied offset
func formatDate(s string) (string, error) {
	ts, err := time.Parse(timeLayout, s)
	if err != nil {
		return "", err
	}
	return ts.Format(displayLayout), nil
}

// location returns the position of the record with index 0
func location(records []onstar.LocationRecord) *api.Position {
	for _, r := range records {
		if r.Index == 0 {
			return &api.Position{
				Lat: r.Location.Latitude,
				Lon: r.Location.Longitude,
			}
		}
	}
	return nil
}

// round rounds half to even
func round(f float64, places int) float64 {
	p := math.Pow10(places)
	return math.RoundToEven(f*p) / p
}

func roundInt(f float64) int {
	return int(math.RoundToEven(f))
}
