package api

import "fmt"

// Position is a GPS coordinate pair
type Position struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (p Position) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lon)
}

// PresenceState indicates if status data is available at all
type PresenceState string

const (
	PresenceOn  PresenceState = "ON"
	PresenceOff PresenceState = "OFF"
)
