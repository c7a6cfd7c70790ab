package core

import (
	"sort"
	"time"
)

const (
	// Domain is the platform domain of the OnStar integration
	Domain = "onstar_component"

	// MinTimeBetweenUpdates is the minimum interval between unforced status fetches
	MinTimeBetweenUpdates = 300 * time.Second
)

// Components are the entity platforms created by the integration
var Components = []string{"sensor", "device_tracker"}

// sensor keys
const (
	KeyPlate         = "onstar.plate"
	KeyLastStatus    = "onstar.laststatus"
	KeyWarningCount  = "onstar.warningcount"
	KeyErrorCount    = "onstar.errorcount"
	KeyOilLife       = "onstar.oillife"
	KeyFuelLevel     = "onstar.fuellevel"
	KeyRange         = "onstar.range"
	KeyIgnition      = "onstar.ignition"
	KeyOdometer      = "onstar.odometer"
	KeyTireLF        = "onstar.tirelf"
	KeyTireLR        = "onstar.tirelr"
	KeyTireRF        = "onstar.tirerf"
	KeyTireRR        = "onstar.tirerr"
	KeyTireStatusLF  = "onstar.tirestatuslf"
	KeyTireStatusLR  = "onstar.tirestatuslr"
	KeyTireStatusRF  = "onstar.tirestatusrf"
	KeyTireStatusRR  = "onstar.tirestatusrr"
	KeyTireSetting   = "onstar.tiresetting"
	KeyFrontPressure = "onstar.ftirepressure"
	KeyRearPressure  = "onstar.rtirepressure"
	KeyNextMainOdo   = "onstar.nextmainodo"
	KeyNextMainDate  = "onstar.nextmaindate"
	KeyAirbagOK      = "onstar.airbagok"
	KeyLocalization  = "onstar.localization"
	KeyVIN           = "onstar.vin"
)

// SensorType describes a reported vehicle attribute. Empty unit or icon means none.
type SensorType struct {
	Key  string
	Name string
	Unit string
	Icon string
}

// SensorTypes is an immutable lookup table of sensor types
type SensorTypes struct {
	types map[string]SensorType
}

// NewSensorTypes creates a sensor type table
func NewSensorTypes(types ...SensorType) SensorTypes {
	res := SensorTypes{types: make(map[string]SensorType, len(types))}
	for _, st := range types {
		res.types[st.Key] = st
	}
	return res
}

// Lookup returns the sensor type for key
func (t SensorTypes) Lookup(key string) (SensorType, bool) {
	st, ok := t.types[key]
	return st, ok
}

// Keys returns all sensor keys in sorted order
func (t SensorTypes) Keys() []string {
	res := make([]string, 0, len(t.types))
	for k := range t.types {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

// Len returns the number of sensor types
func (t SensorTypes) Len() int {
	return len(t.types)
}

// Sensors is the OnStar sensor table
var Sensors = NewSensorTypes(
	SensorType{KeyPlate, "Plate", "", "mdi:account-card-details"},
	SensorType{KeyLastStatus, "Last updated", "", "mdi:update"},
	SensorType{KeyWarningCount, "Warnings", "", "mdi:account-alert"},
	SensorType{KeyErrorCount, "Errors", "", "mdi:alert-circle"},
	SensorType{KeyOilLife, "Oil life", "%", "mdi:oil"},
	SensorType{KeyFuelLevel, "Fuel level", "%", "mdi:gas-station"},
	SensorType{KeyRange, "Fuel range", "km", "mdi:gas-station"},
	SensorType{KeyIgnition, "Ignition", "", "mdi:power-standby"},
	SensorType{KeyOdometer, "Odometer", "km", "mdi:gauge"},
	SensorType{KeyTireLF, "Left Front Tire", "kPa", "mdi:car"},
	SensorType{KeyTireLR, "Left Rear Tire", "kPa", "mdi:car-back"},
	SensorType{KeyTireRF, "Right Front Tire", "kPa", "mdi:car"},
	SensorType{KeyTireRR, "Right Rear Tire", "kPa", "mdi:car-back"},
	SensorType{KeyTireStatusLF, "Left Front Tire Status", "", ""},
	SensorType{KeyTireStatusLR, "Left Rear Tire Status", "", ""},
	SensorType{KeyTireStatusRF, "Right Front Tire Status", "", ""},
	SensorType{KeyTireStatusRR, "Right Rear Tire Status", "", ""},
	SensorType{KeyTireSetting, "Tire setting", "", ""},
	SensorType{KeyFrontPressure, "Front Tires expected pressure", "kPa", ""},
	SensorType{KeyRearPressure, "Rear Tire expected pressure", "kPa", ""},
	SensorType{KeyNextMainOdo, "Next maintenance", "km", ""},
	SensorType{KeyNextMainDate, "Next maintenance Date", "", "mdi:calendar"},
	SensorType{KeyAirbagOK, "Airbag status", "", ""},
	SensorType{KeyLocalization, "Latest localization", "", "mdi:compass"},
	SensorType{KeyVIN, "VIN", "", "mdi:id-card"},
)
