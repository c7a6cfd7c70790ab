package onstar

// DiagnosticsResponse is the /vehicle/diagnostics api response
type DiagnosticsResponse struct {
	Results []Diagnostics `json:"results"`
}

type Diagnostics struct {
	Vehicle      Vehicle    `json:"vehicle"`
	UpdatedOn    string     `json:"updatedOn"` // 2019-10-16T10:54:52.535+02:00
	WarningCount int        `json:"warningCount"`
	ErrorCount   int        `json:"errorCount"`
	ReportData   ReportData `json:"reportData"`
}

type Vehicle struct {
	LicensePlate string `json:"licensePlate"`
	VehicleVIN   string `json:"vehicleVIN"`
}

type ReportData struct {
	Metrics     Metrics     `json:"metrics"`
	Maintenance Maintenance `json:"maintenance"`
	Sections    Sections    `json:"sections"`
}

type Metrics struct {
	OilLife        float64 `json:"oilLife"`   // 0..1
	FuelLevel      float64 `json:"fuelLevel"` // 0..1
	FuelRange      float64 `json:"fuelRange"` // km
	Ignition       string  `json:"ignition"`
	Odometer       float64 `json:"odometer"` // km
	TirePressureLf float64 `json:"tirePressureLf"`
	TirePressureLr float64 `json:"tirePressureLr"`
	TirePressureRf float64 `json:"tirePressureRf"`
	TirePressureRr float64 `json:"tirePressureRr"`
	TireStatusLf   string  `json:"tireStatusLf"`
	TireStatusLr   string  `json:"tireStatusLr"`
	TireStatusRf   string  `json:"tireStatusRf"`
	TireStatusRr   string  `json:"tireStatusRr"`
	PlacardSetting string  `json:"placardSetting"`
	PlacardFront   float64 `json:"placardFront"`
	PlacardRear    float64 `json:"placardRear"`
}

type Maintenance struct {
	NextMaintDate     string  `json:"nextMaintDate"`
	NextMaintOdometer float64 `json:"nextMaintOdometer"`
}

type Sections struct {
	Airbag Section `json:"airbag"`
}

type Section struct {
	Status string `json:"status"` // GREEN, YELLOW, RED
}

// LocationResponse is the /vehicle/location api response
type LocationResponse struct {
	Results []LocationRecord `json:"results"`
}

type LocationRecord struct {
	Index    int      `json:"index"`
	Location Location `json:"location"`
}

type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}
