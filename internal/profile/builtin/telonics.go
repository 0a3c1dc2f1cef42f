package builtin

import "github.com/wildtel/collarcsv/internal/profile"

func init() {
	registerTelonicsTDC()
}

func registerTelonicsTDC() {
	// Telonics condensed reports write dotted dates, which the fallback
	// chain does not try. The profile pins the layout.
	profile.Register(profile.Profile{
		Name:   "telonics-tdc",
		Vendor: "Telonics",
		Headers: []string{
			"CTN",
			"Acquisition Time",
			"Acquisition Start Time",
			"GPS Fix Time",
			"GPS Fix Attempt",
			"GPS Latitude",
			"GPS Longitude",
			"GPS UTM Zone",
			"GPS Altitude",
			"GPS Horizontal Error",
		},
		Mapping: map[string]string{
			"serialnumber": "CTN",
			"time":         "Acquisition Time",
			"latitude":     "GPS Latitude",
			"longitude":    "GPS Longitude",
		},
		TimestampFormat: "2006.01.02 15:04:05",
	})
}
