package builtin

import "github.com/wildtel/collarcsv/internal/profile"

func init() {
	registerVectronicGPSPlus()
}

func registerVectronicGPSPlus() {
	profile.Register(profile.Profile{
		Name:   "vectronic-gps-plus",
		Vendor: "Vectronic",
		Headers: []string{
			"No",
			"Collar ID",
			"Acq. Time [UTC]",
			"Acq. Time [LMT]",
			"Origin",
			"Latitude [deg]",
			"Longitude [deg]",
			"Height [m]",
			"DOP",
			"Main [V]",
			"Temp [C]",
		},
		Mapping: map[string]string{
			"serialnumber": "Collar ID",
			"time":         "Acq. Time [UTC]",
			"latitude":     "Latitude [deg]",
			"longitude":    "Longitude [deg]",
		},
	})
}
