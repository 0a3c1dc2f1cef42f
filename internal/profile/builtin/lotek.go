package builtin

import "github.com/wildtel/collarcsv/internal/profile"

func init() {
	registerLotekWebService()
	registerLotekIridium()
}

func registerLotekWebService() {
	profile.Register(profile.Profile{
		Name:   "lotek-web-service",
		Vendor: "Lotek",
		Headers: []string{
			"DeviceID",
			"RecDateTime",
			"Latitude",
			"Longitude",
			"Altitude",
			"DOP",
			"Temperature",
			"MainV",
		},
		Mapping: map[string]string{
			"serialnumber": "DeviceID",
			"time":         "RecDateTime",
			"latitude":     "Latitude",
			"longitude":    "Longitude",
		},
	})
}

func registerLotekIridium() {
	profile.Register(profile.Profile{
		Name:   "lotek-iridium",
		Vendor: "Lotek",
		Headers: []string{
			"Device Name",
			"Device ID",
			"Date & Time [GMT]",
			"Date & Time [Local]",
			"Latitude",
			"Longitude",
			"Altitude",
			"Fix Status",
		},
		Mapping: map[string]string{
			"serialnumber": "Device ID",
			"time":         "Date & Time [GMT]",
			"latitude":     "Latitude",
			"longitude":    "Longitude",
		},
	})
}
