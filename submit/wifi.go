package submit

import (
	"github.com/bitmark-inc/geosubmit-api/schema"
)

const entityWifi = "wifiAccessPoint"

var wifiRadios = enumTable{
	"802.11a":  "802.11a",
	"802.11b":  "802.11b",
	"802.11g":  "802.11g",
	"802.11n":  "802.11n",
	"802.11ac": "802.11ac",
	"802.11ax": "802.11ax",
	"802.11be": "802.11be",
}

// validateWifi never looks at ssid.
func validateWifi(raw interface{}) (*schema.WifiAccessPoint, *Fault) {
	obj, ok := asObject(raw)
	if !ok {
		return nil, fatalFault(entityWifi, "", "not an object")
	}

	f := strictFields(entityWifi, obj)
	mac, macOK := f.mac("macAddress")
	wifi := &schema.WifiAccessPoint{
		MacAddress:         mac,
		Age:                f.optInt("age", minAge, maxAge),
		Channel:            f.optInt("channel", 1, 200),
		Frequency:          f.optInt("frequency", 1, 100000),
		RadioType:          f.optEnum("radioType", wifiRadios),
		SignalStrength:     f.optInt("signalStrength", -200, -1),
		SignalToNoiseRatio: f.optInt("signalToNoiseRatio", 0, 100),
	}

	if f.fault != nil {
		return nil, f.fault
	}
	if !macOK {
		return nil, dropFault(entityWifi, "macAddress", "missing or invalid")
	}
	return wifi, nil
}
