package submit

import (
	"github.com/bitmark-inc/geosubmit-api/schema"
)

const entityBluetooth = "bluetoothBeacon"

func validateBluetooth(raw interface{}) (*schema.BluetoothBeacon, *Fault) {
	obj, ok := asObject(raw)
	if !ok {
		return nil, fatalFault(entityBluetooth, "", "not an object")
	}

	f := strictFields(entityBluetooth, obj)
	mac, macOK := f.mac("macAddress")
	beacon := &schema.BluetoothBeacon{
		MacAddress:     mac,
		Age:            f.optInt("age", minAge, maxAge),
		Name:           f.optString("name", 255),
		SignalStrength: f.optInt("signalStrength", -127, 0),
	}

	if f.fault != nil {
		return nil, f.fault
	}
	if !macOK {
		return nil, dropFault(entityBluetooth, "macAddress", "missing or invalid")
	}
	return beacon, nil
}
