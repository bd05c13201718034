package submit

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bitmark-inc/geosubmit-api/schema"
)

var log = logrus.WithField("prefix", "submit")

const entityReport = "report"

// Normalizer turns one raw submitted item into a canonical report.
type Normalizer struct {
	// Now supplies the default timestamp. time.Now is used when nil.
	Now func() time.Time
}

func (n *Normalizer) nowMillis() int64 {
	now := time.Now
	if n != nil && n.Now != nil {
		now = n.Now
	}
	return now().UnixNano() / int64(time.Millisecond)
}

// Normalize validates one item. A nil fault means the report is accepted;
// a drop fault means the item is skipped; a fatal fault rejects the batch.
func (n *Normalizer) Normalize(raw interface{}) (*schema.Report, *Fault) {
	obj, ok := asObject(raw)
	if !ok {
		return nil, dropFault(entityReport, "", "not an object")
	}

	// a missing position only drops the report once the observation lists
	// are known to hold no fatal fault
	position, positionFault := validatePosition(obj["position"])

	cells := []schema.CellTower{}
	fault := eachElement(obj, "cellTowers", func(v interface{}) *Fault {
		cell, f := validateCellTower(v)
		if cell != nil {
			cells = append(cells, *cell)
		}
		return f
	})
	if fault != nil {
		return nil, fault
	}

	wifis := []schema.WifiAccessPoint{}
	fault = eachElement(obj, "wifiAccessPoints", func(v interface{}) *Fault {
		wifi, f := validateWifi(v)
		if wifi != nil {
			wifis = append(wifis, *wifi)
		}
		return f
	})
	if fault != nil {
		return nil, fault
	}

	beacons := []schema.BluetoothBeacon{}
	fault = eachElement(obj, "bluetoothBeacons", func(v interface{}) *Fault {
		beacon, f := validateBluetooth(v)
		if beacon != nil {
			beacons = append(beacons, *beacon)
		}
		return f
	})
	if fault != nil {
		return nil, fault
	}

	if positionFault != nil {
		return nil, positionFault
	}

	// connection data is never kept
	if f := validateConnection(obj["connection"]); f != nil {
		log.WithField("fault", f.Error()).Debug("ignored connection block")
	}

	top := lenientFields(entityReport, obj)
	report := &schema.Report{
		Timestamp:             n.nowMillis(),
		Position:              position,
		Carrier:               top.optString("carrier", 72),
		HomeMobileCountryCode: top.optInt("homeMobileCountryCode", 1, 999),
		HomeMobileNetworkCode: top.optInt("homeMobileNetworkCode", 0, 32767),
		CellTowers:            cells,
		WifiAccessPoints:      wifis,
		BluetoothBeacons:      beacons,
	}
	if ts := top.optInt("timestamp", 1, math.MaxInt64); ts != nil {
		report.Timestamp = *ts
	}
	return report, nil
}

// eachElement runs check over the list stored under key. Drop faults
// only skip the element; the first fatal fault stops the walk.
func eachElement(obj map[string]interface{}, key string, check func(interface{}) *Fault) *Fault {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		return fatalFault(entityReport, key, "not a list")
	}
	for _, v := range list {
		if f := check(v); f.Fatal() {
			return f
		}
	}
	return nil
}
