package submit

import (
	"github.com/bitmark-inc/geosubmit-api/schema"
)

const entityCell = "cellTower"

// cellRadios maps legacy radio names onto the canonical ones.
var cellRadios = enumTable{
	"gsm":   "gsm",
	"cdma":  "cdma",
	"umts":  "wcdma",
	"wcdma": "wcdma",
	"lte":   "lte",
	"nr":    "nr",
}

const (
	maxCellID   = 268435455   // 28 bit
	maxNRCellID = 68719476735 // 36 bit
)

func validateCellTower(raw interface{}) (*schema.CellTower, *Fault) {
	obj, ok := asObject(raw)
	if !ok {
		return nil, fatalFault(entityCell, "", "not an object")
	}

	f := strictFields(entityCell, obj)
	cell := &schema.CellTower{
		RadioType:         f.optEnum("radioType", cellRadios),
		MobileCountryCode: f.optInt("mobileCountryCode", 1, 999),
		MobileNetworkCode: f.optInt("mobileNetworkCode", 0, 32767),
		LocationAreaCode:  f.optInt("locationAreaCode", 1, 65535),
	}
	maxCID := int64(maxCellID)
	if cell.RadioType != nil && *cell.RadioType == "nr" {
		maxCID = maxNRCellID
	}
	cell.CellID = f.optInt("cellId", 0, maxCID)
	cell.PrimaryScramblingCode = f.optInt("primaryScramblingCode", 0, 1007)
	cell.Age = f.optInt("age", minAge, maxAge)
	cell.ASU = f.optInt("asu", -5, 99)
	cell.Serving = f.optInt("serving", 0, 1)
	cell.SignalStrength = f.optInt("signalStrength", -150, -1)
	cell.TimingAdvance = f.optInt("timingAdvance", 0, 63)

	if f.fault != nil {
		return nil, f.fault
	}
	if cell.MobileCountryCode == nil || cell.MobileNetworkCode == nil {
		return nil, dropFault(entityCell, "", "missing network identifiers")
	}
	hasArea := cell.LocationAreaCode != nil && cell.CellID != nil
	if !hasArea && cell.PrimaryScramblingCode == nil {
		return nil, dropFault(entityCell, "", "missing cell identifiers")
	}
	return cell, nil
}
