package submit

import (
	"github.com/bitmark-inc/geosubmit-api/schema"
)

const entityPosition = "position"

var positionSources = enumTable{
	"gps":    "gps",
	"gnss":   "gps",
	"manual": "manual",
	"fused":  "fused",
	"query":  "query",
}

// validatePosition only ever returns drop faults: a report without a usable
// position is skipped, it does not reject the batch.
func validatePosition(raw interface{}) (schema.Position, *Fault) {
	var p schema.Position

	obj, ok := asObject(raw)
	if !ok {
		if raw == nil {
			return p, dropFault(entityPosition, "", "missing")
		}
		return p, dropFault(entityPosition, "", "not an object")
	}

	lat, state := floatField(obj["latitude"], -90, 90)
	if state != fieldOK {
		return p, dropFault(entityPosition, "latitude", state.String())
	}
	lon, state := floatField(obj["longitude"], -180, 180)
	if state != fieldOK {
		return p, dropFault(entityPosition, "longitude", state.String())
	}

	f := lenientFields(entityPosition, obj)
	p = schema.Position{
		Latitude:         lat,
		Longitude:        lon,
		Accuracy:         f.optFloat("accuracy", 0, 1000000),
		Altitude:         f.optFloat("altitude", -10911, 100000),
		AltitudeAccuracy: f.optFloat("altitudeAccuracy", 0, 1000000),
		Age:              f.optInt("age", minAge, maxAge),
		Heading:          f.optFloat("heading", 0, 360),
		Pressure:         f.optFloat("pressure", 500, 1100),
		Source:           f.optEnum("source", positionSources),
		Speed:            f.optFloat("speed", 0, 300),
	}
	return p, nil
}
