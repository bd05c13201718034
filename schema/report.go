package schema

// Report is the canonical form of one geosubmit observation. Optional
// scalars are pointers so that a field absent on input stays absent on
// output.
type Report struct {
	Timestamp             int64             `json:"timestamp"`
	Position              Position          `json:"position"`
	Carrier               *string           `json:"carrier,omitempty"`
	HomeMobileCountryCode *int64            `json:"homeMobileCountryCode,omitempty"`
	HomeMobileNetworkCode *int64            `json:"homeMobileNetworkCode,omitempty"`
	CellTowers            []CellTower       `json:"cellTowers"`
	WifiAccessPoints      []WifiAccessPoint `json:"wifiAccessPoints"`
	BluetoothBeacons      []BluetoothBeacon `json:"bluetoothBeacons"`
}

// Position is the device location a report is tied to.
type Position struct {
	Latitude         float64  `json:"latitude"`
	Longitude        float64  `json:"longitude"`
	Accuracy         *float64 `json:"accuracy,omitempty"`
	Altitude         *float64 `json:"altitude,omitempty"`
	AltitudeAccuracy *float64 `json:"altitudeAccuracy,omitempty"`
	Age              *int64   `json:"age,omitempty"`
	Heading          *float64 `json:"heading,omitempty"`
	Pressure         *float64 `json:"pressure,omitempty"`
	Source           *string  `json:"source,omitempty"`
	Speed            *float64 `json:"speed,omitempty"`
}

type CellTower struct {
	RadioType             *string `json:"radioType,omitempty"`
	MobileCountryCode     *int64  `json:"mobileCountryCode,omitempty"`
	MobileNetworkCode     *int64  `json:"mobileNetworkCode,omitempty"`
	LocationAreaCode      *int64  `json:"locationAreaCode,omitempty"`
	CellID                *int64  `json:"cellId,omitempty"`
	PrimaryScramblingCode *int64  `json:"primaryScramblingCode,omitempty"`
	Age                   *int64  `json:"age,omitempty"`
	ASU                   *int64  `json:"asu,omitempty"`
	Serving               *int64  `json:"serving,omitempty"`
	SignalStrength        *int64  `json:"signalStrength,omitempty"`
	TimingAdvance         *int64  `json:"timingAdvance,omitempty"`
}

// WifiAccessPoint never carries the network name; ssid is not part of the
// canonical form.
type WifiAccessPoint struct {
	MacAddress         string  `json:"macAddress"`
	Age                *int64  `json:"age,omitempty"`
	Channel            *int64  `json:"channel,omitempty"`
	Frequency          *int64  `json:"frequency,omitempty"`
	RadioType          *string `json:"radioType,omitempty"`
	SignalStrength     *int64  `json:"signalStrength,omitempty"`
	SignalToNoiseRatio *int64  `json:"signalToNoiseRatio,omitempty"`
}

type BluetoothBeacon struct {
	MacAddress     string  `json:"macAddress"`
	Age            *int64  `json:"age,omitempty"`
	Name           *string `json:"name,omitempty"`
	SignalStrength *int64  `json:"signalStrength,omitempty"`
}
