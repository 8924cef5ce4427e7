package binarymeta

// Envelope is the base64-encoded binary message shape this metasearch
// endpoint wraps its results in. The payload itself is a flattened,
// positional record format rather than named JSON fields — typical of
// a metasearch wire protocol never meant for third-party consumption.
type Envelope struct {
	Version int      `json:"v"`
	Records []Record `json:"r"`
}

// Record is one flattened flight offer: carrier, flight number, origin,
// destination, depart/arrive unix-seconds, cabin code, price in minor
// units, currency, and a trust-irrelevant click-through URL.
type Record struct {
	Carrier     string `json:"c"`
	FlightNo    string `json:"fn"`
	Origin      string `json:"o"`
	Destination string `json:"d"`
	DepartUnix  int64  `json:"dt"`
	ArriveUnix  int64  `json:"at"`
	CabinCode   string `json:"cb"`
	PriceMinor  int64  `json:"p"`
	Currency    string `json:"cur"`
	DeepLink    string `json:"u"`
}
