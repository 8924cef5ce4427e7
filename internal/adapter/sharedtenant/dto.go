package sharedtenant

// searchRequest is the shared-tenant wire shape: one endpoint, one
// tenant ID, a roster of participating carriers on the booking
// platform's side rather than per-airline URLs.
type searchRequest struct {
	TenantID    string `json:"tenant_id"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	DepartDate  string `json:"depart_date"`
	CabinClass  string `json:"cabin_class"`
	PaxAdults   int    `json:"pax_adults"`
	PaxChildren int    `json:"pax_children"`
}

type searchResponse struct {
	Quotes []Quote `json:"quotes"`
}

// Quote is one fare on the platform, already attributed to the
// operating airline even though the request carried no airline-specific
// credential.
type Quote struct {
	AirlineCode  string  `json:"airline_code"`
	FlightNumber string  `json:"flight_number"`
	Origin       string  `json:"origin"`
	Destination  string  `json:"destination"`
	DepartLocal  string  `json:"depart_local"`
	ArriveLocal  string  `json:"arrive_local"`
	CabinCode    string  `json:"cabin_code"`
	TotalPrice   float64 `json:"total_price"`
	Currency     string  `json:"currency"`
	BaggageIncl  bool    `json:"baggage_included"`
	DeepLink     string  `json:"deep_link"`
}
