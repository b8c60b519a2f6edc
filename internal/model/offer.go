package model

// Offer is a priced itinerary returned by the upstream flight-search API,
// flattened for display. Offers are read-only: they are produced by the
// offer retriever, rendered by the caller and discarded at the end of the
// session.
//
// Fields:
//
//	ID          – upstream offer identifier.
//	Origin      – IATA code of the first segment's departure airport.
//	Destination – IATA code of the last segment's arrival airport.
//	DepartureAt – departure timestamp of the first segment (upstream format).
//	ArrivalAt   – arrival timestamp of the last segment.
//	Duration    – itinerary duration normalized to "<H>h <M>m".
//	CarrierCode – carrier of the first segment.
//	PriceTotal  – total price as reported by the upstream API.
//	Stops       – number of intermediate stops.
type Offer struct {
	ID          string `json:"id"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	DepartureAt string `json:"departure_at"`
	ArrivalAt   string `json:"arrival_at"`
	Duration    string `json:"duration"`
	CarrierCode string `json:"carrier_code"`
	PriceTotal  string `json:"price_total"`
	Stops       int    `json:"stops"`
}
