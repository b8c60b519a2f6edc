// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

// ReservationConfirmedEvent is published when a seat reservation is
// confirmed. It carries enough for downstream consumers to log or notify
// without consulting the ledger.
type ReservationConfirmedEvent struct {
	FlightID    string `json:"flight_id"`
	Seat        string `json:"seat"`
	Passenger   string `json:"passenger"`
	OfferID     string `json:"offer_id,omitempty"`
	Origin      string `json:"origin,omitempty"`
	Destination string `json:"destination,omitempty"`
	PriceTotal  string `json:"price_total,omitempty"`
	ConfirmedAt string `json:"confirmed_at"`
}
