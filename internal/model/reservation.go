package model

// ReservationRecord is a persisted seat reservation. The pair
// (FlightID, Seat) is unique across the ledger: no two records may share
// both fields. Records are created on user confirmation and are never
// updated or deleted.
type ReservationRecord struct {
	FlightID string `json:"flight_id"` // offer/flight identifier
	Seat     string `json:"seat"`      // seat label, e.g. "12A"
	Name     string `json:"name"`      // passenger name
}
