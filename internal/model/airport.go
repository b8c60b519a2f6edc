package model

// Airport is a row from the airports reference data, reduced to the fields
// the service needs for code lookups.
type Airport struct {
	Name string `json:"name"` // full airport name
	City string `json:"city"` // city served by the airport
	IATA string `json:"iata"` // three-letter IATA code
}
