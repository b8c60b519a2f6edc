// Package ledger persists confirmed seat reservations. Two backends are
// provided: a flat CSV file matching the historical reservations format,
// and a MySQL table with a uniqueness constraint on (flight_id, seat).
package ledger

import (
	"context"
	"errors"

	"github.com/alexvl/flight-offer-reservation/internal/model"
)

// ErrSeatTaken is returned when a reservation would duplicate an existing
// (flight id, seat) pair. Only the MySQL backend detects this atomically;
// with the CSV backend the caller is expected to check IsTaken first.
var ErrSeatTaken = errors.New("ledger: seat already reserved")

// Store is the reservation ledger contract.
//
// Load returns every record in the ledger; a backend with no data yet
// (e.g. a CSV file that does not exist) returns an empty collection, not
// an error. IsTaken reports whether the exact (flightID, seat) pair is
// present. Reserve appends a record and persists it immediately.
type Store interface {
	Load(ctx context.Context) ([]model.ReservationRecord, error)
	IsTaken(ctx context.Context, flightID, seat string) (bool, error)
	Reserve(ctx context.Context, rec model.ReservationRecord) error
}
