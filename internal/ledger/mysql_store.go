package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/alexvl/flight-offer-reservation/internal/model"
)

// mysqlDupEntry is the MySQL error number for a unique-key violation.
const mysqlDupEntry = 1062

// MySQLStore keeps the ledger in a reservations table with a unique key on
// (flight_id, seat). Unlike the CSV backend, Reserve here is an atomic
// check-and-append: a racing duplicate surfaces as ErrSeatTaken instead of
// a double-booking.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore returns a store bound to the given database.
func NewMySQLStore(db *sql.DB) *MySQLStore { return &MySQLStore{db: db} }

// InitSchema creates the reservations table when it does not exist yet.
func (s *MySQLStore) InitSchema(ctx context.Context) error {
	const ddl = `CREATE TABLE IF NOT EXISTS reservations (
		id        BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		flight_id VARCHAR(64)  NOT NULL,
		seat      VARCHAR(16)  NOT NULL,
		name      VARCHAR(255) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_flight_seat (flight_id, seat)
	)`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ledger: init schema: %w", err)
	}
	return nil
}

// Load returns every reservation in insertion order.
func (s *MySQLStore) Load(ctx context.Context) ([]model.ReservationRecord, error) {
	const q = `SELECT flight_id, seat, name FROM reservations ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("ledger: load reservations: %w", err)
	}
	defer rows.Close()

	records := []model.ReservationRecord{}
	for rows.Next() {
		var r model.ReservationRecord
		if err := rows.Scan(&r.FlightID, &r.Seat, &r.Name); err != nil {
			return nil, fmt.Errorf("ledger: scan reservation: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// IsTaken reports whether a reservation for the (flightID, seat) pair
// exists.
func (s *MySQLStore) IsTaken(ctx context.Context, flightID, seat string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM reservations WHERE flight_id = ? AND seat = ?)`
	var taken bool
	if err := s.db.QueryRowContext(ctx, q, flightID, seat).Scan(&taken); err != nil {
		return false, fmt.Errorf("ledger: seat check: %w", err)
	}
	return taken, nil
}

// Reserve inserts the record. The unique key turns a concurrent duplicate
// into ErrSeatTaken.
func (s *MySQLStore) Reserve(ctx context.Context, rec model.ReservationRecord) error {
	const q = `INSERT INTO reservations (flight_id, seat, name) VALUES (?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q, rec.FlightID, rec.Seat, rec.Name); err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDupEntry {
			return ErrSeatTaken
		}
		return fmt.Errorf("ledger: insert reservation: %w", err)
	}
	return nil
}
