package ledger

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sync"

	"github.com/alexvl/flight-offer-reservation/internal/model"
)

// csvHeader is the column row written at the top of the ledger file. It is
// kept byte-compatible with the historical reservations format.
var csvHeader = []string{"Flight ID", "Seat", "Name"}

// CSVStore keeps the ledger in a flat file. Every Reserve reloads the file,
// appends the new row and rewrites the whole file.
//
// The mutex serializes access within this process only. Two processes
// sharing the file can still both pass an IsTaken check before either
// writes and double-book a seat; there is no file locking discipline.
type CSVStore struct {
	mu   sync.Mutex
	path string
}

// NewCSVStore returns a store backed by the file at path. The file is not
// created until the first reservation is persisted.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Load reads all reservation records from the ledger file. A missing file
// is an empty ledger, not an error.
func (s *CSVStore) Load(_ context.Context) ([]model.ReservationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *CSVStore) load() ([]model.ReservationRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.ReservationRecord{}, nil
		}
		return nil, fmt.Errorf("ledger: open %s: %w", s.path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ledger: parse %s: %w", s.path, err)
	}
	records := make([]model.ReservationRecord, 0, len(rows))
	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == csvHeader[0] {
			continue // header row
		}
		if len(row) < 3 {
			continue
		}
		records = append(records, model.ReservationRecord{
			FlightID: row[0],
			Seat:     row[1],
			Name:     row[2],
		})
	}
	return records, nil
}

// IsTaken reports whether the exact (flightID, seat) pair already exists.
func (s *CSVStore) IsTaken(_ context.Context, flightID, seat string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.load()
	if err != nil {
		return false, err
	}
	for _, r := range records {
		if r.FlightID == flightID && r.Seat == seat {
			return true, nil
		}
	}
	return false, nil
}

// Reserve appends rec and rewrites the ledger file. It does not re-check
// availability; callers must consult IsTaken first. A write failure
// propagates to the caller.
func (s *CSVStore) Reserve(_ context.Context, rec model.ReservationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	records = append(records, rec)
	return s.save(records)
}

func (s *CSVStore) save(records []model.ReservationRecord) error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("ledger: open %s for write: %w", s.path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		_ = f.Close()
		return fmt.Errorf("ledger: write header: %w", err)
	}
	for _, r := range records {
		if err := w.Write([]string{r.FlightID, r.Seat, r.Name}); err != nil {
			_ = f.Close()
			return fmt.Errorf("ledger: write record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("ledger: flush %s: %w", s.path, err)
	}
	return f.Close()
}
