// Package session models the reservation flow as an explicit session
// object instead of ambient UI state. A session walks the stages
// AVAILABLE -> AWAITING_NAME -> AWAITING_CONFIRM -> RESERVED; RESERVED is
// terminal.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// Stage is the position of a session in the reservation flow.
type Stage string

const (
	StageAvailable       Stage = "AVAILABLE"
	StageAwaitingName    Stage = "AWAITING_NAME"
	StageAwaitingConfirm Stage = "AWAITING_CONFIRM"
	StageReserved        Stage = "RESERVED"
)

// ErrNotFound is returned by stores when a session id is unknown or has
// expired.
var ErrNotFound = errors.New("session: not found")

// ErrReserved is returned for any mutation attempted after the session
// reached its terminal stage. There is no cancel or undo transition.
var ErrReserved = errors.New("session: already reserved")

// WrongStageError reports an operation attempted from a stage that does
// not permit it.
type WrongStageError struct {
	Op    string
	Stage Stage
}

func (e *WrongStageError) Error() string {
	return fmt.Sprintf("session: cannot %s while in stage %s", e.Op, e.Stage)
}

// Draft is the pending reservation being assembled in a session.
type Draft struct {
	FlightID string `json:"flight_id"`
	Seat     string `json:"seat"`
	Name     string `json:"name"`
}

// Session carries everything a handler needs about one reservation flow:
// the selected offer, the pending draft and the current stage. It replaces
// the global "currently selected flight" state of the original design.
type Session struct {
	ID              string    `json:"id"`
	Stage           Stage     `json:"stage"`
	SelectedOfferID string    `json:"selected_offer_id,omitempty"`
	Origin          string    `json:"origin,omitempty"`
	Destination     string    `json:"destination,omitempty"`
	PriceTotal      string    `json:"price_total,omitempty"`
	Draft           Draft     `json:"draft"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// New returns a fresh session in the AVAILABLE stage with a random id.
func New() (*Session, error) {
	id, err := randomHex(16)
	if err != nil {
		return nil, fmt.Errorf("session: generate id: %w", err)
	}
	now := time.Now().UTC()
	return &Session{ID: id, Stage: StageAvailable, CreatedAt: now, UpdatedAt: now}, nil
}

// Select records the chosen offer and seat and moves the session to
// AWAITING_NAME. Re-selecting before confirmation restarts the draft;
// a RESERVED session rejects the call.
func (s *Session) Select(offerID, flightID, seat, origin, destination, priceTotal string) error {
	if s.Stage == StageReserved {
		return ErrReserved
	}
	s.SelectedOfferID = offerID
	s.Origin = origin
	s.Destination = destination
	s.PriceTotal = priceTotal
	s.Draft = Draft{FlightID: flightID, Seat: seat}
	s.Stage = StageAwaitingName
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// SetPassenger records the passenger name and moves the session to
// AWAITING_CONFIRM. Allowed while awaiting a name or to correct the name
// before confirmation.
func (s *Session) SetPassenger(name string) error {
	switch s.Stage {
	case StageAwaitingName, StageAwaitingConfirm:
	case StageReserved:
		return ErrReserved
	default:
		return &WrongStageError{Op: "set passenger", Stage: s.Stage}
	}
	s.Draft.Name = name
	s.Stage = StageAwaitingConfirm
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Confirm finalizes the flow. It only transitions from AWAITING_CONFIRM;
// the caller persists the reservation to the ledger before calling it.
func (s *Session) Confirm() error {
	switch s.Stage {
	case StageAwaitingConfirm:
	case StageReserved:
		return ErrReserved
	default:
		return &WrongStageError{Op: "confirm", Stage: s.Stage}
	}
	s.Stage = StageReserved
	s.UpdatedAt = time.Now().UTC()
	return nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
