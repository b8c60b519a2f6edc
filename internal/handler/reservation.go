package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/alexvl/flight-offer-reservation/internal/ledger"
	"github.com/alexvl/flight-offer-reservation/internal/logger"
	"github.com/alexvl/flight-offer-reservation/internal/metrics"
	"github.com/alexvl/flight-offer-reservation/internal/model"
	"github.com/alexvl/flight-offer-reservation/internal/queue"
	"github.com/alexvl/flight-offer-reservation/internal/session"
)

// EventPublisher publishes a reservation-confirmed event. Injected so the
// broker can be faked in tests; a publish failure is logged and ignored,
// never failing the reservation.
type EventPublisher func(ctx context.Context, log logger.Logger, ev queue.ReservationConfirmedEvent) error

// ReservationHandler drives the session flow from offer selection to a
// persisted reservation. All session endpoints sit behind the SessionAuth
// middleware, which puts the session id into the context.
type ReservationHandler struct {
	Ledger     ledger.Store
	Sessions   session.Store
	Secret     string        // session token signing secret
	SessionTTL time.Duration // token and store TTL
	Publish    EventPublisher
	Log        logger.Logger
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(l ledger.Store, s session.Store, secret string, ttl time.Duration, pub EventPublisher, log logger.Logger) *ReservationHandler {
	if l == nil || s == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{
		Ledger:     l,
		Sessions:   s,
		Secret:     secret,
		SessionTTL: ttl,
		Publish:    pub,
		Log:        log,
	}
}

// StartSession handles POST /v1/session. It opens a fresh reservation
// session and returns the signed token the client presents on the
// follow-up calls.
func (h *ReservationHandler) StartSession(c echo.Context) error {
	sess, err := session.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create session"})
	}
	if err := h.Sessions.Save(c.Request().Context(), sess); err != nil {
		h.Log.Error("session save failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to persist session"})
	}
	tok, err := session.NewToken(h.Secret, sess.ID, h.SessionTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue session token"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"session_id": sess.ID,
		"stage":      sess.Stage,
		"token":      tok.Value,
		"expires":    tok.Exp,
	})
}

// currentSession loads the session identified by the token the middleware
// verified. A missing or expired session maps to 401: the token outlived
// its server-side state.
func (h *ReservationHandler) currentSession(c echo.Context) (*session.Session, error) {
	sid, _ := c.Get("session_id").(string)
	if sid == "" {
		return nil, session.ErrNotFound
	}
	return h.Sessions.Get(c.Request().Context(), sid)
}

type selectReq struct {
	OfferID     string `json:"offer_id"`
	FlightID    string `json:"flight_id"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	PriceTotal  string `json:"price_total"`
	Seat        string `json:"seat"`
}

// SelectOffer handles POST /v1/session/select. It records the chosen
// offer and seat on the session; a seat that is already in the ledger is
// rejected up front with 409.
func (h *ReservationHandler) SelectOffer(c echo.Context) error {
	sess, err := h.currentSession(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired"})
	}
	var req selectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.FlightID = strings.TrimSpace(req.FlightID)
	req.Seat = strings.TrimSpace(req.Seat)
	if req.FlightID == "" || req.Seat == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "flight_id and seat are required"})
	}

	taken, err := h.Ledger.IsTaken(c.Request().Context(), req.FlightID, req.Seat)
	if err != nil {
		h.Log.Error("ledger check failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check seat availability"})
	}
	if taken {
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat already taken"})
	}

	if err := sess.Select(req.OfferID, req.FlightID, req.Seat, req.Origin, req.Destination, req.PriceTotal); err != nil {
		return h.sessionError(c, err)
	}
	if err := h.Sessions.Save(c.Request().Context(), sess); err != nil {
		h.Log.Error("session save failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to persist session"})
	}
	return c.JSON(http.StatusOK, echo.Map{"stage": sess.Stage, "draft": sess.Draft})
}

type passengerReq struct {
	Name string `json:"name"`
}

// SetPassenger handles POST /v1/session/passenger.
func (h *ReservationHandler) SetPassenger(c echo.Context) error {
	sess, err := h.currentSession(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired"})
	}
	var req passengerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if err := sess.SetPassenger(req.Name); err != nil {
		return h.sessionError(c, err)
	}
	if err := h.Sessions.Save(c.Request().Context(), sess); err != nil {
		h.Log.Error("session save failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to persist session"})
	}
	return c.JSON(http.StatusOK, echo.Map{"stage": sess.Stage, "draft": sess.Draft})
}

// Confirm handles POST /v1/session/confirm. The availability check and the
// append are separate steps; with the CSV backend two racing sessions can
// both pass the check, which is the accepted limitation of that backend.
// The MySQL backend closes the window via its unique key, surfacing as
// ErrSeatTaken here.
func (h *ReservationHandler) Confirm(c echo.Context) error {
	sess, err := h.currentSession(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired"})
	}
	if sess.Stage != session.StageAwaitingConfirm {
		return h.sessionError(c, &session.WrongStageError{Op: "confirm", Stage: sess.Stage})
	}

	ctx := c.Request().Context()
	rec := model.ReservationRecord{
		FlightID: sess.Draft.FlightID,
		Seat:     sess.Draft.Seat,
		Name:     sess.Draft.Name,
	}

	taken, err := h.Ledger.IsTaken(ctx, rec.FlightID, rec.Seat)
	if err != nil {
		h.Log.Error("ledger check failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check seat availability"})
	}
	if taken {
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat already taken"})
	}

	if err := h.Ledger.Reserve(ctx, rec); err != nil {
		if errors.Is(err, ledger.ErrSeatTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat already taken"})
		}
		h.Log.Error("ledger write failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to persist reservation"})
	}

	if err := sess.Confirm(); err != nil {
		return h.sessionError(c, err)
	}
	if err := h.Sessions.Save(ctx, sess); err != nil {
		h.Log.Error("session save failed", "error", err)
	}

	metrics.Reservations.Inc()
	h.Log.Info("reservation confirmed",
		"flight_id", rec.FlightID, "seat", rec.Seat, "passenger", rec.Name)

	if h.Publish != nil {
		ev := queue.ReservationConfirmedEvent{
			FlightID:    rec.FlightID,
			Seat:        rec.Seat,
			Passenger:   rec.Name,
			OfferID:     sess.SelectedOfferID,
			Origin:      sess.Origin,
			Destination: sess.Destination,
			PriceTotal:  sess.PriceTotal,
			ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
		}
		_ = h.Publish(ctx, h.Log, ev) // logged inside, never fails the request
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"stage":       sess.Stage,
		"reservation": rec,
	})
}

// ListReservations handles GET /v1/reservations and returns the full
// ledger contents.
func (h *ReservationHandler) ListReservations(c echo.Context) error {
	records, err := h.Ledger.Load(c.Request().Context())
	if err != nil {
		h.Log.Error("ledger load failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": records})
}

// SeatStatus handles GET /v1/flights/:id/seats/:seat, an availability
// probe for a single seat.
func (h *ReservationHandler) SeatStatus(c echo.Context) error {
	flightID := strings.TrimSpace(c.Param("id"))
	seat := strings.TrimSpace(c.Param("seat"))
	if flightID == "" || seat == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "flight id and seat are required"})
	}
	taken, err := h.Ledger.IsTaken(c.Request().Context(), flightID, seat)
	if err != nil {
		h.Log.Error("ledger check failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check seat availability"})
	}
	return c.JSON(http.StatusOK, echo.Map{"flight_id": flightID, "seat": seat, "taken": taken})
}

// sessionError maps session state errors onto HTTP responses: terminal and
// wrong-stage conditions are conflicts, anything else is a server error.
func (h *ReservationHandler) sessionError(c echo.Context, err error) error {
	if errors.Is(err, session.ErrReserved) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "session already reserved"})
	}
	var wrong *session.WrongStageError
	if errors.As(err, &wrong) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "operation not allowed in current stage", "stage": wrong.Stage})
	}
	h.Log.Error("session operation failed", "error", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session operation failed"})
}
