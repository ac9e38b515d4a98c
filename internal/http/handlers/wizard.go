package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/grassandaxe/booking-wizard/internal/availability"
	"github.com/grassandaxe/booking-wizard/internal/catalog"
	"github.com/grassandaxe/booking-wizard/internal/wizard"
	"github.com/grassandaxe/booking-wizard/pkg/logging"
)

const maxBodyBytes = 64 << 10

// WizardService is the booking wizard as seen by the HTTP layer.
type WizardService interface {
	Catalog() catalog.Catalog
	NewSession(ctx context.Context) wizard.SessionState
	State(ctx context.Context, sessionID string, step int) (wizard.SessionState, error)
	SetField(ctx context.Context, sessionID, key, value string) (wizard.FieldUpdate, error)
	SelectDate(ctx context.Context, sessionID, dateKey string) (wizard.DateSelection, error)
	SelectTime(ctx context.Context, sessionID, label string) (wizard.BookingData, error)
	Slots(ctx context.Context, dateKey string) ([]availability.Slot, error)
	Calendar(ctx context.Context, sessionID string, year, month int) (wizard.CalendarView, error)
	Next(ctx context.Context, sessionID string, from int, in wizard.StepInput) (wizard.Transition, error)
	Back(ctx context.Context, sessionID string, from int) (wizard.Transition, error)
	Jump(ctx context.Context, sessionID string, active, target int) (wizard.Transition, error)
	Summary(ctx context.Context, sessionID string) wizard.Summary
	Complete(ctx context.Context, sessionID string, in wizard.StepInput) (wizard.Transition, error)
}

// WizardHandler exposes the booking wizard as a JSON API.
type WizardHandler struct {
	svc    WizardService
	logger *logging.Logger
}

func NewWizardHandler(svc WizardService, logger *logging.Logger) *WizardHandler {
	if svc == nil {
		panic("handlers: wizard service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &WizardHandler{svc: svc, logger: logger}
}

// Routes returns the wizard routes, meant to be mounted under /wizard.
func (h *WizardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/calendar", h.GetCalendar)
	r.Get("/slots", h.GetSlots)
	r.Post("/sessions", h.CreateSession)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Put("/fields/{key}", h.SetField)
		r.Put("/date", h.SelectDate)
		r.Put("/time", h.SelectTime)
		r.Post("/next", h.Next)
		r.Post("/back", h.Back)
		r.Post("/jump", h.Jump)
		r.Get("/summary", h.GetSummary)
		r.Post("/complete", h.Complete)
	})
	return r
}

// GetCatalog handles GET /catalog.
func (h *WizardHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Catalog())
}

// CreateSession handles POST /wizard/sessions.
func (h *WizardHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, h.svc.NewSession(r.Context()))
}

// GetSession handles GET /wizard/sessions/{sessionID}?step=N.
func (h *WizardHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	step, err := queryInt(r, "step")
	if err != nil {
		writeError(w, http.StatusBadRequest, "step must be a number")
		return
	}
	st, err := h.svc.State(r.Context(), id, step)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type fieldRequest struct {
	Value string `json:"value"`
}

// SetField handles PUT /wizard/sessions/{sessionID}/fields/{key}.
func (h *WizardHandler) SetField(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var req fieldRequest
	if !h.decode(w, r, &req) {
		return
	}
	update, err := h.svc.SetField(r.Context(), id, chi.URLParam(r, "key"), req.Value)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	status := http.StatusOK
	if !update.Saved {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, update)
}

type dateRequest struct {
	Date string `json:"date"`
}

// SelectDate handles PUT /wizard/sessions/{sessionID}/date.
func (h *WizardHandler) SelectDate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var req dateRequest
	if !h.decode(w, r, &req) {
		return
	}
	sel, err := h.svc.SelectDate(r.Context(), id, req.Date)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

type timeRequest struct {
	Time string `json:"time"`
}

// SelectTime handles PUT /wizard/sessions/{sessionID}/time.
func (h *WizardHandler) SelectTime(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var req timeRequest
	if !h.decode(w, r, &req) {
		return
	}
	data, err := h.svc.SelectTime(r.Context(), id, req.Time)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"booking": data})
}

// GetSlots handles GET /wizard/slots?date=YYYY-M-D.
func (h *WizardHandler) GetSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := h.svc.Slots(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"slots": slots})
}

// GetCalendar handles GET /wizard/calendar?year=&month=&session=.
func (h *WizardHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year")
	if err != nil {
		writeError(w, http.StatusBadRequest, "year must be a number")
		return
	}
	month, err := queryInt(r, "month")
	if err != nil {
		writeError(w, http.StatusBadRequest, "month must be a number")
		return
	}
	session := r.URL.Query().Get("session")
	if session != "" && uuid.Validate(session) != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}
	view, err := h.svc.Calendar(r.Context(), session, year, month)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type navRequest struct {
	From   int `json:"from"`
	Active int `json:"active"`
	Target int `json:"target"`
	wizard.StepInput
}

// Next handles POST /wizard/sessions/{sessionID}/next.
func (h *WizardHandler) Next(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var req navRequest
	if !h.decode(w, r, &req) {
		return
	}
	t, err := h.svc.Next(r.Context(), id, req.From, req.StepInput)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeTransition(w, t)
}

// Back handles POST /wizard/sessions/{sessionID}/back.
func (h *WizardHandler) Back(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var req navRequest
	if !h.decode(w, r, &req) {
		return
	}
	t, err := h.svc.Back(r.Context(), id, req.From)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeTransition(w, t)
}

// Jump handles POST /wizard/sessions/{sessionID}/jump.
func (h *WizardHandler) Jump(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var req navRequest
	if !h.decode(w, r, &req) {
		return
	}
	t, err := h.svc.Jump(r.Context(), id, req.Active, req.Target)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeTransition(w, t)
}

// GetSummary handles GET /wizard/sessions/{sessionID}/summary.
func (h *WizardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Summary(r.Context(), id))
}

// Complete handles POST /wizard/sessions/{sessionID}/complete.
func (h *WizardHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var req wizard.StepInput
	if !h.decode(w, r, &req) {
		return
	}
	t, err := h.svc.Complete(r.Context(), id, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if t.Moved {
		writeJSON(w, http.StatusCreated, t)
		return
	}
	writeTransition(w, t)
}

func (h *WizardHandler) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "sessionID")
	if err := uuid.Validate(id); err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return "", false
	}
	return id, true
}

func (h *WizardHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.Warn("failed to decode request", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (h *WizardHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wizard.ErrStepOutOfRange),
		errors.Is(err, wizard.ErrInvalidDate),
		errors.Is(err, wizard.ErrUnknownField),
		errors.Is(err, wizard.ErrSelectorField),
		errors.Is(err, wizard.ErrUnknownOption):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, wizard.ErrStepLocked),
		errors.Is(err, wizard.ErrStepIncomplete),
		errors.Is(err, wizard.ErrDateUnavailable),
		errors.Is(err, wizard.ErrNoDateSelected),
		errors.Is(err, wizard.ErrSlotUnavailable):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("wizard request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// writeTransition reports a blocked step as 422 so clients can branch on
// status alone.
func writeTransition(w http.ResponseWriter, t wizard.Transition) {
	status := http.StatusOK
	if !t.Moved && !t.Errors.Empty() {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, t)
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
