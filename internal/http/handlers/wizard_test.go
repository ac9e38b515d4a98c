package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grassandaxe/booking-wizard/internal/availability"
	"github.com/grassandaxe/booking-wizard/internal/draft"
	"github.com/grassandaxe/booking-wizard/internal/wizard"
	"github.com/grassandaxe/booking-wizard/pkg/logging"
)

type openSlots struct{}

func (openSlots) Availability(_ context.Context, _ time.Time, labels []string) ([]availability.Slot, error) {
	out := make([]availability.Slot, len(labels))
	for i, l := range labels {
		out[i] = availability.Slot{Label: l, Available: true}
	}
	return out, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := logging.Default()
	store := draft.NewStore(draft.NewMemoryRepository(time.Hour), logger, nil)
	svc := wizard.NewService(wizard.Options{
		Store:        store,
		Availability: openSlots{},
		Logger:       logger,
		Now:          func() time.Time { return time.Date(2024, time.March, 14, 10, 0, 0, 0, time.UTC) },
		NewReference: func() string { return "GA654321" },
	})
	h := NewWizardHandler(svc, logger)
	r := chi.NewRouter()
	r.Get("/catalog", h.GetCatalog)
	r.Mount("/wizard", h.Routes())
	return r
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/wizard/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var st wizard.SessionState
	decodeBody(t, rec, &st)
	require.NotEmpty(t, st.SessionID)
	return st.SessionID
}

func putField(t *testing.T, h http.Handler, id, key, value string) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, h, http.MethodPut, "/wizard/sessions/"+id+"/fields/"+key, map[string]string{"value": value})
}

func TestWizardHandler_FullBooking(t *testing.T) {
	h := newTestRouter(t)
	id := createSession(t, h)

	for _, kv := range [][2]string{
		{wizard.KeyServiceCategory, "Residential Services"},
		{wizard.KeySpecificService, "Lawn Mowing & Edging"},
		{wizard.KeyPropertyType, "Single Family Home"},
		{wizard.KeyPropertySize, "2500"},
	} {
		rec := putField(t, h, id, kv[0], kv[1])
		require.Equal(t, http.StatusOK, rec.Code, kv[0])
	}
	rec := do(t, h, http.MethodPost, "/wizard/sessions/"+id+"/next", map[string]any{"from": 1})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPut, "/wizard/sessions/"+id+"/date", map[string]string{"date": "2024-3-20"})
	require.Equal(t, http.StatusOK, rec.Code)
	var sel wizard.DateSelection
	decodeBody(t, rec, &sel)
	assert.Len(t, sel.Slots, 5)
	assert.Equal(t, "2024-3-20", sel.Booking.SelectedDate)

	rec = do(t, h, http.MethodPut, "/wizard/sessions/"+id+"/time", map[string]string{"time": "10:00 AM"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, http.StatusOK, putField(t, h, id, wizard.KeyServiceFrequency, "Weekly").Code)
	rec = do(t, h, http.MethodPost, "/wizard/sessions/"+id+"/next", map[string]any{"from": 2})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/wizard/sessions/"+id+"/next", map[string]any{
		"from": 3,
		"fields": map[string]string{
			wizard.KeyCustomerName:  "Jane Doe",
			wizard.KeyCustomerEmail: "jane@example.com",
			wizard.KeyCustomerPhone: "(555) 123-4567",
			wizard.KeyStreetAddress: "1 Main St",
			wizard.KeyCity:          "Portland",
			wizard.KeyState:         "OR",
			wizard.KeyZIP:           "97201",
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var tr wizard.Transition
	decodeBody(t, rec, &tr)
	assert.Equal(t, wizard.StepReview, tr.Step.Active)
	require.NotNil(t, tr.Summary)
	assert.Equal(t, "$178.20", tr.Summary.Quote.Total)

	rec = do(t, h, http.MethodGet, "/wizard/sessions/"+id+"/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary wizard.Summary
	decodeBody(t, rec, &summary)
	assert.Equal(t, "10:00 AM", summary.Time)

	require.Equal(t, http.StatusOK, putField(t, h, id, wizard.KeyPaymentMethod, wizard.PaymentOnSite).Code)
	rec = do(t, h, http.MethodPost, "/wizard/sessions/"+id+"/complete", map[string]any{"termsAccepted": true})
	require.Equal(t, http.StatusCreated, rec.Code)
	tr = wizard.Transition{}
	decodeBody(t, rec, &tr)
	assert.Equal(t, wizard.StepConfirmation, tr.Step.Active)
	require.NotNil(t, tr.Confirmation)
	assert.Equal(t, "GA654321", tr.Confirmation.Reference)

	rec = do(t, h, http.MethodPost, "/wizard/sessions/"+id+"/back", map[string]any{"from": 5})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestWizardHandler_BlockedStepIs422(t *testing.T) {
	h := newTestRouter(t)
	id := createSession(t, h)

	rec := do(t, h, http.MethodPost, "/wizard/sessions/"+id+"/next", map[string]any{"from": 1})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var tr wizard.Transition
	decodeBody(t, rec, &tr)
	assert.False(t, tr.Moved)
	assert.Equal(t, wizard.StepService, tr.Step.Active)
	assert.NotEmpty(t, tr.Errors.Fields)
}

func TestWizardHandler_InvalidFieldIs422(t *testing.T) {
	h := newTestRouter(t)
	id := createSession(t, h)

	rec := putField(t, h, id, wizard.KeyCustomerEmail, "not-an-email")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var u wizard.FieldUpdate
	decodeBody(t, rec, &u)
	assert.False(t, u.Saved)
	_, ok := u.Errors.FieldMessage(wizard.KeyCustomerEmail)
	assert.True(t, ok)
}

func TestWizardHandler_ErrorMapping(t *testing.T) {
	h := newTestRouter(t)
	id := createSession(t, h)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"bad session id", http.MethodGet, "/wizard/sessions/nope", nil, http.StatusBadRequest},
		{"unknown field", http.MethodPut, "/wizard/sessions/" + id + "/fields/favourite-colour", map[string]string{"value": "green"}, http.StatusBadRequest},
		{"selector field", http.MethodPut, "/wizard/sessions/" + id + "/fields/" + wizard.KeySelectedDate, map[string]string{"value": "2024-3-20"}, http.StatusBadRequest},
		{"unknown option", http.MethodPut, "/wizard/sessions/" + id + "/fields/" + wizard.KeyServiceCategory, map[string]string{"value": "Pool Cleaning"}, http.StatusBadRequest},
		{"past date", http.MethodPut, "/wizard/sessions/" + id + "/date", map[string]string{"date": "2024-3-1"}, http.StatusConflict},
		{"malformed date", http.MethodPut, "/wizard/sessions/" + id + "/date", map[string]string{"date": "tomorrow"}, http.StatusBadRequest},
		{"time before date", http.MethodPut, "/wizard/sessions/" + id + "/time", map[string]string{"time": "10:00 AM"}, http.StatusConflict},
		{"step out of range", http.MethodPost, "/wizard/sessions/" + id + "/next", map[string]any{"from": 9}, http.StatusBadRequest},
		{"bad step query", http.MethodGet, "/wizard/sessions/" + id + "?step=two", nil, http.StatusBadRequest},
		{"bad calendar month", http.MethodGet, "/wizard/calendar?month=13&year=2024", nil, http.StatusBadRequest},
		{"complete on empty draft", http.MethodPost, "/wizard/sessions/" + id + "/complete", map[string]any{"termsAccepted": true, "fields": map[string]string{wizard.KeyPaymentMethod: wizard.PaymentOnSite}}, http.StatusConflict},
		{"jump from unearned step", http.MethodPost, "/wizard/sessions/" + id + "/jump", map[string]any{"active": 4, "target": 3}, http.StatusConflict},
		{"state of unearned step", http.MethodGet, "/wizard/sessions/" + id + "?step=3", nil, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestWizardHandler_MalformedBody(t *testing.T) {
	h := newTestRouter(t)
	id := createSession(t, h)

	req := httptest.NewRequest(http.MethodPost, "/wizard/sessions/"+id+"/next", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWizardHandler_JumpBack(t *testing.T) {
	h := newTestRouter(t)
	id := createSession(t, h)

	for _, kv := range [][2]string{
		{wizard.KeyServiceCategory, "Residential Services"},
		{wizard.KeySpecificService, "Lawn Mowing & Edging"},
		{wizard.KeyPropertyType, "Single Family Home"},
		{wizard.KeyPropertySize, "2500"},
	} {
		require.Equal(t, http.StatusOK, putField(t, h, id, kv[0], kv[1]).Code, kv[0])
	}
	rec := do(t, h, http.MethodPost, "/wizard/sessions/"+id+"/jump", map[string]any{"active": 2, "target": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	var tr wizard.Transition
	decodeBody(t, rec, &tr)
	assert.True(t, tr.Moved)
	assert.Equal(t, wizard.StepService, tr.Step.Active)

	rec = do(t, h, http.MethodPost, "/wizard/sessions/"+id+"/jump", map[string]any{"active": 1, "target": 3})
	require.Equal(t, http.StatusOK, rec.Code)
	tr = wizard.Transition{}
	decodeBody(t, rec, &tr)
	assert.False(t, tr.Moved)
	assert.Equal(t, wizard.StepService, tr.Step.Active)
}

func TestWizardHandler_CatalogAndCalendar(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Stump Grinding")

	rec = do(t, h, http.MethodGet, "/wizard/calendar", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view wizard.CalendarView
	decodeBody(t, rec, &view)
	assert.Equal(t, 2024, view.Year)
	assert.Equal(t, 3, view.Month)

	rec = do(t, h, http.MethodGet, "/wizard/slots?date=2024-3-20", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "4:00 PM")
}
