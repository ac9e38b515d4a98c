package wizard

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/grassandaxe/booking-wizard/internal/availability"
	"github.com/grassandaxe/booking-wizard/internal/catalog"
	"github.com/grassandaxe/booking-wizard/internal/observability/metrics"
	"github.com/grassandaxe/booking-wizard/pkg/logging"
)

var wizardTracer = otel.Tracer("grassaxe.internal.wizard")

// DraftStore persists the draft between requests. Implementations absorb
// their own failures.
type DraftStore interface {
	Load(ctx context.Context, sessionID string) BookingData
	Save(ctx context.Context, sessionID string, data BookingData)
	Clear(ctx context.Context, sessionID string)
}

// Notifier is told about every confirmed booking.
type Notifier interface {
	NotifyBookingConfirmed(ctx context.Context, c Confirmation) error
}

// StepView is what the client needs to show the active step.
type StepView struct {
	Active    int            `json:"active"`
	Label     string         `json:"label"`
	Progress  []ProgressItem `json:"progress"`
	ScrollTop bool           `json:"scrollTop"`
}

// SessionState is the draft as seen from a given step.
type SessionState struct {
	SessionID string      `json:"sessionId"`
	Booking   BookingData `json:"booking"`
	Step      StepView    `json:"step"`
	Summary   *Summary    `json:"summary,omitempty"`
}

// FieldUpdate is the result of setting one field. Saved is false when the
// value failed its inline check; Errors then says why.
type FieldUpdate struct {
	Booking BookingData `json:"booking"`
	Saved   bool        `json:"saved"`
	Errors  Errors      `json:"errors"`
}

// DateSelection is the result of picking a calendar day.
type DateSelection struct {
	Booking  BookingData         `json:"booking"`
	Slots    []availability.Slot `json:"slots"`
	Calendar CalendarView        `json:"calendar"`
}

// StepInput carries the inputs submitted with a Next/Complete request.
// Fields are written to the draft before validating; the card number and
// CVV are only validated.
type StepInput struct {
	Fields        map[string]string `json:"fields,omitempty"`
	TermsAccepted bool              `json:"termsAccepted"`
	CardNumber    string            `json:"cardNumber,omitempty"`
	CVV           string            `json:"cvv,omitempty"`
}

// Transition is the outcome of a navigation request.
type Transition struct {
	Moved        bool          `json:"moved"`
	Step         StepView      `json:"step"`
	Errors       Errors        `json:"errors"`
	Summary      *Summary      `json:"summary,omitempty"`
	Confirmation *Confirmation `json:"confirmation,omitempty"`
}

// Confirmation is produced once per completed booking.
type Confirmation struct {
	Reference   string      `json:"reference"`
	ConfirmedAt time.Time   `json:"confirmedAt"`
	Booking     BookingData `json:"booking"`
	Summary     Summary     `json:"summary"`
}

// Options wires a Service. Only Store is required.
type Options struct {
	Store        DraftStore
	Catalog      *catalog.Catalog
	Availability availability.Source
	Notifier     Notifier
	Metrics      *metrics.WizardMetrics
	Logger       *logging.Logger
	Location     *time.Location
	Now          func() time.Time
	NewReference func() string
	NewSessionID func() string
}

// Service runs the booking wizard. It keeps no per-session state of its own:
// the draft lives in the store and the active step is echoed by the client.
type Service struct {
	store        DraftStore
	catalog      catalog.Catalog
	availability availability.Source
	notifier     Notifier
	metrics      *metrics.WizardMetrics
	logger       *logging.Logger
	loc          *time.Location
	now          func() time.Time
	newReference func() string
	newSessionID func() string
}

// NewService constructs a wizard service.
func NewService(opts Options) *Service {
	if opts.Store == nil {
		panic("wizard: draft store required")
	}
	s := &Service{
		store:        opts.Store,
		catalog:      catalog.Default(),
		availability: opts.Availability,
		notifier:     opts.Notifier,
		metrics:      opts.Metrics,
		logger:       opts.Logger,
		loc:          opts.Location,
		now:          opts.Now,
		newReference: opts.NewReference,
		newSessionID: opts.NewSessionID,
	}
	if opts.Catalog != nil {
		s.catalog = *opts.Catalog
	}
	if s.availability == nil {
		s.availability = availability.NewRandomSource(0.3, 0)
	}
	if s.logger == nil {
		s.logger = logging.Default()
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newReference == nil {
		s.newReference = func() string { return NewReference(nil) }
	}
	if s.newSessionID == nil {
		s.newSessionID = uuid.NewString
	}
	return s
}

// Catalog returns the options offered by the wizard.
func (s *Service) Catalog() catalog.Catalog {
	return s.catalog
}

// NewSession allocates a session id and starts at step 1.
func (s *Service) NewSession(ctx context.Context) SessionState {
	id := s.newSessionID()
	s.logger.Debug("wizard: session started", "session_id", id)
	return SessionState{
		SessionID: id,
		Booking:   BookingData{},
		Step:      stepView(NewNavigator(), false),
	}
}

// State returns the draft and the navigator for the client's active step.
// A zero step means step 1.
func (s *Service) State(ctx context.Context, sessionID string, step int) (SessionState, error) {
	if step == 0 {
		step = StepService
	}
	nav, err := NavigatorAt(step)
	if err != nil {
		return SessionState{}, err
	}
	if nav.Terminal() {
		return SessionState{}, ErrStepLocked
	}
	data := s.store.Load(ctx, sessionID)
	if err := requireReachable(data, step); err != nil {
		return SessionState{}, err
	}
	st := SessionState{
		SessionID: sessionID,
		Booking:   data,
		Step:      stepView(nav, false),
	}
	if step == StepReview {
		sum := Summarize(data, s.catalog)
		st.Summary = &sum
	}
	return st, nil
}

// SetField writes one input to the draft. Customer fields are checked on
// their own first; an invalid value is reported and not stored.
func (s *Service) SetField(ctx context.Context, sessionID, key, value string) (FieldUpdate, error) {
	ctx, span := wizardTracer.Start(ctx, "wizard.set_field")
	defer span.End()
	span.SetAttributes(attribute.String("wizard.field", key))

	data := s.store.Load(ctx, sessionID)
	update := FieldUpdate{Booking: data}

	if IsCustomerField(key) {
		if msg := ValidateCustomerField(key, value); msg != "" {
			update.Errors.ShowField(key, msg)
			update.Errors = update.Errors.normalize()
			s.metrics.ObserveValidationFailure(StepCustomer, key)
			return update, nil
		}
	}

	if err := s.applyField(&data, key, value); err != nil {
		span.RecordError(err)
		return update, err
	}
	s.store.Save(ctx, sessionID, data)

	update.Booking = data
	update.Saved = true
	update.Errors = update.Errors.normalize()
	return update, nil
}

// applyField validates key/value against the catalog and writes it to data.
func (s *Service) applyField(data *BookingData, key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case KeySelectedDate, KeySelectedTime:
		return fmt.Errorf("%w: %s", ErrSelectorField, key)
	case KeyCardLast4, KeyCVV:
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	case KeyServiceCategory:
		if value != "" {
			if _, ok := s.catalog.Category(value); !ok {
				return fmt.Errorf("%w: category %q", ErrUnknownOption, value)
			}
		}
		if value != data.ServiceCategory && !s.catalog.HasService(value, data.SpecificService) {
			data.SpecificService = ""
		}
	case KeySpecificService:
		if value != "" && !s.catalog.HasService(data.ServiceCategory, value) {
			return fmt.Errorf("%w: service %q", ErrUnknownOption, value)
		}
	case KeyPropertyType:
		if value != "" && !s.catalog.HasPropertyType(value) {
			return fmt.Errorf("%w: property type %q", ErrUnknownOption, value)
		}
	case KeyServiceFrequency:
		if value != "" && !s.catalog.HasFrequency(value) {
			return fmt.Errorf("%w: frequency %q", ErrUnknownOption, value)
		}
	case KeyPaymentMethod:
		if value != "" && !isPaymentMethod(value) {
			return fmt.Errorf("%w: payment method %q", ErrUnknownOption, value)
		}
	case KeyCardNumber:
		value = FormatCardNumber(value)
	case KeyExpiryDate:
		value = FormatExpiry(value)
	}
	if err := data.Set(key, value); err != nil {
		return fmt.Errorf("%w: %s", err, key)
	}
	return nil
}

// SelectDate picks a calendar day. The previously chosen time is dropped and
// the slot availability for the new day is returned.
func (s *Service) SelectDate(ctx context.Context, sessionID, dateKey string) (DateSelection, error) {
	ctx, span := wizardTracer.Start(ctx, "wizard.select_date")
	defer span.End()

	date, err := ParseDateKey(dateKey)
	if err != nil {
		return DateSelection{}, err
	}
	today := s.today()
	if IsPastDate(date, today) {
		return DateSelection{}, fmt.Errorf("%w: %s", ErrDateUnavailable, dateKey)
	}

	data := s.store.Load(ctx, sessionID)
	data.SelectedDate = DateKey(date.Year(), date.Month(), date.Day())
	data.SelectedTime = ""
	s.store.Save(ctx, sessionID, data)

	return DateSelection{
		Booking:  data,
		Slots:    s.slots(ctx, date),
		Calendar: RenderCalendar(date.Year(), date.Month(), today, data.SelectedDate),
	}, nil
}

// SelectTime picks one of the selected day's available slots.
func (s *Service) SelectTime(ctx context.Context, sessionID, label string) (BookingData, error) {
	ctx, span := wizardTracer.Start(ctx, "wizard.select_time")
	defer span.End()

	if !s.catalog.HasTimeSlot(label) {
		return BookingData{}, fmt.Errorf("%w: time slot %q", ErrUnknownOption, label)
	}
	data := s.store.Load(ctx, sessionID)
	if data.SelectedDate == "" {
		return data, ErrNoDateSelected
	}
	date, err := ParseDateKey(data.SelectedDate)
	if err != nil {
		return data, err
	}
	if !availability.IsAvailable(s.slots(ctx, date), label) {
		return data, fmt.Errorf("%w: %s on %s", ErrSlotUnavailable, label, data.SelectedDate)
	}

	data.SelectedTime = label
	s.store.Save(ctx, sessionID, data)
	return data, nil
}

// Slots returns availability for a day without selecting it.
func (s *Service) Slots(ctx context.Context, dateKey string) ([]availability.Slot, error) {
	date, err := ParseDateKey(dateKey)
	if err != nil {
		return nil, err
	}
	return s.slots(ctx, date), nil
}

func (s *Service) slots(ctx context.Context, date time.Time) []availability.Slot {
	slots, err := s.availability.Availability(ctx, date, s.catalog.TimeSlots)
	if err != nil {
		s.logger.Warn("wizard: availability lookup failed, offering all slots", "date", date.Format("2006-01-02"), "error", err)
		slots = make([]availability.Slot, len(s.catalog.TimeSlots))
		for i, label := range s.catalog.TimeSlots {
			slots[i] = availability.Slot{Label: label, Available: true}
		}
	}
	return slots
}

// Calendar renders a month grid with the session's selected day highlighted.
// A zero year or month means the current month.
func (s *Service) Calendar(ctx context.Context, sessionID string, year, month int) (CalendarView, error) {
	today := s.today()
	if year == 0 || month == 0 {
		year, month = today.Year(), int(today.Month())
	}
	if month < 1 || month > 12 {
		return CalendarView{}, fmt.Errorf("%w: month %d", ErrInvalidDate, month)
	}
	var selected string
	if sessionID != "" {
		selected = s.store.Load(ctx, sessionID).SelectedDate
	}
	return RenderCalendar(year, time.Month(month), today, selected), nil
}

// Next validates step `from` and moves forward when it passes. Leaving the
// review step confirms the booking.
func (s *Service) Next(ctx context.Context, sessionID string, from int, in StepInput) (Transition, error) {
	ctx, span := wizardTracer.Start(ctx, "wizard.next")
	defer span.End()
	span.SetAttributes(attribute.Int("wizard.from_step", from))

	nav, err := NavigatorAt(from)
	if err != nil {
		return Transition{}, err
	}
	if nav.Terminal() {
		return Transition{}, ErrStepLocked
	}

	data := s.store.Load(ctx, sessionID)
	// Customer inputs get the same single-field check as SetField; a value
	// that fails it is reported and never written.
	var rejected Errors
	for _, key := range overlayOrder(in.Fields) {
		value := in.Fields[key]
		if IsCustomerField(key) {
			if msg := ValidateCustomerField(key, value); msg != "" {
				rejected.ShowField(key, msg)
				continue
			}
		}
		if err := s.applyField(&data, key, value); err != nil {
			span.RecordError(err)
			return Transition{}, err
		}
	}
	if err := requireReachable(data, from); err != nil {
		span.RecordError(err)
		return Transition{}, err
	}
	if len(in.Fields) > 0 {
		s.store.Save(ctx, sessionID, data)
	}

	form := FormState{
		Data:          data,
		TermsAccepted: in.TermsAccepted,
		CardNumber:    in.CardNumber,
		CVV:           in.CVV,
	}
	ok, errs := ValidateStep(from, form)
	for _, f := range rejected.Fields {
		errs.ShowField(f.Field, f.Message)
		ok = false
	}
	moved := nav.Advance(from, func(int) bool { return ok })
	s.metrics.ObserveTransition("next", from, moved)

	t := Transition{Moved: moved, Step: stepView(nav, moved), Errors: errs}
	if !moved {
		for _, r := range errs.Regions {
			s.metrics.ObserveValidationFailure(from, r)
		}
		for _, f := range errs.Fields {
			s.metrics.ObserveValidationFailure(from, f.Field)
		}
		return t, nil
	}

	switch nav.Active() {
	case StepReview:
		sum := Summarize(data, s.catalog)
		t.Summary = &sum
	case StepConfirmation:
		if in.CardNumber != "" && data.PaymentMethod == PaymentCreditCard {
			_ = data.Set(KeyCardNumber, in.CardNumber)
		}
		conf := s.confirm(ctx, sessionID, data)
		t.Confirmation = &conf
	}
	return t, nil
}

// Complete submits the review step; it is Next from step 4.
func (s *Service) Complete(ctx context.Context, sessionID string, in StepInput) (Transition, error) {
	return s.Next(ctx, sessionID, StepReview, in)
}

// Back moves one step back without validating.
func (s *Service) Back(ctx context.Context, sessionID string, from int) (Transition, error) {
	nav, err := NavigatorAt(from)
	if err != nil {
		return Transition{}, err
	}
	if nav.Terminal() {
		return Transition{}, ErrStepLocked
	}
	if err := requireReachable(s.store.Load(ctx, sessionID), from); err != nil {
		return Transition{}, err
	}
	moved := nav.Retreat(from)
	s.metrics.ObserveTransition("back", from, moved)
	return Transition{Moved: moved, Step: stepView(nav, moved), Errors: Errors{}.normalize()}, nil
}

// Jump moves to a completed step, or re-selects the active one.
func (s *Service) Jump(ctx context.Context, sessionID string, active, target int) (Transition, error) {
	nav, err := NavigatorAt(active)
	if err != nil {
		return Transition{}, err
	}
	if nav.Terminal() {
		return Transition{}, ErrStepLocked
	}
	data := s.store.Load(ctx, sessionID)
	if err := requireReachable(data, active); err != nil {
		return Transition{}, err
	}
	moved := nav.Jump(target)
	s.metrics.ObserveTransition("jump", active, moved)

	t := Transition{Moved: moved, Step: stepView(nav, moved), Errors: Errors{}.normalize()}
	if moved && nav.Active() == StepReview {
		sum := Summarize(data, s.catalog)
		t.Summary = &sum
	}
	return t, nil
}

// requireReachable rejects a client-supplied step the stored draft has not
// earned, so completed steps stay the prefix before the active one.
func requireReachable(data BookingData, step int) error {
	if reach := ReachableStep(data); step > reach {
		return fmt.Errorf("%w: step %d claimed, draft reaches step %d", ErrStepIncomplete, step, reach)
	}
	return nil
}

// Summary recomputes the review recap for the session's draft.
func (s *Service) Summary(ctx context.Context, sessionID string) Summary {
	return Summarize(s.store.Load(ctx, sessionID), s.catalog)
}

func (s *Service) confirm(ctx context.Context, sessionID string, data BookingData) Confirmation {
	ctx, span := wizardTracer.Start(ctx, "wizard.confirm")
	defer span.End()

	conf := Confirmation{
		Reference:   s.newReference(),
		ConfirmedAt: s.now().UTC(),
		Booking:     data,
		Summary:     Summarize(data, s.catalog),
	}
	span.SetAttributes(attribute.String("wizard.reference", conf.Reference))

	s.logger.Info("booking submitted",
		"session_id", sessionID,
		"reference", conf.Reference,
		"service", data.SpecificService,
		"date", data.SelectedDate,
		"time", data.SelectedTime,
		"frequency", data.ServiceFrequency,
		"payment_method", data.PaymentMethod,
		"total", conf.Summary.Quote.Total,
	)
	s.store.Clear(ctx, sessionID)
	s.metrics.ObserveCompletion(data.PaymentMethod)

	if s.notifier != nil {
		err := s.notifier.NotifyBookingConfirmed(ctx, conf)
		s.metrics.ObserveNotification(err)
		if err != nil {
			span.RecordError(err)
			s.logger.Warn("wizard: confirmation email failed", "reference", conf.Reference, "error", err)
		}
	}
	return conf
}

func (s *Service) today() time.Time {
	return s.now().In(s.loc)
}

func stepView(nav Navigator, scroll bool) StepView {
	return StepView{
		Active:    nav.Active(),
		Label:     StepLabel(nav.Active()),
		Progress:  nav.Progress(),
		ScrollTop: scroll,
	}
}

// overlayOrder sorts submitted keys so a category is applied before the
// service that depends on it.
func overlayOrder(fields map[string]string) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ci, cj := keys[i] == KeyServiceCategory, keys[j] == KeyServiceCategory
		if ci != cj {
			return ci
		}
		return keys[i] < keys[j]
	})
	return keys
}

func isPaymentMethod(v string) bool {
	for _, m := range PaymentMethods {
		if m == v {
			return true
		}
	}
	return false
}
