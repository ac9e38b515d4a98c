package wizard

import "errors"

var (
	// ErrStepOutOfRange is returned when a caller claims to be on a step outside 1..TotalSteps.
	ErrStepOutOfRange = errors.New("wizard: step out of range")

	// ErrStepLocked is returned when navigating away from the confirmation step.
	ErrStepLocked = errors.New("wizard: booking already confirmed")

	// ErrStepIncomplete is returned when a caller claims a step whose earlier
	// steps the stored draft has not passed.
	ErrStepIncomplete = errors.New("wizard: an earlier step is incomplete")

	// ErrUnknownField is returned for a booking field key the wizard does not track.
	ErrUnknownField = errors.New("wizard: unknown booking field")

	// ErrSelectorField is returned when a date or time is set as a plain field
	// instead of through its selector.
	ErrSelectorField = errors.New("wizard: field must be set through its selector")

	// ErrUnknownOption is returned when a selection is not offered by the catalog.
	ErrUnknownOption = errors.New("wizard: option not offered")

	// ErrInvalidDate is returned when a date key is not a real YYYY-M-D date.
	ErrInvalidDate = errors.New("wizard: invalid date")

	// ErrDateUnavailable is returned when selecting a day in the past.
	ErrDateUnavailable = errors.New("wizard: date unavailable")

	// ErrNoDateSelected is returned when picking a time before a date.
	ErrNoDateSelected = errors.New("wizard: select a date first")

	// ErrSlotUnavailable is returned when selecting a time slot marked unavailable.
	ErrSlotUnavailable = errors.New("wizard: time slot unavailable")
)
