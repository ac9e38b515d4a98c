package wizard

import "fmt"

// Wizard steps, 1-based.
const (
	StepService      = 1
	StepSchedule     = 2
	StepCustomer     = 3
	StepReview       = 4
	StepConfirmation = 5

	TotalSteps = StepConfirmation
)

var stepLabels = [TotalSteps]string{
	"Select Service",
	"Date & Time",
	"Your Information",
	"Review & Pay",
	"Confirmation",
}

// StepLabel returns the progress indicator label for step.
func StepLabel(step int) string {
	if step < 1 || step > TotalSteps {
		return ""
	}
	return stepLabels[step-1]
}

// ProgressStatus is the marker shown on one progress indicator item.
type ProgressStatus string

const (
	ProgressPending   ProgressStatus = "pending"
	ProgressActive    ProgressStatus = "active"
	ProgressCompleted ProgressStatus = "completed"
)

// ProgressItem is one entry of the progress indicator.
type ProgressItem struct {
	Step   int            `json:"step"`
	Label  string         `json:"label"`
	Status ProgressStatus `json:"status"`
}

// ValidateFunc reports whether the given step's inputs are complete.
type ValidateFunc func(step int) bool

// Navigator tracks the active step. Steps before the active one are
// completed; the confirmation step is terminal.
type Navigator struct {
	active int
}

// NewNavigator starts at step 1.
func NewNavigator() Navigator {
	return Navigator{active: StepService}
}

// NavigatorAt restores a navigator whose active step is already known.
func NavigatorAt(step int) (Navigator, error) {
	if !inRange(step) {
		return Navigator{}, fmt.Errorf("%w: %d", ErrStepOutOfRange, step)
	}
	return Navigator{active: step}, nil
}

// Active returns the active step.
func (n Navigator) Active() int {
	if n.active == 0 {
		return StepService
	}
	return n.active
}

// Terminal reports whether the booking has been confirmed.
func (n Navigator) Terminal() bool {
	return n.Active() == StepConfirmation
}

// MoveTo shows target. Out-of-range targets are ignored and false is returned.
func (n *Navigator) MoveTo(target int) bool {
	if !inRange(target) {
		return false
	}
	n.active = target
	return true
}

// Advance moves from `from` to the next step when validate(from) succeeds.
func (n *Navigator) Advance(from int, validate ValidateFunc) bool {
	if n.Terminal() {
		return false
	}
	if validate != nil && !validate(from) {
		return false
	}
	return n.MoveTo(from + 1)
}

// Retreat moves back one step without validating.
func (n *Navigator) Retreat(from int) bool {
	if n.Terminal() {
		return false
	}
	return n.MoveTo(from - 1)
}

// Jump moves to a completed step or re-selects the active one.
func (n *Navigator) Jump(target int) bool {
	if n.Terminal() || !inRange(target) || target > n.Active() {
		return false
	}
	return n.MoveTo(target)
}

// Progress recomputes every indicator item from the active step.
func (n Navigator) Progress() []ProgressItem {
	active := n.Active()
	items := make([]ProgressItem, TotalSteps)
	for i := range items {
		step := i + 1
		status := ProgressPending
		switch {
		case step < active:
			status = ProgressCompleted
		case step == active:
			status = ProgressActive
		}
		items[i] = ProgressItem{Step: step, Label: stepLabels[i], Status: status}
	}
	return items
}

func inRange(step int) bool {
	return step >= 1 && step <= TotalSteps
}
