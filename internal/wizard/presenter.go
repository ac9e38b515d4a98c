package wizard

// Named error regions shown as banners rather than next to a field.
const (
	RegionServiceSelection  = "service-selection-error"
	RegionSpecificService   = "specific-service-error"
	RegionDateSelection     = "date-selection-error"
	RegionTimeSelection     = "time-selection-error"
	RegionFrequencySelected = "frequency-selection-error"
	RegionTerms             = "terms-error"
	RegionPaymentMethod     = "payment-method-error"
)

// Field error messages.
const (
	MsgRequired          = "This field is required"
	MsgPropertyType      = "Please select a property type"
	MsgPropertySize      = "Please enter a valid property size"
	MsgInvalidEmail      = "Please enter a valid email address"
	MsgInvalidPhone      = "Please enter a valid phone number"
	MsgInvalidZIP        = "Please enter a valid ZIP code"
	MsgInvalidCardNumber = "Please enter a valid card number"
)

// FieldError marks one input as invalid.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the set of validation errors currently on display. Each region
// and each field appears at most once; a later message for the same field
// replaces the earlier one.
type Errors struct {
	Regions []string     `json:"regions"`
	Fields  []FieldError `json:"fields"`
}

// ShowRegion displays a named error banner.
func (e *Errors) ShowRegion(id string) {
	if e.HasRegion(id) {
		return
	}
	e.Regions = append(e.Regions, id)
}

// ShowField displays message next to field.
func (e *Errors) ShowField(field, message string) {
	for i := range e.Fields {
		if e.Fields[i].Field == field {
			e.Fields[i].Message = message
			return
		}
	}
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Clear hides every error.
func (e *Errors) Clear() {
	e.Regions = e.Regions[:0]
	e.Fields = e.Fields[:0]
}

// Empty reports whether nothing is on display.
func (e Errors) Empty() bool {
	return len(e.Regions) == 0 && len(e.Fields) == 0
}

// Count returns the number of visible errors.
func (e Errors) Count() int {
	return len(e.Regions) + len(e.Fields)
}

// HasRegion reports whether the named banner is on display.
func (e Errors) HasRegion(id string) bool {
	for _, r := range e.Regions {
		if r == id {
			return true
		}
	}
	return false
}

// FieldMessage returns the message shown for field, if any.
func (e Errors) FieldMessage(field string) (string, bool) {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message, true
		}
	}
	return "", false
}

// normalize replaces nil slices so the JSON view always carries arrays.
func (e Errors) normalize() Errors {
	if e.Regions == nil {
		e.Regions = []string{}
	}
	if e.Fields == nil {
		e.Fields = []FieldError{}
	}
	return e
}
