package wizard

// FormState is everything the step validators look at: the stored draft plus
// inputs that are never persisted.
type FormState struct {
	Data          BookingData
	TermsAccepted bool
	CardNumber    string
	CVV           string
}

// ValidateStep checks every requirement of step and reports all failures,
// not just the first. Steps without inputs always pass.
func ValidateStep(step int, form FormState) (bool, Errors) {
	var errs Errors
	errs.Clear()

	var ok bool
	switch step {
	case StepService:
		ok = validateService(form, &errs)
	case StepSchedule:
		ok = validateSchedule(form, &errs)
	case StepCustomer:
		ok = validateCustomer(form, &errs)
	case StepReview:
		ok = validateReview(form, &errs)
	default:
		ok = true
	}
	return ok, errs.normalize()
}

// ReachableStep is the furthest step the stored draft allows the customer to
// be on: every step before it passes its checks. The review step needs inputs
// that are never stored, so the result is at most StepReview.
func ReachableStep(data BookingData) int {
	form := FormState{Data: data}
	for step := StepService; step < StepReview; step++ {
		if ok, _ := ValidateStep(step, form); !ok {
			return step
		}
	}
	return StepReview
}

func validateService(form FormState, errs *Errors) bool {
	d := form.Data
	ok := true
	if d.ServiceCategory == "" {
		errs.ShowRegion(RegionServiceSelection)
		ok = false
	}
	if d.SpecificService == "" {
		errs.ShowRegion(RegionSpecificService)
		ok = false
	}
	if !Required(d.PropertyType) {
		errs.ShowField(KeyPropertyType, MsgPropertyType)
		ok = false
	}
	if !ValidPropertySize(d.PropertySize) {
		errs.ShowField(KeyPropertySize, MsgPropertySize)
		ok = false
	}
	return ok
}

func validateSchedule(form FormState, errs *Errors) bool {
	d := form.Data
	ok := true
	if d.SelectedDate == "" {
		errs.ShowRegion(RegionDateSelection)
		ok = false
	}
	if d.SelectedTime == "" {
		errs.ShowRegion(RegionTimeSelection)
		ok = false
	}
	if d.ServiceFrequency == "" {
		errs.ShowRegion(RegionFrequencySelected)
		ok = false
	}
	return ok
}

func validateCustomer(form FormState, errs *Errors) bool {
	d := form.Data
	ok := true
	for _, key := range CustomerFields {
		v, _ := d.Get(key)
		if !Required(v) {
			errs.ShowField(key, MsgRequired)
			ok = false
		}
	}
	if d.CustomerEmail != "" && !ValidEmail(d.CustomerEmail) {
		errs.ShowField(KeyCustomerEmail, MsgInvalidEmail)
		ok = false
	}
	if d.CustomerPhone != "" && !ValidPhone(d.CustomerPhone) {
		errs.ShowField(KeyCustomerPhone, MsgInvalidPhone)
		ok = false
	}
	if d.ZIP != "" && !ValidZIP(d.ZIP) {
		errs.ShowField(KeyZIP, MsgInvalidZIP)
		ok = false
	}
	return ok
}

func validateReview(form FormState, errs *Errors) bool {
	d := form.Data
	ok := true
	if !form.TermsAccepted {
		errs.ShowRegion(RegionTerms)
		ok = false
	}
	if d.PaymentMethod == "" {
		errs.ShowRegion(RegionPaymentMethod)
		ok = false
	}
	if d.PaymentMethod != PaymentCreditCard {
		return ok
	}

	card := []struct{ key, value string }{
		{KeyCardNumber, form.CardNumber},
		{KeyCardName, d.CardName},
		{KeyExpiryDate, d.ExpiryDate},
		{KeyCVV, form.CVV},
	}
	for _, f := range card {
		if !Required(f.value) {
			errs.ShowField(f.key, MsgRequired)
			ok = false
		}
	}
	if form.CardNumber != "" && !ValidCardNumber(form.CardNumber) {
		errs.ShowField(KeyCardNumber, MsgInvalidCardNumber)
		ok = false
	}
	return ok
}

// ValidateCustomerField runs the single-field check applied when a step 3
// input loses focus. It returns the message to show, or "" when value is fine.
func ValidateCustomerField(key, value string) string {
	if !Required(value) {
		return MsgRequired
	}
	switch key {
	case KeyCustomerEmail:
		if !ValidEmail(value) {
			return MsgInvalidEmail
		}
	case KeyCustomerPhone:
		if !ValidPhone(value) {
			return MsgInvalidPhone
		}
	case KeyZIP:
		if !ValidZIP(value) {
			return MsgInvalidZIP
		}
	}
	return ""
}
