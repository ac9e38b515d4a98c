package wizard

// Booking field keys. They double as the JSON keys of the persisted draft and
// as the field ids used in validation errors.
const (
	KeyServiceCategory  = "serviceCategory"
	KeySpecificService  = "specificService"
	KeyPropertyType     = "propertyType"
	KeyPropertySize     = "propertySize"
	KeySelectedDate     = "selectedDate"
	KeySelectedTime     = "selectedTime"
	KeyServiceFrequency = "serviceFrequency"
	KeyCustomerName     = "customer-name"
	KeyCustomerEmail    = "customer-email"
	KeyCustomerPhone    = "customer-phone"
	KeyStreetAddress    = "street-address"
	KeyCity             = "city"
	KeyState            = "state"
	KeyZIP              = "zip"
	KeyPaymentMethod    = "paymentMethod"
	KeyCardName         = "card-name"
	KeyExpiryDate       = "expiry-date"
	KeyCardLast4        = "card-last4"

	// KeyCardNumber and KeyCVV are form-only; the full number is reduced to
	// its last four digits and the CVV is never stored.
	KeyCardNumber = "card-number"
	KeyCVV        = "cvv"
)

// Payment methods offered at the review step.
const (
	PaymentCreditCard = "credit-card"
	PaymentPayPal     = "paypal"
	PaymentOnSite     = "pay-on-site"
)

// PaymentMethods lists the accepted paymentMethod values.
var PaymentMethods = []string{PaymentCreditCard, PaymentPayPal, PaymentOnSite}

// CustomerFields are the step 3 inputs, in form order.
var CustomerFields = []string{
	KeyCustomerName,
	KeyCustomerEmail,
	KeyCustomerPhone,
	KeyStreetAddress,
	KeyCity,
	KeyState,
	KeyZIP,
}

// BookingData is the customer's draft. An empty string means "not chosen yet".
// It serializes to a flat string-to-string JSON object.
type BookingData struct {
	ServiceCategory  string `json:"serviceCategory,omitempty"`
	SpecificService  string `json:"specificService,omitempty"`
	PropertyType     string `json:"propertyType,omitempty"`
	PropertySize     string `json:"propertySize,omitempty"`
	SelectedDate     string `json:"selectedDate,omitempty"`
	SelectedTime     string `json:"selectedTime,omitempty"`
	ServiceFrequency string `json:"serviceFrequency,omitempty"`

	CustomerName  string `json:"customer-name,omitempty"`
	CustomerEmail string `json:"customer-email,omitempty"`
	CustomerPhone string `json:"customer-phone,omitempty"`
	StreetAddress string `json:"street-address,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	ZIP           string `json:"zip,omitempty"`

	PaymentMethod string `json:"paymentMethod,omitempty"`
	CardName      string `json:"card-name,omitempty"`
	ExpiryDate    string `json:"expiry-date,omitempty"`
	CardLast4     string `json:"card-last4,omitempty"`
}

func (b *BookingData) field(key string) *string {
	switch key {
	case KeyServiceCategory:
		return &b.ServiceCategory
	case KeySpecificService:
		return &b.SpecificService
	case KeyPropertyType:
		return &b.PropertyType
	case KeyPropertySize:
		return &b.PropertySize
	case KeySelectedDate:
		return &b.SelectedDate
	case KeySelectedTime:
		return &b.SelectedTime
	case KeyServiceFrequency:
		return &b.ServiceFrequency
	case KeyCustomerName:
		return &b.CustomerName
	case KeyCustomerEmail:
		return &b.CustomerEmail
	case KeyCustomerPhone:
		return &b.CustomerPhone
	case KeyStreetAddress:
		return &b.StreetAddress
	case KeyCity:
		return &b.City
	case KeyState:
		return &b.State
	case KeyZIP:
		return &b.ZIP
	case KeyPaymentMethod:
		return &b.PaymentMethod
	case KeyCardName:
		return &b.CardName
	case KeyExpiryDate:
		return &b.ExpiryDate
	case KeyCardLast4:
		return &b.CardLast4
	}
	return nil
}

// Get returns the value stored under key.
func (b BookingData) Get(key string) (string, bool) {
	p := b.field(key)
	if p == nil {
		return "", false
	}
	return *p, true
}

// Set stores value under key. A card number is reduced to its last four digits.
func (b *BookingData) Set(key, value string) error {
	if key == KeyCardNumber {
		b.CardLast4 = lastDigits(value, 4)
		return nil
	}
	p := b.field(key)
	if p == nil {
		return ErrUnknownField
	}
	*p = value
	return nil
}

// IsEmpty reports whether nothing has been chosen yet.
func (b BookingData) IsEmpty() bool {
	return b == BookingData{}
}

// IsCustomerField reports whether key is one of the step 3 inputs.
func IsCustomerField(key string) bool {
	for _, f := range CustomerFields {
		if f == key {
			return true
		}
	}
	return false
}

func lastDigits(s string, n int) string {
	digits := digitsOnly(s)
	if len(digits) > n {
		digits = digits[len(digits)-n:]
	}
	return digits
}
