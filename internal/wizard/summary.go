package wizard

import "strings"

// Summary is the review step's read-only recap of the draft.
type Summary struct {
	Service      string   `json:"service,omitempty"`
	Date         string   `json:"date,omitempty"`
	Time         string   `json:"time,omitempty"`
	Frequency    string   `json:"frequency,omitempty"`
	PropertyType string   `json:"propertyType,omitempty"`
	PropertySize string   `json:"propertySize,omitempty"`
	CustomerName string   `json:"customerName,omitempty"`
	Address      []string `json:"address,omitempty"`
	Contact      []string `json:"contact,omitempty"`
	Quote        Quote    `json:"quote"`
}

// Summarize derives the review recap and price quote from the draft.
func Summarize(data BookingData, prices PriceBook) Summary {
	s := Summary{
		Service:      data.SpecificService,
		Date:         FormatDisplayDate(data.SelectedDate),
		Time:         data.SelectedTime,
		Frequency:    data.ServiceFrequency,
		PropertyType: data.PropertyType,
		CustomerName: data.CustomerName,
		Address:      AddressLines(data),
		Contact:      ContactLines(data),
		Quote:        QuoteFor(data, prices),
	}
	if data.PropertySize != "" {
		s.PropertySize = data.PropertySize + " sq ft"
	}
	return s
}

// FormatDisplayDate renders a YYYY-M-D key as "Monday, January 15, 2024".
// A key that does not parse is returned unchanged.
func FormatDisplayDate(key string) string {
	if key == "" {
		return ""
	}
	t, err := ParseDateKey(key)
	if err != nil {
		return key
	}
	return t.Format("Monday, January 2, 2006")
}

// AddressLines returns the street line and the "City, ST ZIP" line.
func AddressLines(data BookingData) []string {
	var lines []string
	if data.StreetAddress != "" {
		lines = append(lines, data.StreetAddress)
	}

	var b strings.Builder
	b.WriteString(data.City)
	if data.State != "" {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(data.State)
	}
	if data.ZIP != "" {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(data.ZIP)
	}
	if b.Len() > 0 {
		lines = append(lines, b.String())
	}
	return lines
}

// ContactLines returns the labelled email and phone lines.
func ContactLines(data BookingData) []string {
	var lines []string
	if data.CustomerEmail != "" {
		lines = append(lines, "Email: "+data.CustomerEmail)
	}
	if data.CustomerPhone != "" {
		lines = append(lines, "Phone: "+data.CustomerPhone)
	}
	return lines
}
