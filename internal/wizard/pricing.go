package wizard

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	defaultPropertySize = 1000
	sqftPerSizeStep     = 1000
	maxSizeFactor       = 3
)

// PriceBook resolves a category's base price in cents.
type PriceBook interface {
	BasePriceCents(category string) int64
}

// DefaultPrices is the built-in base price table.
type DefaultPrices struct{}

// BasePriceCents implements PriceBook.
func (DefaultPrices) BasePriceCents(category string) int64 {
	switch category {
	case "Commercial Services":
		return 19900
	case "Specialized Services":
		return 14900
	default:
		return 9900
	}
}

// Quote is the price breakdown shown on the review step.
type Quote struct {
	SizeFactor    int    `json:"sizeFactor"`
	BaseCents     int64  `json:"baseCents"`
	DiscountCents int64  `json:"discountCents"`
	TotalCents    int64  `json:"totalCents"`
	Base          string `json:"base"`
	Discount      string `json:"discount,omitempty"`
	Total         string `json:"total"`
	ShowDiscount  bool   `json:"showDiscount"`
}

// QuoteFor prices the draft: base price by category, times a size factor of
// 1..3 per thousand square feet, less the frequency discount.
func QuoteFor(data BookingData, prices PriceBook) Quote {
	if prices == nil {
		prices = DefaultPrices{}
	}
	factor := SizeFactor(data.PropertySize)
	adjusted := prices.BasePriceCents(data.ServiceCategory) * int64(factor)
	total := applyPercent(adjusted, FrequencyPercent(data.ServiceFrequency))
	discount := adjusted - total

	q := Quote{
		SizeFactor:    factor,
		BaseCents:     adjusted,
		DiscountCents: discount,
		TotalCents:    total,
		Base:          FormatCents(adjusted),
		Total:         FormatCents(total),
		ShowDiscount:  discount > 0,
	}
	if q.ShowDiscount {
		q.Discount = "-" + FormatCents(discount)
	}
	return q
}

// SizeFactor is clamp(floor(size/1000), 1, 3). An absent, unparseable or
// zero size counts as 1000 sq ft.
func SizeFactor(propertySize string) int {
	size := leadingInt(propertySize)
	if size == 0 {
		size = defaultPropertySize
	}
	factor := size / sqftPerSizeStep
	if factor < 1 {
		return 1
	}
	if factor > maxSizeFactor {
		return maxSizeFactor
	}
	return factor
}

// FrequencyPercent is the share of the adjusted price charged for a frequency.
func FrequencyPercent(frequency string) int64 {
	switch frequency {
	case "Weekly":
		return 90
	case "Bi-weekly":
		return 95
	default:
		return 100
	}
}

// FormatCents renders cents as dollars with two decimals.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

func applyPercent(cents, percent int64) int64 {
	return (cents*percent + 50) / 100
}

// leadingInt parses the integer prefix of s the way a lenient form reader
// would: "2500.5" is 2500 and anything without leading digits is 0.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if errors.Is(err, strconv.ErrRange) {
		if s[0] == '-' {
			return math.MinInt
		}
		return math.MaxInt
	}
	if err != nil {
		return 0
	}
	return n
}
