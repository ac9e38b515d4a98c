package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type flatPrices int64

func (p flatPrices) BasePriceCents(string) int64 { return int64(p) }

func TestQuoteFor_ResidentialWeekly(t *testing.T) {
	q := QuoteFor(BookingData{
		ServiceCategory:  "Residential Services",
		PropertySize:     "2500",
		ServiceFrequency: "Weekly",
	}, nil)

	assert.Equal(t, 2, q.SizeFactor)
	assert.Equal(t, int64(19800), q.BaseCents)
	assert.Equal(t, int64(17820), q.TotalCents)
	assert.Equal(t, int64(1980), q.DiscountCents)
	assert.Equal(t, "$198.00", q.Base)
	assert.Equal(t, "$178.20", q.Total)
	assert.Equal(t, "-$19.80", q.Discount)
	assert.True(t, q.ShowDiscount)
}

func TestQuoteFor_CommercialNoExtras(t *testing.T) {
	q := QuoteFor(BookingData{ServiceCategory: "Commercial Services"}, DefaultPrices{})
	assert.Equal(t, "$199.00", q.Base)
	assert.Equal(t, "$199.00", q.Total)
	assert.False(t, q.ShowDiscount)
	assert.Empty(t, q.Discount)
	assert.Zero(t, q.DiscountCents)
}

func TestQuoteFor_BiWeeklyAndCap(t *testing.T) {
	q := QuoteFor(BookingData{
		ServiceCategory:  "Specialized Services",
		PropertySize:     "12000",
		ServiceFrequency: "Bi-weekly",
	}, nil)
	assert.Equal(t, 3, q.SizeFactor)
	assert.Equal(t, int64(44700), q.BaseCents)
	assert.Equal(t, int64(42465), q.TotalCents)
	assert.Equal(t, "-$22.35", q.Discount)
}

func TestQuoteFor_CustomPriceBook(t *testing.T) {
	q := QuoteFor(BookingData{PropertySize: "1000"}, flatPrices(5000))
	assert.Equal(t, "$50.00", q.Total)
}

func TestSizeFactor(t *testing.T) {
	tests := map[string]int{
		"":       1,
		"0":      1,
		"500":    1,
		"1999":   1,
		"2000":   2,
		"2500.9": 2,
		"3000":   3,
		"99999":  3,
		"-200":   1,
		"lots":   1,
		"2500ft": 2,
	}
	for in, want := range tests {
		assert.Equal(t, want, SizeFactor(in), in)
	}
}

func TestFrequencyPercent(t *testing.T) {
	assert.Equal(t, int64(90), FrequencyPercent("Weekly"))
	assert.Equal(t, int64(95), FrequencyPercent("Bi-weekly"))
	assert.Equal(t, int64(100), FrequencyPercent("Monthly"))
	assert.Equal(t, int64(100), FrequencyPercent(""))
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "$0.00", FormatCents(0))
	assert.Equal(t, "$9.05", FormatCents(905))
	assert.Equal(t, "-$19.80", FormatCents(-1980))
}
