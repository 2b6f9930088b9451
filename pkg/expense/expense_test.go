package expense

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	t.Run("should accept every stored category name", func(t *testing.T) {
		for _, c := range Categories {
			parsed, err := ParseCategory(string(c))
			require.NoError(t, err)
			assert.Equal(t, c, parsed)
		}
	})

	t.Run("should reject unknown category", func(t *testing.T) {
		_, err := ParseCategory("Groceries")

		assert.ErrorIs(t, err, ErrInvalidCategory)
		assert.ErrorIs(t, err, ErrInvalidRecord)
	})

	t.Run("should expose english labels", func(t *testing.T) {
		assert.Equal(t, "Food", CategoryFood.Label())
		assert.Equal(t, "Toll", CategoryToll.Label())
	})
}

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"1", 100, true},
		{"0.01", 1, true},
		{"12,34", 1234, true},
		{" 2.50 ", 250, true},
		{"1.005", 101, true},
		{"1.004", 100, true},
		{".5", 50, true},
		{"0", 0, false},
		{"0.004", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		m, err := ParseMoney(tc.in)
		if tc.ok {
			require.NoError(t, err, tc.in)
			assert.Equal(t, tc.cents, m.Cents, tc.in)
		} else {
			assert.ErrorIs(t, err, ErrInvalidAmount, tc.in)
		}
	}
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "12.50", Money{Cents: 1250}.String())
	assert.Equal(t, "0.07", Money{Cents: 7}.String())
	assert.Equal(t, Money{Cents: 300}, Money{Cents: 100}.Add(Money{Cents: 200}))
	assert.InDelta(t, 12.5, Money{Cents: 1250}.Float(), 1e-9)

	m, err := MoneyFromFloat(19.99)
	require.NoError(t, err)
	assert.Equal(t, int64(1999), m.Cents)

	_, err = MoneyFromFloat(-1)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestMoneyFromFloat(t *testing.T) {
	t.Run("should round to the nearest cent", func(t *testing.T) {
		for value, cents := range map[float64]int64{12: 1200, 12.345: 1235, 0.004: 0, 42.5: 4250} {
			money, err := MoneyFromFloat(value)

			require.NoError(t, err, value)
			assert.Equal(t, cents, money.Cents, value)
		}
	})

	t.Run("should reject amounts that do not fit in cents", func(t *testing.T) {
		// given
		// 92233720368547760 * 100 rounds to 2^63 as a float64.
		values := []float64{-1, math.NaN(), math.Inf(1), 92233720368547760, 1e17, 1e300}

		for _, value := range values {
			// when
			_, err := MoneyFromFloat(value)

			// then
			assert.ErrorIs(t, err, ErrInvalidAmount, value)
		}
	})

	t.Run("should accept large amounts below the limit", func(t *testing.T) {
		money, err := MoneyFromFloat(1e15)

		require.NoError(t, err)
		assert.Equal(t, int64(1e17), money.Cents)
	})
}

func TestDate(t *testing.T) {
	t.Run("should parse calendar dates", func(t *testing.T) {
		d, err := ParseDate("2024-02-29")
		require.NoError(t, err)
		assert.Equal(t, NewDate(2024, time.February, 29), d)
		assert.Equal(t, "2024-02-29", d.String())
	})

	t.Run("should reject other formats", func(t *testing.T) {
		_, err := ParseDate("29/02/2024")
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("should keep the calendar day of the given location", func(t *testing.T) {
		loc := time.FixedZone("UTC-3", -3*60*60)
		d := DateOf(time.Date(2024, time.March, 10, 23, 30, 0, 0, loc))
		assert.Equal(t, NewDate(2024, time.March, 10), d)
	})
}

func TestRecord_Validate(t *testing.T) {
	good := Record{Category: CategoryHotel, Amount: Money{Cents: 1}, Date: NewDate(2024, time.January, 1)}
	require.NoError(t, good.Validate())

	bads := []Record{
		{Category: "Other", Amount: Money{Cents: 1}, Date: NewDate(2024, time.January, 1)},
		{Category: CategoryHotel, Amount: Money{Cents: 0}, Date: NewDate(2024, time.January, 1)},
		{Category: CategoryHotel, Amount: Money{Cents: 1}},
	}
	for i, r := range bads {
		assert.ErrorIs(t, r.Validate(), ErrInvalidRecord, "case %d", i)
	}
}
