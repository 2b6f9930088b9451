package dashboard

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripspend/tripspend/pkg/expense"
)

var (
	fuel    = expense.Record{Category: expense.CategoryFuel, Amount: expense.Money{Cents: 10000}, Date: expense.NewDate(2024, time.January, 1)}
	hotel   = expense.Record{Category: expense.CategoryHotel, Amount: expense.Money{Cents: 35050}, Date: expense.NewDate(2024, time.January, 1)}
	toll    = expense.Record{Category: expense.CategoryToll, Amount: expense.Money{Cents: 1220}, Date: expense.NewDate(2024, time.January, 2)}
	leisure = expense.Record{Category: expense.CategoryLeisure, Amount: expense.Money{Cents: 10000}, Date: expense.NewDate(2023, time.December, 20)}
)

func TestSummarize(t *testing.T) {
	t.Run("should return zero totals for empty list", func(t *testing.T) {
		summary := Summarize(nil)

		assert.Equal(t, 0, summary.Count)
		assert.Equal(t, int64(0), summary.Total.Cents)
		assert.False(t, summary.HasDays)
		assert.Equal(t, int64(0), summary.LastDayTotal.Cents)
		assert.Equal(t, int64(0), summary.PreviousDayTotal.Cents)
		assert.Empty(t, summary.ByCategory)
	})

	t.Run("single day puts everything in last day", func(t *testing.T) {
		// given
		records := []expense.Record{fuel, hotel}

		// when
		summary := Summarize(records)

		// then
		assert.Equal(t, int64(45050), summary.Total.Cents)
		assert.True(t, summary.HasDays)
		assert.Equal(t, expense.NewDate(2024, time.January, 1), summary.LastDay)
		assert.Equal(t, int64(45050), summary.LastDayTotal.Cents)
		assert.Equal(t, expense.NewDate(2023, time.December, 31), summary.PreviousDay)
		assert.Equal(t, int64(0), summary.PreviousDayTotal.Cents)
	})

	t.Run("should split last day and previous day", func(t *testing.T) {
		summary := Summarize([]expense.Record{toll, fuel, hotel, leisure})

		assert.Equal(t, 4, summary.Count)
		assert.Equal(t, int64(56270), summary.Total.Cents)
		assert.Equal(t, expense.NewDate(2024, time.January, 2), summary.LastDay)
		assert.Equal(t, int64(1220), summary.LastDayTotal.Cents)
		assert.Equal(t, int64(45050), summary.PreviousDayTotal.Cents)
	})

	t.Run("should step back across a leap day", func(t *testing.T) {
		// given
		march := expense.Record{Category: expense.CategoryFood, Amount: expense.Money{Cents: 500}, Date: expense.NewDate(2024, time.March, 1)}
		leap := expense.Record{Category: expense.CategoryFood, Amount: expense.Money{Cents: 700}, Date: expense.NewDate(2024, time.February, 29)}

		// when
		summary := Summarize([]expense.Record{leap, march})

		// then
		assert.Equal(t, expense.NewDate(2024, time.February, 29), summary.PreviousDay)
		assert.Equal(t, int64(500), summary.LastDayTotal.Cents)
		assert.Equal(t, int64(700), summary.PreviousDayTotal.Cents)
	})

	t.Run("should count records anywhere inside the day", func(t *testing.T) {
		// given
		evening := expense.Record{
			Category: expense.CategoryToll,
			Amount:   expense.Money{Cents: 300},
			Date:     expense.Date{Time: time.Date(2024, time.January, 2, 21, 45, 0, 0, time.UTC)},
		}
		lateNight := expense.Record{
			Category: expense.CategoryHotel,
			Amount:   expense.Money{Cents: 900},
			Date:     expense.Date{Time: time.Date(2024, time.January, 1, 23, 59, 59, 0, time.UTC)},
		}

		// when
		summary := Summarize([]expense.Record{toll, evening, lateNight})

		// then
		assert.Equal(t, expense.NewDate(2024, time.January, 2), summary.LastDay)
		assert.Equal(t, int64(1520), summary.LastDayTotal.Cents)
		assert.Equal(t, expense.NewDate(2024, time.January, 1), summary.PreviousDay)
		assert.Equal(t, int64(900), summary.PreviousDayTotal.Cents)
	})

	t.Run("should order categories by amount then name", func(t *testing.T) {
		summary := Summarize([]expense.Record{toll, leisure, fuel, hotel, toll})

		categories := make([]expense.Category, 0, len(summary.ByCategory))
		for _, total := range summary.ByCategory {
			categories = append(categories, total.Category)
		}
		assert.Equal(t, []expense.Category{
			expense.CategoryHotel,
			expense.CategoryFuel,
			expense.CategoryLeisure,
			expense.CategoryToll,
		}, categories)
		assert.Equal(t, int64(2440), summary.ByCategory[3].Amount.Cents)
	})

	t.Run("shares add up to one full turn", func(t *testing.T) {
		summary := Summarize([]expense.Record{toll, leisure, fuel, hotel})

		share := 0.0
		for i, total := range summary.ByCategory {
			share += total.Share
			if i > 0 {
				assert.Equal(t, summary.ByCategory[i-1].EndAngle, total.StartAngle)
			}
		}
		assert.InDelta(t, 1.0, share, 1e-9)
		assert.Equal(t, 0.0, summary.ByCategory[0].StartAngle)
		assert.Equal(t, 2*math.Pi, summary.ByCategory[len(summary.ByCategory)-1].EndAngle)
	})
}

func TestDonut(t *testing.T) {
	t.Run("single category draws a full ring", func(t *testing.T) {
		chart := Donut(Summarize([]expense.Record{fuel}))

		require.Len(t, chart.Slices, 1)
		slice := chart.Slices[0]
		assert.Equal(t, 400, chart.ViewBox)
		assert.Equal(t, "Fuel", slice.Label)
		assert.Equal(t, "100.0%", slice.Percent)
		assert.True(t, strings.HasPrefix(slice.Path, "M 200.00 50.00 A 150 150 0 0 1 200.00 350.00"))
		assert.Equal(t, 2, strings.Count(slice.Path, "M "))
	})

	t.Run("half share ends at the bottom of the ring", func(t *testing.T) {
		chart := Donut(Summarize([]expense.Record{fuel, leisure}))

		require.Len(t, chart.Slices, 2)
		assert.Equal(t, "M 200.00 50.00 A 150 150 0 0 1 200.00 350.00 L 200.00 250.00 A 50 50 0 0 0 200.00 150.00 Z",
			chart.Slices[0].Path)
		assert.Equal(t, "50.0%", chart.Slices[1].Percent)
	})

	t.Run("no slices for empty summary", func(t *testing.T) {
		assert.Empty(t, Donut(Summarize(nil)).Slices)
	})
}

func TestCsvSummaryRendererImpl_RenderSummary(t *testing.T) {
	t.Run("should render totals", func(t *testing.T) {
		// given
		renderer := NewCsvSummaryRenderer()

		// when
		csv, err := renderer.RenderSummary(Summarize([]expense.Record{fuel, toll}))

		// then
		require.NoError(t, err)
		assert.Equal(t, "Category,Amount,Share\n"+
			"Fuel,100.00,89.13\n"+
			"Toll,12.20,10.87\n"+
			"Total,112.20,100.00\n"+
			"Last day 02/01/2024,12.20,\n"+
			"Previous day 01/01/2024,100.00,\n", csv)
	})

	t.Run("should render only header and total for empty list", func(t *testing.T) {
		csv, err := NewCsvSummaryRenderer().RenderSummary(Summarize(nil))

		require.NoError(t, err)
		assert.Equal(t, "Category,Amount,Share\nTotal,0.00,0.00\n", csv)
	})
}
