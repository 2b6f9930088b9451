package dashboard

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/jinzhu/now"
	"github.com/tripspend/tripspend/pkg/expense"
)

type CategoryTotal struct {
	Category expense.Category
	Amount   expense.Money
	// Share of the overall total, between 0 and 1.
	Share float64
	// Angles in radians, clockwise from twelve o'clock.
	StartAngle float64
	EndAngle   float64
}

type Summary struct {
	Count int
	Total expense.Money
	// HasDays is false when there are no records; LastDay and PreviousDay are then zero.
	HasDays          bool
	LastDay          expense.Date
	LastDayTotal     expense.Money
	PreviousDay      expense.Date
	PreviousDayTotal expense.Money
	ByCategory       []CategoryTotal
}

// Summarize computes every dashboard figure from records.
func Summarize(records []expense.Record) Summary {
	summary := Summary{Count: len(records)}
	if len(records) == 0 {
		return summary
	}

	byCategory := make(map[expense.Category]expense.Money)
	last := records[0].Date
	for _, record := range records {
		summary.Total = summary.Total.Add(record.Amount)
		byCategory[record.Category] = byCategory[record.Category].Add(record.Amount)
		if record.Date.After(last.Time) {
			last = record.Date
		}
	}

	lastDay := dayOf(last.Time)
	previousDay := dayOf(lastDay.start.AddDate(0, 0, -1))

	summary.HasDays = true
	summary.LastDay = expense.DateOf(lastDay.start)
	summary.PreviousDay = expense.DateOf(previousDay.start)
	for _, record := range records {
		switch {
		case lastDay.contains(record.Date.Time):
			summary.LastDayTotal = summary.LastDayTotal.Add(record.Amount)
		case previousDay.contains(record.Date.Time):
			summary.PreviousDayTotal = summary.PreviousDayTotal.Add(record.Amount)
		}
	}

	summary.ByCategory = categoryTotals(byCategory, summary.Total)
	return summary
}

// day is the closed interval covering one calendar day.
type day struct {
	start time.Time
	end   time.Time
}

func dayOf(t time.Time) day {
	n := now.With(t)
	return day{start: n.BeginningOfDay(), end: n.EndOfDay()}
}

func (d day) contains(t time.Time) bool {
	return !t.Before(d.start) && !t.After(d.end)
}

func categoryTotals(byCategory map[expense.Category]expense.Money, total expense.Money) []CategoryTotal {
	totals := make([]CategoryTotal, 0, len(byCategory))
	for category, amount := range byCategory {
		totals = append(totals, CategoryTotal{Category: category, Amount: amount})
	}
	slices.SortFunc(totals, func(a, b CategoryTotal) int {
		if c := cmp.Compare(b.Amount.Cents, a.Amount.Cents); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})

	angle := 0.0
	for i := range totals {
		if total.Cents > 0 {
			totals[i].Share = float64(totals[i].Amount.Cents) / float64(total.Cents)
		}
		totals[i].StartAngle = angle
		angle += totals[i].Share * 2 * math.Pi
		totals[i].EndAngle = angle
	}
	if n := len(totals); n > 0 && total.Cents > 0 {
		totals[n-1].EndAngle = 2 * math.Pi
	}
	return totals
}
