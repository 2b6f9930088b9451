package ui

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tripspend/tripspend/pkg/expense"
)

// parseRecord reads one expense from the add form. An empty date means today.
func parseRecord(form url.Values, today expense.Date) (expense.Record, error) {
	category, err := expense.ParseCategory(form.Get("category"))
	if err != nil {
		return expense.Record{}, err
	}
	amount, err := expense.ParseMoney(form.Get("amount"))
	if err != nil {
		return expense.Record{}, err
	}
	date := today
	if s := strings.TrimSpace(form.Get("date")); s != "" {
		if date, err = expense.ParseDate(s); err != nil {
			return expense.Record{}, err
		}
	}
	return expense.Record{Category: category, Amount: amount, Date: date}, nil
}

// parseRows reads the edited table. Rows are sent as parallel category, amount and date
// fields; rows whose index is listed in delete are dropped, blank rows are skipped.
func parseRows(form url.Values) ([]expense.Record, error) {
	categories, amounts, dates := form["category"], form["amount"], form["date"]
	if len(categories) != len(amounts) || len(amounts) != len(dates) {
		return nil, fmt.Errorf("%w: incomplete rows", expense.ErrInvalidRecord)
	}

	deleted := make(map[int]bool, len(form["delete"]))
	for _, value := range form["delete"] {
		i, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", expense.ErrInvalidPosition, value)
		}
		deleted[i] = true
	}

	records := make([]expense.Record, 0, len(categories))
	for i := range categories {
		if deleted[i] {
			continue
		}
		category := strings.TrimSpace(categories[i])
		amount := strings.TrimSpace(amounts[i])
		date := strings.TrimSpace(dates[i])
		if category == "" && amount == "" && date == "" {
			continue
		}

		record, err := parseRow(category, amount, date)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func parseRow(category, amount, date string) (expense.Record, error) {
	c, err := expense.ParseCategory(category)
	if err != nil {
		return expense.Record{}, err
	}
	m, err := expense.ParseMoney(amount)
	if err != nil {
		return expense.Record{}, err
	}
	d, err := expense.ParseDate(date)
	if err != nil {
		return expense.Record{}, err
	}
	return expense.Record{Category: c, Amount: m, Date: d}, nil
}
