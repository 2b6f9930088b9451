package expense

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Category is the kind of an expense. Values are the names persisted in the gist file.
type Category string

const (
	CategoryFuel    Category = "Combustivel"
	CategoryFood    Category = "Alimentação"
	CategoryHotel   Category = "Hotel"
	CategoryToll    Category = "Pedagio"
	CategoryLeisure Category = "Lazer"
)

// Categories lists all categories in the order they are offered in forms.
var Categories = []Category{CategoryFuel, CategoryFood, CategoryHotel, CategoryToll, CategoryLeisure}

const dateLayout = "2006-01-02"

var (
	ErrInvalidRecord   = errors.New("invalid expense record")
	ErrInvalidCategory = fmt.Errorf("%w: unknown category", ErrInvalidRecord)
	ErrInvalidAmount   = fmt.Errorf("%w: amount must be at least 0.01", ErrInvalidRecord)
	ErrInvalidDate     = fmt.Errorf("%w: date must be in YYYY-MM-DD format", ErrInvalidRecord)
	ErrInvalidPosition = errors.New("invalid record position")
)

type Money struct {
	Cents int64
}

type Date struct {
	time.Time
}

// Record is a single expense entry. It has no identifier, records are addressed by their
// position in the stored list.
type Record struct {
	Category Category
	Amount   Money
	Date     Date
}

func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

func (c Category) Valid() bool {
	_, err := ParseCategory(string(c))
	return err == nil
}

// Label returns an English display name.
func (c Category) Label() string {
	switch c {
	case CategoryFuel:
		return "Fuel"
	case CategoryFood:
		return "Food"
	case CategoryHotel:
		return "Hotel"
	case CategoryToll:
		return "Toll"
	case CategoryLeisure:
		return "Leisure"
	}
	return string(c)
}

// ParseMoney converts a decimal string to Money. Both "12.34" and "12,34" are accepted,
// the third decimal is rounded half-up. Values below 0.01 are rejected.
func ParseMoney(s string) (Money, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return Money{}, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, ErrInvalidAmount
	}
	intPart, fracPart := parts[0], ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	if !isDigits(intPart) || !isDigits(fracPart) {
		return Money{}, ErrInvalidAmount
	}
	units, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil || units > math.MaxInt64/100-1 {
		return Money{}, ErrInvalidAmount
	}
	var cents int64
	if len(fracPart) > 0 {
		cents = int64(fracPart[0]-'0') * 10
	}
	if len(fracPart) > 1 {
		cents += int64(fracPart[1] - '0')
	}
	if len(fracPart) > 2 && fracPart[2] >= '5' {
		cents++
	}
	m := Money{Cents: units*100 + cents}
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	return m, nil
}

// MoneyFromFloat converts an amount read from JSON, rounding to the nearest cent.
func MoneyFromFloat(f float64) (Money, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return Money{}, ErrInvalidAmount
	}
	cents := math.Round(f * 100)
	// float64(math.MaxInt64) is 2^63, which no longer fits.
	if cents >= float64(math.MaxInt64) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: int64(cents)}, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (m Money) Validate() error {
	if m.Cents < 1 {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Float returns the amount in currency units. Use Cents for arithmetic.
func (m Money) Float() float64 {
	return float64(m.Cents) / 100
}

// String formats the amount with two decimals, e.g. "12.50".
func (m Money) String() string {
	sign := ""
	cents := m.Cents
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (r Record) Validate() error {
	if !r.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, r.Category)
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	return r.Date.Validate()
}
