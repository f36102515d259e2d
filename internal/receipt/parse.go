package receipt

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

var (
	errNegativePrice = errors.New("price must not be negative")
	errClockFormat   = errors.New("time must be in HH:MM form")
)

// Date - calendar date with no time or location component
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Clock - wall-clock time of day at minute resolution
type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ParseAmount parses a decimal amount such as "35.35" into an exact value.
// Failures are *ParseError.
func ParseAmount(s string) (decimal.Decimal, error) {
	return parseAmount("amount", s)
}

// ParseDate parses a YYYY-MM-DD date, rejecting days that do not exist in the
// given month. Failures are *ParseError.
func ParseDate(s string) (Date, error) {
	return parseDate("date", s)
}

// ParseTime parses a 24-hour HH:MM time. Failures are *ParseError.
func ParseTime(s string) (Clock, error) {
	return parseClock("time", s)
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ParseError{Field: field, Value: s, Err: err}
	}
	return amount, nil
}

// parsePrice is parseAmount for item prices, which must not be negative.
func parsePrice(s string) (decimal.Decimal, error) {
	price, err := parseAmount(FieldItemPrice, s)
	if err != nil {
		return decimal.Zero, err
	}
	if price.IsNegative() {
		return decimal.Zero, &ParseError{Field: FieldItemPrice, Value: s, Err: errNegativePrice}
	}
	return price, nil
}

func parseDate(field, s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, &ParseError{Field: field, Value: s, Err: err}
	}
	year, month, day := t.Date()
	return Date{Year: year, Month: month, Day: day}, nil
}

func parseClock(field, s string) (Clock, error) {
	// a "15" layout element also accepts a single hour digit
	if len(s) != len(timeLayout) {
		return Clock{}, &ParseError{Field: field, Value: s, Err: errClockFormat}
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return Clock{}, &ParseError{Field: field, Value: s, Err: err}
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}
