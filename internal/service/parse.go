package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/tonsisouvanh/mineral-inventory-system/internal/apierror"

	"github.com/shopspring/decimal"
)

const dayLayout = "2006-01-02"

// parseDay parses an optional YYYY-MM-DD filter value into the start of that
// day in UTC.
func parseDay(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(dayLayout, s)
	if err != nil {
		return nil, apierror.Invalid(field, "must be a date in YYYY-MM-DD format")
	}
	return &d, nil
}

// parseTimestamp accepts RFC 3339 or YYYY-MM-DD.
func parseTimestamp(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(dayLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, apierror.Invalid(field, "must be an RFC 3339 timestamp or YYYY-MM-DD")
}

// parseAmount parses spreadsheet money values such as "1,250.50".
func parseAmount(field, s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apierror.Invalid(field, "must be a number")
	}
	return d, nil
}

// parseCount parses an integer import cell; empty means fallback.
func parseCount(field, s string, fallback int) (int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, apierror.Invalid(field, "must be an integer")
	}
	return n, nil
}
