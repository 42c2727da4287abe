package domain

import (
	"time"

	"orderflow/bizerror"

	"github.com/fundwit/go-commons/types"
)

// orderDateFormats are tried in order, first successful parse wins.
// Ambiguous inputs like 01/02/2025 therefore resolve as month-first;
// day-first only applies when month-first cannot parse.
var orderDateFormats = []string{
	"20060102",
	"2006/01/02",
	"01/02/2006",
	"2006-01-02",
	"01-02-2006",
	"02/01/2006",
	"02-01-2006",
}

func ParseOrderDate(raw string) (types.Timestamp, error) {
	for _, format := range orderDateFormats {
		t, err := time.ParseInLocation(format, raw, time.Local)
		if err == nil {
			return types.TimestampOfDate(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local), nil
		}
	}
	return types.Timestamp{}, bizerror.ErrInvalidDate
}
