package utils

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/julianstephens/rotipani/internal/constants"
)

// ErrMalformedKey is returned when a string is not a YYYY-MM-DD date key.
var ErrMalformedKey = errors.New("malformed date key")

var dateKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// EncodeDateKey formats t's own calendar date as YYYY-MM-DD. The time is
// never converted to another zone first.
func EncodeDateKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// IsDateKey reports whether key has the YYYY-MM-DD shape. It does not
// check that the date exists; use DecodeDateKey for that.
func IsDateKey(key string) bool {
	return dateKeyPattern.MatchString(key)
}

// DecodeDateKey parses a date key into midnight of that day in loc.
func DecodeDateKey(key string, loc *time.Location) (time.Time, error) {
	if !IsDateKey(key) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedKey, key)
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(constants.DateFormat, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrMalformedKey, key, err)
	}
	return t, nil
}

// ValidateDateKey returns ErrMalformedKey unless key names a real day.
func ValidateDateKey(key string) error {
	_, err := DecodeDateKey(key, time.UTC)
	return err
}
