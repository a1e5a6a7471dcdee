package models

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/julianstephens/rotipani/internal/constants"
)

var (
	// ErrMalformedRecord is returned when a stored value is not a day record.
	ErrMalformedRecord = errors.New("malformed day record")
	// ErrUnknownMealSlot is returned for anything other than lunch or dinner.
	ErrUnknownMealSlot = errors.New("unknown meal slot")
)

// MealSlot names one of the tracked meals of a day
type MealSlot string

const (
	MealLunch  MealSlot = "lunch"
	MealDinner MealSlot = "dinner"
)

// MealSlots lists the slots in display order
var MealSlots = []MealSlot{MealLunch, MealDinner}

// ParseMealSlot parses user input into a MealSlot (case-insensitive)
func ParseMealSlot(s string) (MealSlot, error) {
	switch MealSlot(strings.ToLower(strings.TrimSpace(s))) {
	case MealLunch:
		return MealLunch, nil
	case MealDinner:
		return MealDinner, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMealSlot, s)
	}
}

// Title returns the slot name for display ("Lunch", "Dinner")
func (s MealSlot) Title() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// DayRecord is one calendar day's meal status. The zero value is the
// record of a day nothing has been logged for.
type DayRecord struct {
	Lunch      bool
	Dinner     bool
	LunchTime  *time.Time
	DinnerTime *time.Time
}

// wireRecord is the persisted shape. Pointers distinguish missing fields
// from false ones.
type wireRecord struct {
	Lunch      *bool   `json:"lunch"`
	Dinner     *bool   `json:"dinner"`
	LunchTime  *string `json:"lunchTime,omitempty"`
	DinnerTime *string `json:"dinnerTime,omitempty"`
}

// Slot returns the consumed flag and timestamp of one slot.
func (r DayRecord) Slot(slot MealSlot) (bool, *time.Time) {
	if slot == MealDinner {
		return r.Dinner, r.DinnerTime
	}
	return r.Lunch, r.LunchTime
}

// WithSlot returns a copy of r with one slot replaced. A false slot
// never keeps a timestamp.
func (r DayRecord) WithSlot(slot MealSlot, consumed bool, at *time.Time) DayRecord {
	if !consumed {
		at = nil
	}
	switch slot {
	case MealDinner:
		r.Dinner, r.DinnerTime = consumed, at
	default:
		r.Lunch, r.LunchTime = consumed, at
	}
	return r
}

// Consumed counts the consumed slots (0-2)
func (r DayRecord) Consumed() int {
	n := 0
	if r.Lunch {
		n++
	}
	if r.Dinner {
		n++
	}
	return n
}

// Any reports whether at least one meal was consumed
func (r DayRecord) Any() bool {
	return r.Lunch || r.Dinner
}

// Normalize drops timestamps attached to slots that are not consumed.
func (r DayRecord) Normalize() DayRecord {
	if !r.Lunch {
		r.LunchTime = nil
	}
	if !r.Dinner {
		r.DinnerTime = nil
	}
	return r
}

// Equal compares flags and timestamps (instants, not representations)
func (r DayRecord) Equal(o DayRecord) bool {
	return r.Lunch == o.Lunch && r.Dinner == o.Dinner &&
		timesEqual(r.LunchTime, o.LunchTime) && timesEqual(r.DinnerTime, o.DinnerTime)
}

func timesEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func (r DayRecord) MarshalJSON() ([]byte, error) {
	r = r.Normalize()
	w := wireRecord{Lunch: &r.Lunch, Dinner: &r.Dinner}
	w.LunchTime = formatTimestamp(r.LunchTime)
	w.DinnerTime = formatTimestamp(r.DinnerTime)
	return json.Marshal(w)
}

func (r *DayRecord) UnmarshalJSON(data []byte) error {
	parsed, err := ParseDayRecord(string(data))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// String returns the persisted form of the record
func (r DayRecord) String() string {
	data, err := r.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(data)
}

// ParseDayRecord decodes a persisted value. Anything that is not an
// object with boolean "lunch" and "dinner" fields is ErrMalformedRecord.
// Callers decide what malformed means for them; the store reads it as
// an empty day.
func ParseDayRecord(raw string) (DayRecord, error) {
	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return DayRecord{}, fmt.Errorf("%w: not a JSON object", ErrMalformedRecord)
	}

	var w wireRecord
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return DayRecord{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if w.Lunch == nil || w.Dinner == nil {
		return DayRecord{}, fmt.Errorf("%w: missing lunch or dinner", ErrMalformedRecord)
	}

	r := DayRecord{Lunch: *w.Lunch, Dinner: *w.Dinner}
	var err error
	if r.LunchTime, err = parseTimestamp(w.LunchTime); err != nil {
		return DayRecord{}, fmt.Errorf("%w: lunchTime: %v", ErrMalformedRecord, err)
	}
	if r.DinnerTime, err = parseTimestamp(w.DinnerTime); err != nil {
		return DayRecord{}, fmt.Errorf("%w: dinnerTime: %v", ErrMalformedRecord, err)
	}
	return r.Normalize(), nil
}

func formatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(constants.TimestampFormat)
	return &s
}

func parseTimestamp(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
