// Package meals reads and writes day records through a key-value provider.
package meals

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/rotipani/internal/constants"
	"github.com/julianstephens/rotipani/internal/logger"
	"github.com/julianstephens/rotipani/internal/models"
	"github.com/julianstephens/rotipani/internal/storage"
	"github.com/julianstephens/rotipani/internal/utils"
)

// ErrEmptyName is returned when a display name is blank after trimming.
var ErrEmptyName = errors.New("name cannot be empty")

// Clock reports the current instant
type Clock func() time.Time

// Store is the day record view of a storage.Provider.
type Store struct {
	provider storage.Provider
	clock    Clock
}

type Option func(*Store)

// WithClock replaces time.Now as the source of consumption timestamps.
func WithClock(c Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

func NewStore(provider storage.Provider, opts ...Option) *Store {
	s := &Store{
		provider: provider,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Provider returns the backing key-value store
func (s *Store) Provider() storage.Provider {
	return s.provider
}

func (s *Store) now() *time.Time {
	t := s.clock()
	return &t
}

// Read returns the record stored under key. Absent, unreadable and
// malformed values all read as the empty day.
func (s *Store) Read(key string) models.DayRecord {
	record, _, err := s.Lookup(key)
	if err != nil {
		if errors.Is(err, models.ErrMalformedRecord) {
			logger.Debug("Ignoring malformed day record", "key", key, "error", err)
		} else {
			logger.Warn("Failed to read day record", "key", key, "error", err)
		}
		return models.DayRecord{}
	}
	return record
}

// Lookup returns the record stored under key and whether one exists.
// Unlike Read it reports malformed values as models.ErrMalformedRecord.
func (s *Store) Lookup(key string) (models.DayRecord, bool, error) {
	raw, ok, err := s.provider.Get(key)
	if err != nil {
		return models.DayRecord{}, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok {
		return models.DayRecord{}, false, nil
	}

	record, err := models.ParseDayRecord(raw)
	if err != nil {
		return models.DayRecord{}, true, err
	}
	return record, true, nil
}

// Write persists the full record under key.
func (s *Store) Write(key string, record models.DayRecord) error {
	if err := utils.ValidateDateKey(key); err != nil {
		return err
	}
	if err := s.provider.Set(key, record.Normalize().String()); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Toggle flips one slot of the day. Turning a slot on always stamps it
// with the current instant; turning it off clears the stamp. SetSlot
// instead keeps the stamp of a slot that is already on.
func (s *Store) Toggle(key string, slot models.MealSlot) (models.DayRecord, error) {
	if err := utils.ValidateDateKey(key); err != nil {
		return models.DayRecord{}, err
	}

	record := s.Read(key)
	consumed, _ := record.Slot(slot)
	record = record.WithSlot(slot, !consumed, s.now())

	if err := s.Write(key, record); err != nil {
		return models.DayRecord{}, err
	}
	logger.Debug("Toggled meal", "key", key, "slot", slot, "consumed", !consumed)
	return record, nil
}

// SetSlot sets one slot to consumed. Unlike Toggle, an already stamped
// slot keeps its original timestamp.
func (s *Store) SetSlot(key string, slot models.MealSlot, consumed bool) (models.DayRecord, error) {
	if err := utils.ValidateDateKey(key); err != nil {
		return models.DayRecord{}, err
	}

	record := s.setSlot(s.Read(key), slot, consumed)
	if err := s.Write(key, record); err != nil {
		return models.DayRecord{}, err
	}
	return record, nil
}

// ApplyEdit stores both slots of a day in one write, with the SetSlot
// timestamp rule.
func (s *Store) ApplyEdit(key string, lunch, dinner bool) (models.DayRecord, error) {
	if err := utils.ValidateDateKey(key); err != nil {
		return models.DayRecord{}, err
	}

	record := s.Read(key)
	record = s.setSlot(record, models.MealLunch, lunch)
	record = s.setSlot(record, models.MealDinner, dinner)

	if err := s.Write(key, record); err != nil {
		return models.DayRecord{}, err
	}
	logger.Debug("Saved day edit", "key", key, "lunch", lunch, "dinner", dinner)
	return record, nil
}

func (s *Store) setSlot(record models.DayRecord, slot models.MealSlot, consumed bool) models.DayRecord {
	var at *time.Time
	if consumed {
		if _, existing := record.Slot(slot); existing != nil {
			at = existing
		} else {
			at = s.now()
		}
	}
	return record.WithSlot(slot, consumed, at)
}

// Keys returns every date key in the store, oldest first.
func (s *Store) Keys() ([]string, error) {
	all, err := s.provider.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	keys := make([]string, 0, len(all))
	for _, k := range all {
		if utils.IsDateKey(k) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// ClearAll removes every day record and keeps all other keys, the
// display name included. It returns the number of removed records.
func (s *Store) ClearAll() (int, error) {
	keys, err := s.Keys()
	if err != nil {
		return 0, err
	}

	for i, k := range keys {
		if err := s.provider.Remove(k); err != nil {
			return i, fmt.Errorf("failed to remove %s: %w", k, err)
		}
	}
	logger.Info("Cleared meal records", "count", len(keys))
	return len(keys), nil
}

// UserName returns the stored display name, or "" when none is set.
func (s *Store) UserName() (string, error) {
	name, _, err := s.provider.Get(constants.UserNameKey)
	if err != nil {
		return "", fmt.Errorf("failed to read name: %w", err)
	}
	return name, nil
}

// SetUserName stores the trimmed display name.
func (s *Store) SetUserName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if err := s.provider.Set(constants.UserNameKey, name); err != nil {
		return fmt.Errorf("failed to save name: %w", err)
	}
	return nil
}

// Today returns the date key of the store clock's current day
func (s *Store) Today() string {
	return utils.EncodeDateKey(s.clock())
}

// Now returns the store clock's current instant
func (s *Store) Now() time.Time {
	return s.clock()
}
