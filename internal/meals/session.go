package meals

import (
	"github.com/julianstephens/rotipani/internal/models"
	"github.com/julianstephens/rotipani/internal/utils"
)

// EditSession holds the pending lunch and dinner values of one day
// while it is being edited. Nothing is written until Save.
type EditSession struct {
	Key     string
	Lunch   bool
	Dinner  bool
	initial models.DayRecord
}

// OpenEdit starts an edit of the day stored under key.
func OpenEdit(store *Store, key string) (EditSession, error) {
	if err := utils.ValidateDateKey(key); err != nil {
		return EditSession{}, err
	}
	record := store.Read(key)
	return EditSession{
		Key:     key,
		Lunch:   record.Lunch,
		Dinner:  record.Dinner,
		initial: record,
	}, nil
}

// Toggle flips the pending value of one slot.
func (e *EditSession) Toggle(slot models.MealSlot) {
	if slot == models.MealDinner {
		e.Dinner = !e.Dinner
		return
	}
	e.Lunch = !e.Lunch
}

// Set replaces the pending value of one slot.
func (e *EditSession) Set(slot models.MealSlot, consumed bool) {
	if slot == models.MealDinner {
		e.Dinner = consumed
		return
	}
	e.Lunch = consumed
}

// Initial returns the record as it was when the session was opened
func (e EditSession) Initial() models.DayRecord {
	return e.initial
}

// Dirty reports whether the pending values differ from the loaded ones
func (e EditSession) Dirty() bool {
	return e.Lunch != e.initial.Lunch || e.Dinner != e.initial.Dinner
}

// Save writes the pending values in a single ApplyEdit.
func (e EditSession) Save(store *Store) (models.DayRecord, error) {
	return store.ApplyEdit(e.Key, e.Lunch, e.Dinner)
}
