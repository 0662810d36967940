package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	appErrors "github.com/fitify-app/fitify-api/pkg/errors"
)

// Weekday is the closed set of days a trainer can publish availability for.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

var weekdays = map[Weekday]struct{}{
	Monday: {}, Tuesday: {}, Wednesday: {}, Thursday: {}, Friday: {}, Saturday: {}, Sunday: {},
}

// ParseWeekday validates a raw day string against the weekday enumeration.
func ParseWeekday(raw string) (Weekday, error) {
	day := Weekday(strings.TrimSpace(raw))
	if _, ok := weekdays[day]; !ok {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid weekday %q", raw))
	}
	return day, nil
}

// SlotGroup is a named block of time-of-day entries within a day, e.g. "Morning".
// Times behave as a set: no duplicates, insertion order preserved.
type SlotGroup struct {
	Label string   `json:"label"`
	Times []string `json:"times"`
}

// DayBlock groups labeled slots for one weekday. A trainer holds at most one
// DayBlock per day; an empty DayBlock never persists.
type DayBlock struct {
	Day   Weekday     `json:"day"`
	Slots []SlotGroup `json:"slots"`
}

// StructuredSlots is the full availability tree for one trainer, stored as a
// single JSONB column.
type StructuredSlots []DayBlock

// Value implements driver.Valuer for JSONB storage.
func (s StructuredSlots) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB storage.
func (s *StructuredSlots) Scan(src interface{}) error {
	if src == nil {
		*s = StructuredSlots{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported structured slots source %T", src)
	}
	if len(raw) == 0 {
		*s = StructuredSlots{}
		return nil
	}
	return json.Unmarshal(raw, s)
}

// Add merges a labeled set of times into the tree and returns the updated copy.
// Missing day blocks and slot groups are created; times already present under
// the same day and label are skipped, which makes the operation idempotent.
func (s StructuredSlots) Add(day Weekday, label string, times []string) (StructuredSlots, error) {
	if _, ok := weekdays[day]; !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid weekday %q", day))
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "slot label is required")
	}
	cleaned := make([]string, 0, len(times))
	for _, t := range times {
		trimmed := strings.TrimSpace(t)
		if trimmed == "" || containsTime(cleaned, trimmed) {
			continue
		}
		cleaned = append(cleaned, trimmed)
	}
	if len(cleaned) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one time is required")
	}

	updated := s.clone()

	for di := range updated {
		if updated[di].Day != day {
			continue
		}
		for si := range updated[di].Slots {
			if updated[di].Slots[si].Label != label {
				continue
			}
			group := &updated[di].Slots[si]
			for _, t := range cleaned {
				if !containsTime(group.Times, t) {
					group.Times = append(group.Times, t)
				}
			}
			return updated, nil
		}
		updated[di].Slots = append(updated[di].Slots, SlotGroup{Label: label, Times: cleaned})
		return updated, nil
	}

	updated = append(updated, DayBlock{
		Day:   day,
		Slots: []SlotGroup{{Label: label, Times: cleaned}},
	})
	return updated, nil
}

// Remove deletes a single time entry addressed by (day, label, time) and
// returns the updated copy. Lookups fail in order: day, then label, then time.
// Containers left empty by the removal are pruned so no empty SlotGroup or
// DayBlock survives.
func (s StructuredSlots) Remove(day Weekday, label, timeOfDay string) (StructuredSlots, error) {
	updated := s.clone()

	dayIdx := -1
	for i := range updated {
		if updated[i].Day == day {
			dayIdx = i
			break
		}
	}
	if dayIdx == -1 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "day not found")
	}

	slotIdx := -1
	for i := range updated[dayIdx].Slots {
		if updated[dayIdx].Slots[i].Label == label {
			slotIdx = i
			break
		}
	}
	if slotIdx == -1 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "slot label not found")
	}

	times := updated[dayIdx].Slots[slotIdx].Times
	timeIdx := -1
	for i, t := range times {
		if t == timeOfDay {
			timeIdx = i
			break
		}
	}
	if timeIdx == -1 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "time not found")
	}

	updated[dayIdx].Slots[slotIdx].Times = append(times[:timeIdx], times[timeIdx+1:]...)

	if len(updated[dayIdx].Slots[slotIdx].Times) == 0 {
		updated[dayIdx].Slots = append(updated[dayIdx].Slots[:slotIdx], updated[dayIdx].Slots[slotIdx+1:]...)
	}
	if len(updated[dayIdx].Slots) == 0 {
		updated = append(updated[:dayIdx], updated[dayIdx+1:]...)
	}

	return updated, nil
}

// TimesFor returns the time set stored under (day, label), or nil.
func (s StructuredSlots) TimesFor(day Weekday, label string) []string {
	for _, block := range s {
		if block.Day != day {
			continue
		}
		for _, group := range block.Slots {
			if group.Label == label {
				return group.Times
			}
		}
	}
	return nil
}

func (s StructuredSlots) clone() StructuredSlots {
	out := make(StructuredSlots, len(s))
	for i, block := range s {
		slots := make([]SlotGroup, len(block.Slots))
		for j, group := range block.Slots {
			times := make([]string, len(group.Times))
			copy(times, group.Times)
			slots[j] = SlotGroup{Label: group.Label, Times: times}
		}
		out[i] = DayBlock{Day: block.Day, Slots: slots}
	}
	return out
}

func containsTime(times []string, t string) bool {
	for _, existing := range times {
		if existing == t {
			return true
		}
	}
	return false
}
