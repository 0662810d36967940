package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/fitify-app/fitify-api/pkg/errors"
)

func TestStructuredSlotsAddCreatesDayAndLabel(t *testing.T) {
	var slots StructuredSlots

	updated, err := slots.Add(Monday, "Morning", []string{"7:00"})
	require.NoError(t, err)

	require.Len(t, updated, 1)
	assert.Equal(t, Monday, updated[0].Day)
	require.Len(t, updated[0].Slots, 1)
	assert.Equal(t, "Morning", updated[0].Slots[0].Label)
	assert.Equal(t, []string{"7:00"}, updated[0].Slots[0].Times)
}

func TestStructuredSlotsAddMergesWithoutDuplicates(t *testing.T) {
	var slots StructuredSlots

	slots, err := slots.Add(Monday, "Morning", []string{"7:00"})
	require.NoError(t, err)
	slots, err = slots.Add(Monday, "Morning", []string{"7:00", "8:00"})
	require.NoError(t, err)

	assert.Equal(t, []string{"7:00", "8:00"}, slots.TimesFor(Monday, "Morning"))
}

func TestStructuredSlotsAddDedupesPayloadOnNewGroup(t *testing.T) {
	var slots StructuredSlots

	updated, err := slots.Add(Monday, "Morning", []string{"7:00", "7:00", " 7:00 ", "8:00"})
	require.NoError(t, err)

	assert.Equal(t, []string{"7:00", "8:00"}, updated.TimesFor(Monday, "Morning"))
}

func TestStructuredSlotsAddIsIdempotent(t *testing.T) {
	var slots StructuredSlots

	once, err := slots.Add(Tuesday, "Evening", []string{"18:00", "19:00"})
	require.NoError(t, err)
	twice, err := once.Add(Tuesday, "Evening", []string{"18:00", "19:00"})
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestStructuredSlotsAddNewLabelOnExistingDay(t *testing.T) {
	var slots StructuredSlots

	slots, err := slots.Add(Monday, "Morning", []string{"7:00"})
	require.NoError(t, err)
	slots, err = slots.Add(Monday, "Evening", []string{"18:00"})
	require.NoError(t, err)

	require.Len(t, slots, 1)
	require.Len(t, slots[0].Slots, 2)
	assert.Equal(t, []string{"18:00"}, slots.TimesFor(Monday, "Evening"))
}

func TestStructuredSlotsAddValidation(t *testing.T) {
	var slots StructuredSlots

	_, err := slots.Add("Funday", "Morning", []string{"7:00"})
	require.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = slots.Add(Monday, "  ", []string{"7:00"})
	require.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = slots.Add(Monday, "Morning", nil)
	require.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestStructuredSlotsAddDoesNotMutateReceiver(t *testing.T) {
	var slots StructuredSlots
	slots, err := slots.Add(Monday, "Morning", []string{"7:00"})
	require.NoError(t, err)

	_, err = slots.Add(Monday, "Morning", []string{"8:00"})
	require.NoError(t, err)

	assert.Equal(t, []string{"7:00"}, slots.TimesFor(Monday, "Morning"))
}

func TestStructuredSlotsRemoveTime(t *testing.T) {
	var slots StructuredSlots
	slots, err := slots.Add(Monday, "Morning", []string{"7:00", "8:00"})
	require.NoError(t, err)

	slots, err = slots.Remove(Monday, "Morning", "7:00")
	require.NoError(t, err)
	assert.Equal(t, []string{"8:00"}, slots.TimesFor(Monday, "Morning"))
}

func TestStructuredSlotsRemoveCascadePrunes(t *testing.T) {
	var slots StructuredSlots
	slots, err := slots.Add(Monday, "Morning", []string{"7:00", "8:00"})
	require.NoError(t, err)

	slots, err = slots.Remove(Monday, "Morning", "7:00")
	require.NoError(t, err)
	slots, err = slots.Remove(Monday, "Morning", "8:00")
	require.NoError(t, err)

	assert.Empty(t, slots)
}

func TestStructuredSlotsRemovePrunesLabelButKeepsDay(t *testing.T) {
	var slots StructuredSlots
	slots, err := slots.Add(Monday, "Morning", []string{"7:00"})
	require.NoError(t, err)
	slots, err = slots.Add(Monday, "Evening", []string{"18:00"})
	require.NoError(t, err)

	slots, err = slots.Remove(Monday, "Morning", "7:00")
	require.NoError(t, err)

	require.Len(t, slots, 1)
	require.Len(t, slots[0].Slots, 1)
	assert.Equal(t, "Evening", slots[0].Slots[0].Label)
}

func TestStructuredSlotsRemoveNotFoundOrdering(t *testing.T) {
	var slots StructuredSlots
	slots, err := slots.Add(Monday, "Morning", []string{"7:00"})
	require.NoError(t, err)

	_, err = slots.Remove(Tuesday, "Morning", "7:00")
	require.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Equal(t, "day not found", appErrors.FromError(err).Message)

	_, err = slots.Remove(Monday, "Evening", "7:00")
	require.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Equal(t, "slot label not found", appErrors.FromError(err).Message)

	_, err = slots.Remove(Monday, "Morning", "9:00")
	require.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Equal(t, "time not found", appErrors.FromError(err).Message)
}

func TestStructuredSlotsRemoveFailureLeavesReceiverUntouched(t *testing.T) {
	var slots StructuredSlots
	slots, err := slots.Add(Monday, "Morning", []string{"7:00"})
	require.NoError(t, err)

	_, err = slots.Remove(Monday, "Morning", "9:00")
	require.Error(t, err)

	assert.Equal(t, []string{"7:00"}, slots.TimesFor(Monday, "Morning"))
}

func TestStructuredSlotsScanValueRoundTrip(t *testing.T) {
	var slots StructuredSlots
	slots, err := slots.Add(Sunday, "Noon", []string{"12:00"})
	require.NoError(t, err)

	raw, err := slots.Value()
	require.NoError(t, err)

	var decoded StructuredSlots
	require.NoError(t, decoded.Scan(raw))
	assert.Equal(t, slots, decoded)
}

func TestStructuredSlotsScanNil(t *testing.T) {
	var decoded StructuredSlots
	require.NoError(t, decoded.Scan(nil))
	assert.Empty(t, decoded)
}

func TestParseWeekday(t *testing.T) {
	day, err := ParseWeekday(" Wednesday ")
	require.NoError(t, err)
	assert.Equal(t, Wednesday, day)

	_, err = ParseWeekday("wednesday")
	require.ErrorIs(t, err, appErrors.ErrValidation)
}
