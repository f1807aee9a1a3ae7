package locator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sicksense-cli/model"
)

func TestCatalog_Lookups(t *testing.T) {
	c := testCatalog()

	assert.Equal(t, 2, c.Len())
	assert.False(t, c.Empty())

	b, ok := c.Building("Science Building")
	require.True(t, ok)
	assert.Len(t, b.Rooms, 1)

	_, ok = c.Building("science building")
	assert.False(t, ok, "building names are matched exactly")

	r, ok := c.Room("Main Building", "102")
	require.True(t, ok)
	assert.Equal(t, "B1", r.Seats[0].Number)

	s, ok := c.Seat("Main Building", "101", "a2")
	require.True(t, ok)
	assert.Equal(t, "c5b1f8e9-4aee-4b2f-8d6a-123456789abc", s.ID)

	_, ok = c.Seat("Main Building", "102", "A2")
	assert.False(t, ok)
}

func TestCatalog_FirstOccurrenceWins(t *testing.T) {
	c := NewCatalog([]model.Location{
		{Building: "Main", Rooms: []model.Room{{Name: "1", Seats: []model.Seat{
			{Number: "a1", ID: "first"},
			{Number: "A1", ID: "second"},
		}}}},
		{Building: "Main", Rooms: []model.Room{{Name: "2"}}},
	})

	seat, ok := c.Seat("Main", "1", "A1")
	require.True(t, ok)
	assert.Equal(t, "first", seat.ID)

	_, ok = c.Room("Main", "2")
	assert.False(t, ok)
	assert.Len(t, c.Buildings(), 2, "display order keeps every entry")
}

func TestCatalog_IsolatedFromInput(t *testing.T) {
	input := []model.Location{{Building: "Main", Rooms: []model.Room{{Name: "1", Seats: []model.Seat{{Number: "A1", ID: "u1"}}}}}}
	c := NewCatalog(input)

	input[0].Rooms[0].Seats[0].ID = "mutated"

	seat, ok := c.Seat("Main", "1", "A1")
	require.True(t, ok)
	assert.Equal(t, "u1", seat.ID)
	assert.Equal(t, "u1", c.Buildings()[0].Rooms[0].Seats[0].ID)
}

func TestCatalog_NilIsEmpty(t *testing.T) {
	var c *Catalog
	assert.True(t, c.Empty())
	assert.Nil(t, c.Buildings())
	_, ok := c.Seat("a", "b", "c")
	assert.False(t, ok)
	assert.NoError(t, c.Validate())
}

func TestCatalog_Validate(t *testing.T) {
	assert.NoError(t, testCatalog().Validate())

	c := NewCatalog([]model.Location{
		{Building: "Main", Rooms: []model.Room{
			{Name: "101", Seats: []model.Seat{
				{Number: "A1", ID: "67fec0af-ffa7-4532-a580-b6ead9c1f193"},
				{Number: "a1", ID: "c5b1f8e9-4aee-4b2f-8d6a-123456789abc"},
				{Number: "A3", ID: ""},
				{Number: "A4", ID: "f1g2h3i4-5678-90ab-cdef-556677889900"},
			}},
			{Name: "101"},
		}},
		{Building: "Main"},
		{Building: "Annex", Rooms: []model.Room{
			{Name: "1", Seats: []model.Seat{{Number: "B1", ID: "67fec0af-ffa7-4532-a580-b6ead9c1f193"}}},
		}},
	})

	err := c.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, `duplicate seat "a1" in Main/101`)
	assert.Contains(t, msg, `seat "A3" in Main/101 has no id`)
	assert.Contains(t, msg, `is not a UUID`)
	assert.Contains(t, msg, `duplicate room "Main/101"`)
	assert.Contains(t, msg, `duplicate building "Main"`)
	assert.Contains(t, msg, "used by Main/101/A1 and Annex/1/B1")
}
