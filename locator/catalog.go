// Package locator narrows a seat choice from building to room to seat and
// keeps the resulting Selection consistent with the school catalog.
package locator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"sicksense-cli/model"
)

// Catalog is an immutable, indexed view over the school's locations.
// Display order follows the input; lookups go through maps.
type Catalog struct {
	buildings []model.Location
	index     map[string]*buildingIndex
}

type buildingIndex struct {
	location model.Location
	rooms    map[string]*roomIndex
}

type roomIndex struct {
	room  model.Room
	seats map[string]model.Seat
}

// NewCatalog indexes locations. When names repeat the first occurrence wins,
// matching a front-to-back scan of the raw list.
func NewCatalog(locations []model.Location) *Catalog {
	c := &Catalog{
		buildings: make([]model.Location, 0, len(locations)),
		index:     make(map[string]*buildingIndex, len(locations)),
	}
	for _, loc := range locations {
		loc = cloneLocation(loc)
		c.buildings = append(c.buildings, loc)
		if _, exists := c.index[loc.Building]; exists {
			continue
		}
		bi := &buildingIndex{location: loc, rooms: make(map[string]*roomIndex, len(loc.Rooms))}
		for _, room := range loc.Rooms {
			if _, exists := bi.rooms[room.Name]; exists {
				continue
			}
			ri := &roomIndex{room: room, seats: make(map[string]model.Seat, len(room.Seats))}
			for _, seat := range room.Seats {
				key := seatKey(seat.Number)
				if _, exists := ri.seats[key]; exists {
					continue
				}
				ri.seats[key] = seat
			}
			bi.rooms[room.Name] = ri
		}
		c.index[loc.Building] = bi
	}
	return c
}

// Buildings returns the catalog in its original order.
func (c *Catalog) Buildings() []model.Location {
	if c == nil {
		return nil
	}
	return c.buildings
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.buildings)
}

func (c *Catalog) Empty() bool {
	return c.Len() == 0
}

func (c *Catalog) Building(name string) (model.Location, bool) {
	if c == nil {
		return model.Location{}, false
	}
	bi, ok := c.index[name]
	if !ok {
		return model.Location{}, false
	}
	return bi.location, true
}

func (c *Catalog) Room(building string, room string) (model.Room, bool) {
	ri, ok := c.room(building, room)
	if !ok {
		return model.Room{}, false
	}
	return ri.room, true
}

// Seat looks up a seat by its label, ignoring case.
func (c *Catalog) Seat(building string, room string, label string) (model.Seat, bool) {
	ri, ok := c.room(building, room)
	if !ok {
		return model.Seat{}, false
	}
	seat, ok := ri.seats[seatKey(label)]
	return seat, ok
}

func (c *Catalog) room(building string, room string) (*roomIndex, bool) {
	if c == nil {
		return nil, false
	}
	bi, ok := c.index[building]
	if !ok {
		return nil, false
	}
	ri, ok := bi.rooms[room]
	return ri, ok
}

// Validate reports data problems in the catalog. The catalog stays usable
// either way; callers decide whether to log or reject.
func (c *Catalog) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	buildings := map[string]bool{}
	seatIDs := map[string]string{}
	for _, loc := range c.buildings {
		if strings.TrimSpace(loc.Building) == "" {
			errs = append(errs, errors.New("building with empty name"))
		}
		if buildings[loc.Building] {
			errs = append(errs, fmt.Errorf("duplicate building %q", loc.Building))
			continue
		}
		buildings[loc.Building] = true

		rooms := map[string]bool{}
		for _, room := range loc.Rooms {
			where := loc.Building + "/" + room.Name
			if rooms[room.Name] {
				errs = append(errs, fmt.Errorf("duplicate room %q", where))
				continue
			}
			rooms[room.Name] = true

			labels := map[string]bool{}
			for _, seat := range room.Seats {
				key := seatKey(seat.Number)
				if labels[key] {
					errs = append(errs, fmt.Errorf("duplicate seat %q in %s", seat.Number, where))
				}
				labels[key] = true

				if seat.ID == "" {
					errs = append(errs, fmt.Errorf("seat %q in %s has no id", seat.Number, where))
					continue
				}
				if prev, ok := seatIDs[seat.ID]; ok {
					errs = append(errs, fmt.Errorf("seat id %s used by %s and %s/%s", seat.ID, prev, where, seat.Number))
				} else {
					seatIDs[seat.ID] = where + "/" + seat.Number
				}
				if _, err := uuid.Parse(seat.ID); err != nil {
					errs = append(errs, fmt.Errorf("seat %q in %s: id %q is not a UUID", seat.Number, where, seat.ID))
				}
			}
		}
	}
	return errors.Join(errs...)
}

func seatKey(label string) string {
	return strings.ToUpper(label)
}

func cloneLocation(loc model.Location) model.Location {
	rooms := make([]model.Room, len(loc.Rooms))
	for i, room := range loc.Rooms {
		rooms[i] = model.Room{
			Name:  room.Name,
			Seats: append([]model.Seat(nil), room.Seats...),
		}
	}
	loc.Rooms = rooms
	return loc
}
