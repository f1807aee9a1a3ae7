package locator

import (
	"errors"
	"strings"

	"sicksense-cli/model"
)

var (
	ErrLoading         = errors.New("locations are still loading")
	ErrEmptyCatalog    = errors.New("no locations available")
	ErrUnknownBuilding = errors.New("building not found")
	ErrUnknownRoom     = errors.New("room not found")
	ErrUnknownSeat     = errors.New("seat not found in this room")
	ErrStaleSelection  = errors.New("selected building or room is no longer in the catalog")
)

// Selection is the caller-owned result of the picker. SeatID is set only when
// SeatNumber names a real seat of the selected room.
type Selection struct {
	Building   string `json:"building"`
	Room       string `json:"room"`
	SeatNumber string `json:"seatNumber"`
	SeatID     string `json:"seatId"`
}

// Valid reports whether the selection resolved to a real seat. SeatNumber on
// its own proves nothing.
func (s Selection) Valid() bool {
	return s.SeatID != ""
}

func (s Selection) ReportLocation() model.ReportLocation {
	return model.ReportLocation{
		Building:   s.Building,
		Room:       s.Room,
		SeatNumber: s.SeatNumber,
		SeatID:     s.SeatID,
	}
}

type Stage int

const (
	StageBuilding Stage = iota
	StageRoom
	StageSeat
)

func (s Stage) String() string {
	switch s {
	case StageBuilding:
		return "building"
	case StageRoom:
		return "room"
	case StageSeat:
		return "seat"
	default:
		return "unknown"
	}
}

// Props are the inputs a caller hands to the selector.
type Props struct {
	Catalog   *Catalog
	Loading   bool
	Selection Selection
	OnChange  func(Selection)
}

// Selector drives the building, room and seat stages. It never keeps the
// selections it computes: every transition hands the next value to OnChange
// and returns it, and the caller feeds the value of record back through
// SetSelection.
type Selector struct {
	catalog   *Catalog
	loading   bool
	selection Selection
	onChange  func(Selection)
	stage     Stage
}

func New(props Props) *Selector {
	return &Selector{
		catalog:   props.Catalog,
		loading:   props.Loading,
		selection: props.Selection,
		onChange:  props.OnChange,
		stage:     StageBuilding,
	}
}

func (s *Selector) SetCatalog(c *Catalog) {
	s.catalog = c
}

func (s *Selector) SetLoading(loading bool) {
	s.loading = loading
}

func (s *Selector) SetSelection(sel Selection) {
	s.selection = sel
}

func (s *Selector) SetOnChange(fn func(Selection)) {
	s.onChange = fn
}

func (s *Selector) Stage() Stage {
	return s.stage
}

func (s *Selector) Selection() Selection {
	return s.selection
}

func (s *Selector) Catalog() *Catalog {
	return s.catalog
}

// PickBuilding selects a building and clears everything below it.
func (s *Selector) PickBuilding(name string) (Selection, error) {
	if err := s.ready(); err != nil {
		return s.selection, err
	}
	if _, ok := s.catalog.Building(name); !ok {
		return s.selection, ErrUnknownBuilding
	}
	next := Selection{Building: name}
	s.stage = StageRoom
	return s.emit(next), nil
}

// PickRoom selects a room of the current building and clears the seat.
func (s *Selector) PickRoom(name string) (Selection, error) {
	if err := s.ready(); err != nil {
		return s.selection, err
	}
	if _, ok := s.catalog.Building(s.selection.Building); !ok {
		return s.selection, ErrStaleSelection
	}
	if _, ok := s.catalog.Room(s.selection.Building, name); !ok {
		return s.selection, ErrUnknownRoom
	}
	next := s.selection
	next.Room = name
	next.SeatNumber = ""
	next.SeatID = ""
	s.stage = StageSeat
	return s.emit(next), nil
}

// EnterSeat applies free-text seat input. The label is always reported back
// uppercased; SeatID is cleared when no seat of the active room matches.
func (s *Selector) EnterSeat(label string) (Selection, error) {
	if err := s.ready(); err != nil {
		return s.selection, err
	}
	if _, ok := s.catalog.Room(s.selection.Building, s.selection.Room); !ok {
		return s.selection, ErrStaleSelection
	}
	next := s.selection
	next.SeatNumber = strings.ToUpper(label)
	next.SeatID = ""
	if seat, ok := s.catalog.Seat(s.selection.Building, s.selection.Room, label); ok {
		next.SeatID = seat.ID
	}
	return s.emit(next), nil
}

// TapSeat selects a seat button of the active room. The seat's own label is
// used verbatim.
func (s *Selector) TapSeat(number string) (Selection, error) {
	if err := s.ready(); err != nil {
		return s.selection, err
	}
	room, ok := s.catalog.Room(s.selection.Building, s.selection.Room)
	if !ok {
		return s.selection, ErrStaleSelection
	}
	for _, seat := range room.Seats {
		if seat.Number == number {
			next := s.selection
			next.SeatNumber = seat.Number
			next.SeatID = seat.ID
			return s.emit(next), nil
		}
	}
	return s.selection, ErrUnknownSeat
}

// ChangeBuilding returns to the building stage without touching the selection.
func (s *Selector) ChangeBuilding() error {
	if err := s.ready(); err != nil {
		return err
	}
	s.stage = StageBuilding
	return nil
}

// ChangeRoom returns to the room stage without touching the selection.
func (s *Selector) ChangeRoom() error {
	if err := s.ready(); err != nil {
		return err
	}
	s.stage = StageRoom
	return nil
}

// Back moves one stage up. It reports false when already at the first stage
// or while no transition is allowed.
func (s *Selector) Back() bool {
	if s.ready() != nil {
		return false
	}
	switch s.stage {
	case StageSeat:
		s.stage = StageRoom
		return true
	case StageRoom:
		s.stage = StageBuilding
		return true
	default:
		return false
	}
}

func (s *Selector) ready() error {
	if s.loading {
		return ErrLoading
	}
	if s.catalog.Empty() {
		return ErrEmptyCatalog
	}
	return nil
}

func (s *Selector) emit(next Selection) Selection {
	if s.onChange != nil {
		s.onChange(next)
	}
	return next
}

// Resolve runs a fresh selector through all three stages using free-text seat
// entry. The returned selection may be invalid (empty SeatID) without an error.
func Resolve(c *Catalog, building string, room string, seat string) (Selection, error) {
	var current Selection
	sel := New(Props{
		Catalog:  c,
		OnChange: func(next Selection) { current = next },
	})
	steps := []func() error{
		func() error { _, err := sel.PickBuilding(building); return err },
		func() error { _, err := sel.PickRoom(room); return err },
		func() error { _, err := sel.EnterSeat(seat); return err },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return current, err
		}
		sel.SetSelection(current)
	}
	return current, nil
}
