package locator

import "sicksense-cli/model"

type Status int

const (
	StatusReady Status = iota
	StatusLoading
	StatusEmpty
	StatusBuildingNotFound
	StatusRoomNotFound
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusLoading:
		return "loading"
	case StatusEmpty:
		return "empty"
	case StatusBuildingNotFound:
		return "building not found"
	case StatusRoomNotFound:
		return "room not found"
	default:
		return "unknown"
	}
}

type StepState int

const (
	StepPending StepState = iota
	StepActive
	StepDone
)

// Step is one chip of the progress indicator.
type Step struct {
	Stage Stage
	State StepState
}

// View is everything a renderer needs for the current stage. Rooms and Seats
// are only populated when the corresponding lookup succeeds.
type View struct {
	Status    Status
	Stage     Stage
	Selection Selection
	Buildings []model.Location
	Rooms     []model.Room
	Seats     []model.Seat
	Steps     [3]Step
}

// View derives the render state from the catalog and the current selection.
func (s *Selector) View() View {
	v := View{
		Stage:     s.stage,
		Selection: s.selection,
		Steps:     s.steps(),
	}
	switch {
	case s.loading:
		v.Status = StatusLoading
		return v
	case s.catalog.Empty():
		v.Status = StatusEmpty
		return v
	}

	v.Buildings = s.catalog.Buildings()
	if s.stage == StageBuilding {
		return v
	}

	building, ok := s.catalog.Building(s.selection.Building)
	if !ok {
		v.Status = StatusBuildingNotFound
		return v
	}
	v.Rooms = building.Rooms
	if s.stage == StageRoom {
		return v
	}

	room, ok := s.catalog.Room(s.selection.Building, s.selection.Room)
	if !ok {
		v.Status = StatusRoomNotFound
		return v
	}
	v.Seats = room.Seats
	return v
}

func (s *Selector) steps() [3]Step {
	filled := [3]bool{
		s.selection.Building != "",
		s.selection.Room != "",
		s.selection.SeatNumber != "",
	}
	var steps [3]Step
	for i, stage := range []Stage{StageBuilding, StageRoom, StageSeat} {
		state := StepPending
		switch {
		case s.stage == stage:
			state = StepActive
		case filled[i]:
			state = StepDone
		}
		steps[i] = Step{Stage: stage, State: state}
	}
	return steps
}
