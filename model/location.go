package model

// Location is one building of the school catalog as served by /resources/locations.
type Location struct {
	Building string `json:"building"`
	Rooms    []Room `json:"rooms"`
}

type Room struct {
	Name  string `json:"name"`
	Seats []Seat `json:"seats"`
}

// Seat is a physical seat. Number is the label printed on the desk; ID is the
// backend's stable identifier.
type Seat struct {
	Number string `json:"number"`
	ID     string `json:"id"`
}
