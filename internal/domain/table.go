package domain

// Table represents a bookable numbered table of the venue
type Table struct {
	ID     int64
	Number int

	// IsAvailable is a coarse usability flag: false while the table is held by a
	// confirmed reservation or taken out of service. It does not describe time slots.
	IsAvailable bool
}

// TableLayout is the on-screen geometry of a table on the floor plan
type TableLayout struct {
	Number int
	X      int
	Y      int
	Width  int
	Height int
}
