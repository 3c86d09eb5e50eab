package model

// Screen is a physical auditorium. Schedules place a movie in a
// screen and sheets belong to a screen; the pair is what scopes
// which sheets are bookable for a given schedule.
type Screen struct {
	ID   uint64 // screens.id
	Name string // screens.name
}
