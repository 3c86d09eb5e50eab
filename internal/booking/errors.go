package booking

import "errors"

// ErrSheetMismatch is returned when the requested sheet belongs to a
// different screen than the schedule. The availability endpoint only
// offers sheets of the matching screen, but the create path cannot
// trust that and checks again.
var ErrSheetMismatch = errors.New("sheet does not belong to the schedule's screen")
