package model

import "time"

// Reservation records a booking of one sheet for one schedule on one
// calendar date. Rows are immutable after creation and only removed
// as a cascade of their schedule or movie being deleted.
//
// The reservations table carries
//
//	UNIQUE KEY uniq_schedule_sheet_date (schedule_id, sheet_id, date)
//
// which is the source of truth for the no-double-booking invariant;
// the application-level existence check is a fast path only.
//
// Fields:
//  ID         - primary key identifier.
//  ScheduleID - schedule (showtime) being booked.
//  SheetID    - seat being booked.
//  Date       - calendar date of the visit ("2006-01-02").
//  Name       - holder name, copied from the booking user's profile.
//  Email      - holder email, copied from the booking user's profile.
//  UserID     - user who made the booking.
//  CreatedAt  - creation timestamp.
type Reservation struct {
	ID         uint64    // reservations.id
	ScheduleID uint64    // reservations.schedule_id
	SheetID    uint64    // reservations.sheet_id
	Date       string    // reservations.date (DATE column)
	Name       string    // reservations.name
	Email      string    // reservations.email
	UserID     uint64    // reservations.user_id
	CreatedAt  time.Time // reservations.created_at
}
