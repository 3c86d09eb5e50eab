// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers and the booking service to distinguish between different
// failure scenarios with errors.Is instead of inspecting driver
// errors directly.
package repository

import "errors"

// ErrMovieNotFound indicates that a movie lookup yielded no rows.
var ErrMovieNotFound = errors.New("movie not found")

// ErrScheduleNotFound indicates that a schedule lookup yielded no rows.
var ErrScheduleNotFound = errors.New("schedule not found")

// ErrSheetNotFound indicates that a sheet lookup yielded no rows.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrUserNotFound indicates that a user lookup yielded no rows.
var ErrUserNotFound = errors.New("user not found")

// ErrSeatTaken is returned when inserting a reservation collides with
// an existing row for the same (schedule_id, sheet_id, date) triple.
// It is produced both by the procedural existence check and by the
// unique index on the reservations table, so callers see the same
// error regardless of which guard fired first.
var ErrSeatTaken = errors.New("seat already booked")
