// Package booking implements the reservation admission check: given a
// candidate (schedule, sheet, date) triple, decide admit or reject and
// persist admitted reservations exactly once. The one invariant it
// protects is that at most one reservation may exist per triple.
//
// The service performs a procedural availability check before
// inserting, but that check is only a fast path for a friendly
// rejection. Two racing CreateReservation calls can both pass it; the
// store's unique index over (schedule_id, sheet_id, date) is what
// actually decides the race, and the loser's duplicate-key error comes
// back as the same ErrSeatTaken the fast path produces.
package booking

import (
	"context"

	"github.com/cinebook/movie-reservation/internal/model"
	"github.com/cinebook/movie-reservation/internal/repository"
)

// ScheduleStore resolves schedules by primary key.
type ScheduleStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Schedule, error)
}

// SheetStore resolves sheets by primary key.
type SheetStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Sheet, error)
}

// ReservationStore queries and inserts reservation rows. Create must
// return repository.ErrSeatTaken when the insert violates the unique
// index on (schedule_id, sheet_id, date).
type ReservationStore interface {
	Exists(ctx context.Context, scheduleID, sheetID uint64, date string) (bool, error)
	Create(ctx context.Context, res *model.Reservation) error
}

// Service is the admission check. It holds no state of its own; the
// booked-or-free state of a seat is entirely encoded in the existence
// of a matching reservation row.
type Service struct {
	schedules    ScheduleStore
	sheets       SheetStore
	reservations ReservationStore
}

// New constructs a Service. All dependencies must be non-nil.
func New(schedules ScheduleStore, sheets SheetStore, reservations ReservationStore) *Service {
	if schedules == nil || sheets == nil || reservations == nil {
		panic("nil store passed to booking.New")
	}
	return &Service{schedules: schedules, sheets: sheets, reservations: reservations}
}

// CheckAvailability reports whether the (schedule, sheet, date) triple
// is still free. It is read-only and assumes the caller has already
// resolved the schedule and sheet; a failed lookup is the caller's
// error to report. The date must be a calendar date in 2006-01-02
// form.
func (s *Service) CheckAvailability(ctx context.Context, scheduleID, sheetID uint64, date string) (bool, error) {
	if err := validateDate(date); err != nil {
		return false, &ValidationError{Fields: []FieldError{{Field: "date", Message: err.Error()}}}
	}
	taken, err := s.reservations.Exists(ctx, scheduleID, sheetID, date)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

// CreateParams carries the inputs for CreateReservation. Name and
// Email are the holder's details taken from the authenticated user's
// profile by the caller, never from untrusted input. UserID is passed
// explicitly; the service reads no ambient request state.
type CreateParams struct {
	UserID     uint64
	ScheduleID uint64
	SheetID    uint64
	Date       string
	Name       string
	Email      string
}

// CreateReservation admits or rejects a candidate reservation.
//
// On admission exactly one row is inserted and returned; on any
// rejection nothing is written. Rejections are:
//   - *ValidationError when required fields are missing or malformed,
//   - repository.ErrScheduleNotFound / ErrSheetNotFound when a
//     reference does not resolve,
//   - ErrSheetMismatch when the sheet sits in a different screen than
//     the schedule,
//   - repository.ErrSeatTaken when the triple is already booked,
//     whether detected by the pre-check or by the unique index during
//     the insert.
func (s *Service) CreateReservation(ctx context.Context, p CreateParams) (*model.Reservation, error) {
	if ve := p.validate(); ve != nil {
		return nil, ve
	}

	schedule, err := s.schedules.GetByID(ctx, p.ScheduleID)
	if err != nil {
		return nil, err
	}
	sheet, err := s.sheets.GetByID(ctx, p.SheetID)
	if err != nil {
		return nil, err
	}
	if sheet.ScreenID != schedule.ScreenID {
		return nil, ErrSheetMismatch
	}

	// Fast-path re-check. Time has passed since the caller's display
	// step, so the earlier answer may be stale; this bounds the race
	// window but the unique index below is what closes it.
	taken, err := s.reservations.Exists(ctx, p.ScheduleID, p.SheetID, p.Date)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, repository.ErrSeatTaken
	}

	res := &model.Reservation{
		ScheduleID: p.ScheduleID,
		SheetID:    p.SheetID,
		Date:       p.Date,
		Name:       p.Name,
		Email:      p.Email,
		UserID:     p.UserID,
	}
	if err := s.reservations.Create(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}
