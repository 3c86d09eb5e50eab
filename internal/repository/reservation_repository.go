package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/cinebook/movie-reservation/internal/model"
)

// ReservationRepo provides persistence for reservations. A
// reservation binds one sheet to one schedule on one calendar date;
// the reservations table enforces that binding with
//
//	UNIQUE KEY uniq_schedule_sheet_date (schedule_id, sheet_id, date)
//
// so two racing inserts for the same triple can never both commit.
// The Exists query below is only a fast-path check layered on top of
// that constraint.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// Exists reports whether a reservation row already exists for the
// given (schedule_id, sheet_id, date) triple. Read-only; the date is
// a calendar date string in "2006-01-02" form.
func (r *ReservationRepo) Exists(ctx context.Context, scheduleID, sheetID uint64, date string) (bool, error) {
	const q = `SELECT EXISTS(
	               SELECT 1 FROM reservations
	               WHERE schedule_id = ? AND sheet_id = ? AND date = ?
	           )`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, scheduleID, sheetID, date).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Create inserts a new reservation and populates the generated ID and
// created_at on the provided record. When the insert collides with
// the unique index on (schedule_id, sheet_id, date), meaning a
// concurrent booking won the race, the MySQL duplicate-entry error
// (1062) is mapped to ErrSeatTaken so callers handle it like any
// other conflict.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations (schedule_id, sheet_id, date, name, email, user_id)
	           VALUES (?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		res.ScheduleID, res.SheetID, res.Date, res.Name, res.Email, res.UserID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrSeatTaken
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Query back the row to populate DB-default fields.
	const sel = `SELECT id, schedule_id, sheet_id, DATE_FORMAT(date, '%Y-%m-%d'), name, email, user_id, created_at
	             FROM reservations WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, res.ID).Scan(
		&res.ID, &res.ScheduleID, &res.SheetID, &res.Date,
		&res.Name, &res.Email, &res.UserID, &res.CreatedAt,
	)
}

// CountByTriple returns the number of reservation rows matching the
// triple. With the unique index in place the answer is 0 or 1; the
// count form exists so callers can assert the no-side-effect property
// after a rejected attempt.
func (r *ReservationRepo) CountByTriple(ctx context.Context, scheduleID, sheetID uint64, date string) (int, error) {
	const q = `SELECT COUNT(*) FROM reservations WHERE schedule_id = ? AND sheet_id = ? AND date = ?`
	var n int
	err := r.db.QueryRowContext(ctx, q, scheduleID, sheetID, date).Scan(&n)
	return n, err
}

// ReservedSheetIDs returns the IDs of sheets already reserved for the
// schedule on the given date. Used by the availability endpoint to
// mark taken seats in the layout.
func (r *ReservationRepo) ReservedSheetIDs(ctx context.Context, scheduleID uint64, date string) (map[uint64]bool, error) {
	const q = `SELECT sheet_id FROM reservations WHERE schedule_id = ? AND date = ?`
	rows, err := r.db.QueryContext(ctx, q, scheduleID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	taken := make(map[uint64]bool)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		taken[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return taken, nil
}

// ReservationDetail encapsulates a reservation along with related
// movie, schedule and sheet information. It is returned by ListByUser
// for display to customers.
type ReservationDetail struct {
	ID          uint64 `json:"id"`
	ScheduleID  uint64 `json:"schedule_id"`
	SheetID     uint64 `json:"sheet_id"`
	Date        string `json:"date"`
	MovieName   string `json:"movie_name"`
	StartsAt    string `json:"starts_at"`
	ScreenID    uint64 `json:"screen_id"`
	RowLabel    string `json:"row_label"`
	SheetNumber uint32 `json:"sheet_number"`
}

// ListByUser returns all reservations for the given user along with
// movie, schedule and sheet details, ordered newest first. When no
// reservations exist, an empty slice is returned.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	const q = `SELECT r.id, r.schedule_id, r.sheet_id, DATE_FORMAT(r.date, '%Y-%m-%d'),
	                  m.name, sc.starts_at, sc.screen_id,
	                  sh.row_label, sh.sheet_number
	           FROM reservations r
	           JOIN schedules sc ON sc.id = r.schedule_id
	           JOIN movies m ON m.id = sc.movie_id
	           JOIN sheets sh ON sh.id = r.sheet_id
	           WHERE r.user_id = ?
	           ORDER BY r.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]ReservationDetail, 0)
	for rows.Next() {
		var d ReservationDetail
		if err := rows.Scan(
			&d.ID, &d.ScheduleID, &d.SheetID, &d.Date,
			&d.MovieName, &d.StartsAt, &d.ScreenID,
			&d.RowLabel, &d.SheetNumber,
		); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}
