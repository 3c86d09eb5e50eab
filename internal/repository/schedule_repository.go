package repository // repository defines data access for schedules

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cinebook/movie-reservation/internal/model"
)

// ScheduleRepo manages persistence for schedules. A schedule ties a
// movie to a screen at a particular start time; the screen_id is what
// scopes the set of bookable sheets.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo constructs a ScheduleRepo with the given DB handle.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

// GetByID retrieves a schedule by its ID. It returns
// ErrScheduleNotFound when there is no matching row.
func (r *ScheduleRepo) GetByID(ctx context.Context, id uint64) (*model.Schedule, error) {
	const q = `SELECT id, movie_id, screen_id, starts_at FROM schedules WHERE id = ?`
	var s model.Schedule
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.MovieID, &s.ScreenID, &s.StartsAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &s, nil
}
