package repository // repository defines data access for sheets

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cinebook/movie-reservation/internal/model"
)

// SheetRepo provides methods to work with sheets in the database.
// Sheets are fixed per screen; the layout is managed out of band.
type SheetRepo struct {
	db *sql.DB
}

// NewSheetRepo constructs a SheetRepo with the given DB handle.
func NewSheetRepo(db *sql.DB) *SheetRepo {
	return &SheetRepo{db: db}
}

// GetByID retrieves a sheet by its ID. It returns ErrSheetNotFound
// when there is no matching row.
func (r *SheetRepo) GetByID(ctx context.Context, id uint64) (*model.Sheet, error) {
	const q = `SELECT id, screen_id, row_label, sheet_number FROM sheets WHERE id = ?`
	var s model.Sheet
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.ScreenID, &s.RowLabel, &s.SheetNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSheetNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByScreen retrieves all sheets of a screen ordered by row_label
// then sheet_number. The result is the exact set of sheets bookable
// for any schedule placed in that screen.
func (r *SheetRepo) ListByScreen(ctx context.Context, screenID uint64) ([]model.Sheet, error) {
	const q = `SELECT id, screen_id, row_label, sheet_number
	           FROM sheets
	           WHERE screen_id = ?
	           ORDER BY row_label, sheet_number`
	rows, err := r.db.QueryContext(ctx, q, screenID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Sheet
	for rows.Next() {
		var s model.Sheet
		if err := rows.Scan(&s.ID, &s.ScreenID, &s.RowLabel, &s.SheetNumber); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
