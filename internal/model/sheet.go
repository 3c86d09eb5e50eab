package model

// Sheet is a physical seat in a screen. A sheet is bookable for a
// schedule if and only if its ScreenID equals the schedule's
// ScreenID. RowLabel and SheetNumber identify the position.
//
// Fields:
//  ID          - primary key identifier.
//  ScreenID    - screen the seat belongs to.
//  RowLabel    - letter designating the row (A, B, ...).
//  SheetNumber - position within the row (1-based).
type Sheet struct {
	ID          uint64 // sheets.id
	ScreenID    uint64 // sheets.screen_id
	RowLabel    string // sheets.row_label
	SheetNumber uint32 // sheets.sheet_number
}
