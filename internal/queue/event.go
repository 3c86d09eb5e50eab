// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationCreatedEvent is published when a reservation passes the
// admission check and is persisted. It carries enough information for
// downstream consumers to log or notify without querying the primary
// database.
type ReservationCreatedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
	ScheduleID    uint64 `json:"schedule_id"`
	SheetID       uint64 `json:"sheet_id"`
	MovieName     string `json:"movie_name"`
	RowLabel      string `json:"row_label"`
	SheetNumber   uint32 `json:"sheet_number"`
	Date          string `json:"date"`
	HolderName    string `json:"holder_name"`
	CreatedAt     string `json:"created_at"`
}
