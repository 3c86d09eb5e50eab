package model

// Schedule represents one showtime of a movie in one screen. The
// same movie may have many schedules across screens and times.
//
// Fields:
//  ID       - primary key identifier.
//  MovieID  - movie being shown.
//  ScreenID - screen the show takes place in.
//  StartsAt - DB timestamp when the show begins ("2006-01-02 15:04:05" UTC).
type Schedule struct {
	ID       uint64 // schedules.id
	MovieID  uint64 // schedules.movie_id
	ScreenID uint64 // schedules.screen_id
	StartsAt string // schedules.starts_at
}
