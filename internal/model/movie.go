package model

import "time"

// Movie represents a film that can be scheduled for screenings.
// Movies are managed by administrative flows outside this service;
// the reservation workflow only reads them. Deleting a movie
// cascades to its schedules at the database level.
//
// Fields:
//  ID          - primary key identifier.
//  Name        - unique, required title of the movie.
//  Year        - release year, required.
//  Description - required synopsis text.
//  ImageURL    - required poster image URL.
//  IsShowing   - whether the movie is currently in theaters.
//  CreatedAt   - creation timestamp.
//  UpdatedAt   - last update timestamp.
type Movie struct {
	ID          uint64    // movies.id
	Name        string    // movies.name (unique)
	Year        int       // movies.year
	Description string    // movies.description
	ImageURL    string    // movies.image_url
	IsShowing   bool      // movies.is_showing
	CreatedAt   time.Time // movies.created_at
	UpdatedAt   time.Time // movies.updated_at
}
