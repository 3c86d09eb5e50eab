package model

import "time"

// User is the account that makes reservations. Account creation and
// credential management are handled by an external identity flow;
// this service only reads the profile to stamp the holder name and
// email onto new reservations.
type User struct {
	ID        uint64    // users.id
	Name      string    // users.name
	Email     string    // users.email (unique)
	Role      string    // users.role (e.g. CUSTOMER)
	IsActive  bool      // users.is_active
	CreatedAt time.Time // users.created_at
	UpdatedAt time.Time // users.updated_at
}
