package models

import "time"

// User is a generated account. ID is assigned by the store on insert and is
// opaque to callers (UUID, integer rowid or ObjectID hex, depending on the
// backend).
type User struct {
	ID        string
	Name      string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
