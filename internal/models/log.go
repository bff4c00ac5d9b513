package models

import "time"

// Event is the kind of activity recorded in a Log.
type Event string

const (
	EventSignIn         Event = "sign-in"
	EventChangePassword Event = "change-password"
)

// Log is one activity record of a user, stamped with simulated time.
type Log struct {
	ID      string
	UserID  string
	Event   Event
	Success bool
	Date    time.Time
}
