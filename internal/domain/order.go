package domain

import "time"

// Order is a recorded ticket purchase attributed to a buyer email.
// Date fields are pointers because source rows frequently leave them blank;
// nil is the explicit "missing" marker the availability rules reason about.
type Order struct {
	ID         int64
	RowHash    string
	Email      string
	Quantity   int
	Event      string
	Theater    string
	EventDate  *time.Time
	SoldDate   *time.Time
	IngestedAt time.Time
}

// Prospective is the hypothetical purchase being tested against a buyer's
// history. It is never persisted.
type Prospective struct {
	Quantity  int
	Event     string
	Theater   string
	EventDate *time.Time
	SoldDate  *time.Time
}
