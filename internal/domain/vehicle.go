package domain

import "time"

// Vehicle describes a fleet vehicle that issues are reported against.
type Vehicle struct {
	ID          string
	FleetNumber string
	Make        string
	Model       string
	Year        int
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
