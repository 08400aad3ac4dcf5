package domain

import "time"

// DriverStatus represents lifecycle states for a driver account.
type DriverStatus string

const (
	DriverStatusActive    DriverStatus = "ACTIVE"
	DriverStatusSuspended DriverStatus = "SUSPENDED"
)

// DriverExperience buckets drivers by time behind the wheel.
type DriverExperience string

const (
	ExperienceNovice      DriverExperience = "NOVICE"
	ExperienceExperienced DriverExperience = "EXPERIENCED"
	ExperienceExpert      DriverExperience = "EXPERT"
)

// Driver is the domain model for drivers who report vehicle issues.
type Driver struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Experience   DriverExperience
	Status       DriverStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
