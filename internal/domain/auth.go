package domain

import "time"

// SubjectType differentiates driver vs staff tokens.
type SubjectType string

const (
	SubjectTypeDriver SubjectType = "DRIVER"
	SubjectTypeStaff  SubjectType = "STAFF"
	SubjectTypeSystem SubjectType = "SYSTEM"
)

// Token represents issued authentication tokens (JWT or opaque) metadata.
type Token struct {
	ID        string
	SubjectID string
	Subject   SubjectType
	Role      *StaffRole
	ExpiresAt time.Time
	IssuedAt  time.Time
}
