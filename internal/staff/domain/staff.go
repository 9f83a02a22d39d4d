package domain

import (
	"errors"
	"time"
)

var ErrStaffNotFound = errors.New("staff not found")

// Staff is a municipal responder who handles sightings.
type Staff struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Location is a point a staff member covers from, such as a branch office.
// A staff member can have several.
type Location struct {
	ID        string
	StaffID   string
	Label     string
	Latitude  float64
	Longitude float64
	CreatedAt time.Time
}
