// Package domain holds the sighting event model. An event groups reports
// that describe what is likely the same animal encounter.
package domain

import (
	"errors"
	"time"
)

var ErrEventNotFound = errors.New("event not found")

// Event is a cluster of related reports. The representative report is the
// one that opened the cluster; the center is its location.
type Event struct {
	ID                     string
	RepresentativeReportID string
	CenterLatitude         float64
	CenterLongitude        float64
	StaffID                *string
	CreatedAt              time.Time
	UpdatedAt              time.Time
	DeletedAt              *time.Time
}
