// Package geofence decides whether a reported location falls inside the
// service area configured by the administrators.
package geofence

import "strings"

// Result is the outcome of a geofence check. Prefix carries the configured
// service-area prefix so callers can name the area in denial messages.
type Result struct {
	Allowed bool
	Prefix  string
}

// Validator checks resolved addresses against a configured address prefix.
// An empty prefix disables the fence and every location is allowed.
type Validator struct {
	prefix string
}

func New(addressPrefix string) *Validator {
	return &Validator{prefix: strings.TrimSpace(addressPrefix)}
}

// Validate reports whether the address lies inside the service area. The
// check is a plain prefix match on the address exactly as the geocoding
// layer assembled it, so the configured value is expected to be a
// prefecture or municipality prefix such as "長野県松本市".
func (v *Validator) Validate(address string) Result {
	if v.prefix == "" {
		return Result{Allowed: true}
	}
	return Result{
		Allowed: strings.HasPrefix(address, v.prefix),
		Prefix:  v.prefix,
	}
}
