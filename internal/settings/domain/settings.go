// Package domain defines the operator-mutable system settings consumed by the bot core.
package domain

// Defaults applied when no settings row exists or individual fields are missing.
const (
	DefaultClusteringTimeMinutes  = 60
	DefaultClusteringRadiusMeters = 500
	DefaultSessionTTLHours        = 24
)

// DefaultAnimalTypes is the enabled animal-type code list used until an operator changes it.
var DefaultAnimalTypes = []string{"monkey", "deer", "wild_boar", "bear", "other"}

// Settings holds the system settings the conversation and clustering pipeline read.
// The dashboard writes new rows; the bot always reads the latest one.
type Settings struct {
	// GeofenceAddressPrefix restricts accepted locations to addresses starting
	// with this prefix. Empty disables the geofence.
	GeofenceAddressPrefix string `json:"geofenceAddressPrefix"`
	// ClusteringTimeMinutes is the temporal window for event clustering.
	ClusteringTimeMinutes int `json:"eventClusteringTimeMinutes"`
	// ClusteringRadiusMeters is the spatial threshold for event clustering.
	ClusteringRadiusMeters int `json:"eventClusteringRadiusMeters"`
	// SessionTTLHours is the sliding conversation session lifetime.
	SessionTTLHours int `json:"sessionTimeoutHours"`
	// EnabledAnimalTypes is the ordered list of selectable animal-type codes.
	EnabledAnimalTypes []string `json:"enabledAnimalTypes"`
}

// DefaultSettings returns settings with all defaults applied.
func DefaultSettings() *Settings {
	return &Settings{
		GeofenceAddressPrefix:  "",
		ClusteringTimeMinutes:  DefaultClusteringTimeMinutes,
		ClusteringRadiusMeters: DefaultClusteringRadiusMeters,
		SessionTTLHours:        DefaultSessionTTLHours,
		EnabledAnimalTypes:     append([]string(nil), DefaultAnimalTypes...),
	}
}

// Normalize fills zero-valued numeric fields and an empty animal-type list with defaults.
func (s *Settings) Normalize() {
	if s.ClusteringTimeMinutes <= 0 {
		s.ClusteringTimeMinutes = DefaultClusteringTimeMinutes
	}
	if s.ClusteringRadiusMeters <= 0 {
		s.ClusteringRadiusMeters = DefaultClusteringRadiusMeters
	}
	if s.SessionTTLHours <= 0 {
		s.SessionTTLHours = DefaultSessionTTLHours
	}
	if len(s.EnabledAnimalTypes) == 0 {
		s.EnabledAnimalTypes = append([]string(nil), DefaultAnimalTypes...)
	}
}
