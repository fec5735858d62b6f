package enums

import "fmt"

// Feature names an optional product module that can be enabled per user.
type Feature string

const (
	FeatureCalendar   Feature = "calendar"
	FeatureAcceptance Feature = "acceptance"
	FeatureClients    Feature = "clients"
)

var validFeatures = []Feature{
	FeatureCalendar,
	FeatureAcceptance,
	FeatureClients,
}

// String implements fmt.Stringer.
func (f Feature) String() string {
	return string(f)
}

// IsValid reports whether the feature is known.
func (f Feature) IsValid() bool {
	for _, candidate := range validFeatures {
		if candidate == f {
			return true
		}
	}
	return false
}

// Features returns every known feature in declaration order.
func Features() []Feature {
	out := make([]Feature, len(validFeatures))
	copy(out, validFeatures)
	return out
}

// ParseFeature converts raw input into a Feature.
func ParseFeature(value string) (Feature, error) {
	for _, candidate := range validFeatures {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid feature %q", value)
}
