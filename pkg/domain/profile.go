package domain

import (
	"strings"
	"time"
)

// HealthProfile is the user's free-text allergy and chronic condition record.
// Only one profile is current at any time; the pipeline reads a snapshot of it
// when a scan starts.
type HealthProfile struct {
	// Allergies lists known allergies, e.g. "penicillin, latex".
	Allergies string `json:"allergies"`
	// Conditions lists chronic conditions, e.g. "diabetes".
	Conditions string `json:"conditions"`
	// UpdatedAt is when the profile was last saved; zero for ad-hoc snapshots.
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// Normalized returns a copy with surrounding whitespace trimmed from both fields.
func (p HealthProfile) Normalized() HealthProfile {
	p.Allergies = strings.TrimSpace(p.Allergies)
	p.Conditions = strings.TrimSpace(p.Conditions)

	return p
}
