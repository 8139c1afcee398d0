package domain

// VerdictStatus is the classified outcome of a safety analysis.
type VerdictStatus string

const (
	// VerdictAllowed means the model judged the medication safe for the profile.
	VerdictAllowed VerdictStatus = "ALLOWED"
	// VerdictNotAllowed means the model judged the medication unsafe for the profile.
	VerdictNotAllowed VerdictStatus = "NOT_ALLOWED"
	// VerdictUnknown means the reply could not be classified. It is never
	// treated as allowed.
	VerdictUnknown VerdictStatus = "UNKNOWN"
)

// SafetyVerdict is the classified reply of the language model together with
// the verbatim text, so consumers can fall back to reading it themselves.
type SafetyVerdict struct {
	Status      VerdictStatus `json:"status"`
	Explanation string        `json:"explanation"`
	RawResponse string        `json:"rawResponse"`
}
