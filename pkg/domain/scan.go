package domain

import (
	"medscan/pkg/serrors"
	"time"

	"github.com/google/uuid"
)

// ScanID uniquely identifies a scan.
type ScanID uuid.UUID

// NewScanID returns a random ScanID.
func NewScanID() ScanID { return ScanID(uuid.New()) }

// ParseScanID parses the canonical text form of a ScanID.
func ParseScanID(s string) (ScanID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ScanID{}, serrors.Wrap(serrors.ErrBadRequest, err, "invalid scan id")
	}

	return ScanID(id), nil
}

func (id ScanID) String() string { return uuid.UUID(id).String() }

// MarshalText implements encoding.TextMarshaler.
func (id ScanID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ScanID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }

// ScanState is a state of the scan pipeline.
type ScanState string

const (
	// ScanStateIdle is the state before any scan and between scans.
	ScanStateIdle ScanState = "IDLE"
	// ScanStateAwaitingScan means a scan was requested and the decoded barcode is awaited.
	ScanStateAwaitingScan ScanState = "AWAITING_SCAN"
	// ScanStateResolving means the product lookup is in flight.
	ScanStateResolving ScanState = "RESOLVING"
	// ScanStateAnalyzing means the safety analysis is in flight.
	ScanStateAnalyzing ScanState = "ANALYZING"
	// ScanStateDone is terminal; Verdict is set.
	ScanStateDone ScanState = "DONE"
	// ScanStateFailed is terminal; Failure is set.
	ScanStateFailed ScanState = "FAILED"
)

// Terminal reports whether no further transition happens for the scan.
func (s ScanState) Terminal() bool {
	return s == ScanStateDone || s == ScanStateFailed
}

// ScanFailure describes why a scan ended in ScanStateFailed. Kind is one of
// the serrors kind names, e.g. CREDENTIAL_MISSING or TRANSPORT.
type ScanFailure struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Scan is a point-in-time view of one scan as it moves through the pipeline.
type Scan struct {
	// ID is the unique identifier of the scan.
	ID ScanID `json:"id"`
	// Seq is the pipeline sequence number; a higher Seq always belongs to a newer scan.
	Seq uint64 `json:"seq"`
	// State is the current pipeline state.
	State ScanState `json:"state"`
	// Barcode is set once a valid barcode was decoded.
	Barcode BarcodeCode `json:"barcode,omitempty"`
	// Profile is the health profile snapshot the scan was analysed against.
	Profile HealthProfile `json:"profile"`
	// Product holds the lookup result, nil when the lookup failed or found nothing.
	Product *ProductRecord `json:"product,omitempty"`
	// Verdict is set in ScanStateDone.
	Verdict *SafetyVerdict `json:"verdict,omitempty"`
	// Failure is set in ScanStateFailed.
	Failure *ScanFailure `json:"failure,omitempty"`

	StartedAt time.Time `json:"startedAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// InProgress reports whether the scan is between start and a terminal state.
func (s Scan) InProgress() bool {
	return s.State != ScanStateIdle && !s.State.Terminal()
}
