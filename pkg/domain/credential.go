package domain

// APICredential is the opaque secret used to authenticate against the
// analysis service. Its String and GoString methods never print the value, so
// formatting a credential by accident does not leak it; call Reveal where the
// raw secret is really needed.
type APICredential string

// Reveal returns the raw secret.
func (c APICredential) Reveal() string { return string(c) }

func (c APICredential) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer for %#v.
func (c APICredential) GoString() string { return "domain.APICredential([REDACTED])" }
