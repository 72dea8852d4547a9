package shared

import "context"

type provenanceContextKey struct{}

// Provenance carries best-effort request origin details.
type Provenance struct {
	IP        string
	UserAgent string
}

// ContextWithProvenance stores request provenance in context.
func ContextWithProvenance(ctx context.Context, p Provenance) context.Context {
	return context.WithValue(ctx, provenanceContextKey{}, p)
}

// ProvenanceFromContext extracts the provenance, zero value when absent.
func ProvenanceFromContext(ctx context.Context) Provenance {
	p, _ := ctx.Value(provenanceContextKey{}).(Provenance)
	return p
}
