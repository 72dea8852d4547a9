// Package lifecycle defines the status machines of status-bearing entities.
// Status fields change only through the functions in this package or the
// Parse helpers used by full-record updates.
package lifecycle

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrUnknownStatus reports a status outside the entity's enumeration.
	ErrUnknownStatus = errors.New("lifecycle: unknown status")
	// ErrInvalidTransition reports an event not defined from the current status.
	ErrInvalidTransition = errors.New("lifecycle: invalid transition")
)

type edge[S ~string] struct {
	from  S
	event string
}

// table maps (from, event) to the next status.
type table[S ~string] struct {
	entity string
	states []S
	edges  map[edge[S]]S
}

func newTable[S ~string](entity string, states ...S) *table[S] {
	return &table[S]{entity: entity, states: states, edges: make(map[edge[S]]S)}
}

func (t *table[S]) allow(from S, event string, to S) *table[S] {
	t.edges[edge[S]{from: from, event: event}] = to
	return t
}

// allowFromAll registers event from every state.
func (t *table[S]) allowFromAll(event string, to S) *table[S] {
	for _, s := range t.states {
		t.allow(s, event, to)
	}
	return t
}

func (t *table[S]) valid(s S) bool {
	return slices.Contains(t.states, s)
}

func (t *table[S]) parse(value string) (S, error) {
	s := S(value)
	if !t.valid(s) {
		return "", fmt.Errorf("%w: %s %q", ErrUnknownStatus, t.entity, value)
	}
	return s, nil
}

func (t *table[S]) next(from S, event string) (S, error) {
	if !t.valid(from) {
		return "", fmt.Errorf("%w: %s %q", ErrUnknownStatus, t.entity, from)
	}
	to, ok := t.edges[edge[S]{from: from, event: event}]
	if !ok {
		return "", fmt.Errorf("%w: %s %s from %s", ErrInvalidTransition, t.entity, event, from)
	}
	return to, nil
}
