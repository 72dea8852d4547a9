package lifecycle

import "time"

// ConversionStatus represents the review state of an affiliate conversion.
type ConversionStatus string

const (
	ConversionPending   ConversionStatus = "PENDING"
	ConversionConfirmed ConversionStatus = "CONFIRMED"
	ConversionRejected  ConversionStatus = "REJECTED"
	ConversionPaid      ConversionStatus = "PAID"
)

// ConversionState is the status-bearing part of a conversion.
type ConversionState struct {
	Status      ConversionStatus
	ConfirmedAt *time.Time
	PaidAt      *time.Time
}

// ConversionEvent is the tagged event type of the conversion machine.
type ConversionEvent interface {
	conversionEvent() string
}

// SetConversionStatus is an operator decision moving a conversion to To.
type SetConversionStatus struct {
	To ConversionStatus
}

func (e SetConversionStatus) conversionEvent() string { return "set:" + string(e.To) }

var conversions = func() *table[ConversionStatus] {
	t := newTable("conversion", ConversionPending, ConversionConfirmed, ConversionRejected, ConversionPaid)
	// Any status may move to any other.
	for _, to := range t.states {
		t.allowFromAll(SetConversionStatus{To: to}.conversionEvent(), to)
	}
	return t
}()

// ApplyConversion returns state after ev. Entering CONFIRMED or PAID stamps the
// matching timestamp once; timestamps are never cleared.
func ApplyConversion(state ConversionState, ev ConversionEvent, now time.Time) (ConversionState, error) {
	to, err := conversions.next(state.Status, ev.conversionEvent())
	if err != nil {
		return state, err
	}
	next := state
	next.Status = to
	switch to {
	case ConversionConfirmed:
		if next.ConfirmedAt == nil {
			next.ConfirmedAt = stamp(now)
		}
	case ConversionPaid:
		if next.PaidAt == nil {
			next.PaidAt = stamp(now)
		}
	}
	return next, nil
}

// ParseConversionStatus validates an operator supplied status.
func ParseConversionStatus(value string) (ConversionStatus, error) {
	return conversions.parse(value)
}

func stamp(now time.Time) *time.Time {
	t := now.UTC()
	return &t
}
