package engine

import "time"

// ComputeCommsRollup aggregates an opportunity's email threads into contact
// statistics in a single pass. An empty thread set yields the zero rollup;
// zero-valued timestamps are treated as "no message", never as the epoch.
//
// now is supplied by the caller so that the derived days-since figure is
// reproducible; the engine never reads the wall clock.
func ComputeCommsRollup(threads []EmailThread, now time.Time) CommsRollup {
	var rollup CommsRollup
	rollup.ThreadCount = len(threads)

	var lastCustomer, lastInternal time.Time
	for _, thread := range threads {
		if thread.Unread {
			rollup.HasUnread = true
		}
		if thread.AssigneeID != nil {
			rollup.IsAssigned = true
		}
		if ts := thread.LastCustomerMessageAt; !ts.IsZero() && ts.After(lastCustomer) {
			lastCustomer = ts
		}
		if ts := thread.LastInternalMessageAt; !ts.IsZero() && ts.After(lastInternal) {
			lastInternal = ts
		}
	}

	if !lastCustomer.IsZero() {
		t := lastCustomer
		rollup.LastCustomerContactAt = &t
		days := daysBetween(lastCustomer, now)
		rollup.DaysSinceCustomerContact = &days
	}
	if !lastInternal.IsZero() {
		t := lastInternal
		rollup.LastInternalContactAt = &t
	}

	switch {
	case lastCustomer.IsZero() && lastInternal.IsZero():
		rollup.LastTouchDirection = TouchDirectionNone
	case lastInternal.After(lastCustomer):
		rollup.LastContactAt = rollup.LastInternalContactAt
		rollup.LastTouchDirection = TouchDirectionInternal
	default:
		// Ties go to the customer: an unanswered simultaneous exchange
		// still leaves the ball in our court.
		rollup.LastContactAt = rollup.LastCustomerContactAt
		rollup.LastTouchDirection = TouchDirectionCustomer
	}

	return rollup
}

// daysBetween returns the whole days elapsed from a to b, floored at zero so
// clock skew between the record store and the caller cannot produce a
// negative age.
func daysBetween(a, b time.Time) int {
	d := int(b.Sub(a).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}
