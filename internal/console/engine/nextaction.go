package engine

import (
	"fmt"
	"time"
)

// actionRule is one row of the recommendation table, evaluated top-down;
// the first applicable rule wins. Absent rollup data is "no signal" and
// falls through to the next rule rather than failing.
type actionRule struct {
	apply func(stage StageResult, rollup CommsRollup, temp Temperature, t Thresholds, now time.Time) (Recommendation, bool)
}

var actionRules = []actionRule{
	// Closed leads need nothing.
	{apply: func(stage StageResult, _ CommsRollup, _ Temperature, _ Thresholds, _ time.Time) (Recommendation, bool) {
		if stage.IsActive {
			return Recommendation{}, false
		}
		return Recommendation{
			Action: ActionNone,
			Reason: fmt.Sprintf("lead is closed (stage %s)", stage.Stage),
		}, true
	}},
	// Early-funnel leads have never had pricing requested; that internal
	// step is due immediately.
	{apply: func(stage StageResult, _ CommsRollup, _ Temperature, _ Thresholds, now time.Time) (Recommendation, bool) {
		if stage.Stage != StageNew && stage.Stage != StageStalled {
			return Recommendation{}, false
		}
		due := now
		return Recommendation{
			Action:        ActionRequestPricing,
			Reason:        "pricing has not been requested yet",
			FollowUpDueAt: &due,
		}, true
	}},
	// The customer wrote last and has waited past the reply threshold.
	{apply: func(_ StageResult, rollup CommsRollup, temp Temperature, t Thresholds, _ time.Time) (Recommendation, bool) {
		if t.ReplyOwedAfterDays <= 0 ||
			rollup.LastTouchDirection != TouchDirectionCustomer ||
			rollup.DaysSinceCustomerContact == nil ||
			*rollup.DaysSinceCustomerContact < t.ReplyOwedAfterDays {
			return Recommendation{}, false
		}
		reason := fmt.Sprintf("customer has waited %d days for a reply", *rollup.DaysSinceCustomerContact)
		if temp.Bucket == BucketHot {
			reason += " on a hot lead"
		}
		var due *time.Time
		if rollup.LastCustomerContactAt != nil && t.FollowUpSLAHours > 0 {
			d := rollup.LastCustomerContactAt.Add(time.Duration(t.FollowUpSLAHours) * time.Hour)
			due = &d
		}
		return Recommendation{Action: ActionFollowUp, Reason: reason, FollowUpDueAt: due}, true
	}},
}

// ComputeNextAction decides the single best next action for a lead. now is
// caller-supplied so "due immediately" stays reproducible. When no rule
// applies the lead is simply waiting on the customer.
func ComputeNextAction(stage StageResult, rollup CommsRollup, temp Temperature, thresholds Thresholds, now time.Time) Recommendation {
	for _, rule := range actionRules {
		if rec, ok := rule.apply(stage, rollup, temp, thresholds, now); ok {
			return rec
		}
	}
	return Recommendation{
		Action: ActionWait,
		Reason: "no reply owed and quote activity is current",
	}
}
