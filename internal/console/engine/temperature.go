package engine

import "fmt"

// contribution is one labeled score component. Apply returns the points to
// add (may be negative) and the reason string, or ok=false when the
// component does not fire for this input.
type contribution struct {
	apply func(stage StageResult, rollup CommsRollup, t Thresholds) (int, string, bool)
}

// contributions is the ordered list of score components. Order matters: the
// reasons list mirrors it, and that ordering is part of the explainability
// contract.
var contributions = []contribution{
	// Stage base score.
	{apply: func(stage StageResult, _ CommsRollup, t Thresholds) (int, string, bool) {
		base, ok := t.StageBaseScores[stage.Stage]
		if !ok || base == 0 {
			return 0, "", false
		}
		return base, fmt.Sprintf("stage %s: +%d", stage.Stage, base), true
	}},
	// Contact recency bonus / staleness penalty, keyed off days since the
	// customer last wrote. Never-contacted leads carry no recency signal.
	{apply: func(_ StageResult, rollup CommsRollup, t Thresholds) (int, string, bool) {
		if rollup.DaysSinceCustomerContact == nil {
			return 0, "", false
		}
		days := *rollup.DaysSinceCustomerContact
		switch {
		case t.RecentContactDays > 0 && t.RecentContactBonus > 0 && days <= t.RecentContactDays:
			return t.RecentContactBonus,
				fmt.Sprintf("customer contact within last %d days: +%d", t.RecentContactDays, t.RecentContactBonus), true
		case t.StaleContactDays > 0 && t.StaleContactPenalty > 0 && days >= t.StaleContactDays:
			return -t.StaleContactPenalty,
				fmt.Sprintf("no customer contact for %d days: -%d", days, t.StaleContactPenalty), true
		}
		return 0, "", false
	}},
	// Unread customer messages demand attention.
	{apply: func(_ StageResult, rollup CommsRollup, t Thresholds) (int, string, bool) {
		if !rollup.HasUnread || t.UnreadBonus == 0 {
			return 0, "", false
		}
		return t.UnreadBonus, fmt.Sprintf("unread messages waiting: +%d", t.UnreadBonus), true
	}},
	// Conversations without an owner tend to go cold.
	{apply: func(_ StageResult, rollup CommsRollup, t Thresholds) (int, string, bool) {
		if rollup.ThreadCount == 0 || rollup.IsAssigned || t.UnassignedPenalty == 0 {
			return 0, "", false
		}
		return -t.UnassignedPenalty, fmt.Sprintf("no assignee on conversations: -%d", t.UnassignedPenalty), true
	}},
}

// ComputeTemperature builds the urgency score additively from the labeled
// contributions above. Each component that fires appends one reason in
// evaluation order; the final score is clamped at zero and bucketed using
// the configured boundaries.
func ComputeTemperature(stage StageResult, rollup CommsRollup, thresholds Thresholds) Temperature {
	score := 0
	var reasons []string
	for _, c := range contributions {
		points, reason, ok := c.apply(stage, rollup, thresholds)
		if !ok {
			continue
		}
		score += points
		reasons = append(reasons, reason)
	}
	if score < 0 {
		score = 0
	}

	bucket := BucketCold
	switch {
	case score >= thresholds.HotAt:
		bucket = BucketHot
	case score >= thresholds.WarmAt:
		bucket = BucketWarm
	}

	return Temperature{Score: score, Bucket: bucket, Reasons: reasons}
}
