package engine

// terminalStatusStages maps terminal opportunity statuses straight to their
// stage. A terminal status short-circuits every other signal.
var terminalStatusStages = map[string]LeadStage{
	"Won":       StageWon,
	"Lost":      StageLost,
	"Cancelled": StageCancelled,
}

// terminalStages are stages where no further work happens on the lead.
var terminalStages = map[LeadStage]bool{
	StageWon:       true,
	StageLost:      true,
	StageCancelled: true,
}

// IsTerminalStage reports whether a stage is in the terminal set.
func IsTerminalStage(stage LeadStage) bool {
	return terminalStages[stage]
}

// stageRule is one row of the classification decision table. Rules are
// evaluated top-down and the first match wins.
type stageRule struct {
	match func(opp Opportunity, q *QuoteSnapshot, rollup CommsRollup, t Thresholds) (LeadStage, bool)
}

var stageRules = []stageRule{
	// Terminal opportunity status beats everything else.
	{match: func(opp Opportunity, _ *QuoteSnapshot, _ CommsRollup, _ Thresholds) (LeadStage, bool) {
		stage, ok := terminalStatusStages[opp.Status]
		return stage, ok
	}},
	// Quote-derived stages. A bare draft with no pricing activity carries
	// no funnel signal and falls through to the early-funnel rules.
	{match: func(_ Opportunity, q *QuoteSnapshot, _ CommsRollup, _ Thresholds) (LeadStage, bool) {
		if q == nil {
			return "", false
		}
		switch {
		case q.Status == QuoteStatusApproved:
			return StageQuoteApproved, true
		case q.Status == QuoteStatusSent:
			return StageQuoteSent, true
		case q.PricingReceived || q.PricingRequested:
			return StageQuoteRequested, true
		}
		return "", false
	}},
	// Early funnel: customer silence past the stalled threshold. A lead
	// that was never contacted has no staleness signal and stays new.
	{match: func(_ Opportunity, _ *QuoteSnapshot, rollup CommsRollup, t Thresholds) (LeadStage, bool) {
		if t.StalledAfterDays > 0 &&
			rollup.DaysSinceCustomerContact != nil &&
			*rollup.DaysSinceCustomerContact >= t.StalledAfterDays {
			return StageStalled, true
		}
		return "", false
	}},
}

// ComputeLeadStage classifies an opportunity into exactly one lead stage.
// The function is total: every input combination, including all-null,
// resolves to a stage, with StageNew as the final catch-all.
func ComputeLeadStage(opp Opportunity, quote *QuoteSnapshot, rollup CommsRollup, thresholds Thresholds) StageResult {
	for _, rule := range stageRules {
		if stage, ok := rule.match(opp, quote, rollup, thresholds); ok {
			return StageResult{Stage: stage, IsActive: !terminalStages[stage]}
		}
	}
	return StageResult{Stage: StageNew, IsActive: true}
}
