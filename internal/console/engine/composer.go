package engine

import (
	"time"

	"github.com/google/uuid"
)

// ComputeLeadViews derives the lead console read-model for a batch of
// opportunities. Quotes and threads are grouped by opportunity in one pass,
// then each eligible opportunity runs through the full pipeline, so the
// whole composition is O(quotes + threads + opportunities).
//
// Output order follows the input opportunity order; ineligible
// opportunities are absent entirely. Sorting and ranking are presentation
// concerns and do not happen here. The only possible error is a thresholds
// wiring bug, surfaced as an InvalidConfiguration error before any view is
// built.
func ComputeLeadViews(opps []Opportunity, quotes []Quote, threads []EmailThread, thresholds Thresholds, now time.Time) ([]LeadView, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}

	quotesByOpp := make(map[uuid.UUID][]Quote)
	for _, q := range quotes {
		quotesByOpp[q.OpportunityID] = append(quotesByOpp[q.OpportunityID], q)
	}
	threadsByOpp := make(map[uuid.UUID][]EmailThread)
	for _, th := range threads {
		threadsByOpp[th.OpportunityID] = append(threadsByOpp[th.OpportunityID], th)
	}

	views := make([]LeadView, 0, len(opps))
	for _, opp := range opps {
		if !IsEligible(opp) {
			continue
		}
		views = append(views, composeOne(opp, quotesByOpp[opp.ID], threadsByOpp[opp.ID], thresholds, now))
	}
	return views, nil
}

func composeOne(opp Opportunity, quotes []Quote, threads []EmailThread, thresholds Thresholds, now time.Time) LeadView {
	snapshot := ResolvePrimaryQuote(opp, quotes)
	rollup := ComputeCommsRollup(threads, now)
	stage := ComputeLeadStage(opp, snapshot, rollup, thresholds)
	temp := ComputeTemperature(stage, rollup, thresholds)
	rec := ComputeNextAction(stage, rollup, temp, thresholds, now)

	return LeadView{
		OpportunityID:    opp.ID,
		CustomerID:       opp.CustomerID,
		CustomerName:     opp.CustomerName,
		Stage:            stage.Stage,
		IsActive:         stage.IsActive,
		PrimaryQuote:     snapshot,
		Comms:            rollup,
		Temperature:      temp,
		NextAction:       rec.Action,
		NextActionReason: rec.Reason,
		FollowUpDueAt:    rec.FollowUpDueAt,
	}
}
