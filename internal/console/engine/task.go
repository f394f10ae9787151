package engine

import (
	"fmt"

	"lead_console_backend/platform/apperr"
)

// taskTitles maps each actionable recommendation to its task title.
var taskTitles = map[NextAction]string{
	ActionRequestPricing: "Request pricing",
	ActionFollowUp:       "Follow up with customer",
	ActionWait:           "Check in on lead",
}

// NewFollowUpTask maps a composed lead view to the request shape of the
// task-creation collaborator. The caller supplies the already-fetched
// opportunity; no lookups happen here. Invoking this on a view whose next
// action is "none" is a wiring bug and raises a typed InvalidState error.
func NewFollowUpTask(view LeadView, opp Opportunity) (TaskCreationRequest, error) {
	if view.NextAction == ActionNone {
		return TaskCreationRequest{}, apperr.InvalidState(
			fmt.Sprintf("lead %s has no actionable next step", view.OpportunityID))
	}

	title := taskTitles[view.NextAction]
	if opp.CustomerName != "" {
		title = fmt.Sprintf("%s: %s", title, opp.CustomerName)
	}

	return TaskCreationRequest{
		Title:         title,
		Description:   view.NextActionReason,
		DueAt:         view.FollowUpDueAt,
		OpportunityID: view.OpportunityID,
		CustomerID:    opp.CustomerID,
		CustomerName:  opp.CustomerName,
	}, nil
}
