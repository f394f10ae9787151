package engine

// excludedStatuses are opportunity statuses that never appear in the lead
// console. Terminal sales outcomes (Won, Lost, Cancelled) stay visible; only
// records that were parked or junked are hidden.
var excludedStatuses = map[string]bool{
	"Archived":  true,
	"Duplicate": true,
	"Spam":      true,
}

// IsEligible decides whether an opportunity belongs in the lead console at
// all. It is a pure predicate over the opportunity record alone and fails
// open: a missing status keeps the record visible rather than silently
// hiding real work behind incomplete data.
func IsEligible(opp Opportunity) bool {
	if opp.Deleted || opp.Archived {
		return false
	}
	return !excludedStatuses[opp.Status]
}
