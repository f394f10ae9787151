package engine

// newQuoteSnapshot projects a quote into the normalized shape the classifier
// stages consume.
func newQuoteSnapshot(q Quote) *QuoteSnapshot {
	return &QuoteSnapshot{
		ID:               q.ID,
		Status:           q.Status,
		PricingRequested: q.PricingRequested,
		PricingReceived:  q.PricingReceived,
		CreatedAt:        q.CreatedAt,
	}
}

// ResolvePrimaryQuote selects the single representative quote for an
// opportunity. The explicit primary reference wins when it points at a
// non-deleted quote in the candidate set; otherwise the newest non-deleted
// quote is used; otherwise there is no primary quote.
//
// When two candidates share a creation timestamp the one with the lexically
// smaller ID wins, so the fallback is stable across recomputations
// regardless of input order.
func ResolvePrimaryQuote(opp Opportunity, quotes []Quote) *QuoteSnapshot {
	if opp.PrimaryQuoteID != nil {
		for _, q := range quotes {
			if q.ID == *opp.PrimaryQuoteID && !q.Deleted {
				return newQuoteSnapshot(q)
			}
		}
	}

	var best *Quote
	for i := range quotes {
		q := &quotes[i]
		if q.Deleted {
			continue
		}
		if best == nil || q.CreatedAt.After(best.CreatedAt) {
			best = q
			continue
		}
		if q.CreatedAt.Equal(best.CreatedAt) && q.ID.String() < best.ID.String() {
			best = q
		}
	}
	if best == nil {
		return nil
	}
	return newQuoteSnapshot(*best)
}
