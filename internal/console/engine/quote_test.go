package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

var quoteTestBase = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestResolvePrimaryQuote_ExplicitReferenceWins(t *testing.T) {
	explicit := uuid.New()
	newer := uuid.New()
	opp := Opportunity{ID: uuid.New(), PrimaryQuoteID: &explicit}
	quotes := []Quote{
		{ID: explicit, Status: QuoteStatusDraft, CreatedAt: quoteTestBase},
		{ID: newer, Status: QuoteStatusSent, CreatedAt: quoteTestBase.Add(48 * time.Hour)},
	}

	snapshot := ResolvePrimaryQuote(opp, quotes)
	if snapshot == nil {
		t.Fatal("expected a snapshot, got nil")
	}
	if snapshot.ID != explicit {
		t.Fatalf("expected explicit quote %s, got %s", explicit, snapshot.ID)
	}
}

func TestResolvePrimaryQuote_DeletedExplicitFallsBackToLatest(t *testing.T) {
	deleted := uuid.New()
	valid := uuid.New()
	opp := Opportunity{ID: uuid.New(), PrimaryQuoteID: &deleted}
	quotes := []Quote{
		{ID: deleted, Status: QuoteStatusSent, Deleted: true, CreatedAt: quoteTestBase.Add(72 * time.Hour)},
		{ID: valid, Status: QuoteStatusDraft, CreatedAt: quoteTestBase},
	}

	snapshot := ResolvePrimaryQuote(opp, quotes)
	if snapshot == nil {
		t.Fatal("expected fallback snapshot, got nil")
	}
	if snapshot.ID != valid {
		t.Fatalf("expected fallback to %s, got %s", valid, snapshot.ID)
	}
}

func TestResolvePrimaryQuote_LatestByCreatedAt(t *testing.T) {
	older := uuid.New()
	newest := uuid.New()
	quotes := []Quote{
		{ID: older, CreatedAt: quoteTestBase},
		{ID: newest, CreatedAt: quoteTestBase.Add(24 * time.Hour)},
	}

	snapshot := ResolvePrimaryQuote(Opportunity{ID: uuid.New()}, quotes)
	if snapshot == nil || snapshot.ID != newest {
		t.Fatalf("expected newest quote %s, got %+v", newest, snapshot)
	}
}

func TestResolvePrimaryQuote_TieBreaksOnSmallerID(t *testing.T) {
	a := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	b := uuid.MustParse("99999999-9999-9999-9999-999999999999")
	quotes := []Quote{
		{ID: b, CreatedAt: quoteTestBase},
		{ID: a, CreatedAt: quoteTestBase},
	}

	first := ResolvePrimaryQuote(Opportunity{}, quotes)
	if first == nil || first.ID != a {
		t.Fatalf("expected lexically smaller id %s, got %+v", a, first)
	}

	// Same result regardless of input order.
	reversed := ResolvePrimaryQuote(Opportunity{}, []Quote{quotes[1], quotes[0]})
	if reversed == nil || reversed.ID != a {
		t.Fatalf("expected %s independent of order, got %+v", a, reversed)
	}
}

func TestResolvePrimaryQuote_NoCandidates(t *testing.T) {
	if got := ResolvePrimaryQuote(Opportunity{}, nil); got != nil {
		t.Fatalf("expected nil for empty quote set, got %+v", got)
	}

	onlyDeleted := []Quote{{ID: uuid.New(), Deleted: true, CreatedAt: quoteTestBase}}
	if got := ResolvePrimaryQuote(Opportunity{}, onlyDeleted); got != nil {
		t.Fatalf("expected nil when all quotes are deleted, got %+v", got)
	}
}
