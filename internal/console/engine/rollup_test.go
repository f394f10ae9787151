package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

var rollupNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestComputeCommsRollup_EmptyThreadSet(t *testing.T) {
	rollup := ComputeCommsRollup(nil, rollupNow)

	if rollup.ThreadCount != 0 {
		t.Fatalf("expected 0 threads, got %d", rollup.ThreadCount)
	}
	if rollup.HasUnread || rollup.IsAssigned {
		t.Fatalf("expected zero flags, got %+v", rollup)
	}
	if rollup.LastContactAt != nil || rollup.LastCustomerContactAt != nil || rollup.LastInternalContactAt != nil {
		t.Fatalf("expected nil contact timestamps, got %+v", rollup)
	}
	if rollup.LastTouchDirection != TouchDirectionNone {
		t.Fatalf("expected no direction, got %q", rollup.LastTouchDirection)
	}
	if rollup.DaysSinceCustomerContact != nil {
		t.Fatalf("expected nil days since contact, got %d", *rollup.DaysSinceCustomerContact)
	}
}

func TestComputeCommsRollup_ZeroTimestampsAreAbsent(t *testing.T) {
	threads := []EmailThread{
		{Unread: true},
		{},
	}

	rollup := ComputeCommsRollup(threads, rollupNow)
	if rollup.ThreadCount != 2 {
		t.Fatalf("expected 2 threads, got %d", rollup.ThreadCount)
	}
	if !rollup.HasUnread {
		t.Fatal("expected unread flag")
	}
	if rollup.LastContactAt != nil {
		t.Fatalf("zero timestamps must not become contact times, got %v", *rollup.LastContactAt)
	}
	if rollup.LastTouchDirection != TouchDirectionNone {
		t.Fatalf("expected no direction, got %q", rollup.LastTouchDirection)
	}
}

func TestComputeCommsRollup_InternalReplyWins(t *testing.T) {
	customerAt := rollupNow.Add(-25 * time.Hour)
	internalAt := customerAt.Add(time.Hour)
	threads := []EmailThread{{
		LastCustomerMessageAt: customerAt,
		LastInternalMessageAt: internalAt,
	}}

	rollup := ComputeCommsRollup(threads, rollupNow)
	if rollup.LastTouchDirection != TouchDirectionInternal {
		t.Fatalf("expected internal direction, got %q", rollup.LastTouchDirection)
	}
	if rollup.LastContactAt == nil || !rollup.LastContactAt.Equal(internalAt) {
		t.Fatalf("expected last contact %v, got %v", internalAt, rollup.LastContactAt)
	}
	if rollup.LastCustomerContactAt == nil || !rollup.LastCustomerContactAt.Equal(customerAt) {
		t.Fatalf("expected customer contact %v, got %v", customerAt, rollup.LastCustomerContactAt)
	}
	if rollup.DaysSinceCustomerContact == nil || *rollup.DaysSinceCustomerContact != 1 {
		t.Fatalf("expected 1 day since customer contact, got %v", rollup.DaysSinceCustomerContact)
	}
}

func TestComputeCommsRollup_SimultaneousTouchGoesToCustomer(t *testing.T) {
	at := rollupNow.Add(-6 * time.Hour)
	threads := []EmailThread{{
		LastCustomerMessageAt: at,
		LastInternalMessageAt: at,
	}}

	rollup := ComputeCommsRollup(threads, rollupNow)
	if rollup.LastTouchDirection != TouchDirectionCustomer {
		t.Fatalf("expected customer direction on tie, got %q", rollup.LastTouchDirection)
	}
}

func TestComputeCommsRollup_AggregatesAcrossThreads(t *testing.T) {
	assignee := uuid.New()
	early := rollupNow.Add(-96 * time.Hour)
	late := rollupNow.Add(-48 * time.Hour)
	threads := []EmailThread{
		{LastCustomerMessageAt: early},
		{LastCustomerMessageAt: late, AssigneeID: &assignee},
		{Unread: true},
	}

	rollup := ComputeCommsRollup(threads, rollupNow)
	if rollup.ThreadCount != 3 {
		t.Fatalf("expected 3 threads, got %d", rollup.ThreadCount)
	}
	if !rollup.HasUnread || !rollup.IsAssigned {
		t.Fatalf("expected unread and assigned flags, got %+v", rollup)
	}
	if rollup.LastCustomerContactAt == nil || !rollup.LastCustomerContactAt.Equal(late) {
		t.Fatalf("expected max customer contact %v, got %v", late, rollup.LastCustomerContactAt)
	}
	if rollup.DaysSinceCustomerContact == nil || *rollup.DaysSinceCustomerContact != 2 {
		t.Fatalf("expected 2 days since contact, got %v", rollup.DaysSinceCustomerContact)
	}
}

func TestComputeCommsRollup_FutureContactClampsToZeroDays(t *testing.T) {
	threads := []EmailThread{{
		LastCustomerMessageAt: rollupNow.Add(3 * time.Hour),
	}}

	rollup := ComputeCommsRollup(threads, rollupNow)
	if rollup.DaysSinceCustomerContact == nil || *rollup.DaysSinceCustomerContact != 0 {
		t.Fatalf("expected 0 days for future timestamp, got %v", rollup.DaysSinceCustomerContact)
	}
}
