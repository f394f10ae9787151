package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"lead_console_backend/internal/console/engine"
	"lead_console_backend/internal/console/repository"
	"lead_console_backend/internal/console/transport"
	"lead_console_backend/internal/followup"
	"lead_console_backend/platform/apperr"
	"lead_console_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type stubRepo struct {
	opps    []repository.Opportunity
	quotes  []repository.Quote
	threads []repository.EmailThread

	listCalls int
}

func (s *stubRepo) ListOpportunities(_ context.Context, _ uuid.UUID) ([]repository.Opportunity, error) {
	s.listCalls++
	return s.opps, nil
}

func (s *stubRepo) GetOpportunity(_ context.Context, id, _ uuid.UUID) (repository.Opportunity, error) {
	for _, opp := range s.opps {
		if opp.ID == id {
			return opp, nil
		}
	}
	return repository.Opportunity{}, repository.ErrNotFound
}

func (s *stubRepo) ListQuotes(_ context.Context, _ uuid.UUID) ([]repository.Quote, error) {
	return s.quotes, nil
}

func (s *stubRepo) ListQuotesForOpportunity(_ context.Context, oppID uuid.UUID) ([]repository.Quote, error) {
	var out []repository.Quote
	for _, q := range s.quotes {
		if q.OpportunityID == oppID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *stubRepo) ListEmailThreads(_ context.Context, _ uuid.UUID) ([]repository.EmailThread, error) {
	return s.threads, nil
}

func (s *stubRepo) ListEmailThreadsForOpportunity(_ context.Context, oppID uuid.UUID) ([]repository.EmailThread, error) {
	var out []repository.EmailThread
	for _, th := range s.threads {
		if th.OpportunityID == oppID {
			out = append(out, th)
		}
	}
	return out, nil
}

type stubEnqueuer struct {
	payloads []followup.CreateTaskPayload
	err      error
}

func (s *stubEnqueuer) EnqueueFollowUpTask(_ context.Context, payload followup.CreateTaskPayload) error {
	if s.err != nil {
		return s.err
	}
	s.payloads = append(s.payloads, payload)
	return nil
}

func strPtr(s string) *string { return &s }

func testService(t *testing.T, repo repository.SnapshotReader, enqueuer TaskEnqueuer, cache *ViewCache) *Service {
	t.Helper()
	svc := New(repo, enqueuer, cache, engine.DefaultThresholds(), logger.New("test"))
	svc.now = func() time.Time {
		return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	}
	return svc
}

func testCache(t *testing.T) *ViewCache {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewViewCache(client, time.Minute, logger.New("test"))
}

func TestListLeadViews_MapsRowsThroughEngine(t *testing.T) {
	orgID := uuid.New()
	opp := repository.Opportunity{
		ID:             uuid.New(),
		OrganizationID: orgID,
		CustomerID:     uuid.New(),
		CustomerName:   "De Vries",
		CustomerEmail:  strPtr("devries@example.com"),
		CustomerPhone:  strPtr("06 12345678"),
		Status:         strPtr("New"),
		CreatedAt:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	repo := &stubRepo{
		opps: []repository.Opportunity{opp},
		quotes: []repository.Quote{{
			ID:            uuid.New(),
			OpportunityID: opp.ID,
			Status:        strPtr("sent"),
			CreatedAt:     time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		}},
	}

	svc := testService(t, repo, &stubEnqueuer{}, nil)
	views, err := svc.ListLeadViews(context.Background(), orgID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 view, got %d", len(views))
	}

	view := views[0]
	if view.Stage != string(engine.StageQuoteSent) {
		t.Fatalf("expected quote_sent, got %s", view.Stage)
	}
	if view.CustomerEmail == nil || *view.CustomerEmail != "devries@example.com" {
		t.Fatalf("expected customer email, got %v", view.CustomerEmail)
	}
	if view.CustomerPhone == nil || *view.CustomerPhone != "+31612345678" {
		t.Fatalf("expected normalized phone, got %v", view.CustomerPhone)
	}
	if view.PrimaryQuote == nil {
		t.Fatal("expected primary quote snapshot")
	}
}

func TestListLeadViews_SoftDeletedRowsAreFilteredByEngine(t *testing.T) {
	orgID := uuid.New()
	deletedAt := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	repo := &stubRepo{opps: []repository.Opportunity{
		{ID: uuid.New(), CustomerID: uuid.New(), Status: strPtr("New")},
		{ID: uuid.New(), CustomerID: uuid.New(), Status: strPtr("New"), DeletedAt: &deletedAt},
		{ID: uuid.New(), CustomerID: uuid.New(), Status: strPtr("New"), Archived: true},
	}}

	svc := testService(t, repo, &stubEnqueuer{}, nil)
	views, err := svc.ListLeadViews(context.Background(), orgID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected only the live opportunity, got %d views", len(views))
	}
}

func TestListLeadViews_SecondCallHitsCache(t *testing.T) {
	orgID := uuid.New()
	repo := &stubRepo{opps: []repository.Opportunity{
		{ID: uuid.New(), CustomerID: uuid.New(), Status: strPtr("New")},
	}}

	svc := testService(t, repo, &stubEnqueuer{}, testCache(t))

	first, err := svc.ListLeadViews(context.Background(), orgID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.ListLeadViews(context.Background(), orgID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.listCalls != 1 {
		t.Fatalf("expected a single repository fetch, got %d", repo.listCalls)
	}
	if len(first) != len(second) || first[0].OpportunityID != second[0].OpportunityID {
		t.Fatalf("cache changed the result: %+v vs %+v", first, second)
	}
}

func TestListLeadViews_CacheFailureDegradesToRecompute(t *testing.T) {
	orgID := uuid.New()
	repo := &stubRepo{opps: []repository.Opportunity{
		{ID: uuid.New(), CustomerID: uuid.New(), Status: strPtr("New")},
	}}

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewViewCache(client, time.Minute, logger.New("test"))
	srv.Close()

	svc := testService(t, repo, &stubEnqueuer{}, cache)
	views, err := svc.ListLeadViews(context.Background(), orgID)
	if err != nil {
		t.Fatalf("cache outage must not fail the listing: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected recomputed view, got %d", len(views))
	}
}

func TestFlushLeadViewCache_ForcesRefetch(t *testing.T) {
	orgID := uuid.New()
	repo := &stubRepo{opps: []repository.Opportunity{
		{ID: uuid.New(), CustomerID: uuid.New(), Status: strPtr("New")},
	}}
	svc := testService(t, repo, &stubEnqueuer{}, testCache(t))

	if _, err := svc.ListLeadViews(context.Background(), orgID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.ListLeadViews(context.Background(), orgID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected the second listing to come from cache, got %d fetches", repo.listCalls)
	}

	svc.FlushLeadViewCache(context.Background(), orgID)

	if _, err := svc.ListLeadViews(context.Background(), orgID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.listCalls != 2 {
		t.Fatalf("expected flush to force a refetch, got %d fetches", repo.listCalls)
	}
}

func TestCreateFollowUpTask_EnqueuesAndInvalidatesCache(t *testing.T) {
	orgID := uuid.New()
	opp := repository.Opportunity{ID: uuid.New(), CustomerID: uuid.New(), CustomerName: "Smit", Status: strPtr("New")}
	repo := &stubRepo{opps: []repository.Opportunity{opp}}
	enqueuer := &stubEnqueuer{}
	cache := testCache(t)

	svc := testService(t, repo, enqueuer, cache)

	// Warm the cache, then create a task and expect a fresh recompute after.
	if _, err := svc.ListLeadViews(context.Background(), orgID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	task, err := svc.CreateFollowUpTask(context.Background(), orgID, opp.ID, transport.CreateFollowUpTaskRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Title != "Request pricing: Smit" {
		t.Fatalf("unexpected task title %q", task.Title)
	}
	if len(enqueuer.payloads) != 1 {
		t.Fatalf("expected 1 enqueued payload, got %d", len(enqueuer.payloads))
	}
	if enqueuer.payloads[0].OrganizationID != orgID.String() {
		t.Fatalf("payload org mismatch: %s", enqueuer.payloads[0].OrganizationID)
	}

	if _, err := svc.ListLeadViews(context.Background(), orgID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.listCalls != 2 {
		t.Fatalf("expected cache invalidation to force a refetch, got %d fetches", repo.listCalls)
	}
}

func TestCreateFollowUpTask_UnknownOpportunity(t *testing.T) {
	svc := testService(t, &stubRepo{}, &stubEnqueuer{}, nil)

	_, err := svc.CreateFollowUpTask(context.Background(), uuid.New(), uuid.New(), transport.CreateFollowUpTaskRequest{})
	if !errors.Is(err, ErrOpportunityNotFound) {
		t.Fatalf("expected ErrOpportunityNotFound, got %v", err)
	}
}

func TestCreateFollowUpTask_ClosedLeadIsInvalidState(t *testing.T) {
	orgID := uuid.New()
	opp := repository.Opportunity{ID: uuid.New(), CustomerID: uuid.New(), Status: strPtr("Won")}
	svc := testService(t, &stubRepo{opps: []repository.Opportunity{opp}}, &stubEnqueuer{}, nil)

	_, err := svc.CreateFollowUpTask(context.Background(), orgID, opp.ID, transport.CreateFollowUpTaskRequest{})
	if apperr.GetKind(err) != apperr.KindInvalidState {
		t.Fatalf("expected InvalidState, got %v", err)
	}
}

func TestCreateFollowUpTask_IneligibleOpportunity(t *testing.T) {
	orgID := uuid.New()
	deletedAt := time.Now()
	opp := repository.Opportunity{ID: uuid.New(), CustomerID: uuid.New(), Status: strPtr("New"), DeletedAt: &deletedAt}
	svc := testService(t, &stubRepo{opps: []repository.Opportunity{opp}}, &stubEnqueuer{}, nil)

	_, err := svc.CreateFollowUpTask(context.Background(), orgID, opp.ID, transport.CreateFollowUpTaskRequest{})
	if !errors.Is(err, ErrOpportunityNotFound) {
		t.Fatalf("expected ErrOpportunityNotFound for ineligible lead, got %v", err)
	}
}

func TestCreateFollowUpTask_AppliesOverrides(t *testing.T) {
	orgID := uuid.New()
	opp := repository.Opportunity{ID: uuid.New(), CustomerID: uuid.New(), CustomerName: "Smit", Status: strPtr("New")}
	enqueuer := &stubEnqueuer{}
	svc := testService(t, &stubRepo{opps: []repository.Opportunity{opp}}, enqueuer, nil)

	dueAt := time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)
	note := "Customer asked to be called after 14:00."
	task, err := svc.CreateFollowUpTask(context.Background(), orgID, opp.ID, transport.CreateFollowUpTaskRequest{
		Note:  note,
		DueAt: &dueAt,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.DueAt == nil || !task.DueAt.Equal(dueAt) {
		t.Fatalf("expected due date override %v, got %v", dueAt, task.DueAt)
	}
	if !strings.HasSuffix(task.Description, note) {
		t.Fatalf("expected note appended to description, got %q", task.Description)
	}
	if len(enqueuer.payloads) != 1 || enqueuer.payloads[0].DueAt == nil || !enqueuer.payloads[0].DueAt.Equal(dueAt) {
		t.Fatalf("expected override carried into payload, got %+v", enqueuer.payloads)
	}
}
