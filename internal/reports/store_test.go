package reports

import (
	"context"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreNewAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.New(ctx, "leaking faucet in unit 4B", 2.5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if created.Status != StatusPending {
		t.Fatalf("fresh report status = %s, want %s", created.Status, StatusPending)
	}
	if created.ID == "" {
		t.Fatal("fresh report has empty id")
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil {
		t.Fatal("GetByID returned nil for existing report")
	}
	if got.Description != created.Description {
		t.Fatalf("description = %q, want %q", got.Description, created.Description)
	}
	if got.VideoSizeMB != 2.5 {
		t.Fatalf("video size = %v, want 2.5", got.VideoSizeMB)
	}
	if got.SubmittedAt.IsZero() {
		t.Fatal("submitted_at not round-tripped")
	}
}

func TestStoreGetByIDMissing(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetByID(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing report, got %+v", got)
	}
}

func TestStoreUpdateAppliesResult(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	report, err := store.New(ctx, "broken door hinge", 1.2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result := &UploadResult{Success: true, Message: "Video analyzed successfully"}
	result.Data.Analysis = "The hinge appears sheared at the top bracket."
	result.Data.AnalysisDate = "2026-08-23T10:00:00Z"
	result.Data.FileSizeInMB = 1.4

	report.ApplyResult(result)
	if err := store.Update(ctx, report); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := store.GetByID(ctx, report.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Fatalf("status = %s, want %s", got.Status, StatusCompleted)
	}
	if got.Analysis != result.Data.Analysis {
		t.Fatalf("analysis = %q, want %q", got.Analysis, result.Data.Analysis)
	}
	if got.VideoSizeMB != 1.4 {
		t.Fatalf("video size = %v, want refreshed 1.4", got.VideoSizeMB)
	}
	if got.Description != "broken door hinge" {
		t.Fatalf("description changed across merge: %q", got.Description)
	}
}

func TestStoreListFiltersAndOrders(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, _ := store.New(ctx, "first", 1)
	second, _ := store.New(ctx, "second", 1)
	second.MarkReviewing("analysis service unreachable")
	if err := store.Update(ctx, second); err != nil {
		t.Fatalf("Update: %v", err)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("List returned %d reports, want 2", len(all))
	}

	reviewing, err := store.List(ctx, StatusReviewing)
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if len(reviewing) != 1 || reviewing[0].ID != second.ID {
		t.Fatalf("reviewing filter = %+v, want only %s", reviewing, second.ID)
	}
	if reviewing[0].StatusDetail != "analysis service unreachable" {
		t.Fatalf("status detail = %q", reviewing[0].StatusDetail)
	}
	_ = first
}

func TestStoreHealth(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a, _ := store.New(ctx, "a", 1)
	b, _ := store.New(ctx, "b", 1)
	b.MarkReviewing("upload timed out")
	if err := store.Update(ctx, b); err != nil {
		t.Fatalf("Update: %v", err)
	}
	a.ApplyResult(&UploadResult{Success: true})
	if err := store.Update(ctx, a); err != nil {
		t.Fatalf("Update: %v", err)
	}

	health, err := store.Health(ctx)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if health.Total != 2 || health.Completed != 1 || health.Reviewing != 1 || health.Pending != 0 {
		t.Fatalf("unexpected health: %+v", health)
	}
}
