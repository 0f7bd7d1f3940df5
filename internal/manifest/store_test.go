package manifest_test

import (
	"context"
	"errors"
	"testing"

	"semtok/internal/manifest"
)

func mustOpen(t *testing.T) *manifest.Store {
	t.Helper()
	store, err := manifest.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStartRunAssignsIdentifier(t *testing.T) {
	store := mustOpen(t)
	ctx := context.Background()

	run, err := store.StartRun(ctx, 2, 10)
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	if run.ID == "" {
		t.Fatal("expected run ID to be assigned")
	}
	if run.Status != manifest.RunRunning {
		t.Fatalf("expected running status, got %q", run.Status)
	}

	fetched, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if fetched == nil || fetched.Devices != 2 || fetched.TotalItems != 10 {
		t.Fatalf("unexpected fetched run: %#v", fetched)
	}
}

func TestRecordItemAndSummarize(t *testing.T) {
	store := mustOpen(t)
	ctx := context.Background()

	run, err := store.StartRun(ctx, 1, 3)
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}

	records := []manifest.ItemRecord{
		{RunID: run.ID, Group: "alice", FileName: "a.wav", TargetPath: "/out/a.wav.npy", DeviceID: 0, TokenCount: 40, Status: manifest.ItemCompleted},
		{RunID: run.ID, Group: "alice", FileName: "b.wav", TargetPath: "/out/b.wav.npy", DeviceID: 0, TokenCount: 25, Status: manifest.ItemCompleted},
		{RunID: run.ID, Group: "bob", FileName: "c.wav", TargetPath: "/out/c.wav.npy", DeviceID: 0, Status: manifest.ItemFailed, Error: "decode failed"},
	}
	for _, rec := range records {
		if err := store.RecordItem(ctx, rec); err != nil {
			t.Fatalf("RecordItem failed: %v", err)
		}
	}

	summary, err := store.Summarize(ctx, run.ID)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary.Completed != 2 || summary.Failed != 1 {
		t.Fatalf("unexpected summary: %#v", summary)
	}
	if summary.TotalTokens != 65 {
		t.Fatalf("expected 65 tokens, got %d", summary.TotalTokens)
	}

	failed, err := store.FailedItems(ctx, run.ID)
	if err != nil {
		t.Fatalf("FailedItems failed: %v", err)
	}
	if len(failed) != 1 || failed[0].FileName != "c.wav" || failed[0].Error != "decode failed" {
		t.Fatalf("unexpected failed items: %#v", failed)
	}
}

func TestRecordItemRequiresRunID(t *testing.T) {
	store := mustOpen(t)
	if err := store.RecordItem(context.Background(), manifest.ItemRecord{FileName: "a.wav"}); err == nil {
		t.Fatal("expected error for missing run id")
	}
}

func TestFinishRunRecordsOutcome(t *testing.T) {
	store := mustOpen(t)
	ctx := context.Background()

	run, err := store.StartRun(ctx, 4, 300)
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	if err := store.FinishRun(ctx, run.ID, manifest.RunFailed, errors.New("device lost")); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	fetched, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if fetched.Status != manifest.RunFailed {
		t.Fatalf("expected failed status, got %q", fetched.Status)
	}
	if fetched.CompletedAt == nil {
		t.Fatal("expected completion timestamp")
	}
	if fetched.Error != "device lost" {
		t.Fatalf("unexpected error message %q", fetched.Error)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	store := mustOpen(t)
	ctx := context.Background()

	first, err := store.StartRun(ctx, 1, 1)
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	second, err := store.StartRun(ctx, 1, 2)
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}

	runs, err := store.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != second.ID || runs[1].ID != first.ID {
		t.Fatalf("unexpected ordering: %s then %s", runs[0].ID, runs[1].ID)
	}

	missing, err := store.GetRun(ctx, "no-such-run")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown run, got %#v", missing)
	}
}
