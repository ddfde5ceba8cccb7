package results

import (
	"path/filepath"
	"testing"
	"time"

	"parbench/train"
)

func sampleResult(model string, bits int, acc float64) train.Result {
	return train.Result{
		Model:        model,
		Fn:           "parity",
		Bits:         bits,
		Hidden:       8,
		Seed:         1,
		Epochs:       100,
		LearningRate: 0.01,
		FinalLoss:    0.05,
		Accuracy:     acc,
		Perfect:      acc == 1.0,
		Duration:     123 * time.Millisecond,
	}
}

func TestStoreOperations(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer store.Close()

	id, err := store.SaveRun(sampleResult("mlp", 2, 1.0))
	if err != nil {
		t.Fatalf("saving run: %v", err)
	}
	if id != 1 {
		t.Errorf("expected first row id 1, got %d", id)
	}

	if _, err := store.SaveRun(sampleResult("mlp", 2, 0.75)); err != nil {
		t.Fatalf("saving run: %v", err)
	}
	if _, err := store.SaveRun(sampleResult("lstm", 3, 1.0)); err != nil {
		t.Fatalf("saving run: %v", err)
	}

	total, err := store.TotalRuns()
	if err != nil {
		t.Fatalf("counting runs: %v", err)
	}
	if total != 3 {
		t.Errorf("expected 3 runs, got %d", total)
	}

	runs, err := store.Runs("mlp", "", 0)
	if err != nil {
		t.Fatalf("querying runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 mlp runs, got %d", len(runs))
	}
	if runs[0].Accuracy != 0.75 {
		t.Errorf("expected newest run first, got accuracy %v", runs[0].Accuracy)
	}
	if runs[0].Duration != 123*time.Millisecond {
		t.Errorf("duration not preserved: %v", runs[0].Duration)
	}

	runs, err = store.Runs("", "parity", 3)
	if err != nil {
		t.Fatalf("querying runs: %v", err)
	}
	if len(runs) != 1 || runs[0].Model != "lstm" {
		t.Errorf("bits filter returned wrong rows: %+v", runs)
	}
}

func TestStoreSummary(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer store.Close()

	store.SaveRun(sampleResult("mlp", 2, 1.0))
	store.SaveRun(sampleResult("mlp", 2, 0.5))
	store.SaveRun(sampleResult("kan", 4, 1.0))

	summary, err := store.Summary()
	if err != nil {
		t.Fatalf("summarizing: %v", err)
	}
	if len(summary) != 2 {
		t.Fatalf("expected 2 summary rows, got %d", len(summary))
	}

	// Ordered by model, bits: kan before mlp.
	if summary[0].Model != "kan" || summary[0].Perfect != 1 {
		t.Errorf("unexpected kan summary: %+v", summary[0])
	}
	if summary[1].Model != "mlp" || summary[1].Runs != 2 {
		t.Errorf("unexpected mlp summary: %+v", summary[1])
	}
	if summary[1].AvgAccuracy != 0.75 {
		t.Errorf("expected average accuracy 0.75, got %v", summary[1].AvgAccuracy)
	}
	if summary[1].Perfect != 1 {
		t.Errorf("expected 1 perfect mlp run, got %d", summary[1].Perfect)
	}
}

func TestStorePersistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	store1, err := Open(dbPath)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	store1.SaveRun(sampleResult("rnn", 5, 0.8))
	store1.Close()

	store2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	defer store2.Close()

	total, err := store2.TotalRuns()
	if err != nil {
		t.Fatalf("counting runs: %v", err)
	}
	if total != 1 {
		t.Errorf("expected 1 persisted run, got %d", total)
	}
}
