package batch_test

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/cmakekit/cmakekit/pkg/batch"
	"github.com/cmakekit/cmakekit/pkg/logger"
)

type fakeInvoker struct {
	err   error
	panic bool
	runs  *atomic.Int32

	// concurrency tracking
	active *atomic.Int32
	peak   *atomic.Int32
}

func (f *fakeInvoker) Run(ctx context.Context) error {
	if f.runs != nil {
		f.runs.Add(1)
	}
	if f.active != nil {
		current := f.active.Add(1)
		for {
			peak := f.peak.Load()
			if current <= peak || f.peak.CompareAndSwap(peak, current) {
				break
			}
		}
		defer f.active.Add(-1)
	}
	if f.panic {
		panic("boom")
	}
	return f.err
}

func testLogger() logger.Logger {
	var buf bytes.Buffer
	return logger.CreateLoggerWithOutput("error", &buf)
}

func TestRunner_AllJobsAttempted(t *testing.T) {
	var runs atomic.Int32
	jobs := []batch.Job{
		{Name: "debug", Invocation: &fakeInvoker{runs: &runs, err: errors.New("configure failed")}},
		{Name: "release", Invocation: &fakeInvoker{runs: &runs}},
		{Name: "asan", Invocation: &fakeInvoker{runs: &runs}},
	}

	runner := batch.NewRunner(testLogger(), 0)
	results, err := runner.Run(context.Background(), jobs)

	if err == nil {
		t.Error("expected aggregated error when a job fails")
	}
	if got := runs.Load(); got != 3 {
		t.Errorf("expected all 3 jobs to run, got %d", got)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	// Results are in job order
	if results[0].Name != "debug" || results[0].Err == nil {
		t.Errorf("unexpected first result: %+v", results[0])
	}
	if results[1].Name != "release" || results[1].Err != nil {
		t.Errorf("unexpected second result: %+v", results[1])
	}
}

func TestRunner_AllSucceed(t *testing.T) {
	jobs := []batch.Job{
		{Name: "debug", Invocation: &fakeInvoker{}},
		{Name: "release", Invocation: &fakeInvoker{}},
	}

	results, err := batch.NewRunner(testLogger(), 0).Run(context.Background(), jobs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("job %s failed: %v", r.Name, r.Err)
		}
		if r.ID == "" {
			t.Errorf("job %s has no ID", r.Name)
		}
	}

	// IDs are unique per invocation
	if results[0].ID == results[1].ID {
		t.Error("expected distinct invocation IDs")
	}
}

func TestRunner_ParallelismLimit(t *testing.T) {
	var active, peak atomic.Int32

	jobs := make([]batch.Job, 8)
	for n := range jobs {
		jobs[n] = batch.Job{
			Name:       "job",
			Invocation: &fakeInvoker{active: &active, peak: &peak},
		}
	}

	_, err := batch.NewRunner(testLogger(), 2).Run(context.Background(), jobs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if peak.Load() > 2 {
		t.Errorf("parallelism limit exceeded: peak %d", peak.Load())
	}
}

func TestRunner_PanicRecovered(t *testing.T) {
	jobs := []batch.Job{
		{Name: "bad", Invocation: &fakeInvoker{panic: true}},
		{Name: "good", Invocation: &fakeInvoker{}},
	}

	results, err := batch.NewRunner(testLogger(), 0).Run(context.Background(), jobs)
	if err == nil {
		t.Error("expected error from panicking job")
	}
	if results[0].Err == nil {
		t.Error("expected panic to surface as job error")
	}
	if results[1].Err != nil {
		t.Errorf("healthy job should be unaffected: %v", results[1].Err)
	}
}
