package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/Kayanalsakkaf/BasiraAajil/internal/pipeline"
	"github.com/Kayanalsakkaf/BasiraAajil/internal/stageruns"
)

// gateExtractor blocks inside the text-extraction call until released,
// signalling when the run has started.
type gateExtractor struct {
	started chan struct{}
	release chan struct{}
	text    string
}

func (g *gateExtractor) Text(ctx context.Context, _ string) (string, error) {
	close(g.started)
	select {
	case <-g.release:
		return g.text, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestDispatcherCompletesRunAfterShutdown(t *testing.T) {
	f := newFixture("", nil)

	gate := &gateExtractor{
		started: make(chan struct{}),
		release: make(chan struct{}),
		text:    invoiceText,
	}
	f.rt.Extractor = gate

	base, cancel := context.WithCancel(context.Background())
	d := pipeline.NewDispatcher(f.rt, base, 1)

	d.Dispatch(f.docs.doc.ID)

	select {
	case <-gate.started:
	case <-time.After(5 * time.Second):
		t.Fatal("run did not start")
	}

	// Shutdown arrives while the run is mid-extraction.
	cancel()
	close(gate.release)
	d.Drain()

	if !f.docs.completed {
		t.Errorf("document not completed; failure = %q", f.docs.failedMsg)
	}
	if len(f.runs.runs) != len(stageNames) {
		t.Fatalf("run count = %d, want %d", len(f.runs.runs), len(stageNames))
	}
	for _, run := range f.runs.runs {
		if run.Status != stageruns.StatusCompleted {
			t.Errorf("run %q status = %q, want completed", run.StageName, run.Status)
		}
	}
}

func TestDispatcherSkipsQueuedRunsAfterShutdown(t *testing.T) {
	f := newFixture(invoiceText, nil)

	base, cancel := context.WithCancel(context.Background())
	cancel()

	d := pipeline.NewDispatcher(f.rt, base, 1)
	d.Dispatch(f.docs.doc.ID)
	d.Drain()

	if len(f.runs.runs) != 0 {
		t.Errorf("run count = %d, want 0 for a run queued after shutdown", len(f.runs.runs))
	}
	if f.docs.completed {
		t.Error("document should not be completed")
	}
}
