package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nao1215/pdfscan/internal/model"
)

func newTestController(docs ...*fakeDocument) *Controller {
	runner := NewBatchRunner(
		NewFileAnalyzer(WithOpener(newFakeLibrary(docs...).open), WithAnalyzerLogger(discardLogger())),
		WithBatchLogger(discardLogger()),
	)
	return NewController(runner, WithControllerLogger(discardLogger()))
}

func waitOutcome(t *testing.T, ch <-chan Outcome) Outcome {
	t.Helper()
	select {
	case o := <-ch:
		return o
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the run to finish")
		return Outcome{}
	}
}

// TestControllerStart tests the run lifecycle.
func TestControllerStart(t *testing.T) {
	t.Parallel()

	t.Run("completes and publishes every event", func(t *testing.T) {
		t.Parallel()

		c := newTestController(&fakeDocument{path: "a.pdf", pages: []string{longText("gobierno")}})
		if c.State() != model.RunStateIdle {
			t.Fatalf("expected idle, got %s", c.State())
		}

		first := c.Subscribe()
		second := c.Subscribe()

		build := func(model.BatchResult) ([]string, error) {
			return []string{"out/report.txt"}, nil
		}
		out, err := c.Start(context.Background(), []string{"a.pdf"}, model.NewKeywordSet("gobierno"), build)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got [2][]model.EventKind
		for i, ch := range []<-chan model.ProgressEvent{first, second} {
			for ev := range ch {
				got[i] = append(got[i], ev.Kind)
			}
		}

		outcome := waitOutcome(t, out)
		if outcome.Err != nil {
			t.Errorf("unexpected error: %v", outcome.Err)
		}
		if outcome.Result.TotalMatches() != 1 {
			t.Errorf("expected 1 match, got %d", outcome.Result.TotalMatches())
		}
		if c.State() != model.RunStateCompleted {
			t.Errorf("expected completed, got %s", c.State())
		}

		want := []model.EventKind{
			model.EventFileStarted, model.EventPageExtracted, model.EventFileFinished,
			model.EventReportWritten, model.EventRunFinished,
		}
		for i := range got {
			if len(got[i]) != len(want) {
				t.Fatalf("subscriber %d: expected %v, got %v", i, want, got[i])
			}
			for j := range want {
				if got[i][j] != want[j] {
					t.Errorf("subscriber %d event %d: expected %s, got %s", i, j, want[j], got[i][j])
				}
			}
		}
	})

	t.Run("invalid keyword does not abort the run", func(t *testing.T) {
		t.Parallel()

		c := newTestController(
			&fakeDocument{path: "a.pdf", pages: []string{longText("servicio municipal")}},
			&fakeDocument{path: "b.pdf", pages: []string{longText("sin coincidencias")}},
		)

		reported := false
		build := func(model.BatchResult) ([]string, error) {
			reported = true
			return []string{"out/report.txt"}, nil
		}
		set := model.NewKeywordSet("municipal", "administraci\xf3n")
		out, err := c.Start(context.Background(), []string{"a.pdf", "b.pdf"}, set, build)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		outcome := waitOutcome(t, out)
		if outcome.Err != nil {
			t.Errorf("unexpected error: %v", outcome.Err)
		}
		if len(outcome.Result.Files) != 2 {
			t.Errorf("expected 2 file results, got %d", len(outcome.Result.Files))
		}
		if outcome.Result.TotalMatches() != 1 {
			t.Errorf("expected 1 match, got %d", outcome.Result.TotalMatches())
		}
		if !reported {
			t.Error("expected the report step to run")
		}
		if c.State() != model.RunStateCompleted {
			t.Errorf("expected completed, got %s", c.State())
		}
	})

	t.Run("rejects a second start while running", func(t *testing.T) {
		t.Parallel()

		c := newTestController(&fakeDocument{path: "a.pdf", pages: []string{longText("gobierno")}})
		release := make(chan struct{})
		entered := make(chan struct{})
		build := func(model.BatchResult) ([]string, error) {
			close(entered)
			<-release
			return nil, nil
		}

		out, err := c.Start(context.Background(), []string{"a.pdf"}, model.NewKeywordSet("gobierno"), build)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		<-entered

		if c.State() != model.RunStateRunning {
			t.Errorf("expected running, got %s", c.State())
		}
		if _, err := c.Start(context.Background(), []string{"a.pdf"}, model.NewKeywordSet("gobierno"), nil); !errors.Is(err, ErrAlreadyRunning) {
			t.Errorf("expected ErrAlreadyRunning, got %v", err)
		}

		close(release)
		waitOutcome(t, out)

		out, err = c.Start(context.Background(), []string{"a.pdf"}, model.NewKeywordSet("gobierno"), nil)
		if err != nil {
			t.Fatalf("expected a new run to be accepted, got %v", err)
		}
		waitOutcome(t, out)
	})

	t.Run("report failure marks the run failed", func(t *testing.T) {
		t.Parallel()

		c := newTestController()
		errDisk := errors.New("disk full")
		build := func(model.BatchResult) ([]string, error) {
			return nil, errDisk
		}

		out, err := c.Start(context.Background(), []string{"missing.pdf"}, model.NewKeywordSet("gobierno"), build)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		outcome := waitOutcome(t, out)

		if !errors.Is(outcome.Err, errDisk) {
			t.Errorf("expected disk error, got %v", outcome.Err)
		}
		if c.State() != model.RunStateFailed {
			t.Errorf("expected failed, got %s", c.State())
		}
		if len(outcome.Result.Files) != 1 || !outcome.Result.Files[0].Failed() {
			t.Errorf("expected one failed file, got %+v", outcome.Result.Files)
		}
	})

	t.Run("input is copied at start", func(t *testing.T) {
		t.Parallel()

		c := newTestController(
			&fakeDocument{path: "a.pdf", pages: []string{longText("gobierno")}},
			&fakeDocument{path: "b.pdf", pages: []string{longText("gobierno")}},
		)
		files := []string{"a.pdf"}
		release := make(chan struct{})
		build := func(model.BatchResult) ([]string, error) {
			<-release
			return nil, nil
		}

		out, err := c.Start(context.Background(), files, model.NewKeywordSet("gobierno"), build)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		files[0] = "b.pdf"
		close(release)

		outcome := waitOutcome(t, out)
		if outcome.Result.Files[0].File != "a.pdf" {
			t.Errorf("expected a.pdf, got %s", outcome.Result.Files[0].File)
		}
	})
}
