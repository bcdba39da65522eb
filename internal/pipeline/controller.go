package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/nao1215/pdfscan/internal/model"
)

// ErrAlreadyRunning is returned by Controller.Start while a run is in progress.
var ErrAlreadyRunning = errors.New("a run is already in progress")

// DefaultSubscriberBuffer is the channel capacity of each subscription.
const DefaultSubscriberBuffer = 64

// ReportFunc writes the reports for a finished batch and returns the paths
// of the files it wrote. A non-nil error marks the run as failed.
type ReportFunc func(result model.BatchResult) ([]string, error)

// Outcome is delivered once when a run ends.
type Outcome struct {
	// Result is the aggregated batch result.
	Result model.BatchResult
	// Reports lists the report files that were written.
	Reports []string
	// Err is the report step failure, if any.
	Err error
}

// Controller starts runs on a dedicated goroutine and publishes their progress.
//
// Subscribers must drain their channel: the worker blocks on a full buffer
// so that no event is ever dropped.
type Controller struct {
	runner *BatchRunner
	buffer int
	logger *slog.Logger

	mu          sync.Mutex
	state       model.RunState
	subscribers []chan model.ProgressEvent
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithControllerLogger sets a custom logger.
func WithControllerLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithSubscriberBuffer sets the channel capacity of new subscriptions.
func WithSubscriberBuffer(n int) ControllerOption {
	return func(c *Controller) {
		if n >= 0 {
			c.buffer = n
		}
	}
}

// NewController creates an idle Controller that runs batches with runner.
func NewController(runner *BatchRunner, opts ...ControllerOption) *Controller {
	c := &Controller{
		runner: runner,
		buffer: DefaultSubscriberBuffer,
		state:  model.RunStateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.runner == nil {
		c.runner = NewBatchRunner(nil, WithBatchLogger(c.logger))
	}
	return c
}

// State returns the current run state. It is safe to call from any goroutine.
func (c *Controller) State() model.RunState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe returns a channel that receives every event published after the
// call, in order. The channel is closed when the current or next run ends.
func (c *Controller) Subscribe() <-chan model.ProgressEvent {
	ch := make(chan model.ProgressEvent, c.buffer)
	c.mu.Lock()
	c.subscribers = append(c.subscribers, ch)
	c.mu.Unlock()
	return ch
}

// Start begins analyzing files for the keywords in set and returns at once.
// The file list and keyword set are copied before Start returns. When the
// batch is done, build is called with the result; a nil build skips reporting.
//
// The returned channel yields exactly one Outcome and is then closed.
func (c *Controller) Start(ctx context.Context, files []string, set model.KeywordSet, build ReportFunc) (<-chan Outcome, error) {
	c.mu.Lock()
	if c.state == model.RunStateRunning {
		c.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	c.state = model.RunStateRunning
	c.mu.Unlock()

	files = slices.Clone(files)
	set = set.Freeze()
	out := make(chan Outcome, 1)

	go func() {
		defer close(out)
		out <- c.run(ctx, files, set, build)
	}()

	return out, nil
}

func (c *Controller) run(ctx context.Context, files []string, set model.KeywordSet, build ReportFunc) (outcome Outcome) {
	state := model.RunStateFailed
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("run aborted", "panic", r)
			outcome.Err = fmt.Errorf("run aborted: %v", r)
			state = model.RunStateFailed
		}
		c.finish(state)
	}()

	outcome.Result = c.runner.run(ctx, files, set, c.publish)

	if build != nil {
		outcome.Reports, outcome.Err = build(outcome.Result)
		for _, path := range outcome.Reports {
			ev := model.NewEvent(model.EventReportWritten)
			ev.Message = path
			c.publish(ev)
		}
	}
	if outcome.Err != nil {
		c.logger.Error("report generation failed", "error", outcome.Err)
	} else {
		state = model.RunStateCompleted
	}

	ev := model.NewEvent(model.EventRunFinished)
	ev.Total = len(outcome.Result.Files)
	ev.Matches = outcome.Result.TotalMatches()
	ev.Message = state.String()
	c.publish(ev)

	return outcome
}

// publish delivers ev to every current subscriber.
func (c *Controller) publish(ev model.ProgressEvent) {
	c.mu.Lock()
	subs := slices.Clone(c.subscribers)
	c.mu.Unlock()

	for _, ch := range subs {
		ch <- ev
	}
}

// finish records the final state and closes every subscription.
func (c *Controller) finish(state model.RunState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = state
	for _, ch := range c.subscribers {
		close(ch)
	}
	c.subscribers = nil
}
