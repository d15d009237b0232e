// Package batch runs multiple cmake invocations concurrently
package batch

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cmakekit/cmakekit/pkg/logger"
)

// Invoker is the execution surface a batch job needs. *cmake.Invocation
// satisfies it.
type Invoker interface {
	Run(ctx context.Context) error
}

// Job pairs a display name with the invocation to run. Each job owns its
// invocation exclusively; nothing is shared between jobs.
type Job struct {
	Name       string
	Invocation Invoker
}

// Result records the outcome of one job. ID is a unique identifier
// correlating the result with the job's log lines.
type Result struct {
	ID   string
	Name string
	Err  error
}

// Runner executes independent invocations with bounded parallelism and
// panic recovery, so one misbehaving invocation cannot take down the rest.
type Runner struct {
	log   logger.Logger
	limit int
}

// NewRunner creates a Runner. A limit of zero or less means unbounded
// parallelism.
func NewRunner(log logger.Logger, limit int) *Runner {
	return &Runner{
		log:   log,
		limit: limit,
	}
}

// Run executes all jobs and blocks until every one has finished. Every job
// is attempted regardless of other jobs' failures. Results are returned in
// job order; the error is the first failure observed, nil if all succeeded.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))

	var g errgroup.Group
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}

	for n, job := range jobs {
		g.Go(func() (err error) {
			id := uuid.NewString()
			log := r.log.WithScope(job.Name)

			defer func() {
				if rec := recover(); rec != nil {
					err = fmt.Errorf("invocation panic: %v", rec)
					results[n] = Result{ID: id, Name: job.Name, Err: err}

					log.Error("Invocation panic recovered",
						logger.WithField("id", id),
						logger.WithField("panic", rec),
						logger.WithField("stack_trace", string(debug.Stack())))
				}
			}()

			log.Info("Starting invocation", logger.WithField("id", id))

			runErr := job.Invocation.Run(ctx)
			results[n] = Result{ID: id, Name: job.Name, Err: runErr}

			if runErr != nil {
				log.Error("Invocation failed",
					logger.WithField("id", id),
					logger.WithField("error", runErr))
				return runErr
			}

			log.Success("Invocation completed", logger.WithField("id", id))
			return nil
		})
	}

	err := g.Wait()
	return results, err
}
