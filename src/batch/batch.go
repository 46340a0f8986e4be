// Package batch advances many independent universes concurrently, one
// goroutine per universe, for headless soak runs and benchmarking.
package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"bitlife/src/diag"
	"bitlife/src/universe"
)

// Job describes one universe to advance.
type Job struct {
	Name        string
	Width       int
	Height      int
	Generations int
	Seed        uint64
}

// Result is the outcome of a finished Job.
type Result struct {
	Name        string
	Generations int
	LiveCells   int
	Fingerprint string
	Elapsed     time.Duration
}

func (r Result) String() string {
	return fmt.Sprintf("%s: %d generations, %d live cells, %s in %v",
		r.Name, r.Generations, r.LiveCells, r.Fingerprint[:8], r.Elapsed.Round(time.Microsecond))
}

// Jobs builds n square jobs with consecutive seeds starting at seed.
func Jobs(n int, width int, height int, generations int, seed uint64) []Job {
	jobs := make([]Job, n)
	for i := range jobs {
		jobs[i] = Job{
			Name:        fmt.Sprintf("universe-%d", i),
			Width:       width,
			Height:      height,
			Generations: generations,
			Seed:        seed + uint64(i),
		}
	}
	return jobs
}

// Run advances every job on its own universe with at most limit running at
// once (limit <= 0 means no limit). The first failure cancels the rest.
// Results are returned in job order.
func Run(ctx context.Context, jobs []Job, limit int) ([]Result, error) {
	results := make([]Result, len(jobs))
	eg, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}
	for i, job := range jobs {
		eg.Go(func() error {
			res, err := runJob(ctx, job)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runJob(ctx context.Context, job Job) (res Result, err error) {
	defer diag.Recover("batch."+job.Name, &err)

	u, err := universe.NewWithOptions(&universe.Options{
		Width:  job.Width,
		Height: job.Height,
		Random: universe.NewRandom(job.Seed),
	})
	if err != nil {
		return res, errors.Wrapf(err, "[batch.Run] job %s", job.Name)
	}

	start := time.Now()
	for gen := 0; gen < job.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return res, errors.Wrapf(err, "[batch.Run] job %s stopped at generation %d", job.Name, gen)
		}
		u.Tick()
	}
	res = Result{
		Name:        job.Name,
		Generations: job.Generations,
		LiveCells:   u.Population(),
		Fingerprint: u.Fingerprint(),
		Elapsed:     time.Since(start),
	}
	diag.Logger().Debug("batch job done", "job", job.Name, "live", res.LiveCells)
	return res, nil
}
