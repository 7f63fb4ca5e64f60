package dynamo

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Job is one independent simulation run.
type Job func(ctx context.Context) (*Trajectory, error)

// Sweep runs jobs concurrently on at most workers goroutines (GOMAXPROCS
// when workers <= 0). Results are returned in job order. The first error
// cancels the remaining jobs and is returned without results.
func Sweep(ctx context.Context, jobs []Job, workers int) ([]*Trajectory, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*Trajectory, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, job := range jobs {
		g.Go(func() error {
			traj, err := job(gctx)
			if err != nil {
				return err
			}
			results[i] = traj
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
