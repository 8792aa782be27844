// Package batch runs independent headless simulations in parallel.
package batch

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/san-kum/orrery/internal/clock"
	"github.com/san-kum/orrery/internal/export"
	"github.com/san-kum/orrery/internal/frame"
	"github.com/san-kum/orrery/internal/metrics"
	"github.com/san-kum/orrery/internal/physics"
)

type Job struct {
	Name    string
	System  *physics.System
	Options frame.Options
}

type Result struct {
	Name    string
	Frames  int
	Metrics map[string]float64
	Final   *physics.System
	Err     error
}

// Run advances every job for the given number of frames on a fixed step
// clock of 1/FPS seconds, using at most workers goroutines. Results are
// returned in job order. Job systems are cloned and left untouched.
// frames <= 0 runs each job until ctx is done.
func Run(ctx context.Context, jobs []Job, frames, workers int) []Result {
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(jobs))
	idx := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				results[i] = runOne(ctx, jobs[i], frames)
			}
		}()
	}

	for i := range jobs {
		idx <- i
	}
	close(idx)
	wg.Wait()

	return results
}

func runOne(ctx context.Context, job Job, frames int) Result {
	sys := job.System.Clone()
	opts := job.Options
	if opts.FPS <= 0 {
		opts.FPS = frame.DefaultOptions().FPS
	}

	interval := time.Second / time.Duration(opts.FPS)
	clk := clock.New(clock.NewStepSource(time.Unix(0, 0), interval))
	drv := frame.New(sys, export.NewSVGSurface(), clk, opts)

	ms := metrics.Defaults()
	for _, m := range ms {
		drv.AddObserver(m)
	}

	err := drv.Run(ctx, frames)
	return Result{
		Name:    job.Name,
		Frames:  drv.Frames(),
		Metrics: metrics.Collect(ms),
		Final:   sys,
		Err:     err,
	}
}

// VelocitySweep builds one job per factor, each with body's velocity
// scaled by that factor.
func VelocitySweep(name string, sys *physics.System, body int, factors []float64, opts frame.Options) []Job {
	jobs := make([]Job, 0, len(factors))
	for _, f := range factors {
		c := sys.Clone()
		if body >= 0 && body < c.Len() {
			c.Bodies[body].Velocity = c.Bodies[body].Velocity.Scale(f)
		}
		jobs = append(jobs, Job{Name: name, System: c, Options: opts})
	}
	return jobs
}

// Best returns the index of the successful result with the lowest value of
// metric, or -1.
func Best(results []Result, metric string) int {
	order := make([]int, 0, len(results))
	for i, r := range results {
		if r.Err != nil {
			continue
		}
		if _, ok := r.Metrics[metric]; ok {
			order = append(order, i)
		}
	}
	if len(order) == 0 {
		return -1
	}
	sort.SliceStable(order, func(a, b int) bool {
		return results[order[a]].Metrics[metric] < results[order[b]].Metrics[metric]
	})
	return order[0]
}
