package batch

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/danmaidesenling/imageProcessor/internal/compositor"
	"github.com/danmaidesenling/imageProcessor/internal/imageio"
	"github.com/danmaidesenling/imageProcessor/internal/photosize"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir  string
	Compositor *compositor.Compositor
	Background string
	Size       *photosize.Size // nil keeps the source dimensions
	Format     imageio.Format
	MaskAlpha  bool
	Workers    int
	Log        *zap.Logger
	// ProgressEvery is the progress log interval; zero means 2s.
	ProgressEvery time.Duration
}

// Result holds the outcome of processing one job.
type Result struct {
	Name    string
	Output  string
	Width   int
	Height  int
	Success bool
	Error   string
}

// Run processes all jobs using a worker pool. Jobs not started before ctx is
// done are reported as failed with the context error.
func Run(ctx context.Context, cfg Config, jobs []Job) []Result {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = 2 * time.Second
	}

	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(cfg.ProgressEvery)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					cfg.Log.Info("progress",
						zap.Int64("done", p),
						zap.Int("total", total),
						zap.Float64("per_sec", float64(p)/time.Since(start).Seconds()))
				}
			}
		}
	}()

	// Worker pool
	jobChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				if err := ctx.Err(); err != nil {
					results[idx] = Result{Name: jobs[idx].Name, Error: err.Error()}
				} else {
					results[idx] = processJob(cfg, jobs[idx])
				}
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

func processJob(cfg Config, job Job) Result {
	res := Result{Name: job.Name}
	fail := func(err error) Result {
		res.Error = err.Error()
		cfg.Log.Warn("job failed", zap.String("name", job.Name), zap.Error(err))
		return res
	}

	photo, err := imageio.Load(job.PhotoPath)
	if err != nil {
		return fail(err)
	}
	mask, err := imageio.LoadMask(job.MaskPath, cfg.MaskAlpha)
	if err != nil {
		return fail(err)
	}

	out, err := cfg.Compositor.Composite(photo, mask, cfg.Background)
	if err != nil {
		return fail(err)
	}

	var final image.Image = out
	name := fmt.Sprintf("%s.%s", job.Name, cfg.Format)
	if cfg.Size != nil {
		final = photosize.Fit(out, *cfg.Size)
		name = fmt.Sprintf("%s_%s", job.Name, cfg.Size.FileName(string(cfg.Format)))
	}

	res.Output = filepath.Join(cfg.OutputDir, name)
	if err := imageio.Save(res.Output, final); err != nil {
		res.Output = ""
		return fail(err)
	}

	b := final.Bounds()
	res.Width, res.Height = b.Dx(), b.Dy()
	res.Success = true
	cfg.Log.Debug("job done", zap.String("name", job.Name), zap.String("output", res.Output))
	return res
}
