package dithering

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gammazero/workerpool"
	log "github.com/sirupsen/logrus"

	"github.com/ditherit/ditherit/pkg/img"
)

// Job is one image to dither.
type Job struct {
	// Input is a file path or an http(s) URL.
	Input string
	// Output is the destination file. When empty, it's computed
	// from the input name and the runner's OutDir.
	Output string
}

// Result is the outcome of a Job.
type Result struct {
	Job
	Format  string
	Elapsed time.Duration
	Err     error
}

// Runner dithers many images concurrently on a worker pool.
type Runner struct {
	Pipeline  img.Pipeline
	Processor string
	Format    string
	MaxPixels int
	OutDir    string
	Workers   int
	Client    *http.Client
}

// Run processes every job and returns the results in the jobs order.
// Jobs that did not start before ctx is done report ctx.Err().
func (r *Runner) Run(ctx context.Context, jobs []Job) []Result {
	workers := r.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(jobs) && len(jobs) > 0 {
		workers = len(jobs)
	}

	res := make([]Result, len(jobs))
	wp := workerpool.New(workers)
	for i := range jobs {
		i := i
		wp.Submit(func() {
			res[i] = r.process(ctx, jobs[i])
		})
	}
	wp.StopWait()

	return res
}

func (r *Runner) process(ctx context.Context, job Job) (res Result) {
	res.Job = job
	if err := ctx.Err(); err != nil {
		res.Err = err
		return
	}

	start := time.Now()
	logger := log.WithField("input", job.Input)

	defer func() {
		if rec := recover(); rec != nil {
			res.Err = fmt.Errorf("%v", rec)
		}
		res.Elapsed = time.Since(start)
		if res.Err != nil {
			logger.WithError(res.Err).Error("cannot dither image")
			return
		}
		logger.WithFields(log.Fields{
			"output":    res.Output,
			"algorithm": r.Pipeline.Dither.Algorithm,
			"elapsed":   res.Elapsed,
		}).Info("image dithered")
	}()

	im, err := r.load(job.Input)
	if err != nil {
		res.Err = err
		return
	}
	defer im.Close()

	if err = r.Pipeline.Run(im); err != nil {
		res.Err = err
		return
	}

	body, format, err := im.Encode(r.Format)
	if err != nil {
		res.Err = err
		return
	}
	res.Format = format

	if res.Output == "" {
		res.Output = OutputName(job.Input, r.OutDir, format)
	}
	res.Err = writeFile(res.Output, body)
	return
}

func (r *Runner) load(input string) (img.Image, error) {
	if isURL(input) {
		return img.Fetch(input, r.Client, r.Processor, r.MaxPixels)
	}

	fd, err := os.Open(input)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	return img.New(r.Processor, fd, r.MaxPixels)
}

func writeFile(name string, body io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}

	fd, err := os.Create(name)
	if err != nil {
		return err
	}
	if _, err = io.Copy(fd, body); err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// OutputName returns "<base>.dithered.<ext>" for an input path or URL.
// The file is placed in dir, or next to a local input when dir is empty.
func OutputName(input, dir, format string) string {
	var base string
	if isURL(input) {
		u, _ := url.Parse(input)
		base = path.Base(u.Path)
		if base == "/" || base == "." {
			base = "image"
		}
	} else {
		base = filepath.Base(input)
		if dir == "" {
			dir = filepath.Dir(input)
		}
	}

	base = strings.TrimSuffix(base, path.Ext(base))
	return filepath.Join(dir, base+".dithered"+img.Extension(format))
}
