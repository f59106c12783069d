package takeoff

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/tsawler/takeoff/interpret"
	"github.com/tsawler/takeoff/llm"
	"github.com/tsawler/takeoff/measure"
	"github.com/tsawler/takeoff/model"
	"github.com/tsawler/takeoff/pagefile"
	"github.com/tsawler/takeoff/render"
	"github.com/tsawler/takeoff/verify"
)

// Job provides a fluent interface for measuring the pages of a page file.
// Each configuration method returns a new Job, making it safe for
// concurrent use and allowing method chaining.
type Job struct {
	// Source
	filename string
	pages    []*model.Page
	loaded   bool

	// Configuration
	options JobOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Job with a deep copy of options.
func (j *Job) clone() *Job {
	return &Job{
		filename: j.filename,
		pages:    j.pages,
		loaded:   j.loaded,
		options:  j.options.clone(),
		err:      j.err,
	}
}

// ensurePages reads the page file if not already read.
func (j *Job) ensurePages() error {
	if j.loaded {
		return nil
	}
	if j.filename == "" {
		return fmt.Errorf("no filename specified")
	}
	pages, err := pagefile.Open(j.filename)
	if err != nil {
		return fmt.Errorf("failed to open page file: %w", err)
	}
	j.pages = pages
	j.loaded = true
	return nil
}

// ============================================================================
// Configuration Methods (return new Job instance)
// ============================================================================

// Pages specifies which pages to measure (1-indexed). Multiple calls are
// cumulative.
//
// Example:
//
//	pages, _, err := takeoff.Open("set.yaml").Pages(1, 3).Measure(ctx)
func (j *Job) Pages(pages ...int) *Job {
	newJob := j.clone()
	newJob.options.pages = append(newJob.options.pages, pages...)
	return newJob
}

// Config replaces the pipeline configuration.
func (j *Job) Config(c measure.Config) *Job {
	newJob := j.clone()
	newJob.options.config = c
	newJob.options.hasConfig = true
	return newJob
}

// Verify cross-checks the detected scale with a vision model.
//
// Example:
//
//	client, _ := llm.NewClient(llm.Config{APIKey: key})
//	pages, _, err := takeoff.Open("plan.yaml").Verify(client).Measure(ctx)
func (j *Job) Verify(c llm.Completer) *Job {
	newJob := j.clone()
	newJob.options.verifyWith = c
	return newJob
}

// Interpret asks a vision model for a reading of the measured geometry.
func (j *Job) Interpret(c llm.Completer) *Job {
	newJob := j.clone()
	newJob.options.interpretWith = c
	return newJob
}

// MaxAttempts sets how often a malformed model reply is retried in total.
func (j *Job) MaxAttempts(n int) *Job {
	newJob := j.clone()
	newJob.options.maxAttempts = n
	return newJob
}

// Render sets how the page image sent to the model is rasterized.
func (j *Job) Render(c render.Config) *Job {
	newJob := j.clone()
	newJob.options.render = c
	return newJob
}

// Logger traces the pipeline to l.
func (j *Job) Logger(l *log.Logger) *Job {
	newJob := j.clone()
	newJob.options.logger = l
	return newJob
}

// Concurrency limits how many pages are measured at once.
func (j *Job) Concurrency(n int) *Job {
	newJob := j.clone()
	newJob.options.concurrency = n
	return newJob
}

// ============================================================================
// Terminal Operations
// ============================================================================

// PageCount returns the number of pages in the source.
func (j *Job) PageCount() (int, error) {
	if j.err != nil {
		return 0, j.err
	}
	if err := j.ensurePages(); err != nil {
		return 0, err
	}
	return len(j.pages), nil
}

// SelectedPages returns the decoded pages the job would measure.
func (j *Job) SelectedPages() ([]*model.Page, error) {
	if j.err != nil {
		return nil, j.err
	}
	if err := j.ensurePages(); err != nil {
		return nil, err
	}
	return j.resolvePages()
}

// Measure runs the pipeline on the selected pages. Results are in page
// order.
//
// Returns the measurements, any warnings encountered during processing,
// and an error if the source could not be read or ctx ended. Warnings
// indicate non-fatal issues (e.g., an assumed scale) where measurement
// succeeded but results may be imperfect.
//
// Example:
//
//	pages, warnings, err := takeoff.Open("plan.yaml").Measure(ctx)
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", takeoff.FormatWarnings(warnings))
//	}
func (j *Job) Measure(ctx context.Context) ([]measure.PageMeasurements, []Warning, error) {
	pages, err := j.SelectedPages()
	if err != nil {
		return nil, nil, err
	}

	results, err := j.service().MeasureAll(ctx, pages)
	if err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	for _, m := range results {
		for _, w := range m.Warnings {
			warnings = append(warnings, Warning{Page: m.PageNumber, Message: w})
		}
	}
	return results, warnings, nil
}

// service builds the measurement service for the job options.
func (j *Job) service() *measure.Service {
	o := j.options
	var opts []measure.Option
	if o.hasConfig {
		opts = append(opts, measure.WithConfig(o.config))
	}
	if o.logger != nil {
		opts = append(opts, measure.WithLogger(o.logger))
	}
	if o.concurrency > 0 {
		opts = append(opts, measure.WithConcurrency(o.concurrency))
	}

	if o.verifyWith != nil || o.interpretWith != nil {
		opts = append(opts, measure.WithRenderer(render.NewWithConfig(o.render)))
	}
	if o.verifyWith != nil {
		vo := []verify.Option{verify.WithMaxAttempts(o.maxAttempts)}
		if o.logger != nil {
			vo = append(vo, verify.WithLogger(o.logger))
		}
		opts = append(opts, measure.WithVerifier(verify.New(o.verifyWith, vo...)))
	}
	if o.interpretWith != nil {
		iopts := []interpret.Option{interpret.WithMaxAttempts(o.maxAttempts)}
		if o.logger != nil {
			iopts = append(iopts, interpret.WithLogger(o.logger))
		}
		opts = append(opts, measure.WithInterpreter(interpret.New(o.interpretWith, iopts...)))
	}
	return measure.New(opts...)
}

// resolvePages applies the page selection. Selected numbers refer to page
// numbers, which default to positions.
func (j *Job) resolvePages() ([]*model.Page, error) {
	if len(j.options.pages) == 0 {
		return j.pages, nil
	}

	byNumber := make(map[int]*model.Page, len(j.pages))
	for _, p := range j.pages {
		byNumber[p.Number] = p
	}

	seen := make(map[int]bool)
	var numbers []int
	for _, n := range j.options.pages {
		if _, ok := byNumber[n]; !ok {
			return nil, fmt.Errorf("page %d not found (%d pages)", n, len(j.pages))
		}
		if !seen[n] {
			seen[n] = true
			numbers = append(numbers, n)
		}
	}

	sort.Ints(numbers)
	out := make([]*model.Page, len(numbers))
	for i, n := range numbers {
		out[i] = byNumber[n]
	}
	return out, nil
}
