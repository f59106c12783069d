// Package takeoff provides a fluent API for measuring floor plans: gross
// area, perimeter, wall lengths and rooms from the vector content of a
// drawing page.
//
// Basic usage:
//
//	pages, warnings, err := takeoff.Open("plan.yaml").Measure(ctx)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", takeoff.FormatWarnings(warnings))
//	}
//
// With options:
//
//	pages, _, err := takeoff.Open("plan.yaml").
//	    Pages(2).
//	    Verify(client).
//	    Interpret(client).
//	    Measure(ctx)
//
// For finer control the stage packages (walls, rooms, scale, ...) and the
// measure.Service they are wired into are available directly.
package takeoff

import (
	"fmt"
	"strings"

	"github.com/tsawler/takeoff/model"
	"github.com/tsawler/takeoff/pagefile"
)

// Open returns a Job that reads its pages from a page file when a terminal
// operation runs.
//
// Example:
//
//	pages, warnings, err := takeoff.Open("plan.json").Measure(ctx)
func Open(filename string) *Job {
	return &Job{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromPages returns a Job over already decoded pages. Pages without a
// number are numbered by position.
//
// Example:
//
//	page := model.NewPage(792, 612)
//	page.AddLine(model.Pt(100, 100), model.Pt(676, 100), 2)
//	pages, _, err := takeoff.FromPages(page).Measure(ctx)
func FromPages(pages ...*model.Page) *Job {
	j := &Job{
		options: defaultOptions(),
		loaded:  true,
	}
	for i, p := range pages {
		if p == nil {
			continue
		}
		if p.Number == 0 {
			c := *p
			c.Number = i + 1
			p = &c
		}
		j.pages = append(j.pages, p)
	}
	if len(j.pages) == 0 {
		j.err = pagefile.ErrNoPages
	}
	return j
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := takeoff.Must(takeoff.Open("plan.yaml").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustMeasure is a helper that wraps a call to Measure and panics if the
// error is non-nil. It discards warnings and returns just the value.
//
// Example:
//
//	pages := takeoff.MustMeasure(takeoff.Open("plan.yaml").Measure(ctx))
func MustMeasure[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// Warning is a non-fatal problem met while measuring a page. The numbers
// it carries are still usable but less trustworthy.
type Warning struct {
	Page    int
	Message string
}

// String returns "page N: message", or just the message without a page.
func (w Warning) String() string {
	if w.Page == 0 {
		return w.Message
	}
	return fmt.Sprintf("page %d: %s", w.Page, w.Message)
}

// FormatWarnings joins warnings into one line.
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}
