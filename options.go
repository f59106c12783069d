package takeoff

import (
	"log"

	"github.com/tsawler/takeoff/llm"
	"github.com/tsawler/takeoff/measure"
	"github.com/tsawler/takeoff/render"
)

// JobOptions holds configuration for a measurement job.
type JobOptions struct {
	// Page selection (1-indexed, as in the page file)
	pages []int

	// Pipeline configuration
	config    measure.Config
	hasConfig bool

	// Model integration
	verifyWith    llm.Completer
	interpretWith llm.Completer
	maxAttempts   int
	render        render.Config

	logger      *log.Logger
	concurrency int
}

// defaultOptions returns the default job options.
func defaultOptions() JobOptions {
	return JobOptions{
		pages:  nil, // nil means all pages
		render: render.DefaultConfig(),
	}
}

// clone creates a deep copy of JobOptions.
func (o JobOptions) clone() JobOptions {
	newOpts := o

	// Deep copy pages slice
	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}

	return newOpts
}
