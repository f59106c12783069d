package measure

import (
	"log"

	"github.com/tsawler/takeoff/interpret"
	"github.com/tsawler/takeoff/render"
	"github.com/tsawler/takeoff/verify"
)

// Option configures a Service.
type Option func(*Service)

// WithConfig replaces the stage configuration.
func WithConfig(c Config) Option {
	return func(s *Service) {
		s.applyConfig(c)
	}
}

// WithVerifier enables model verification of the scale.
func WithVerifier(v *verify.Verifier) Option {
	return func(s *Service) {
		s.verifier = v
	}
}

// WithInterpreter enables model interpretation of the measured geometry.
func WithInterpreter(i *interpret.Interpreter) Option {
	return func(s *Service) {
		s.interpreter = i
	}
}

// WithRenderer attaches a rendered page image to model requests.
func WithRenderer(r *render.Renderer) Option {
	return func(s *Service) {
		s.renderer = r
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithConcurrency limits how many pages MeasureAll works on at once.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}
