package verify

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"strings"

	"github.com/tsawler/takeoff/llm"
	"github.com/tsawler/takeoff/model"
	"github.com/tsawler/takeoff/scale"
)

// Source records where the resolved scale came from.
type Source string

const (
	Deterministic Source = "DETERMINISTIC"
	LLMConfirmed  Source = "LLM_CONFIRMED"
	LLMRecovered  Source = "LLM_RECOVERED"
	Unverified    Source = "UNVERIFIED"
)

// Trusted reports whether the model backed the scale.
func (s Source) Trusted() bool {
	return s == LLMConfirmed || s == LLMRecovered
}

const (
	// ConfirmTolerance is the relative difference accepted silently.
	ConfirmTolerance = 0.05
	// WarnTolerance is the relative difference accepted with a warning.
	WarnTolerance = 0.10
)

// Result is the outcome of one verification.
type Result struct {
	Scale    *scale.Result `json:"scale"`
	Source   Source        `json:"source"`
	Warnings []string      `json:"warnings,omitempty"`

	// Notation as the model wrote it
	LLMNotation string `json:"llm_notation,omitempty"`
}

// Estimate is the model's answer.
type Estimate struct {
	Notation    string  `json:"notation"`
	PaperInches float64 `json:"paper_inches"`
	RealInches  float64 `json:"real_inches"`
	Factor      float64 `json:"scale_factor"`
	Confidence  string  `json:"confidence"`
}

// Input is what the model is shown.
type Input struct {
	Detected   *scale.Result
	Blocks     []model.TextBlock
	PageHeight float64
	Image      *llm.Image
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithLogger sets the logger for model failures.
func WithLogger(l *log.Logger) Option {
	return func(v *Verifier) {
		if l != nil {
			v.logger = l
		}
	}
}

// WithMaxAttempts sets how many times a malformed reply is asked again.
func WithMaxAttempts(n int) Option {
	return func(v *Verifier) {
		if n > 0 {
			v.maxAttempts = n
		}
	}
}

// Verifier asks the model for a second opinion on the scale.
type Verifier struct {
	client      llm.Completer
	maxAttempts int
	logger      *log.Logger
}

// New creates a verifier backed by client.
func New(client llm.Completer, opts ...Option) *Verifier {
	v := &Verifier{
		client:      client,
		maxAttempts: 2,
		logger:      log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify resolves the scale for a page. Failures of any kind yield an
// Unverified result carrying the deterministic scale, if there was one.
func (v *Verifier) Verify(ctx context.Context, in Input) Result {
	if v.client == nil {
		return unverified(in.Detected, "", "no model client configured")
	}

	var est Estimate
	req := llm.Request{
		System:    systemPrompt,
		Text:      BuildPrompt(in),
		Image:     in.Image,
		MaxTokens: 512,
	}
	if err := llm.AskJSON(ctx, v.client, req, v.maxAttempts, &est); err != nil {
		if llm.IsMalformed(err) {
			v.logger.Printf("Failed to parse scale verification reply: %v", err)
			return unverified(in.Detected, "", "LLM returned unparseable response")
		}
		v.logger.Printf("Failed to verify scale: %v", err)
		return unverified(in.Detected, "", fmt.Sprintf("LLM API call failed; using best deterministic scale (%v)", err))
	}

	return Decide(in.Detected, est)
}

// Decide applies the agreement rules to a deterministic scale and the
// model's estimate.
func Decide(detected *scale.Result, est Estimate) Result {
	confidence := strings.ToUpper(strings.TrimSpace(est.Confidence))
	if confidence == "" {
		confidence = "LOW"
	}
	notation := strings.TrimSpace(est.Notation)

	if confidence == "LOW" || est.Factor <= 0 {
		return unverified(detected, notation, "LLM confidence too low to verify or recover")
	}

	if detected == nil || !detected.IsValid() {
		return recovered(est, notation)
	}

	det := detected.Factor
	ratio := math.Abs(est.Factor-det) / det

	switch {
	case ratio <= ConfirmTolerance:
		return Result{Scale: detected, Source: LLMConfirmed, LLMNotation: notation}
	case ratio <= WarnTolerance:
		return Result{
			Scale:       detected,
			Source:      LLMConfirmed,
			LLMNotation: notation,
			Warnings: []string{fmt.Sprintf("LLM scale (%.1f) differs from detected (%.1f) by %.0f%%",
				est.Factor, det, ratio*100)},
		}
	default:
		return Result{
			Scale:       detected,
			Source:      Deterministic,
			LLMNotation: notation,
			Warnings: []string{fmt.Sprintf("LLM scale (%.1f) disagrees with detected (%.1f) by %.0f%%; keeping detected scale",
				est.Factor, det, ratio*100)},
		}
	}
}

// recovered adopts the model's scale. Paper and real lengths are kept when
// they agree with the factor, otherwise the factor is expressed per inch.
func recovered(est Estimate, notation string) Result {
	drawing, realInches := 1.0, est.Factor
	if est.PaperInches > 0 && est.RealInches > 0 &&
		math.Abs(est.RealInches/est.PaperInches-est.Factor) <= est.Factor*0.01 {
		drawing, realInches = est.PaperInches, est.RealInches
	}
	if notation == "" {
		notation = "LLM-recovered"
	}
	return Result{
		Scale: &scale.Result{
			DrawingUnits: drawing,
			RealUnits:    realInches,
			Factor:       realInches / drawing,
			Notation:     notation,
			Confidence:   model.ConfidenceMedium,
		},
		Source:      LLMRecovered,
		LLMNotation: strings.TrimSpace(est.Notation),
	}
}

func unverified(detected *scale.Result, notation, warning string) Result {
	return Result{
		Scale:       detected,
		Source:      Unverified,
		Warnings:    []string{warning},
		LLMNotation: notation,
	}
}
