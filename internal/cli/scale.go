package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tsawler/takeoff/model"
	"github.com/tsawler/takeoff/render"
	"github.com/tsawler/takeoff/scale"
	"github.com/tsawler/takeoff/vectors"
	"github.com/tsawler/takeoff/verify"
)

func (a *app) scaleCommand() *cobra.Command {
	var (
		page     int
		doVerify bool
		timeout  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "scale <page-file>",
		Short: "Show how the drawing scale is found",
		Long: `Scale lists the scale candidates on each page, the notation found in the
text, the dimension calibration and, with --verify, the model's opinion.

Examples:
  takeoff scale plan.yaml
  takeoff scale plan.yaml --verify`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pages, err := a.job(args[0], page).SelectedPages()
			if err != nil {
				return err
			}

			var v *verify.Verifier
			if doVerify {
				client, err := a.client()
				if err != nil {
					return err
				}
				v = verify.New(client, verify.WithLogger(a.logger), verify.WithMaxAttempts(client.MaxAttempts()))
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			for _, p := range pages {
				if err := a.explainScale(ctx, p, v); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "Only this page (default: all)")
	cmd.Flags().BoolVar(&doVerify, "verify", false, "Ask the vision model as well")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Give up after this long")
	return cmd
}

func (a *app) explainScale(ctx context.Context, page *model.Page, v *verify.Verifier) error {
	mc := a.cfg.Measure()
	data := vectors.NewExtractorWithConfig(mc.Vectors).Extract(page)
	blocks := scale.ExtractTextBlocks(page)
	det := scale.NewDetectorWithConfig(mc.Scale)

	w := a.stdout
	fmt.Fprintf(w, "Page %d\n", page.Number)
	candidates := scale.Candidates(blocks)
	if len(candidates) == 0 {
		fmt.Fprintln(w, "  candidates:  none")
	}
	for _, c := range candidates {
		fmt.Fprintf(w, "  candidate:   %q\n", c)
	}

	text, textOK := det.DetectFromText(scale.PageText(blocks))
	fmt.Fprintf(w, "  text:        %s\n", describe(text, textOK))
	dims, dimsOK := det.DetectFromDimensions(data.Paths, blocks)
	fmt.Fprintf(w, "  dimensions:  %s\n", describe(dims, dimsOK))

	var detected *scale.Result
	if r, ok := det.Detect(data, blocks); ok {
		detected = &r
	}

	if v != nil {
		img, err := render.NewWithConfig(a.cfg.Renderer()).Image(data)
		if err != nil {
			a.logger.Printf("Failed to render page %d: %v", page.Number, err)
		}
		res := v.Verify(ctx, verify.Input{Detected: detected, Blocks: blocks, PageHeight: data.PageHeight, Image: img})
		fmt.Fprintf(w, "  model:       %s", res.Source)
		if res.LLMNotation != "" {
			fmt.Fprintf(w, " (%s)", res.LLMNotation)
		}
		fmt.Fprintln(w)
		for _, warning := range res.Warnings {
			fmt.Fprintf(w, "  ! %s\n", warning)
		}
		detected = res.Scale
	}

	if detected == nil {
		d := scale.DefaultScale()
		fmt.Fprintf(w, "  result:      %s (assumed)\n", describe(d, true))
	} else {
		fmt.Fprintf(w, "  result:      %s\n", describe(*detected, true))
	}
	return ctx.Err()
}

func describe(r scale.Result, ok bool) string {
	if !ok {
		return "not found"
	}
	return fmt.Sprintf("%s, %s confidence", r, r.Confidence)
}
