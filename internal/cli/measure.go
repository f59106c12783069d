package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tsawler/takeoff"
	"github.com/tsawler/takeoff/config"
	"github.com/tsawler/takeoff/measure"
	"github.com/tsawler/takeoff/model"
	"github.com/tsawler/takeoff/pagefile"
	"github.com/tsawler/takeoff/report"
	"github.com/tsawler/takeoff/store"
)

type measureFlags struct {
	page      int
	verify    bool
	interpret bool
	json      bool
	geojson   string
	pdf       string
	save      bool
	timeout   time.Duration
}

func (a *app) measureCommand() *cobra.Command {
	var f measureFlags
	cmd := &cobra.Command{
		Use:   "measure <page-file>",
		Short: "Measure area, perimeter, walls and rooms",
		Long: `Measure runs the full pipeline on every page of a page file (or the one
selected with --page): wall detection, room reconstruction, scale detection
and optional model verification.

Examples:
  takeoff measure plan.yaml
  takeoff measure set.json --page 2 --verify --json
  takeoff measure plan.yaml --pdf overlay.pdf --save`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMeasure(cmd.Context(), args[0], f)
		},
	}

	cmd.Flags().IntVar(&f.page, "page", 0, "Measure only this page (default: all)")
	cmd.Flags().BoolVar(&f.verify, "verify", false, "Cross-check the scale with the vision model")
	cmd.Flags().BoolVar(&f.interpret, "interpret", false, "Ask the vision model to interpret the geometry")
	cmd.Flags().BoolVar(&f.json, "json", false, "Output JSON")
	cmd.Flags().StringVar(&f.geojson, "geojson", "", "Write room polygons as GeoJSON to this file")
	cmd.Flags().StringVar(&f.pdf, "pdf", "", "Write a review overlay PDF to this file")
	cmd.Flags().BoolVar(&f.save, "save", false, "Record the run in the history database")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 2*time.Minute, "Give up after this long")
	return cmd
}

// job builds the fluent job shared by measure and rooms.
func (a *app) job(file string, page int) *takeoff.Job {
	job := takeoff.Open(file).
		Config(a.cfg.Measure()).
		Render(a.cfg.Renderer()).
		Logger(a.logger)
	if page > 0 {
		job = job.Pages(page)
	}
	return job
}

func (a *app) runMeasure(ctx context.Context, file string, f measureFlags) error {
	job := a.job(file, f.page)

	if f.verify || f.interpret {
		client, err := a.client()
		if err != nil {
			return err
		}
		job = job.MaxAttempts(client.MaxAttempts())
		if f.verify {
			job = job.Verify(client)
		}
		if f.interpret {
			job = job.Interpret(client)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	results, warnings, err := job.Measure(ctx)
	if err != nil {
		return err
	}
	a.logger.Printf("Measured %d pages with %d warnings", len(results), len(warnings))

	if f.json {
		err = report.JSON(a.stdout, file, results)
	} else {
		err = report.Text(a.stdout, results)
	}
	if err != nil {
		return err
	}

	if f.pdf != "" {
		if err := writeEach(f.pdf, results, report.PDF); err != nil {
			return err
		}
	}
	if f.geojson != "" {
		if err := writeEach(f.geojson, results, report.WriteGeoJSON); err != nil {
			return err
		}
	}

	if f.save {
		pages, err := job.SelectedPages()
		if err != nil {
			return err
		}
		return a.save(ctx, pages, results)
	}
	return nil
}

// writeEach writes one file per page. With several pages the page number
// is added before the extension: overlay.pdf becomes overlay-p2.pdf.
func writeEach(path string, results []measure.PageMeasurements, write func(io.Writer, measure.PageMeasurements) error) error {
	for _, m := range results {
		out := path
		if len(results) > 1 {
			ext := filepath.Ext(path)
			out = fmt.Sprintf("%s-p%d%s", strings.TrimSuffix(path, ext), m.PageNumber, ext)
		}
		if err := writeFile(out, func(w io.Writer) error { return write(w, m) }); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (a *app) openStore() (*store.Store, error) {
	path := a.cfg.Store.Path
	if path != ":memory:" {
		if err := config.EnsureDir(path); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	return store.Open(path, store.WithLogger(a.logger))
}

func (a *app) save(ctx context.Context, pages []*model.Page, results []measure.PageMeasurements) error {
	s, err := a.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	for i, m := range results {
		run, err := s.Save(ctx, pagefile.Fingerprint(pages[i]), m)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stderr, "Saved run %s (page %d)\n", run.ID, m.PageNumber)
	}
	return nil
}
