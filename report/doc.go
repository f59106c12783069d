// Package report presents page measurements: a styled terminal summary,
// JSON, a GeoJSON room export and a PDF overlay of what was detected.
//
// Basic usage:
//
//	m, err := measure.New().Measure(ctx, page)
//	if err != nil {
//	    // handle error
//	}
//	report.Text(os.Stdout, []measure.PageMeasurements{m})
package report
