// Package pagefile reads and writes page documents, the input boundary of
// the measurement pipeline.
//
// A page document is JSON or YAML holding either a single page or a list
// of pages under "pages":
//
//	pages:
//	  - number: 1
//	    width: 792
//	    height: 612
//	    ops:
//	      - kind: line
//	        points: [{x: 100, y: 100}, {x: 676, y: 100}]
//	        width: 2
//	    text:
//	      - text: 'SCALE: 1/4"=1''-0"'
//	        bbox: {x: 300, y: 560, width: 120, height: 12}
//
// Basic usage:
//
//	pages, err := pagefile.Open("plan.yaml")
//	if errors.Is(err, pagefile.ErrNoPages) {
//	    // nothing to measure
//	}
package pagefile
