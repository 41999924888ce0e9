// a11yexport renders a portable report document to another format from the
// command line, without running the editor service.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/hazyhaar/a11yreport/export"
	"github.com/hazyhaar/a11yreport/report"
)

func main() {
	in := pflag.StringP("in", "i", "", "portable report document to read (required)")
	format := pflag.StringP("format", "f", "html", "output format: json, markdown, html, digest")
	out := pflag.StringP("out", "o", "", "output file (default stdout)")
	since := pflag.String("since", "", "digest start date, YYYY-MM-DD (digest format only)")
	sortOrder := pflag.String("sort", "page", "issue order: page, criteria, priority")
	pflag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "a11yexport: --in is required")
		pflag.Usage()
		os.Exit(2)
	}

	raw, err := os.ReadFile(*in)
	if err != nil {
		fatal(err)
	}
	r, err := export.DecodeJSON(raw)
	if err != nil {
		fatal(err)
	}

	order := report.SortOrder(*sortOrder)
	if !order.Valid() {
		fatal(fmt.Errorf("unknown sort order %q", *sortOrder))
	}

	var rendered []byte
	switch *format {
	case "json":
		rendered, err = export.EncodeJSON(r)
		if err != nil {
			fatal(err)
		}
	case "markdown":
		rendered = []byte(export.BuildMarkdown(r, order))
	case "html":
		rendered, err = export.BuildHTML(r, order)
		if err != nil {
			fatal(err)
		}
	case "digest":
		if *since == "" {
			fatal(fmt.Errorf("--since is required for the digest format"))
		}
		start, err := time.Parse("2006-01-02", *since)
		if err != nil {
			fatal(fmt.Errorf("--since must be YYYY-MM-DD: %w", err))
		}
		rendered = []byte(export.BuildDigest(r, start).Render(r.Name))
	default:
		fatal(fmt.Errorf("unknown format %q", *format))
	}

	if *out == "" {
		os.Stdout.Write(rendered)
		return
	}
	if err := export.WriteFile(*out, rendered); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "a11yexport: %v\n", err)
	os.Exit(1)
}
