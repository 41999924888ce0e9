package export

import (
	"bytes"
	"fmt"
	"html"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	ghtml "github.com/yuin/goldmark/renderer/html"

	"github.com/hazyhaar/a11yreport/report"
)

// htmlShell wraps the rendered body. Styling is inline; the document must
// reference no external resources so it stays viewable offline.
const htmlShell = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 56rem; margin: 2rem auto; padding: 0 1rem; color: #1a1a1a; }
h1 { border-bottom: 2px solid #1a1a1a; padding-bottom: .3rem; }
h2 { margin-top: 2rem; border-bottom: 1px solid #ccc; padding-bottom: .2rem; }
img { max-width: 100%%; border: 1px solid #ccc; }
code { background: #f4f4f4; padding: .1rem .3rem; }
</style>
</head>
<body>
%s</body>
</html>
`

// BuildHTML renders the report as a single self-contained HTML document:
// markdown body rendered by goldmark, then sanitized. The sanitizer allows
// data-URI images so embedded screenshots survive while script and external
// references do not.
func BuildHTML(r report.Report, order report.SortOrder) ([]byte, error) {
	md := goldmark.New(goldmark.WithRendererOptions(ghtml.WithUnsafe()))
	var body bytes.Buffer
	if err := md.Convert([]byte(BuildMarkdown(r, order)), &body); err != nil {
		return nil, fmt.Errorf("export: render html: %w", err)
	}

	policy := bluemonday.UGCPolicy()
	policy.AllowDataURIImages()
	safe := policy.SanitizeBytes(body.Bytes())

	doc := fmt.Sprintf(htmlShell, html.EscapeString(r.Name), safe)
	return []byte(doc), nil
}
