package report

import (
	"context"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"sheetdiff/domain/run"
)

const pageCSS = `<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 1em; }
th, td { border: 1px solid #ccc; padding: 2px 8px; }
th { background: #f0f0f0; }
</style>
`

// ToHTML renders markdown to an HTML fragment. Raw HTML in the source is
// dropped.
func ToHTML(md []byte) []byte {
	return renderHTML(md, html.RendererOptions{Flags: html.SkipHTML | html.Safelink})
}

func renderHTML(md []byte, opts html.RendererOptions) []byte {
	// Parsers keep state, so each render gets its own.
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	return markdown.ToHTML(md, p, html.NewRenderer(opts))
}

// HTML renders the markdown report as a standalone page
type HTML struct {
	markdown *Markdown
}

// NewHTML creates an HTML report writer
func NewHTML() *HTML {
	return &HTML{markdown: NewMarkdown()}
}

// Format implements ports.ReportWriter
func (h *HTML) Format() string { return "html" }

// Render returns the complete HTML page for record
func (h *HTML) Render(record *run.Record) []byte {
	return renderHTML(h.markdown.Render(record), html.RendererOptions{
		Flags: html.SkipHTML | html.Safelink | html.CompletePage,
		Title: "Excel Comparison Report " + record.ID.String(),
		Head:  []byte(pageCSS),
	})
}

// Write implements ports.ReportWriter
func (h *HTML) Write(ctx context.Context, record *run.Record, dir string) (string, error) {
	return writeFile(ctx, h.Format(), dir, fileName(record, "html"), h.Render(record))
}
