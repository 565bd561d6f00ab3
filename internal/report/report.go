// Package report writes a per-subject markdown report and renders it to HTML.
package report

import (
	"fmt"
	"strings"
	"time"

	"biodash/domain/core"
	"biodash/domain/dataset"
	"biodash/domain/render"
	"biodash/internal/projection"
	"biodash/internal/summary"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Report is one generated subject report.
type Report struct {
	ID          core.ReportID `json:"id"`
	Subject     string        `json:"subject"`
	Index       int           `json:"index"`
	GeneratedAt time.Time     `json:"generated_at"`
	Markdown    string        `json:"markdown"`
}

// Generator builds reports; Now is replaceable for tests.
type Generator struct {
	Now func() time.Time
}

// NewGenerator creates a generator using the wall clock
func NewGenerator() *Generator {
	return &Generator{Now: time.Now}
}

// Generate projects the subject and writes its report.
func (g *Generator) Generate(ds *dataset.Dataset, index int) (*Report, error) {
	dash, err := projection.Dispatch(ds, index)
	if err != nil {
		return nil, err
	}
	sum, err := summary.ForSubject(ds, index)
	if err != nil {
		return nil, err
	}

	r := &Report{
		ID:          core.NewReportID(),
		Subject:     dash.Subject,
		Index:       index,
		GeneratedAt: g.Now().UTC(),
	}
	r.Markdown = writeMarkdown(r, dash, sum)
	return r, nil
}

func writeMarkdown(r *Report, dash *render.Dashboard, sum *summary.Subject) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Subject %s\n\n", r.Subject)
	fmt.Fprintf(&b, "_Report %s, generated %s_\n\n", r.ID, r.GeneratedAt.Format(time.RFC3339))

	b.WriteString("## Demographics\n\n")
	if len(dash.Demographics.Lines) == 0 {
		b.WriteString("No demographic information.\n\n")
	}
	for _, line := range dash.Demographics.Lines {
		fmt.Fprintf(&b, "- %s\n", escape(line))
	}
	b.WriteString("\n")

	b.WriteString("## Washing frequency\n\n")
	if dash.Gauge.Valid {
		fmt.Fprintf(&b, "%d washes per week (scale %g to %g).\n\n", dash.Gauge.WashCount, dash.Gauge.Axis.Min, dash.Gauge.Axis.Max)
	} else {
		b.WriteString("Not reported.\n\n")
	}

	fmt.Fprintf(&b, "## %s\n\n", dash.Bar.Title)
	b.WriteString("| Rank | OTU | Abundance | Label |\n|---:|---|---:|---|\n")
	rank := 0
	for i := dash.Bar.Len() - 1; i >= 0; i-- {
		if dash.Bar.Placeholder[i] {
			continue
		}
		rank++
		fmt.Fprintf(&b, "| %d | %s | %g | %s |\n", rank, dash.Bar.Categories[i], dash.Bar.Values[i], escape(dash.Bar.Labels[i]))
	}
	if rank == 0 {
		b.WriteString("| - | - | - | no taxa measured |\n")
	}
	b.WriteString("\n")

	b.WriteString("## Diversity\n\n")
	fmt.Fprintf(&b, "- Taxa measured: %d\n", sum.Taxa)
	fmt.Fprintf(&b, "- Richness: %d\n", sum.Diversity.Richness)
	fmt.Fprintf(&b, "- Shannon index: %.3f\n", sum.Diversity.Shannon)
	fmt.Fprintf(&b, "- Simpson index: %.3f\n", sum.Diversity.Simpson)
	fmt.Fprintf(&b, "- Evenness: %.3f\n", sum.Diversity.Evenness)
	if sum.Taxa > 0 {
		fmt.Fprintf(&b, "- Abundance: total %g, median %g, mean %.2f (sd %.2f)\n",
			sum.Abundance.Total, sum.Abundance.Median, sum.Abundance.Mean, sum.Abundance.StdDev)
	}
	return b.String()
}

// escape keeps table cells and list items intact.
func escape(s string) string {
	r := strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`)
	return r.Replace(s)
}

// HTML renders the report markdown.
func (r *Report) HTML() []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return markdown.ToHTML([]byte(r.Markdown), p, renderer)
}
