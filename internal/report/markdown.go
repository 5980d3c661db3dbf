// Package report renders evaluated scan results as human-readable summaries.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"

	"likescan/domain/scan"
)

// Markdown1D renders a 1D scan result as a markdown summary
func Markdown1D(r scan.Result1D) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Likelihood scan: %s\n\n", r.Axis.Parameter)
	fmt.Fprintf(&b, "Result `%s`, evaluated %s\n\n", r.ID, r.CreatedAt)
	writeAxis(&b, r.Axis)
	return b.String()
}

// Markdown2D renders a 2D scan result as a markdown summary
func Markdown2D(r scan.Result2D) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Likelihood scan: %s vs %s\n\n", r.AxisX.Parameter, r.AxisY.Parameter)
	fmt.Fprintf(&b, "Result `%s`, evaluated %s\n\n", r.ID, r.CreatedAt)
	writeAxis(&b, r.AxisX)
	writeAxis(&b, r.AxisY)
	return b.String()
}

// HTML converts a markdown summary to HTML
func HTML(md string) []byte {
	return markdown.ToHTML([]byte(md), nil, nil)
}

func writeAxis(b *strings.Builder, a scan.AxisResult) {
	fmt.Fprintf(b, "## %s\n\n", a.Parameter)
	if a.Uncertainty != nil {
		fmt.Fprintf(b, "Best fit: **%.4f** (+%.4f / -%.4f)\n\n", a.Best, a.Uncertainty.Up, a.Uncertainty.Down)
	} else {
		fmt.Fprintf(b, "Best fit: **%.4f** (uncertainty undetermined)\n\n", a.Best)
	}
	fmt.Fprintf(b, "| Bound | Value |\n|---|---|\n")
	fmt.Fprintf(b, "| -2 sigma | %s |\n", formatCrossing(a.M2))
	fmt.Fprintf(b, "| -1 sigma | %s |\n", formatCrossing(a.M1))
	fmt.Fprintf(b, "| +1 sigma | %s |\n", formatCrossing(a.P1))
	fmt.Fprintf(b, "| +2 sigma | %s |\n", formatCrossing(a.P2))
	fmt.Fprintf(b, "\n")
}

func formatCrossing(c scan.Crossing) string {
	if !c.Found {
		return "not found"
	}
	return fmt.Sprintf("%.4f", c.Value)
}
