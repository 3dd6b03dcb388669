package scorecard

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

// score coloring thresholds for the text rendering
const (
	goodScore = 0.90
	fairScore = 0.70
)

// FormatText renders a report as a fixed-width table for terminals.
func FormatText(r *Report) string {
	var b strings.Builder

	b.WriteString("REPRESENTATIVENESS SCORECARD\n")
	if r.Survey != "" {
		b.WriteString(fmt.Sprintf("Survey: %s\n", r.Survey))
	}
	b.WriteString(fmt.Sprintf("Rows: %s", humanize.Comma(int64(r.SampleRows))))
	if dropped := r.Dropped.Total(); dropped > 0 {
		b.WriteString(fmt.Sprintf("  (dropped during standardization: %s)", humanize.Comma(int64(dropped))))
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", 110) + "\n")
	b.WriteString(fmt.Sprintf("%-28s %8s %10s %8s %8s %8s %9s %9s %8s\n",
		"Dimension", "N", "Strata", "GRI", "Divers.", "SRI", "VWRS", "Max GRI", "GRI %"))
	b.WriteString(strings.Repeat("-", 110) + "\n")

	for _, e := range r.Entries {
		name := e.Dimension
		if len(name) > 28 {
			name = name[:25] + "..."
		}
		if e.Err != nil {
			b.WriteString(fmt.Sprintf("%-28s %s\n", name, color.RedString("error: %v", e.Err)))
			continue
		}
		strataCol := fmt.Sprintf("%d/%d", e.RepresentedStrata, e.RelevantStrata)
		maxGRI, griPct := "--", "--"
		if e.HasMax {
			maxGRI = fmt.Sprintf("%.4f", e.MaxGRI)
			griPct = fmt.Sprintf("%.1f%%", e.GRIEfficiency*100)
		}
		b.WriteString(fmt.Sprintf("%-28s %8s %10s %8s %8s %8s %9s %9s %8s\n",
			name,
			humanize.Comma(int64(e.SampleSize)),
			strataCol,
			colorScore(e.GRI),
			colorScore(e.Diversity),
			fmt.Sprintf("%.4f", e.SRI),
			fmt.Sprintf("%.4f", e.VWRS),
			maxGRI,
			griPct))
	}

	b.WriteString(strings.Repeat("-", 110) + "\n")
	s := r.Summary
	b.WriteString(fmt.Sprintf("%-28s %8s %10s %8.4f %8.4f %8.4f %9.4f\n",
		"Overall (average)", "", fmt.Sprintf("%d ok", s.Dimensions), s.GRI, s.Diversity, s.SRI, s.VWRS))
	if s.Failed > 0 {
		b.WriteString(color.YellowString("%d dimension(s) failed; see errors above\n", s.Failed))
	}
	for _, attr := range r.Dropped.Attributes() {
		b.WriteString(color.YellowString("warning: %d rows dropped on unmappable %q values\n", r.Dropped[attr], attr))
	}
	return b.String()
}

func colorScore(v float64) string {
	formatted := fmt.Sprintf("%.4f", v)
	switch {
	case v >= goodScore:
		return color.GreenString("%s", formatted)
	case v >= fairScore:
		return color.YellowString("%s", formatted)
	default:
		return color.RedString("%s", formatted)
	}
}

// FormatMarkdown renders a report as a markdown table.
func FormatMarkdown(r *Report) string {
	var b strings.Builder
	b.WriteString("# Representativeness Scorecard\n\n")
	b.WriteString("| Dimension | N | GRI | Diversity | SRI | VWRS | Max GRI | GRI % of Max |\n")
	b.WriteString("|-----------|---|-----|-----------|-----|------|---------|--------------|\n")
	for _, e := range r.Entries {
		if e.Err != nil {
			b.WriteString(fmt.Sprintf("| %s | -- | error | error | error | error | -- | -- |\n", e.Dimension))
			continue
		}
		maxGRI, griPct := "--", "--"
		if e.HasMax {
			maxGRI = fmt.Sprintf("%.4f", e.MaxGRI)
			griPct = fmt.Sprintf("%.1f%%", e.GRIEfficiency*100)
		}
		b.WriteString(fmt.Sprintf("| %s | %d | %.4f | %.4f | %.4f | %.4f | %s | %s |\n",
			e.Dimension, e.SampleSize, e.GRI, e.Diversity, e.SRI, e.VWRS, maxGRI, griPct))
	}
	s := r.Summary
	b.WriteString(fmt.Sprintf("| **Overall (average)** | | %.4f | %.4f | %.4f | %.4f | | |\n",
		s.GRI, s.Diversity, s.SRI, s.VWRS))
	return b.String()
}
