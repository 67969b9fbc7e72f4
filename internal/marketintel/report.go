package marketintel

import (
	"fmt"
	"strings"
	"time"
)

// BuildReportMarkdown renders an AnalysisResult as a standalone markdown
// report. The renderer trusts the normalizer's invariants: list fields are
// never nil and numeric fields are already in sane ranges.
func BuildReportMarkdown(result AnalysisResult) string {
	input := result.Input
	m := result.Map

	var b strings.Builder
	fmt.Fprintf(&b, "# Market Intelligence Report: %s\n\n", sanitizeLine(input.ProductName))
	fmt.Fprintf(&b, "- Industry: %s\n", sanitizeLine(input.Industry))
	fmt.Fprintf(&b, "- Geography: %s\n", sanitizeLine(input.Geography))
	fmt.Fprintf(&b, "- Target Users: %s\n", sanitizeLine(input.TargetUser))
	fmt.Fprintf(&b, "- Date: %s\n", m.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Analysis Tier: `%s`\n", result.Tier)
	fmt.Fprintf(&b, "- Confidence: `%s`\n\n", m.ConfidenceLevel)

	if result.Tier == TierFallback {
		fmt.Fprintf(&b, "> FALLBACK DATA: this report was generated from generic estimates because "+
			"no researched or curated data was available. Treat figures as placeholders.\n\n")
	}

	fmt.Fprintf(&b, "## Market Overview\n\n")
	fmt.Fprintf(&b, "- Total market size: $%s\n", fmtDollars(m.TotalMarketSize))
	fmt.Fprintf(&b, "- Annual growth rate: %.1f%%\n", m.MarketGrowthRate*100)
	fmt.Fprintf(&b, "- Perspective: `%s`\n", m.AnalysisPerspective)
	if m.BrandPosition != "" {
		fmt.Fprintf(&b, "- Brand position: %s\n", sanitizeLine(m.BrandPosition))
	}
	if len(m.KeyDrivers) > 0 {
		fmt.Fprintf(&b, "\n**Key drivers**:\n\n")
		for _, d := range m.KeyDrivers {
			fmt.Fprintf(&b, "- %s\n", sanitizeLine(d))
		}
	}
	fmt.Fprintf(&b, "\n---\n\n")

	fmt.Fprintf(&b, "## Segmentation\n\n")
	writeSegmentSection(&b, "By Geography", m.SegmentationByGeographics)
	writeSegmentSection(&b, "By Demographics", m.SegmentationByDemographics)
	writeSegmentSection(&b, "By Psychographics", m.SegmentationByPsychographics)
	writeSegmentSection(&b, "By Behavior", m.SegmentationByBehavioral)
	if len(m.SegmentationByFirmographics) > 0 {
		writeSegmentSection(&b, "By Firmographics", m.SegmentationByFirmographics)
	}
	fmt.Fprintf(&b, "---\n\n")

	fmt.Fprintf(&b, "## Competitive Landscape\n\n")
	if len(m.Competitors) == 0 {
		fmt.Fprintf(&b, "No competitor data available.\n\n")
	} else {
		fmt.Fprintf(&b, "| Competitor | Market Share | Price Tier | Strengths | Weaknesses |\n")
		fmt.Fprintf(&b, "|------------|--------------|------------|-----------|------------|\n")
		for _, c := range m.Competitors {
			share := "—"
			if c.MarketShare != nil {
				share = fmt.Sprintf("%.1f%%", *c.MarketShare*100)
			}
			tier := "—"
			if c.PriceTier != nil {
				tier = string(*c.PriceTier)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				sanitizeTableCell(c.Name), share, tier,
				sanitizeTableCell(strings.Join(c.Strengths, "; ")),
				sanitizeTableCell(strings.Join(c.Weaknesses, "; ")))
		}
		fmt.Fprintf(&b, "\n")
	}
	fmt.Fprintf(&b, "---\n\n")

	writeListSection(&b, "Opportunities", m.Opportunities)
	writeListSection(&b, "Threats", m.Threats)
	writeListSection(&b, "Strategic Recommendations", m.StrategicRecommendations)

	fmt.Fprintf(&b, "## Methodology\n\n")
	fmt.Fprintf(&b, "%s\n\n", sanitizeLine(m.Methodology))
	if len(m.DataSources) > 0 {
		fmt.Fprintf(&b, "**Data sources**:\n\n")
		for _, s := range m.DataSources {
			fmt.Fprintf(&b, "- %s\n", sanitizeLine(s))
		}
		fmt.Fprintf(&b, "\n")
	}
	return b.String()
}

func writeSegmentSection(b *strings.Builder, title string, segments []MarketSegment) {
	fmt.Fprintf(b, "### %s\n\n", title)
	if len(segments) == 0 {
		fmt.Fprintf(b, "No segment data available.\n\n")
		return
	}
	fmt.Fprintf(b, "| Segment | Size | Growth | Key Players |\n")
	fmt.Fprintf(b, "|---------|------|--------|-------------|\n")
	for _, s := range segments {
		fmt.Fprintf(b, "| %s | $%s | %.1f%% | %s |\n",
			sanitizeTableCell(s.Name), fmtDollars(s.SizeEstimate), s.GrowthRate*100,
			sanitizeTableCell(strings.Join(s.KeyPlayers, ", ")))
	}
	fmt.Fprintf(b, "\n")
	for _, s := range segments {
		if s.Audience != nil && len(s.Audience.TaxonomyPaths) > 0 {
			fmt.Fprintf(b, "- %s audience: %s\n", sanitizeLine(s.Name), sanitizeLine(strings.Join(s.Audience.TaxonomyPaths, " > ")))
		}
	}
	fmt.Fprintf(b, "\n")
}

func writeListSection(b *strings.Builder, title string, items []string) {
	fmt.Fprintf(b, "## %s\n\n", title)
	if len(items) == 0 {
		fmt.Fprintf(b, "None identified.\n\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", sanitizeLine(item))
	}
	fmt.Fprintf(b, "\n")
}

func sanitizeLine(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}

func sanitizeTableCell(s string) string {
	return strings.ReplaceAll(sanitizeLine(s), "|", "\\|")
}

// fmtDollars renders a dollar amount with comma separators and no cents.
func fmtDollars(v float64) string {
	n := int64(v)
	if n < 0 {
		return "-" + fmtDollars(float64(-n))
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	rem := len(s) % 3
	if rem > 0 {
		b.WriteString(s[:rem])
	}
	for i := rem; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
