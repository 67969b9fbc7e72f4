package marketintel

import (
	"strings"
	"testing"
)

func sampleResult(tier Tier) AnalysisResult {
	p := testParams()
	p.B2B = true
	tree := map[string]any{
		"market_overview": map[string]any{
			"total_market_size": 27_800_000_000.0,
			"growth_rate":       0.084,
			"key_drivers":       []any{"premiumization"},
		},
		"competitors": []any{
			map[string]any{"name": "Sierra Nevada", "share": 0.3, "price_tier": "Premium"},
		},
		"opportunities":   []any{"taproom expansion"},
		"threats":         []any{"big beer consolidation"},
		"recommendations": []any{"focus on local distribution"},
		"data_sources":    []any{"Brewers Association"},
	}
	return AnalysisResult{Input: testInput(), Map: NormalizeTree(tree, p), Tier: tier}
}

func TestBuildReportMarkdown(t *testing.T) {
	md := BuildReportMarkdown(sampleResult(TierAI))

	for _, want := range []string{
		"# Market Intelligence Report: Craft Beer",
		"## Market Overview",
		"$27,800,000,000",
		"8.4%",
		"## Segmentation",
		"### By Firmographics",
		"## Competitive Landscape",
		"| Sierra Nevada | 30.0% | Premium |",
		"## Opportunities",
		"taproom expansion",
		"## Threats",
		"## Strategic Recommendations",
		"## Methodology",
		"Brewers Association",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("report missing %q\n---\n%s", want, md)
		}
	}
	if strings.Contains(md, "FALLBACK DATA") {
		t.Fatal("AI-tier report must not carry the fallback banner")
	}
}

func TestBuildReportMarkdownFallbackBanner(t *testing.T) {
	md := BuildReportMarkdown(sampleResult(TierFallback))
	if !strings.Contains(md, "FALLBACK DATA") {
		t.Fatal("fallback-tier report must carry the fallback banner")
	}
}

func TestBuildReportMarkdownEscapesTableCells(t *testing.T) {
	result := sampleResult(TierAI)
	result.Map.Competitors = []Competitor{{
		Name:       "Pipe|Corp",
		Strengths:  []string{"a|b"},
		Weaknesses: []string{"c"},
	}}
	md := BuildReportMarkdown(result)
	if !strings.Contains(md, `Pipe\|Corp`) {
		t.Fatal("pipe characters in competitor names must be escaped")
	}
}

func TestFmtDollars(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{27_800_000_000, "27,800,000,000"},
		{-5000, "-5,000"},
	}
	for _, tc := range cases {
		if got := fmtDollars(tc.in); got != tc.want {
			t.Fatalf("fmtDollars(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
