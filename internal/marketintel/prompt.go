package marketintel

import (
	"fmt"
	"strings"
)

const promptSchema = `Provide a comprehensive JSON response with the following structure:
{
  "market_overview": {
    "total_market_size": [realistic TAM in dollars],
    "growth_rate": [realistic annual growth rate as decimal],
    "key_drivers": [list of 3-4 real market drivers],
    "tam_methodology": "explanation of TAM calculation",
    "sam_calculation": "SAM as percentage of TAM with rationale",
    "som_estimation": "SOM as realistic subset of SAM"
  },
  "segmentation": {
    "by_geographics": [{"name": "...", "description": "...", "size": [dollars], "growth": [decimal], "key_players": ["..."]}],
    "by_demographics": [{"name": "...", "description": "...", "size": [dollars], "growth": [decimal], "key_players": ["..."]}],
    "by_psychographics": [{"name": "...", "description": "...", "size": [dollars], "growth": [decimal], "key_players": ["..."]}],
    "by_behavioral": [{"name": "...", "description": "...", "size": [dollars], "growth": [decimal], "key_players": ["..."]}]
  },
  "competitors": [{"name": "real company name", "share": [decimal], "strengths": ["..."], "weaknesses": ["..."], "price_range": "...", "price_tier": "Premium/Mid-Range/Budget", "innovation_focus": "...", "user_segment": "..."}],
  "opportunities": [list of 4-5 specific opportunities],
  "threats": [list of 4-5 specific threats],
  "recommendations": [list of 4-5 actionable recommendations],
  "data_sources": [list of credible sources],
  "confidence_level": "high/medium/low",
  "methodology": "description of analysis methodology"
}`

// BuildPrompt constructs the market-analysis prompt from the caller input
// and the classification flags the orchestrator decided. The firmographic
// and brand-position sections are only requested when the flags call for
// them, so the model is never invited to invent fields the normalizer will
// blank anyway.
func BuildPrompt(input MarketInput, perspective Perspective, b2b bool) string {
	var b strings.Builder
	b.WriteString("You are a senior market research analyst conducting a comprehensive market intelligence analysis.\n\n")
	fmt.Fprintf(&b, "MARKET TO ANALYZE:\n")
	fmt.Fprintf(&b, "- Product/Service: %s\n", input.ProductName)
	fmt.Fprintf(&b, "- Industry: %s\n", input.Industry)
	fmt.Fprintf(&b, "- Geography: %s\n", input.Geography)
	fmt.Fprintf(&b, "- Target Users: %s\n", input.TargetUser)
	fmt.Fprintf(&b, "- Market Drivers: %s\n", input.DemandDriver)
	fmt.Fprintf(&b, "- Revenue Model: %s\n", input.TransactionType)
	fmt.Fprintf(&b, "- Key Metrics: %s\n", input.KeyMetrics)
	if strings.TrimSpace(input.Benchmarks) != "" {
		fmt.Fprintf(&b, "- Known Benchmarks: %s\n", input.Benchmarks)
	}

	b.WriteString(`
CRITICAL REQUIREMENTS:
1. Use REALISTIC market sizes - avoid $500B defaults
2. Research REAL companies that exist in this market - MINIMUM 4 COMPETITORS ALWAYS
3. Provide SPECIFIC growth rates based on actual industry data
4. Use credible data sources and methodology
5. Geographic segmentation must be GRANULAR - urban/suburban, specific states, metro areas
6. Strategic recommendations must be ACTIONABLE and SPECIFIC

MARKET SIZE GUIDELINES BY CATEGORY:
- Software niches: $1B-$50B TAM
- Consumer products: $500M-$20B TAM
- Healthcare segments: $2B-$100B TAM
- Technology platforms: $10B-$200B TAM
`)

	if perspective == PerspectiveExistingBrand {
		fmt.Fprintf(&b, "\nANALYSIS PERSPECTIVE: %q is an existing brand. Include a \"brand_position\" string field describing its current competitive position in this market.\n", input.ProductName)
	} else {
		b.WriteString("\nANALYSIS PERSPECTIVE: treat the subject as a new market entrant with no established brand position.\n")
	}
	if b2b {
		b.WriteString("\nThis is a B2B market. Add a \"by_firmographics\" array under \"segmentation\" with the same segment shape, segmenting by company size, revenue band, and industry vertical.\n")
	}

	b.WriteString("\n")
	b.WriteString(promptSchema)
	b.WriteString("\n\nReturn only valid JSON with accurate, researched market intelligence.")
	return b.String()
}
