package marketintel

import "fmt"

// SAM and SOM are fixed fractions of the tier above.
const (
	samFractionOfTAM = 0.3
	somFractionOfSAM = 0.1
)

const minCompetitors = 4

var syntheticCompetitorNames = []string{
	"Market Challenger", "Industry Player", "Regional Leader", "Emerging Competitor",
}

// curatedAnalysisTree expands a vetted curated record into the same generic
// tree shape the generator produces, so the curated path flows through the
// one Field Normalizer like everything else.
func curatedAnalysisTree(rec CuratedRecord, input MarketInput) map[string]any {
	tam := rec.TAM
	sam := tam * samFractionOfTAM
	som := sam * somFractionOfSAM

	names := append([]string(nil), rec.Competitors...)
	for i := 0; len(names) < minCompetitors; i++ {
		names = append(names, syntheticCompetitorNames[i%len(syntheticCompetitorNames)])
	}

	competitors := make([]any, 0, minCompetitors)
	for i, name := range names[:minCompetitors] {
		share := 0.30 - float64(i)*0.06
		if share < 0.05 {
			share = 0.05
		}
		tier := "Mid-Range"
		switch {
		case i == 0:
			tier = "Premium"
		case i == minCompetitors-1:
			tier = "Budget"
		}
		competitors = append(competitors, map[string]any{
			"name":             name,
			"share":            share,
			"strengths":        competitorStrengths(i),
			"weaknesses":       competitorWeaknesses(i),
			"price_range":      fmt.Sprintf("$%d-$%d", 150+i*75, 350+i*150),
			"price_tier":       tier,
			"innovation_focus": fmt.Sprintf("%s advancement and market expansion", input.ProductName),
			"user_segment":     input.TargetUser,
		})
	}

	players := func(lo, hi int) []any {
		if hi > len(rec.Competitors) {
			hi = len(rec.Competitors)
		}
		if lo >= hi {
			lo, hi = 0, min(2, len(rec.Competitors))
		}
		out := make([]any, 0, hi-lo)
		for _, n := range rec.Competitors[lo:hi] {
			out = append(out, n)
		}
		return out
	}

	segment := func(name, description string, size, growth float64, keyPlayers []any) map[string]any {
		return map[string]any{
			"name":        name,
			"description": description,
			"size":        size,
			"growth":      growth,
			"key_players": keyPlayers,
		}
	}

	return map[string]any{
		"market_overview": map[string]any{
			"total_market_size": tam,
			"growth_rate":       rec.GrowthRate,
			"key_drivers": []any{
				input.DemandDriver,
				"Market expansion and adoption",
				"Technology advancement",
				"Consumer demand growth",
			},
			"tam_methodology": fmt.Sprintf("Curated market database from %s", joinNames(rec.Sources)),
			"sam_calculation": fmt.Sprintf("30%% of TAM based on target market analysis: $%.0f", sam),
			"som_estimation":  fmt.Sprintf("10%% of SAM with realistic market capture: $%.0f", som),
		},
		"segmentation": map[string]any{
			"by_geographics": []any{
				segment("Major Metro Areas", "Urban markets with high population density and purchasing power", sam*0.4, rec.GrowthRate*0.9, players(0, 2)),
				segment("Suburban Growth Markets", "Suburban areas with expanding populations and disposable income", sam*0.35, rec.GrowthRate*1.1, players(1, 3)),
				segment("Secondary Cities & Rural", "Mid-size cities and rural areas with growing digital adoption", sam*0.25, rec.GrowthRate*1.2, players(0, 3)),
			},
			"by_demographics": []any{
				segment("Young Adults (25-35)", "Tech-savvy young professionals", sam*0.4, rec.GrowthRate*1.1, players(0, 3)),
				segment("Middle-aged (36-50)", "Established professionals with disposable income", sam*0.4, rec.GrowthRate, players(1, 4)),
				segment("Seniors (51+)", "Health-conscious seniors", sam*0.2, rec.GrowthRate*0.8, players(0, 2)),
			},
			"by_psychographics": []any{
				segment("Health Enthusiasts", "Consumers focused on health and wellness", sam*0.5, rec.GrowthRate*1.2, players(0, 3)),
				segment("Tech Early Adopters", "Technology enthusiasts and early adopters", sam*0.3, rec.GrowthRate*1.3, players(1, 3)),
				segment("Budget-Conscious", "Value-oriented consumers", sam*0.2, rec.GrowthRate*0.7, players(2, 4)),
			},
			"by_behavioral": []any{
				segment("Regular Users", "Daily and frequent users", sam*0.4, rec.GrowthRate, players(0, 2)),
				segment("Occasional Users", "Periodic and casual users", sam*0.4, rec.GrowthRate*0.8, players(1, 3)),
				segment("First-time Buyers", "New customers entering the market", sam*0.2, rec.GrowthRate*1.4, players(0, 3)),
			},
		},
		"competitors": competitors,
		"opportunities": []any{
			fmt.Sprintf("%s driving market expansion", input.DemandDriver),
			fmt.Sprintf("Growing demand from %s segment", input.TargetUser),
			fmt.Sprintf("Technology advancement in %s", input.Industry),
			fmt.Sprintf("Geographic expansion opportunities in %s", input.Geography),
			"Partnership opportunities with established players",
		},
		"threats": []any{
			fmt.Sprintf("Intense competition from %s", names[0]),
			"Market saturation in core segments",
			fmt.Sprintf("Economic volatility affecting %s", input.TargetUser),
			fmt.Sprintf("Regulatory changes in %s", input.Industry),
			"Technology disruption risk",
		},
		"recommendations": []any{
			fmt.Sprintf("Focus on underserved %s segments", input.TargetUser),
			fmt.Sprintf("Differentiate through %s optimization", input.KeyMetrics),
			fmt.Sprintf("Build strategic partnerships in %s", input.Industry),
			fmt.Sprintf("Invest in %s model enhancement", input.TransactionType),
			fmt.Sprintf("Leverage geographic expansion in %s", input.Geography),
		},
		"data_sources":     toAnyList(rec.Sources),
		"confidence_level": string(rec.Confidence),
		"methodology":      fmt.Sprintf("Curated market database analysis with %s confidence", rec.Confidence),
	}
}

// genericAnalysisTree is the last-resort synthetic record. No external
// dependency, no failure path; the orchestrator overrides confidence and
// methodology to mark it as a fallback.
func genericAnalysisTree(input MarketInput) map[string]any {
	tam := DefaultTotalMarketSize
	segment := func(name, description string, size, growth float64, keyPlayers ...string) map[string]any {
		return map[string]any{
			"name":        name,
			"description": description,
			"size":        size,
			"growth":      growth,
			"key_players": toAnyList(keyPlayers),
		}
	}
	competitor := func(name string, share float64, strengths, weaknesses []string, priceRange, tier string) map[string]any {
		return map[string]any{
			"name":        name,
			"share":       share,
			"strengths":   toAnyList(strengths),
			"weaknesses":  toAnyList(weaknesses),
			"price_range": priceRange,
			"price_tier":  tier,
		}
	}
	return map[string]any{
		"market_overview": map[string]any{
			"total_market_size": tam,
			"growth_rate":       DefaultMarketGrowthRate,
			"key_drivers":       []any{input.DemandDriver, "Technology adoption", "Market expansion"},
		},
		"segmentation": map[string]any{
			"by_geographics": []any{
				segment("North America", "Primary market in US and Canada", tam*0.4, 0.06, "Market Leader A", "Company B"),
				segment("Europe", "European market segment", tam*0.3, 0.08, "Company C", "Leader D"),
				segment("Asia-Pacific", "Growing APAC markets", tam*0.3, 0.12, "Enterprise Corp", "Big Co"),
			},
			"by_demographics": []any{
				segment("Young Adults", "Tech-savvy professionals 25-35", tam*0.4, 0.10, "Leader 1", "Company 2"),
				segment("Middle-aged", "Established professionals 36-50", tam*0.4, 0.06, "Alt Co", "Option Inc"),
				segment("Seniors", "Health-conscious seniors 51+", tam*0.2, 0.08, "Startup A", "Growth Co"),
			},
			"by_psychographics": []any{
				segment("Health Enthusiasts", "Wellness-focused consumers", tam*0.4, 0.09, "Budget Brand", "Value Co"),
				segment("Tech Early Adopters", "Innovation-driven users", tam*0.4, 0.12, "Mid Market", "Standard Inc"),
				segment("Budget-Conscious", "Value-oriented segments", tam*0.2, 0.05, "Premium Corp", "Luxury Ltd"),
			},
			"by_behavioral": []any{
				segment("Regular Users", "Daily active users", tam*0.4, 0.08, "Regular Corp", "Daily Inc"),
				segment("Occasional Users", "Periodic usage patterns", tam*0.4, 0.06, "Casual Co", "Sometimes Ltd"),
				segment("First-time Buyers", "New market entrants", tam*0.2, 0.15, "Newbie Corp", "Fresh Start"),
			},
		},
		"competitors": []any{
			competitor("Market Leader", 0.25, []string{"Brand recognition", "Market presence"}, []string{"High price", "Slow innovation"}, "High", "Premium"),
			competitor("Strong Competitor", 0.18, []string{"Innovation", "Technology"}, []string{"Limited reach", "Brand awareness"}, "Medium", "Mid-Range"),
			competitor("Growing Player", 0.12, []string{"Agility", "Customer focus"}, []string{"Scale", "Resources"}, "Medium", "Mid-Range"),
			competitor("Niche Provider", 0.08, []string{"Specialization", "Quality"}, []string{"Limited market", "High cost"}, "High", "Premium"),
		},
		"opportunities": []any{
			fmt.Sprintf("%s driving market growth", input.DemandDriver),
			fmt.Sprintf("Underserved segments in %s", input.Geography),
			"Technology integration opportunities",
			fmt.Sprintf("Partnership potential in %s", input.Industry),
		},
		"threats": []any{
			fmt.Sprintf("Intense competition in %s", input.Industry),
			"Market saturation risks",
			"Regulatory challenges",
			"Economic uncertainty",
		},
		"recommendations": []any{
			fmt.Sprintf("Focus on %s needs", input.TargetUser),
			fmt.Sprintf("Leverage %s model", input.TransactionType),
			fmt.Sprintf("Optimize %s", input.KeyMetrics),
			"Build strategic partnerships",
		},
		"data_sources": []any{"Market Research", "Industry Analysis", "Public Data"},
	}
}

func competitorStrengths(i int) []any {
	switch i {
	case 0:
		return []any{"Market leadership", "Brand recognition"}
	case 1:
		return []any{"Technology innovation", "Rapid growth"}
	default:
		return []any{"Customer focus", "Cost efficiency"}
	}
}

func competitorWeaknesses(i int) []any {
	switch i {
	case 0:
		return []any{"High pricing pressure", "Legacy systems"}
	case 1:
		return []any{"Limited market reach", "Resource constraints"}
	default:
		return []any{"Scale limitations", "Brand awareness challenges"}
	}
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}

func toAnyList[T any](in []T) []any {
	out := make([]any, 0, len(in))
	for _, v := range in {
		out = append(out, v)
	}
	return out
}
