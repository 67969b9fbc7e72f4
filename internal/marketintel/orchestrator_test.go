package marketintel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

type stubGenerator struct {
	text  string
	err   error
	calls int
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.text, nil
}

func fixedAnalyzer(gen Generator) *Analyzer {
	ids := 0
	return NewAnalyzer(gen).WithClock(
		func() time.Time { return time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC) },
		func() string { ids++; return fmt.Sprintf("id-%d", ids) },
	)
}

func TestAnalyzeAITier(t *testing.T) {
	gen := &stubGenerator{text: `{
		"market_overview": {"total_market_size": 9000000000, "growth_rate": 0.11, "key_drivers": ["driver"]},
		"competitors": [{"name": "Rival Co", "share": 0.2}],
		"opportunities": ["op one"],
		"threats": ["threat one"],
		"recommendations": ["rec one"],
		"confidence_level": "high",
		"methodology": "researched analysis"
	}`}

	result, err := fixedAnalyzer(gen).Analyze(context.Background(), MarketInput{
		ProductName: "Acme Widgets",
		Industry:    "consumer goods",
		Geography:   "united states",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.Tier != TierAI {
		t.Fatalf("Tier = %s, want ai", result.Tier)
	}
	if result.Map.TotalMarketSize != 9_000_000_000 {
		t.Fatalf("TotalMarketSize = %v, want generator value", result.Map.TotalMarketSize)
	}
	if result.Map.ConfidenceLevel != ConfidenceHigh {
		t.Fatalf("ConfidenceLevel = %s, want high from payload", result.Map.ConfidenceLevel)
	}
	if result.Input.ID == "" || result.Map.ID == "" {
		t.Fatal("IDs must be assigned")
	}
}

func TestAnalyzeCuratedTierOnGeneratorFailure(t *testing.T) {
	gen := &stubGenerator{err: ErrGeneratorUnavailable}

	result, err := fixedAnalyzer(gen).Analyze(context.Background(), MarketInput{
		ProductName: "Craft Beer",
		Industry:    "food & beverage",
		Geography:   "united states",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.Tier != TierCurated {
		t.Fatalf("Tier = %s, want curated", result.Tier)
	}
	if result.Map.TotalMarketSize != 27_800_000_000 {
		t.Fatalf("TotalMarketSize = %v, want curated 27.8B", result.Map.TotalMarketSize)
	}
	if result.Map.MarketGrowthRate != 0.084 {
		t.Fatalf("MarketGrowthRate = %v, want curated 0.084", result.Map.MarketGrowthRate)
	}
	if result.Map.ConfidenceLevel != ConfidenceHigh {
		t.Fatalf("ConfidenceLevel = %s, curated confidence must carry through", result.Map.ConfidenceLevel)
	}
	found := false
	for _, c := range result.Map.Competitors {
		if c.Name == "Sierra Nevada" {
			found = true
		}
	}
	if !found {
		t.Fatalf("curated competitors missing Sierra Nevada: %v", result.Map.Competitors)
	}
}

func TestAnalyzeCuratedTierOnUnparseableOutput(t *testing.T) {
	gen := &stubGenerator{text: "I am unable to produce JSON today."}

	result, err := fixedAnalyzer(gen).Analyze(context.Background(), MarketInput{
		ProductName: "Craft Beer",
		Industry:    "food & beverage",
		Geography:   "usa",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.Tier != TierCurated {
		t.Fatalf("Tier = %s, want curated after unparseable generator output", result.Tier)
	}
}

func TestAnalyzeGenericFallbackTier(t *testing.T) {
	gen := &stubGenerator{err: ErrGeneratorTimeout}

	result, err := fixedAnalyzer(gen).Analyze(context.Background(), MarketInput{
		ProductName: "Quantum Yo-Yo",
		Industry:    "toys",
		Geography:   "antarctica",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.Tier != TierFallback {
		t.Fatalf("Tier = %s, want fallback", result.Tier)
	}
	if result.Map.TotalMarketSize != DefaultTotalMarketSize {
		t.Fatalf("TotalMarketSize = %v, want generic default", result.Map.TotalMarketSize)
	}
	if result.Map.ConfidenceLevel != ConfidenceLow {
		t.Fatalf("ConfidenceLevel = %s, fallback must force low", result.Map.ConfidenceLevel)
	}
	if !strings.Contains(strings.ToLower(result.Map.Methodology), "fallback") {
		t.Fatalf("Methodology = %q, must identify fallback data", result.Map.Methodology)
	}
	if len(result.Map.Competitors) != 4 {
		t.Fatalf("generic fallback competitors = %d, want 4", len(result.Map.Competitors))
	}
}

// A B2B brand with no curated record and a failed generator still gets a
// complete map: existing-brand perspective, brand position, and non-empty
// firmographic segmentation.
func TestAnalyzeB2BBrandFallback(t *testing.T) {
	gen := &stubGenerator{err: errors.New("api down")}

	result, err := fixedAnalyzer(gen).Analyze(context.Background(), MarketInput{
		ProductName: "DTCC",
		Industry:    "financial services",
		Geography:   "global",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.Tier != TierFallback {
		t.Fatalf("Tier = %s, want fallback", result.Tier)
	}
	m := result.Map
	if m.AnalysisPerspective != PerspectiveExistingBrand {
		t.Fatalf("AnalysisPerspective = %s, want existing_brand", m.AnalysisPerspective)
	}
	if m.BrandPosition == "" {
		t.Fatal("existing brand fallback must carry a brand position")
	}
	if len(m.SegmentationByFirmographics) == 0 {
		t.Fatal("B2B fallback must carry firmographic segmentation")
	}
	if m.TotalMarketSize <= 0 || len(m.Competitors) == 0 {
		t.Fatalf("fallback map incomplete: size=%v competitors=%d", m.TotalMarketSize, len(m.Competitors))
	}
}

func TestAnalyzeNewEntrantSkipsBrandPosition(t *testing.T) {
	gen := &stubGenerator{err: ErrGeneratorUnavailable}

	result, err := fixedAnalyzer(gen).Analyze(context.Background(), MarketInput{
		ProductName: "new product",
		Industry:    "toys",
		Geography:   "antarctica",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.Map.AnalysisPerspective != PerspectiveNewEntrant {
		t.Fatalf("AnalysisPerspective = %s, want new_entrant", result.Map.AnalysisPerspective)
	}
	if result.Map.BrandPosition != "" {
		t.Fatalf("BrandPosition = %q, new entrant must not have one", result.Map.BrandPosition)
	}
}

func TestAnalyzeNilGeneratorSkipsToFallbackTiers(t *testing.T) {
	result, err := fixedAnalyzer(nil).Analyze(context.Background(), MarketInput{
		ProductName: "fitness tracker",
		Industry:    "wearable technology",
		Geography:   "global",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.Tier != TierCurated {
		t.Fatalf("Tier = %s, want curated without a generator", result.Tier)
	}
	if result.Map.TotalMarketSize != 42_000_000_000 {
		t.Fatalf("TotalMarketSize = %v, want fitness tracker 42B", result.Map.TotalMarketSize)
	}
}

func TestAnalyzeGeneratorCalledOnce(t *testing.T) {
	gen := &stubGenerator{err: ErrGeneratorTimeout}
	if _, err := fixedAnalyzer(gen).Analyze(context.Background(), MarketInput{
		ProductName: "Quantum Yo-Yo",
		Industry:    "toys",
		Geography:   "antarctica",
	}); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if gen.calls != 1 {
		t.Fatalf("generator called %d times, want exactly 1", gen.calls)
	}
}

func TestCuratedAnalysisTreePadsCompetitors(t *testing.T) {
	rec := CuratedRecord{
		TAM:         1_000_000_000,
		GrowthRate:  0.1,
		Competitors: []string{"Only One"},
		Sources:     []string{"Somewhere"},
		Confidence:  ConfidenceHigh,
	}
	tree := curatedAnalysisTree(rec, testInput())
	competitors, ok := tree["competitors"].([]any)
	if !ok || len(competitors) != 4 {
		t.Fatalf("competitors = %v, want 4 padded entries", tree["competitors"])
	}
	first, _ := competitors[0].(map[string]any)
	if first["name"] != "Only One" {
		t.Fatalf("first competitor = %v, real names must come first", first["name"])
	}
	share, _ := first["share"].(float64)
	if share != 0.30 {
		t.Fatalf("first share = %v, want 0.30", share)
	}
	last, _ := competitors[3].(map[string]any)
	if last["price_tier"] != "Budget" {
		t.Fatalf("last price tier = %v, want Budget", last["price_tier"])
	}

	// Geographic segment sizes partition SAM, which is 30% of TAM.
	seg, _ := tree["segmentation"].(map[string]any)
	geo, _ := seg["by_geographics"].([]any)
	var total float64
	for _, item := range geo {
		s, _ := item.(map[string]any)
		size, _ := s["size"].(float64)
		total += size
	}
	sam := rec.TAM * 0.3
	if total < sam*0.999 || total > sam*1.001 {
		t.Fatalf("geographic sizes sum to %v, want SAM %v", total, sam)
	}
}
