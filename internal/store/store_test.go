package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/marketmap/engine/internal/marketintel"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult(mapID string, at time.Time) marketintel.AnalysisResult {
	input := marketintel.MarketInput{
		ID:              "input-" + mapID,
		ProductName:     "Craft Beer",
		Industry:        "food & beverage",
		Geography:       "united states",
		TargetUser:      "craft beer drinkers",
		DemandDriver:    "premiumization",
		TransactionType: "retail",
		KeyMetrics:      "volume",
		CreatedAt:       at,
	}
	m := marketintel.NormalizeTree(map[string]any{
		"market_overview": map[string]any{"total_market_size": 27_800_000_000.0, "growth_rate": 0.084},
	}, marketintel.NormalizeParams{
		Input:       input,
		Perspective: marketintel.PerspectiveExistingBrand,
		MapID:       mapID,
		Now:         at,
	})
	return marketintel.AnalysisResult{Input: input, Map: m, Tier: marketintel.TierCurated}
}

func TestSaveAndGetResult(t *testing.T) {
	s := openTestStore(t)
	at := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	if err := s.SaveResult(sampleResult("map-1", at)); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}

	got, err := s.GetResult("map-1")
	if err != nil {
		t.Fatalf("GetResult failed: %v", err)
	}
	if got.Map.ID != "map-1" || got.Map.TotalMarketSize != 27_800_000_000 {
		t.Fatalf("map fields wrong: id=%s size=%v", got.Map.ID, got.Map.TotalMarketSize)
	}
	if got.Tier != marketintel.TierCurated {
		t.Fatalf("Tier = %s, want curated", got.Tier)
	}
	if got.Input.ProductName != "Craft Beer" {
		t.Fatalf("input not joined: %+v", got.Input)
	}
	if !got.Map.CreatedAt.Equal(at) {
		t.Fatalf("CreatedAt = %v, want %v", got.Map.CreatedAt, at)
	}
}

func TestSaveResultIsUpsert(t *testing.T) {
	s := openTestStore(t)
	at := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	r := sampleResult("map-1", at)
	if err := s.SaveResult(r); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	r.Map.TotalMarketSize = 1
	if err := s.SaveResult(r); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	m, _, err := s.GetMap("map-1")
	if err != nil {
		t.Fatalf("GetMap failed: %v", err)
	}
	if m.TotalMarketSize != 1 {
		t.Fatalf("TotalMarketSize = %v, second save must win", m.TotalMarketSize)
	}
	entries, err := s.History(10)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("history has %d entries, upsert must not duplicate", len(entries))
	}
}

func TestGetMapNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, _, err := s.GetMap("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"map-a", "map-b", "map-c"} {
		if err := s.SaveResult(sampleResult(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("SaveResult %s failed: %v", id, err)
		}
	}

	entries, err := s.History(2)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].MapID != "map-c" || entries[1].MapID != "map-b" {
		t.Fatalf("order wrong: %s, %s", entries[0].MapID, entries[1].MapID)
	}
	if entries[0].ProductName != "Craft Beer" || entries[0].Tier != marketintel.TierCurated {
		t.Fatalf("entry fields wrong: %+v", entries[0])
	}
}

// A raw legacy document inserted directly must come back upgraded.
func TestGetMapUpgradesLegacyDocument(t *testing.T) {
	s := openTestStore(t)
	legacy := `{"id":"legacy-1","market_input_id":"x","total_market_size":100,
		"market_growth_rate":0.05,"key_drivers":[],
		"segmentation_by_geographics":[],"segmentation_by_demographics":[],
		"segmentation_by_psychographics":[],"segmentation_by_behavioral":[],
		"competitors":[],"opportunities":[],"threats":[],"strategic_recommendations":[],
		"data_sources":[],"timestamp":"2024-03-01T00:00:00Z"}`
	if _, err := s.db.Exec(`INSERT INTO market_maps (id, market_input_id, tier, confidence_level, document, created_at)
		VALUES ('legacy-1', 'x', 'ai', '', ?, '2024-03-01T00:00:00Z')`, legacy); err != nil {
		t.Fatalf("insert legacy row: %v", err)
	}

	m, _, err := s.GetMap("legacy-1")
	if err != nil {
		t.Fatalf("GetMap failed: %v", err)
	}
	if m.AnalysisPerspective != marketintel.PerspectiveNewEntrant {
		t.Fatalf("AnalysisPerspective = %s, want upgraded default", m.AnalysisPerspective)
	}
	if m.ConfidenceLevel != marketintel.ConfidenceMedium {
		t.Fatalf("ConfidenceLevel = %s, want upgraded default", m.ConfidenceLevel)
	}
	if m.SegmentationByFirmographics == nil {
		t.Fatal("SegmentationByFirmographics must be upgraded to an empty list")
	}
}
