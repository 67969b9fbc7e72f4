package marketintel

import "testing"

func TestLookupCuratedExactMatch(t *testing.T) {
	rec, ok := LookupCurated("craft beer", "food & beverage", "united states")
	if !ok {
		t.Fatal("expected a curated record for the craft beer triple")
	}
	if rec.TAM != 27_800_000_000 {
		t.Fatalf("TAM = %v, want 27.8B", rec.TAM)
	}
	if rec.GrowthRate != 0.084 {
		t.Fatalf("GrowthRate = %v, want 0.084", rec.GrowthRate)
	}
	if rec.Confidence != ConfidenceHigh {
		t.Fatalf("Confidence = %s, want high", rec.Confidence)
	}
	if len(rec.Competitors) != 5 || rec.Competitors[0] != "Sierra Nevada" {
		t.Fatalf("Competitors = %v, want Sierra Nevada first of 5", rec.Competitors)
	}
}

func TestLookupCuratedCaseAndWhitespaceInsensitive(t *testing.T) {
	if _, ok := LookupCurated("  Craft Beer  ", "Food & Beverage", "United States"); !ok {
		t.Fatal("expected match regardless of case and surrounding whitespace")
	}
}

func TestLookupCuratedGeographyFolding(t *testing.T) {
	for _, geo := range []string{"USA", "US", "America", "united states of america"} {
		if _, ok := LookupCurated("craft beer", "food & beverage", geo); !ok {
			t.Fatalf("expected %q to fold to united states", geo)
		}
	}
	for _, geo := range []string{"worldwide", "International", "global"} {
		if _, ok := LookupCurated("payment processing", "financial services", geo); !ok {
			t.Fatalf("expected %q to fold to global", geo)
		}
	}
}

func TestLookupCuratedFuzzyProduct(t *testing.T) {
	rec, ok := LookupCurated("craft beer brewery", "food & beverage", "united states")
	if !ok {
		t.Fatal("expected fuzzy product match for craft beer brewery")
	}
	if rec.TAM != 27_800_000_000 {
		t.Fatalf("fuzzy match returned wrong record: TAM = %v", rec.TAM)
	}
}

func TestLookupCuratedIndustryFold(t *testing.T) {
	if _, ok := LookupCurated("payment processing", "fintech", "global"); !ok {
		t.Fatal("expected fintech to fold into financial services")
	}
}

func TestLookupCuratedMiss(t *testing.T) {
	if _, ok := LookupCurated("quantum yo-yo", "toys", "antarctica"); ok {
		t.Fatal("expected no curated record for an unknown triple")
	}
}

func TestLookupCuratedDeterministic(t *testing.T) {
	first, ok := LookupCurated("software", "software", "global")
	if !ok {
		t.Fatal("expected a fuzzy match for the software query")
	}
	for i := 0; i < 10; i++ {
		again, ok := LookupCurated("software", "software", "global")
		if !ok || again.TAM != first.TAM {
			t.Fatalf("lookup not deterministic: run %d returned %v", i, again.TAM)
		}
	}
}
