package marketintel

import "strings"

// CuratedRecord is a vetted fallback dataset for a known market triple.
type CuratedRecord struct {
	TAM         float64
	GrowthRate  float64
	Competitors []string
	Sources     []string
	Confidence  ConfidenceLevel
}

type curatedKey struct {
	Product   string
	Industry  string
	Geography string
}

type curatedEntry struct {
	Key    curatedKey
	Record CuratedRecord
}

// curatedTable is an ordered list so fuzzy-match tie-breaking is
// deterministic: first entry wins.
var curatedTable = []curatedEntry{
	{
		Key: curatedKey{"craft beer", "food & beverage", "united states"},
		Record: CuratedRecord{
			TAM:         27_800_000_000,
			GrowthRate:  0.084,
			Competitors: []string{"Sierra Nevada", "Stone Brewing", "New Belgium", "Dogfish Head", "Bell's Brewery"},
			Sources:     []string{"Brewers Association", "IBISWorld"},
			Confidence:  ConfidenceHigh,
		},
	},
	{
		Key: curatedKey{"payment processing", "financial services", "global"},
		Record: CuratedRecord{
			TAM:         125_000_000_000,
			GrowthRate:  0.087,
			Competitors: []string{"Visa", "Mastercard", "PayPal", "Stripe", "Square"},
			Sources:     []string{"McKinsey", "PwC Global Payments Report"},
			Confidence:  ConfidenceHigh,
		},
	},
	{
		Key: curatedKey{"fitness tracker", "wearable technology", "global"},
		Record: CuratedRecord{
			TAM:         42_000_000_000,
			GrowthRate:  0.092,
			Competitors: []string{"Apple", "Fitbit", "Garmin", "Xiaomi", "Samsung"},
			Sources:     []string{"Grand View Research", "Allied Market Research"},
			Confidence:  ConfidenceHigh,
		},
	},
	{
		Key: curatedKey{"project management software", "software", "global"},
		Record: CuratedRecord{
			TAM:         6_800_000_000,
			GrowthRate:  0.105,
			Competitors: []string{"Microsoft Project", "Asana", "Monday.com", "Jira", "ClickUp", "Trello"},
			Sources:     []string{"Grand View Research", "MarketsandMarkets"},
			Confidence:  ConfidenceHigh,
		},
	},
}

// industryFolds is a strict one-directional fold: the left side folds to
// the right side and nothing folds back.
var industryFolds = map[string]string{
	"wearable technology": "technology",
	"fintech":             "financial services",
}

func normalizeGeography(geo string) string {
	switch geo {
	case "usa", "us", "america", "united states", "united states of america":
		return "united states"
	case "worldwide", "international", "global":
		return "global"
	}
	return geo
}

// LookupCurated returns the vetted record for a market triple, or false.
// Exact triple match first, then the first fuzzy match in table order.
func LookupCurated(product, industry, geography string) (CuratedRecord, bool) {
	p := strings.ToLower(strings.TrimSpace(product))
	ind := strings.ToLower(strings.TrimSpace(industry))
	geo := normalizeGeography(strings.ToLower(strings.TrimSpace(geography)))

	exact := curatedKey{p, ind, geo}
	for _, e := range curatedTable {
		if e.Key == exact {
			return e.Record, true
		}
	}
	for _, e := range curatedTable {
		if productMatches(p, e.Key.Product) && industryMatches(ind, e.Key.Industry) && geographyMatches(geo, e.Key.Geography) {
			return e.Record, true
		}
	}
	return CuratedRecord{}, false
}

// productMatches accepts containment either way, or any shared token
// longer than 3 characters.
func productMatches(input, key string) bool {
	if input == "" || key == "" {
		return false
	}
	if strings.Contains(key, input) || strings.Contains(input, key) {
		return true
	}
	for _, w := range strings.Fields(input) {
		if len(w) > 3 && strings.Contains(key, w) {
			return true
		}
	}
	for _, w := range strings.Fields(key) {
		if len(w) > 3 && strings.Contains(input, w) {
			return true
		}
	}
	return false
}

func industryMatches(input, key string) bool {
	if input == key {
		return true
	}
	if input != "" && (strings.Contains(key, input) || strings.Contains(input, key)) {
		return true
	}
	if folded, ok := industryFolds[input]; ok && folded == key {
		return true
	}
	return false
}

func geographyMatches(input, key string) bool {
	return input == normalizeGeography(key)
}
