package marketintel

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Per-field defaults. The normalizer substitutes these for anything
// missing, non-numeric, or out of sanity bounds; it never raises.
const (
	DefaultTotalMarketSize  = 5_000_000_000.0
	DefaultMarketGrowthRate = 0.08
)

var (
	defaultKeyDrivers  = []string{"Digital transformation", "Consumer demand"}
	defaultKeyPlayers  = []string{"Company A", "Company B"}
	defaultDataSources = []string{"Industry reports", "Market research", "Public data"}
)

const defaultMethodology = "AI-powered analysis with market research"

type segmentKind struct {
	label         string
	payloadKey    string
	defaultSize   float64
	defaultGrowth float64
}

var (
	geographicKind    = segmentKind{"Geographic", "by_geographics", 1_000_000_000, 0.05}
	demographicKind   = segmentKind{"Demographic", "by_demographics", 500_000_000, 0.06}
	psychographicKind = segmentKind{"Psychographic", "by_psychographics", 800_000_000, 0.07}
	behavioralKind    = segmentKind{"Behavioral", "by_behavioral", 600_000_000, 0.08}
	firmographicKind  = segmentKind{"Firmographic", "by_firmographics", 700_000_000, 0.06}
)

// NormalizeParams carries the caller-decided classification flags. The
// normalizer never infers perspective or B2B-ness; it echoes them and
// gates the firmographic list on the B2B flag.
type NormalizeParams struct {
	Input       MarketInput
	Perspective Perspective
	B2B         bool
	MapID       string
	Now         time.Time
}

// NormalizeTree maps a generic key-value tree of unknown completeness into
// a fully-populated MarketMap. Every missing or malformed sub-field
// degrades to its named default; a bad sub-tree never fails the whole
// record.
func NormalizeTree(tree map[string]any, p NormalizeParams) MarketMap {
	if tree == nil {
		tree = map[string]any{}
	}
	if p.MapID == "" {
		p.MapID = uuid.NewString()
	}
	if p.Now.IsZero() {
		p.Now = time.Now().UTC()
	}

	overview := subTree(tree, "market_overview")
	segmentation := subTree(tree, "segmentation")

	m := MarketMap{
		ID:            p.MapID,
		MarketInputID: p.Input.ID,

		TotalMarketSize:  nonNegative(toFloatOr(overview["total_market_size"], DefaultTotalMarketSize), DefaultTotalMarketSize),
		MarketGrowthRate: clampGrowth(toFloatOr(overview["growth_rate"], DefaultMarketGrowthRate)),
		KeyDrivers:       stringListOr(overview["key_drivers"], defaultKeyDrivers),

		AnalysisPerspective: p.Perspective,

		SegmentationByGeographics:    normalizeSegments(segmentation[geographicKind.payloadKey], geographicKind),
		SegmentationByDemographics:   normalizeSegments(segmentation[demographicKind.payloadKey], demographicKind),
		SegmentationByPsychographics: normalizeSegments(segmentation[psychographicKind.payloadKey], psychographicKind),
		SegmentationByBehavioral:     normalizeSegments(segmentation[behavioralKind.payloadKey], behavioralKind),

		Competitors: normalizeCompetitors(tree["competitors"], p.Input),

		Threats:                  stringListOr(tree["threats"], []string{}),
		StrategicRecommendations: normalizeRecommendations(tree),

		MarketingOpportunities:   optionalStringList(tree["marketing_opportunities"]),
		MarketingThreats:         optionalStringList(tree["marketing_threats"]),
		MarketingRecommendations: optionalStringList(tree["marketing_recommendations"]),

		DataSources:     normalizeDataSources(tree["data_sources"]),
		ConfidenceLevel: normalizeConfidence(tree["confidence_level"]),
		Methodology:     stringOr(tree["methodology"], defaultMethodology),
		CreatedAt:       p.Now,
	}

	// opportunities, when non-empty, always win over the marketing variant;
	// the reverse substitution never happens.
	m.Opportunities = stringListOr(tree["opportunities"], []string{})
	if len(m.Opportunities) == 0 && len(m.MarketingOpportunities) > 0 {
		m.Opportunities = append([]string(nil), m.MarketingOpportunities...)
	}

	if p.B2B {
		m.SegmentationByFirmographics = normalizeSegments(segmentation[firmographicKind.payloadKey], firmographicKind)
		if len(m.SegmentationByFirmographics) == 0 {
			m.SegmentationByFirmographics = defaultFirmographicSegments(m.TotalMarketSize)
		}
	} else {
		m.SegmentationByFirmographics = []MarketSegment{}
	}

	if p.Perspective == PerspectiveExistingBrand {
		m.BrandPosition = stringOr(tree["brand_position"],
			fmt.Sprintf("%s holds an established position in the %s market.", p.Input.ProductName, p.Input.Industry))
	}

	return m
}

func normalizeSegments(v any, kind segmentKind) []MarketSegment {
	items, ok := v.([]any)
	if !ok {
		return []MarketSegment{}
	}
	out := make([]MarketSegment, 0, len(items))
	for i, item := range items {
		seg, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, MarketSegment{
			Name:         stringOr(seg["name"], fmt.Sprintf("%s Segment %d", kind.label, i+1)),
			Description:  stringOr(seg["description"], fmt.Sprintf("%s market segment", kind.label)),
			SizeEstimate: nonNegative(toFloatOr(firstPresent(seg, "size", "size_estimate"), kind.defaultSize), kind.defaultSize),
			GrowthRate:   clampGrowthTo(toFloatOr(firstPresent(seg, "growth", "growth_rate"), kind.defaultGrowth), kind.defaultGrowth),
			KeyPlayers:   stringListOr(seg["key_players"], defaultKeyPlayers),
			Audience:     normalizeAudience(seg, kind),
		})
	}
	return out
}

// normalizeAudience picks up either a structured audience_mapping sub-tree
// or the flat *_factors lists older generator payloads carry.
func normalizeAudience(seg map[string]any, kind segmentKind) *AudienceMapping {
	if am, ok := seg["audience_mapping"].(map[string]any); ok {
		return &AudienceMapping{
			Demographics:  stringMap(am["demographics"]),
			Geographics:   stringMap(am["geographics"]),
			MediaUsage:    stringMap(am["media_usage"]),
			TaxonomyPaths: stringListOr(am["taxonomy_paths"], []string{}),
			Confidence:    normalizeConfidence(am["confidence"]),
		}
	}
	factorsKey := strings.ToLower(kind.label) + "_factors"
	if factors := optionalStringList(seg[factorsKey]); len(factors) > 0 {
		return &AudienceMapping{TaxonomyPaths: factors, Confidence: ConfidenceMedium}
	}
	return nil
}

func normalizeCompetitors(v any, input MarketInput) []Competitor {
	items, ok := v.([]any)
	if !ok {
		return []Competitor{}
	}
	out := make([]Competitor, 0, len(items))
	for _, item := range items {
		raw, ok := item.(map[string]any)
		if !ok {
			continue
		}
		c := Competitor{
			Name:            stringOr(raw["name"], "Competitor"),
			Strengths:       stringListOr(raw["strengths"], nil),
			Weaknesses:      stringListOr(raw["weaknesses"], nil),
			PriceRange:      stringOr(raw["price_range"], ""),
			InnovationFocus: stringOr(raw["innovation_focus"], ""),
			UserSegment:     stringOr(raw["user_segment"], ""),
		}
		// Renderers assume non-empty strength/weakness lists; synthesize
		// generic entries when the source omits them.
		if len(c.Strengths) == 0 {
			c.Strengths = []string{fmt.Sprintf("Established presence in %s", input.Industry)}
		}
		if len(c.Weaknesses) == 0 {
			c.Weaknesses = []string{"Limited public differentiation data"}
		}
		if share, ok := toFloat(firstPresent(raw, "share", "market_share")); ok && share >= 0 && share <= 1 {
			v := share
			c.MarketShare = &v
		}
		if tier, ok := raw["price_tier"].(string); ok {
			switch PriceTier(strings.TrimSpace(tier)) {
			case PriceTierPremium, PriceTierMidRange, PriceTierBudget:
				t := PriceTier(strings.TrimSpace(tier))
				c.PriceTier = &t
			}
		}
		out = append(out, c)
	}
	return out
}

func normalizeRecommendations(tree map[string]any) []string {
	recs := stringListOr(firstPresent(tree, "recommendations", "strategic_recommendations"), []string{})
	return recs
}

// normalizeDataSources reduces {name,url} objects to their name, passes
// strings through, and stringifies anything else.
func normalizeDataSources(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return append([]string(nil), defaultDataSources...)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch t := item.(type) {
		case string:
			out = append(out, t)
		case map[string]any:
			if name, ok := t["name"].(string); ok && strings.TrimSpace(name) != "" {
				out = append(out, name)
			} else {
				out = append(out, stringify(t))
			}
		default:
			out = append(out, stringify(t))
		}
	}
	if len(out) == 0 {
		return append([]string(nil), defaultDataSources...)
	}
	return out
}

func normalizeConfidence(v any) ConfidenceLevel {
	s, _ := v.(string)
	switch ConfidenceLevel(strings.ToLower(strings.TrimSpace(s))) {
	case ConfidenceHigh:
		return ConfidenceHigh
	case ConfidenceLow:
		return ConfidenceLow
	default:
		return ConfidenceMedium
	}
}

func defaultFirmographicSegments(totalSize float64) []MarketSegment {
	sam := totalSize * 0.3
	return []MarketSegment{
		{
			Name:         "Small Business (1-99 employees)",
			Description:  "Small organizations with lightweight procurement and high price sensitivity",
			SizeEstimate: sam * 0.25,
			GrowthRate:   0.07,
			KeyPlayers:   append([]string(nil), defaultKeyPlayers...),
		},
		{
			Name:         "Mid-Market (100-999 employees)",
			Description:  "Growing organizations balancing cost against dedicated tooling",
			SizeEstimate: sam * 0.35,
			GrowthRate:   0.06,
			KeyPlayers:   append([]string(nil), defaultKeyPlayers...),
		},
		{
			Name:         "Enterprise (1000+ employees)",
			Description:  "Large organizations with formal procurement and integration requirements",
			SizeEstimate: sam * 0.4,
			GrowthRate:   0.05,
			KeyPlayers:   append([]string(nil), defaultKeyPlayers...),
		},
	}
}

// --- coercion helpers ---

func subTree(tree map[string]any, key string) map[string]any {
	if sub, ok := tree[key].(map[string]any); ok {
		return sub
	}
	return map[string]any{}
}

func firstPresent(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(t, "$")), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toFloatOr(v any, def float64) float64 {
	if f, ok := toFloat(v); ok {
		return f
	}
	return def
}

func nonNegative(f, def float64) float64 {
	if f < 0 {
		return def
	}
	return f
}

func clampGrowth(g float64) float64 {
	return clampGrowthTo(g, DefaultMarketGrowthRate)
}

func clampGrowthTo(g, def float64) float64 {
	if g <= GrowthRateFloor || g >= GrowthRateCeil {
		return def
	}
	return g
}

func stringOr(v any, def string) string {
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return def
}

// stringListOr coerces a list of anything into a list of strings; missing
// or non-list values yield a copy of the default. The result is never nil
// so encoded documents carry [] rather than null.
func stringListOr(v any, def []string) []string {
	items, ok := v.([]any)
	if !ok {
		return cloneStrings(def)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			if strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
			continue
		}
		out = append(out, stringify(item))
	}
	if len(out) == 0 {
		return cloneStrings(def)
	}
	return out
}

func cloneStrings(in []string) []string {
	out := make([]string, 0, len(in))
	return append(out, in...)
}

// optionalStringList is like stringListOr but keeps absence as nil.
func optionalStringList(v any) []string {
	if _, ok := v.([]any); !ok {
		return nil
	}
	out := stringListOr(v, nil)
	if len(out) == 0 {
		return nil
	}
	return out
}

func stringMap(v any) map[string]string {
	raw, ok := v.(map[string]any)
	if !ok || len(raw) == 0 {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, val := range raw {
		if s, ok := val.(string); ok {
			out[k] = s
		} else {
			out[k] = stringify(val)
		}
	}
	return out
}

func stringify(v any) string {
	if b, err := json.Marshal(v); err == nil {
		return string(b)
	}
	return fmt.Sprintf("%v", v)
}
