package marketintel

import "time"

type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// Perspective controls whether the analysis treats the subject as an
// established market participant or a hypothetical new entrant.
type Perspective string

const (
	PerspectiveExistingBrand Perspective = "existing_brand"
	PerspectiveNewEntrant    Perspective = "new_entrant"
)

// Tier names the fallback strategy that produced a MarketMap. It is a
// first-class output so callers and tests can assert which path ran,
// instead of inferring it from confidence or methodology text.
type Tier string

const (
	TierAI       Tier = "ai"
	TierCurated  Tier = "curated"
	TierFallback Tier = "fallback"
)

type PriceTier string

const (
	PriceTierPremium  PriceTier = "Premium"
	PriceTierMidRange PriceTier = "Mid-Range"
	PriceTierBudget   PriceTier = "Budget"
)

// MarketInput is the caller-authored request. Immutable once created.
type MarketInput struct {
	ID              string    `json:"id"`
	ProductName     string    `json:"product_name"`
	Industry        string    `json:"industry"`
	Geography       string    `json:"geography"`
	TargetUser      string    `json:"target_user"`
	DemandDriver    string    `json:"demand_driver"`
	TransactionType string    `json:"transaction_type"`
	KeyMetrics      string    `json:"key_metrics"`
	Benchmarks      string    `json:"benchmarks,omitempty"`
	CreatedAt       time.Time `json:"timestamp"`
}

// AudienceMapping enriches a segment with audience taxonomy detail.
type AudienceMapping struct {
	Demographics  map[string]string `json:"demographics,omitempty"`
	Geographics   map[string]string `json:"geographics,omitempty"`
	MediaUsage    map[string]string `json:"media_usage,omitempty"`
	TaxonomyPaths []string          `json:"taxonomy_paths"`
	Confidence    ConfidenceLevel   `json:"confidence,omitempty"`
}

type MarketSegment struct {
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	SizeEstimate float64          `json:"size_estimate"`
	GrowthRate   float64          `json:"growth_rate"`
	KeyPlayers   []string         `json:"key_players"`
	Audience     *AudienceMapping `json:"audience_mapping,omitempty"`
}

type Competitor struct {
	Name            string     `json:"name"`
	Strengths       []string   `json:"strengths"`
	Weaknesses      []string   `json:"weaknesses"`
	MarketShare     *float64   `json:"market_share,omitempty"`
	PriceRange      string     `json:"price_range,omitempty"`
	PriceTier       *PriceTier `json:"price_tier,omitempty"`
	InnovationFocus string     `json:"innovation_focus,omitempty"`
	UserSegment     string     `json:"user_segment,omitempty"`
}

// MarketMap is the canonical analysis record. Created once per request,
// persisted, never mutated in place.
type MarketMap struct {
	ID            string `json:"id"`
	MarketInputID string `json:"market_input_id"`

	TotalMarketSize  float64  `json:"total_market_size"`
	MarketGrowthRate float64  `json:"market_growth_rate"`
	KeyDrivers       []string `json:"key_drivers"`

	AnalysisPerspective Perspective `json:"analysis_perspective"`
	BrandPosition       string      `json:"brand_position,omitempty"`

	SegmentationByGeographics    []MarketSegment `json:"segmentation_by_geographics"`
	SegmentationByDemographics   []MarketSegment `json:"segmentation_by_demographics"`
	SegmentationByPsychographics []MarketSegment `json:"segmentation_by_psychographics"`
	SegmentationByBehavioral     []MarketSegment `json:"segmentation_by_behavioral"`
	SegmentationByFirmographics  []MarketSegment `json:"segmentation_by_firmographics"`

	Competitors []Competitor `json:"competitors"`

	Opportunities            []string `json:"opportunities"`
	Threats                  []string `json:"threats"`
	StrategicRecommendations []string `json:"strategic_recommendations"`

	MarketingOpportunities   []string `json:"marketing_opportunities,omitempty"`
	MarketingThreats         []string `json:"marketing_threats,omitempty"`
	MarketingRecommendations []string `json:"marketing_recommendations,omitempty"`

	DataSources     []string        `json:"data_sources"`
	ConfidenceLevel ConfidenceLevel `json:"confidence_level"`
	Methodology     string          `json:"methodology"`
	CreatedAt       time.Time       `json:"timestamp"`
}

// AnalysisResult pairs the finished map with the tier that produced it.
type AnalysisResult struct {
	Input MarketInput `json:"market_input"`
	Map   MarketMap   `json:"market_map"`
	Tier  Tier        `json:"tier"`
}

// Growth rates outside (-1, 5) indicate upstream corruption and are
// replaced with defaults rather than propagated.
const (
	GrowthRateFloor = -1.0
	GrowthRateCeil  = 5.0
)
