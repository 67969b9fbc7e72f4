package marketintel

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "marketintel"

// Analyzer runs the three-tier analysis strategy: generator output first,
// curated records second, synthetic fallback last. Every request produces a
// MarketMap; tier degradation is logged, never surfaced as an error.
type Analyzer struct {
	generator Generator
	now       func() time.Time
	newID     func() string
}

// NewAnalyzer builds an Analyzer around a generator. A nil generator is
// valid and skips straight to the curated and fallback tiers.
func NewAnalyzer(generator Generator) *Analyzer {
	return &Analyzer{
		generator: generator,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

// Analyze produces a validated MarketMap for the input. The returned error
// is reserved for context cancellation; all tier failures degrade.
func (a *Analyzer) Analyze(ctx context.Context, input MarketInput) (AnalysisResult, error) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "marketintel.Analyze", trace.WithAttributes(
		attribute.String("market.product", input.ProductName),
		attribute.String("market.industry", input.Industry),
		attribute.String("market.geography", input.Geography),
	))
	defer span.End()

	if input.ID == "" {
		input.ID = a.newID()
	}
	if input.CreatedAt.IsZero() {
		input.CreatedAt = a.now()
	}

	perspective := ClassifyPerspective(input.ProductName)
	b2b := IsB2BIndustry(input.Industry)
	params := NormalizeParams{
		Input:       input,
		Perspective: perspective,
		B2B:         b2b,
		MapID:       a.newID(),
		Now:         a.now(),
	}

	if m, ok := a.tryGenerator(ctx, input, perspective, b2b, params); ok {
		span.SetAttributes(attribute.String("market.tier", string(TierAI)))
		return AnalysisResult{Input: input, Map: m, Tier: TierAI}, ctx.Err()
	}

	if rec, ok := LookupCurated(input.ProductName, input.Industry, input.Geography); ok {
		log.Printf("analysis %s: using curated record for %q", input.ID, input.ProductName)
		m := NormalizeTree(curatedAnalysisTree(rec, input), params)
		m.ConfidenceLevel = rec.Confidence
		span.SetAttributes(attribute.String("market.tier", string(TierCurated)))
		return AnalysisResult{Input: input, Map: m, Tier: TierCurated}, ctx.Err()
	}

	log.Printf("analysis %s: no curated record, using generic fallback", input.ID)
	m := NormalizeTree(genericAnalysisTree(input), params)
	m.ConfidenceLevel = ConfidenceLow
	m.Methodology = "Generic fallback estimates; generator and curated data unavailable"
	span.SetAttributes(attribute.String("market.tier", string(TierFallback)))
	return AnalysisResult{Input: input, Map: m, Tier: TierFallback}, ctx.Err()
}

// tryGenerator runs the AI tier end to end. Any failure, from transport to
// unparseable output, logs and reports false so the caller can degrade.
func (a *Analyzer) tryGenerator(ctx context.Context, input MarketInput, perspective Perspective, b2b bool, params NormalizeParams) (MarketMap, bool) {
	if a.generator == nil {
		return MarketMap{}, false
	}
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "marketintel.generate")
	defer span.End()

	prompt := BuildPrompt(input, perspective, b2b)
	text, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		log.Printf("analysis %s: generator failed: %v", input.ID, err)
		span.RecordError(err)
		return MarketMap{}, false
	}
	tree, err := ParseTree(text)
	if err != nil {
		log.Printf("analysis %s: generator output unparseable: %v", input.ID, err)
		span.RecordError(err)
		return MarketMap{}, false
	}
	return NormalizeTree(tree, params), true
}

// WithClock overrides time and ID sources for deterministic tests.
func (a *Analyzer) WithClock(now func() time.Time, newID func() string) *Analyzer {
	if now != nil {
		a.now = now
	}
	if newID != nil {
		a.newID = newID
	}
	return a
}
