package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/marketmap/engine/internal/marketintel"
	"github.com/marketmap/engine/internal/store"
)

func main() {
	product := flag.String("product", "", "Product or service name")
	industry := flag.String("industry", "", "Industry")
	geography := flag.String("geography", "", "Geography")
	targetUser := flag.String("target-user", "", "Target users")
	demandDriver := flag.String("demand-driver", "", "Primary demand driver")
	transactionType := flag.String("transaction-type", "", "Revenue or transaction model")
	keyMetrics := flag.String("key-metrics", "", "Key metrics to focus on")
	benchmarks := flag.String("benchmarks", "", "Known benchmarks (optional)")
	dbPath := flag.String("db", defaultDBPath(), "SQLite database path")
	asJSON := flag.Bool("json", false, "Print the full result as JSON instead of markdown")
	flag.Parse()

	// Missing .env is fine; real env vars still apply.
	_ = godotenv.Load()

	if strings.TrimSpace(*product) == "" || strings.TrimSpace(*industry) == "" || strings.TrimSpace(*geography) == "" {
		log.Fatal("-product, -industry, and -geography are required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTracing := setupTracing(ctx)
	defer shutdownTracing()

	var generator marketintel.Generator
	if gen, err := marketintel.NewAnthropicGeneratorFromEnv(); err != nil {
		log.Printf("generator disabled: %v", err)
	} else {
		generator = gen
	}

	db, err := store.Open(*dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	analyzer := marketintel.NewAnalyzer(generator)
	result, err := analyzer.Analyze(ctx, marketintel.MarketInput{
		ProductName:     *product,
		Industry:        *industry,
		Geography:       *geography,
		TargetUser:      *targetUser,
		DemandDriver:    *demandDriver,
		TransactionType: *transactionType,
		KeyMetrics:      *keyMetrics,
		Benchmarks:      *benchmarks,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(1)
		}
		log.Fatal(err)
	}

	if err := db.SaveResult(result); err != nil {
		log.Fatal(err)
	}
	log.Printf("analysis complete: map=%s tier=%s confidence=%s", result.Map.ID, result.Tier, result.Map.ConfidenceLevel)

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			log.Fatal(err)
		}
		return
	}
	fmt.Print(marketintel.BuildReportMarkdown(result))
}

func defaultDBPath() string {
	if p := strings.TrimSpace(os.Getenv("MARKET_MAP_DB")); p != "" {
		return p
	}
	return "marketmap.db"
}

// setupTracing installs an OTLP trace exporter when an endpoint is
// configured. Without one the default no-op provider stays in place.
func setupTracing(ctx context.Context) func() {
	if strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")) == "" {
		return func() {}
	}
	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		log.Printf("tracing disabled: %v", err)
		return func() {}
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Printf("trace shutdown: %v", err)
		}
	}
}
