package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/marketmap/engine/internal/export"
	"github.com/marketmap/engine/internal/marketintel"
	"github.com/marketmap/engine/internal/store"
)

func defaultDBPath() string {
	if p := strings.TrimSpace(os.Getenv("MARKET_MAP_DB")); p != "" {
		return p
	}
	return "marketmap.db"
}

func main() {
	mapID := flag.String("id", "", "Market map ID to render")
	dbPath := flag.String("db", defaultDBPath(), "SQLite database path")
	outDir := flag.String("out", ".", "Output directory")
	format := flag.String("format", "md", "Output format: md, xlsx, or pdf")
	list := flag.Bool("list", false, "List stored analyses and exit")
	flag.Parse()

	db, err := store.Open(*dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if *list {
		entries, err := db.History(20)
		if err != nil {
			log.Fatal(err)
		}
		for _, e := range entries {
			fmt.Printf("%s  %-10s %-8s %s / %s / %s\n",
				e.MapID, e.Tier, e.Confidence, e.ProductName, e.Industry, e.Geography)
		}
		return
	}

	if *mapID == "" {
		log.Fatal("-id is required (use -list to see stored analyses)")
	}
	result, err := db.GetResult(*mapID)
	if err != nil {
		log.Fatal(err)
	}

	switch *format {
	case "md":
		path := filepath.Join(*outDir, *mapID+".md")
		if err := os.WriteFile(path, []byte(marketintel.BuildReportMarkdown(result)), 0o644); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s", path)
	case "xlsx":
		path := filepath.Join(*outDir, *mapID+".xlsx")
		f, err := os.Create(path)
		if err != nil {
			log.Fatal(err)
		}
		if err := export.WriteWorkbook(f, result); err != nil {
			f.Close()
			log.Fatal(err)
		}
		if err := f.Close(); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s", path)
	case "pdf":
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		pdf, err := export.NewChromiumPDFRenderer().Render(ctx, result)
		if err != nil {
			log.Fatal(err)
		}
		path := filepath.Join(*outDir, *mapID+".pdf")
		if err := os.WriteFile(path, pdf, 0o644); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s", path)
	default:
		log.Fatalf("unknown format %q (want md, xlsx, or pdf)", *format)
	}
}
