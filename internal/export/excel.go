// Package export renders finished market maps into shareable artifacts:
// an Excel workbook for analysts and a PDF of the markdown report.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx/v2"

	"github.com/marketmap/engine/internal/marketintel"
)

// BuildWorkbook assembles the analyst workbook for a finished analysis.
func BuildWorkbook(result marketintel.AnalysisResult) (*xlsx.File, error) {
	f := xlsx.NewFile()
	if err := addOverviewSheet(f, result); err != nil {
		return nil, err
	}
	if err := addCompetitorSheet(f, result.Map); err != nil {
		return nil, err
	}
	if err := addSegmentationSheet(f, result.Map); err != nil {
		return nil, err
	}
	return f, nil
}

// WriteWorkbook renders the workbook straight to a writer.
func WriteWorkbook(w io.Writer, result marketintel.AnalysisResult) error {
	f, err := BuildWorkbook(result)
	if err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func addOverviewSheet(f *xlsx.File, result marketintel.AnalysisResult) error {
	sheet, err := f.AddSheet("Market Overview")
	if err != nil {
		return fmt.Errorf("add overview sheet: %w", err)
	}
	m := result.Map

	header := sheet.AddRow()
	header.AddCell().SetString("Metric")
	header.AddCell().SetString("Value")

	addMetric := func(name, value string) {
		row := sheet.AddRow()
		row.AddCell().SetString(name)
		row.AddCell().SetString(value)
	}
	addMetric("Product", result.Input.ProductName)
	addMetric("Industry", result.Input.Industry)
	addMetric("Geography", result.Input.Geography)
	addMetric("Total Market Size", fmt.Sprintf("$%.0f", m.TotalMarketSize))
	addMetric("Growth Rate", fmt.Sprintf("%.1f%%", m.MarketGrowthRate*100))
	addMetric("Analysis Perspective", string(m.AnalysisPerspective))
	if m.BrandPosition != "" {
		addMetric("Brand Position", m.BrandPosition)
	}
	addMetric("Analysis Tier", string(result.Tier))
	addMetric("Confidence Level", string(m.ConfidenceLevel))
	addMetric("Methodology", m.Methodology)
	addMetric("Key Drivers", strings.Join(m.KeyDrivers, "; "))
	addMetric("Data Sources", strings.Join(m.DataSources, "; "))
	return nil
}

func addCompetitorSheet(f *xlsx.File, m marketintel.MarketMap) error {
	sheet, err := f.AddSheet("Competitive Analysis")
	if err != nil {
		return fmt.Errorf("add competitor sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range []string{"Competitor", "Market Share (%)", "Price Tier", "Price Range", "Strengths", "Weaknesses"} {
		header.AddCell().SetString(h)
	}
	for _, c := range m.Competitors {
		row := sheet.AddRow()
		row.AddCell().SetString(c.Name)
		if c.MarketShare != nil {
			row.AddCell().SetFloat(*c.MarketShare * 100)
		} else {
			row.AddCell().SetString("")
		}
		tier := ""
		if c.PriceTier != nil {
			tier = string(*c.PriceTier)
		}
		row.AddCell().SetString(tier)
		row.AddCell().SetString(c.PriceRange)
		row.AddCell().SetString(strings.Join(c.Strengths, "; "))
		row.AddCell().SetString(strings.Join(c.Weaknesses, "; "))
	}
	return nil
}

func addSegmentationSheet(f *xlsx.File, m marketintel.MarketMap) error {
	sheet, err := f.AddSheet("Segmentation")
	if err != nil {
		return fmt.Errorf("add segmentation sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range []string{"Dimension", "Segment", "Size ($)", "Growth (%)", "Key Players"} {
		header.AddCell().SetString(h)
	}
	addGroup := func(dimension string, segments []marketintel.MarketSegment) {
		for _, s := range segments {
			row := sheet.AddRow()
			row.AddCell().SetString(dimension)
			row.AddCell().SetString(s.Name)
			row.AddCell().SetFloat(s.SizeEstimate)
			row.AddCell().SetFloat(s.GrowthRate * 100)
			row.AddCell().SetString(strings.Join(s.KeyPlayers, ", "))
		}
	}
	addGroup("Geographic", m.SegmentationByGeographics)
	addGroup("Demographic", m.SegmentationByDemographics)
	addGroup("Psychographic", m.SegmentationByPsychographics)
	addGroup("Behavioral", m.SegmentationByBehavioral)
	addGroup("Firmographic", m.SegmentationByFirmographics)
	return nil
}
