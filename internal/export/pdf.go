package export

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/marketmap/engine/internal/marketintel"
)

// ChromiumPDFRenderer converts a markdown market report into a PDF through
// headless Chromium. Requires a Chromium binary on the host.
type ChromiumPDFRenderer struct {
	chromePath string
}

func NewChromiumPDFRenderer() *ChromiumPDFRenderer {
	return &ChromiumPDFRenderer{chromePath: detectChromePath()}
}

func (r *ChromiumPDFRenderer) Render(ctx context.Context, result marketintel.AnalysisResult) ([]byte, error) {
	htmlDoc, err := BuildReportHTML(result)
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	}
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(timeoutCtx, append(chromedp.DefaultExecAllocatorOptions[:], opts...)...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	var pdf []byte
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(htmlDoc))
	if err := chromedp.Run(taskCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			footer := `<div style="width:100%;text-align:center;font-size:9px;color:#666;">` +
				`Page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`
			out, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithDisplayHeaderFooter(true).
				WithHeaderTemplate(`<div></div>`).
				WithFooterTemplate(footer).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0.5).
				WithMarginBottom(0.75).
				WithMarginLeft(0.45).
				WithMarginRight(0.45).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = out
			return nil
		}),
	); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return pdf, nil
}

// BuildReportHTML converts the markdown report into a standalone HTML
// document. Exposed separately so tests can check the document without a
// Chromium binary.
func BuildReportHTML(result marketintel.AnalysisResult) (string, error) {
	markdown := marketintel.BuildReportMarkdown(result)

	var content strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(markdown), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}

	return "<!doctype html><html><head><meta charset='utf-8'><title>Market Intelligence Report</title>" +
		"<style>" + reportCSS + "</style></head><body>" +
		"<div class='report'>" + content.String() + "</div>" +
		"</body></html>", nil
}

const reportCSS = `
body{font-family:Georgia,serif;color:#1c1917;background:#fff;margin:0;padding:1rem;}
.report{max-width:900px;margin:0 auto;}
h1{font-size:1.6rem;border-bottom:2px solid #92400e;padding-bottom:0.3rem;}
h2{font-size:1.2rem;margin-top:1.4rem;color:#78350f;}
h3{font-size:1rem;margin-top:1rem;}
table{width:100%;border-collapse:collapse;font-size:0.85rem;margin:0.5rem 0;}
th,td{border:1px solid #a8a29e;padding:0.35rem 0.45rem;text-align:left;vertical-align:top;}
thead th{background:#f1f5f9;font-weight:700;}
blockquote{border-left:4px solid #b45309;background:#fef3c7;margin:0.5rem 0;padding:0.5rem 0.75rem;}
code{background:#f5f5f4;padding:0.1rem 0.25rem;border-radius:3px;font-size:0.85em;}
@media print{ @page{size:auto;margin:12mm;} body{padding:0;} }
`

func detectChromePath() string {
	candidates := []string{
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
