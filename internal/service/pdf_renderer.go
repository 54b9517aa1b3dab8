package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/fadilmartias/careerhub/internal/apperror"
	"github.com/fadilmartias/careerhub/internal/config"
	"go.uber.org/zap"
)

// PDFRenderer prints an HTML document to PDF.
type PDFRenderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

type ChromedpRenderer struct {
	cfg *config.ChromeConfig
}

func NewChromedpRenderer(cfg *config.ChromeConfig) *ChromedpRenderer {
	return &ChromedpRenderer{cfg: cfg}
}

func (r *ChromedpRenderer) RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		// snapshots are rendered as static documents
		chromedp.Flag("blink-settings", "scriptEnabled=false"),
	)
	if r.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.cfg.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	runCtx, cancelRun := context.WithTimeout(cctx, r.cfg.Timeout)
	defer cancelRun()

	chromedp.ListenTarget(runCtx, func(ev any) {
		if e, ok := ev.(*fetch.EventRequestPaused); ok {
			go resolvePaused(runCtx, e)
		}
	})

	var pdfBuf []byte
	err := chromedp.Run(runCtx,
		interceptRequests(),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 210mm x 297mm -> 8.27in x 11.69in
			pdfBuf, _, err = page.PrintToPDF().WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		zap.L().Error("render pdf failed", zap.Error(err))
		return nil, apperror.Unavailable("pdf renderer is unavailable", fmt.Errorf("chromedp: %w", err))
	}
	return pdfBuf, nil
}

// interceptRequests pauses every request the document makes so that
// resolvePaused can fail anything that would leave the process.
func interceptRequests() *fetch.EnableParams {
	return fetch.Enable().WithPatterns([]*fetch.RequestPattern{{URLPattern: "*"}})
}

func resolvePaused(ctx context.Context, e *fetch.EventRequestPaused) {
	c := chromedp.FromContext(ctx)
	if c == nil || c.Target == nil {
		return
	}
	ectx := cdp.WithExecutor(ctx, c.Target)

	var err error
	if allowRequest(e.Request.URL) {
		err = fetch.ContinueRequest(e.RequestID).Do(ectx)
	} else {
		zap.L().Warn("pdf renderer blocked request", zap.String("url", e.Request.URL))
		err = fetch.FailRequest(e.RequestID, network.ErrorReasonBlockedByClient).Do(ectx)
	}
	if err != nil && ctx.Err() == nil {
		zap.L().Debug("resolve paused request failed", zap.Error(err))
	}
}

// allowRequest admits only inline data: URLs.
func allowRequest(url string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(url)), "data:")
}
