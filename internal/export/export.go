// Package export prints story pages to PDF with headless Chrome.
package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/proofhq/proof/internal/story"
	"go.uber.org/zap"
)

const printTimeout = 60 * time.Second

// A4 in inches
const (
	paperWidth  = 8.27
	paperHeight = 11.69
)

// Printer turns HTML documents into PDF.
type Printer struct {
	execPath string
	logger   *zap.Logger
}

// Option configures a Printer.
type Option func(*Printer)

// WithExecPath uses a specific Chrome binary instead of searching PATH.
func WithExecPath(path string) Option {
	return func(p *Printer) { p.execPath = path }
}

// WithLogger sets the logger for browser messages.
func WithLogger(l *zap.Logger) Option {
	return func(p *Printer) { p.logger = l }
}

// NewPrinter returns a Printer.
func NewPrinter(opts ...Option) *Printer {
	p := &Printer{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// createBrowserContext starts a headless browser bound to parent.
func (p *Printer) createBrowserContext(parent context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if p.execPath != "" {
		opts = append(opts, chromedp.ExecPath(p.execPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(parent, opts...)
	sugar := p.logger.Sugar()
	ctx, cancel2 := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, v ...any) {
		msg := fmt.Sprintf(format, v...)
		// event types newer than our cdproto are harmless
		if strings.Contains(msg, "could not unmarshal event") {
			return
		}
		sugar.Debug(msg)
	}), chromedp.WithErrorf(sugar.Warnf))

	return ctx, func() {
		cancel2()
		cancel()
	}
}

// PrintHTML loads html into a blank page and prints it to PDF.
func (p *Printer) PrintHTML(ctx context.Context, html []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, printTimeout)
	defer cancel()
	ctx, closeBrowser := p.createBrowserContext(ctx)
	defer closeBrowser()

	var pdf []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}
	return pdf, nil
}

// StoryPDF renders s as HTML and prints it.
func (p *Printer) StoryPDF(ctx context.Context, s *story.Story) ([]byte, error) {
	var buf bytes.Buffer
	if err := story.WriteHTML(&buf, s); err != nil {
		return nil, fmt.Errorf("render story: %w", err)
	}
	return p.PrintHTML(ctx, buf.Bytes())
}
