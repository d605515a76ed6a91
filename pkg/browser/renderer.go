package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"car-listings-api/pkg/logging"
)

const renderTimeout = 45 * time.Second

// collectImages gathers the large images of a rendered listing page.
const collectImages = `
Array.from(new Set(
	[document.querySelector('meta[property="og:image"]')?.content]
		.concat(Array.from(document.querySelectorAll('img'))
			.filter(img => img.naturalWidth >= 300)
			.map(img => img.currentSrc || img.src))
		.filter(src => src && !src.startsWith('data:'))
)).slice(0, 12)
`

// Renderer loads listing pages in headless Chrome for galleries that only
// exist after JavaScript runs.
type Renderer struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	log         *zap.Logger
}

// NewRenderer starts an allocator. chromePath may be empty to let chromedp
// find the browser.
func NewRenderer(chromePath string, log *zap.Logger) *Renderer {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"),
	)
	if chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &Renderer{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		log:         logging.OrNop(log),
	}
}

// RenderImages navigates to pageURL and returns the images visible once it settles.
func (r *Renderer) RenderImages(ctx context.Context, pageURL string) ([]string, error) {
	if r == nil {
		return []string{}, nil
	}

	taskCtx, taskCancel := chromedp.NewContext(r.allocCtx)
	defer taskCancel()
	taskCtx, timeoutCancel := context.WithTimeout(taskCtx, renderTimeout)
	defer timeoutCancel()

	// Abandon the render when the caller goes away.
	stop := context.AfterFunc(ctx, taskCancel)
	defer stop()

	var images []string
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.Sleep(2*time.Second),
		chromedp.Evaluate(collectImages, &images),
	)
	if err != nil {
		r.log.Info("browser render failed", zap.String("url", pageURL), zap.Error(err))
		return nil, fmt.Errorf("rendering %s: %w", pageURL, err)
	}

	r.log.Debug("browser render", zap.String("url", pageURL), zap.Int("images", len(images)))
	if images == nil {
		images = []string{}
	}
	return images, nil
}

func (r *Renderer) Close() {
	if r == nil || r.allocCancel == nil {
		return
	}
	r.allocCancel()
}
