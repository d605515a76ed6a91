package scrapers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"car-listings-api/pkg/logging"
)

const (
	userAgent        = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	defaultMaxImages = 12
)

var ErrInvalidURL = errors.New("invalid listing url")

// gallerySelectors are tried on every page; og:image is read separately.
var gallerySelectors = []string{
	".gallery img",
	".swiper-slide img",
	"[data-testid='gallery'] img",
	"picture img",
}

// Renderer loads a page in a real browser for sites whose gallery is built by JavaScript.
type Renderer interface {
	RenderImages(ctx context.Context, pageURL string) ([]string, error)
}

// PreviewScraper pulls gallery images from a listing's source page.
type PreviewScraper struct {
	collector *colly.Collector
	renderer  Renderer
	maxImages int
	log       *zap.Logger
}

// NewPreviewScraper builds a scraper restricted to allowedDomains. An empty
// list allows every domain.
func NewPreviewScraper(allowedDomains []string, timeout time.Duration, log *zap.Logger) *PreviewScraper {
	c := colly.NewCollector(
		colly.AllowedDomains(allowedDomains...),
		colly.AllowURLRevisit(),
		colly.UserAgent(userAgent),
		colly.Headers(map[string]string{
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.5",
			"Cache-Control":   "no-cache",
		}),
	)
	if timeout > 0 {
		c.SetRequestTimeout(timeout)
	}

	_ = c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 2,
	})

	return &PreviewScraper{
		collector: c,
		maxImages: defaultMaxImages,
		log:       logging.OrNop(log),
	}
}

// SetRenderer enables the browser fallback for pages with no static images.
func (p *PreviewScraper) SetRenderer(r Renderer) {
	p.renderer = r
}

// Images returns up to maxImages absolute image URLs from pageURL, og:image first.
func (p *PreviewScraper) Images(ctx context.Context, pageURL string) ([]string, error) {
	u, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, pageURL)
	}

	c := p.collector.Clone()
	colly.StdlibContext(ctx)(c)

	var (
		og      []string
		gallery []string
		errs    []error
	)

	c.OnHTML(`meta[property="og:image"]`, func(e *colly.HTMLElement) {
		if src := strings.TrimSpace(e.Attr("content")); src != "" {
			og = append(og, e.Request.AbsoluteURL(src))
		}
	})

	for _, selector := range gallerySelectors {
		c.OnHTML(selector, func(e *colly.HTMLElement) {
			src := e.Attr("data-src")
			if src == "" {
				src = e.Attr("src")
			}
			if src = strings.TrimSpace(src); src != "" && !strings.HasPrefix(src, "data:") {
				gallery = append(gallery, e.Request.AbsoluteURL(src))
			}
		})
	}

	c.OnError(func(r *colly.Response, err error) {
		errs = append(errs, fmt.Errorf("status %d: %w", r.StatusCode, err))
	})

	if err := c.Visit(u.String()); err != nil && len(errs) == 0 {
		errs = append(errs, err)
	}
	c.Wait()

	images := dedupe(append(og, gallery...), p.maxImages)
	p.log.Debug("listing preview scraped",
		zap.String("url", u.String()),
		zap.Int("images", len(images)),
	)

	if len(images) > 0 {
		return images, nil
	}
	if p.renderer != nil {
		return p.renderer.RenderImages(ctx, u.String())
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("scraping %s: %w", u.Host, errors.Join(errs...))
	}
	return []string{}, nil
}

func dedupe(urls []string, limit int) []string {
	seen := make(map[string]bool, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
