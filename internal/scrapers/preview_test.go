package scrapers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const listingPage = `<!doctype html>
<html><head>
<meta property="og:image" content="/img/cover.jpg">
</head><body>
<div class="gallery">
  <img src="/img/cover.jpg">
  <img data-src="/img/side.jpg" src="data:image/gif;base64,R0lGOD">
  <img src="https://cdn.example.com/rear.jpg">
</div>
</body></html>`

type stubRenderer struct {
	calls int
}

func (r *stubRenderer) RenderImages(_ context.Context, pageURL string) ([]string, error) {
	r.calls++
	return []string{pageURL + "#rendered"}, nil
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/car/1", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(listingPage))
	})
	mux.HandleFunc("/car/empty", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><p>sold</p></body></html>`))
	})
	mux.HandleFunc("/car/gone", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestImages(t *testing.T) {
	srv := newServer(t)
	p := NewPreviewScraper(nil, 5*time.Second, zap.NewNop())

	images, err := p.Images(context.Background(), srv.URL+"/car/1")
	require.NoError(t, err)
	assert.Equal(t, []string{
		srv.URL + "/img/cover.jpg",
		srv.URL + "/img/side.jpg",
		"https://cdn.example.com/rear.jpg",
	}, images)
}

func TestImagesLimit(t *testing.T) {
	srv := newServer(t)
	p := NewPreviewScraper(nil, 5*time.Second, zap.NewNop())
	p.maxImages = 2

	images, err := p.Images(context.Background(), srv.URL+"/car/1")
	require.NoError(t, err)
	assert.Len(t, images, 2)
}

func TestImagesRendererFallback(t *testing.T) {
	srv := newServer(t)
	p := NewPreviewScraper(nil, 5*time.Second, zap.NewNop())

	images, err := p.Images(context.Background(), srv.URL+"/car/empty")
	require.NoError(t, err)
	assert.Equal(t, []string{}, images)

	r := &stubRenderer{}
	p.SetRenderer(r)
	images, err = p.Images(context.Background(), srv.URL+"/car/empty")
	require.NoError(t, err)
	assert.Equal(t, 1, r.calls)
	assert.Equal(t, []string{srv.URL + "/car/empty#rendered"}, images)
}

func TestImagesErrors(t *testing.T) {
	srv := newServer(t)
	p := NewPreviewScraper(nil, 5*time.Second, zap.NewNop())

	_, err := p.Images(context.Background(), srv.URL+"/car/gone")
	assert.Error(t, err)

	for _, bad := range []string{"", "ftp://example.com/x", "not a url", "https://"} {
		_, err := p.Images(context.Background(), bad)
		assert.ErrorIs(t, err, ErrInvalidURL, bad)
	}
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, dedupe([]string{"a", "", "a", "b", "c"}, 2))
	assert.Equal(t, []string{"a", "b", "c"}, dedupe([]string{"a", "b", "a", "c"}, 0))
}
