// Package bookfetch retrieves a random starting position from a remote
// opening-book file, giving a tournament "a random start position" for
// configs that name a book by URL rather than a local file. Caching
// transport grounded on internal/httpcache.go's header-override idiom,
// backed by httpcache.MemoryCache rather than S3: book files are small and
// don't need off-box durability.
package bookfetch

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/gregjones/httpcache"

	"github.com/openchessrunner/core/internal"
)

// Fetcher retrieves and caches opening-book files by URL.
type Fetcher struct {
	client *http.Client
	// Rand is the PRNG used to pick a line from the fetched book. Nil uses
	// a package-default, non-deterministic source.
	Rand *rand.Rand
}

// NewFetcher builds a Fetcher whose HTTP transport caches book responses for
// maxAge in an in-memory httpcache and stamps every request with this
// project's User-Agent.
func NewFetcher(maxAge time.Duration) *Fetcher {
	return &Fetcher{client: newBookCachingClient(maxAge)}
}

// newBookCachingClient wires an httpcache transport in front of the default
// transport, overriding two things remote book hosts tend to get wrong for
// our purposes: origin cache-control headers (some book hosts mark their
// files no-cache, which would defeat caching of a file that never changes)
// and the outgoing User-Agent, set here once instead of at every call site.
func newBookCachingClient(maxAge time.Duration) *http.Client {
	hc := httpcache.NewTransport(httpcache.NewMemoryCache())
	hc.Transport = &bookTransport{
		wrapped: http.DefaultTransport,
		maxAge:  maxAge,
	}
	return &http.Client{Transport: hc}
}

// bookTransport sets the outgoing User-Agent and enforces a client-side TTL
// on book responses regardless of what the origin host sends.
type bookTransport struct {
	wrapped http.RoundTripper
	maxAge  time.Duration
}

func (t *bookTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so we don't stomp on the caller's original
	req2 := req.Clone(req.Context())
	req2.Header.Set("User-Agent", internal.UserAgent)

	resp, err := t.wrapped.RoundTrip(req2)
	if err != nil {
		return nil, err
	}

	resp.Header.Del("Pragma")
	resp.Header.Del("Expires")
	resp.Header.Del("Cache-Control")
	resp.Header.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(t.maxAge/time.Second)))
	return resp, nil
}

func (f *Fetcher) rng() *rand.Rand {
	if f.Rand != nil {
		return f.Rand
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// FetchFEN fetches a newline-delimited FEN/EPD list from url and returns one
// random non-empty line.
func (f *Fetcher) FetchFEN(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("bookfetch.FetchFEN: new request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("bookfetch.FetchFEN: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bookfetch.FetchFEN: %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("bookfetch.FetchFEN: read %s: %w", url, err)
	}

	lines := nonEmptyLines(string(body))
	if len(lines) == 0 {
		return "", fmt.Errorf("bookfetch.FetchFEN: %s: no positions found", url)
	}

	return lines[f.rng().Intn(len(lines))], nil
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
