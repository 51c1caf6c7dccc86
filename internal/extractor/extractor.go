// Package extractor turns a page URL into an ordered list of text chunks
// suitable for display and voicing. It fails open: any fetch or parse
// problem yields an empty result, never an error to the caller.
package extractor

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

// Extractor produces the ordered text chunks for a page URL.
type Extractor interface {
	Extract(ctx context.Context, url string) []string
}

const (
	defaultMinChunk  = 30
	defaultMaxChunk  = 1000
	defaultFlushAt   = 800
	defaultMaxChunks = 60
	fetchTimeout     = 10 * time.Second

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Non-content tags removed from the tree before any text is read.
const strippedTags = "script,style,nav,header,footer,iframe,noscript"

// Containers tried, in order, as the main-content root before falling back
// to body.
var contentRoots = []string{"main", "article", "[role=main]", ".content", "#content", ".main-content"}

// Block-level elements walked in document order.
const blockTags = "p,h1,h2,h3,h4,li,blockquote,td,pre"

// HTTPExtractor fetches HTML over HTTP and chunks the visible text.
type HTTPExtractor struct {
	client *http.Client
	log    logrus.FieldLogger

	minChunk  int
	maxChunk  int
	flushAt   int
	maxChunks int
}

func NewHTTPExtractor(log logrus.FieldLogger) *HTTPExtractor {
	return &HTTPExtractor{
		client:    &http.Client{Timeout: fetchTimeout},
		log:       log.WithField("component", "extractor"),
		minChunk:  defaultMinChunk,
		maxChunk:  defaultMaxChunk,
		flushAt:   defaultFlushAt,
		maxChunks: defaultMaxChunks,
	}
}

// Extract fetches the URL and returns its content chunks in document order.
// Network failures, non-2xx responses and parse failures all return an
// empty slice; the page the caller is building still gets created.
func (e *HTTPExtractor) Extract(ctx context.Context, url string) []string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		e.log.WithError(err).WithField("url", url).Warn("invalid scrape URL")
		return nil
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		e.log.WithError(err).WithField("url", url).Warn("scrape fetch failed")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e.log.WithFields(logrus.Fields{"url": url, "status": resp.StatusCode}).Warn("scrape fetch returned non-2xx")
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		e.log.WithError(err).WithField("url", url).Warn("scrape parse failed")
		return nil
	}

	chunks := e.chunk(doc)
	e.log.WithFields(logrus.Fields{"url": url, "chunks": len(chunks)}).Info("scraped page content")
	return chunks
}

func (e *HTTPExtractor) chunk(doc *goquery.Document) []string {
	doc.Find(strippedTags).Remove()

	root := doc.Find("body")
	for _, sel := range contentRoots {
		if found := doc.Find(sel); found.Length() > 0 {
			root = found.First()
			break
		}
	}

	c := &chunker{minChunk: e.minChunk, maxChunk: e.maxChunk, flushAt: e.flushAt, maxChunks: e.maxChunks}
	root.Find(blockTags).Each(func(_ int, s *goquery.Selection) {
		// Anything still nested under leftover chrome is navigation noise.
		if s.ParentsFiltered("nav,header,footer,aside").Length() > 0 {
			return
		}
		c.addBlock(s.Text())
	})
	c.flush()
	return c.out
}

// chunker accumulates block text and flushes size-bounded chunks, dropping
// exact duplicates and anything under the minimum length.
type chunker struct {
	minChunk  int
	maxChunk  int
	flushAt   int
	maxChunks int

	words  []string
	length int
	seen   map[string]bool
	out    []string
}

func (c *chunker) addBlock(text string) {
	if len(c.out) >= c.maxChunks {
		return
	}
	for _, w := range strings.Fields(text) {
		if len(w) >= c.maxChunk {
			continue
		}
		if c.length+len(w)+1 >= c.maxChunk {
			c.flush()
		}
		c.words = append(c.words, w)
		c.length += len(w) + 1
	}
	if c.length >= c.flushAt {
		c.flush()
	}
}

func (c *chunker) flush() {
	if len(c.words) == 0 {
		return
	}
	text := strings.Join(c.words, " ")
	c.words = nil
	c.length = 0

	if len(text) < c.minChunk || len(c.out) >= c.maxChunks {
		return
	}
	if c.seen == nil {
		c.seen = make(map[string]bool)
	}
	if c.seen[text] {
		return
	}
	c.seen[text] = true
	c.out = append(c.out, text)
}
