// Package quote fetches a motivational quote from an ordered list of public
// endpoints, falling back to a built-in set when none answers.
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultTimeout bounds each source attempt.
const DefaultTimeout = 5 * time.Second

// maxBody caps how much of a response is read.
const maxBody = 64 << 10

// FallbackSource names quotes that came from the built-in set.
const FallbackSource = "fallback"

// Quote is a single quotation.
type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
	Source string `json:"source"`
}

// String renders the quote as `"text" - author`.
func (q Quote) String() string {
	if q.Author == "" {
		return fmt.Sprintf("%q", q.Text)
	}
	return fmt.Sprintf("%q - %s", q.Text, q.Author)
}

// ParseFunc extracts a quote from a response body.
type ParseFunc func(body []byte) (Quote, error)

// Source is one quote endpoint.
type Source struct {
	Name  string
	URL   string
	Parse ParseFunc
}

// ErrNoQuote is returned by parsers when the body holds no usable quote.
var ErrNoQuote = errors.New("no quote in response")

// Fallbacks is the built-in quote set.
var Fallbacks = []Quote{
	{Text: "The way to get started is to quit talking and begin doing.", Author: "Walt Disney", Source: FallbackSource},
	{Text: "The future depends on what you do today.", Author: "Mahatma Gandhi", Source: FallbackSource},
	{Text: "Don't watch the clock; do what it does. Keep going.", Author: "Sam Levenson", Source: FallbackSource},
	{Text: "Productivity is never an accident. It is always the result of a commitment to excellence.", Author: "Paul J. Meyer", Source: FallbackSource},
	{Text: "The secret of getting ahead is getting started.", Author: "Mark Twain", Source: FallbackSource},
}

// SourcesFromURLs builds sources for urls, choosing a parser by host.
// Blank or unparseable URLs are skipped.
func SourcesFromURLs(urls []string) []Source {
	sources := make([]Source, 0, len(urls))
	for _, raw := range urls {
		raw = strings.TrimSpace(raw)
		u, err := url.Parse(raw)
		if raw == "" || err != nil || u.Host == "" {
			continue
		}
		sources = append(sources, Source{
			Name:  u.Hostname(),
			URL:   raw,
			Parse: parserFor(u.Hostname()),
		})
	}
	return sources
}

func parserFor(host string) ParseFunc {
	switch {
	case strings.HasSuffix(host, "quotable.io"):
		return ParseQuotable
	case strings.HasSuffix(host, "zenquotes.io"):
		return ParseZenQuotes
	case strings.HasSuffix(host, "stoic-quotes.com"):
		return ParseStoic
	default:
		return ParseAny
	}
}

// Fetcher walks its sources in order and returns the first usable quote.
type Fetcher struct {
	sources []Source
	client  *http.Client
	timeout time.Duration
	logger  *log.Logger
	pick    func(n int) int
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithTimeout sets the per-source timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithLogger sets the logger used for source failures.
func WithLogger(l *log.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithPicker sets the function choosing a fallback index in [0, n).
func WithPicker(pick func(n int) int) Option {
	return func(f *Fetcher) {
		if pick != nil {
			f.pick = pick
		}
	}
}

// NewFetcher creates a Fetcher over sources. With no sources it only serves
// fallback quotes.
func NewFetcher(sources []Source, opts ...Option) *Fetcher {
	f := &Fetcher{
		sources: sources,
		client:  http.DefaultClient,
		timeout: DefaultTimeout,
		logger:  log.New(io.Discard),
		pick:    rand.Intn,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns a quote. It never fails: when every source errors, times out,
// or answers with something unusable, a fallback quote is returned.
func (f *Fetcher) Fetch(ctx context.Context) Quote {
	for _, src := range f.sources {
		if ctx.Err() != nil {
			break
		}
		q, err := f.try(ctx, src)
		if err != nil {
			f.logger.Debug("Quote source failed", "source", src.Name, "err", err)
			continue
		}
		return q
	}
	return f.Fallback()
}

// Fallback returns a random built-in quote.
func (f *Fetcher) Fallback() Quote {
	return Fallbacks[f.pick(len(Fallbacks))]
}

func (f *Fetcher) try(ctx context.Context, src Source) (Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return Quote{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return Quote{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return Quote{}, fmt.Errorf("read body: %w", err)
	}

	parse := src.Parse
	if parse == nil {
		parse = ParseAny
	}
	q, err := parse(body)
	if err != nil {
		return Quote{}, err
	}
	q.Text = strings.TrimSpace(q.Text)
	q.Author = strings.TrimSpace(q.Author)
	if q.Text == "" {
		return Quote{}, ErrNoQuote
	}
	if q.Author == "" {
		q.Author = "Unknown"
	}
	q.Source = src.Name
	return q, nil
}

// ParseQuotable reads {"content": ..., "author": ...}.
func ParseQuotable(body []byte) (Quote, error) {
	var v struct {
		Content string `json:"content"`
		Author  string `json:"author"`
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return Quote{}, err
	}
	return Quote{Text: v.Content, Author: v.Author}, nil
}

// ParseZenQuotes reads [{"q": ..., "a": ...}].
func ParseZenQuotes(body []byte) (Quote, error) {
	var v []struct {
		Q string `json:"q"`
		A string `json:"a"`
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return Quote{}, err
	}
	if len(v) == 0 {
		return Quote{}, ErrNoQuote
	}
	return Quote{Text: v[0].Q, Author: v[0].A}, nil
}

// ParseStoic reads {"text": ..., "author": ...}.
func ParseStoic(body []byte) (Quote, error) {
	var v struct {
		Text   string `json:"text"`
		Author string `json:"author"`
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return Quote{}, err
	}
	return Quote{Text: v.Text, Author: v.Author}, nil
}

// ParseAny accepts any of the shapes above.
func ParseAny(body []byte) (Quote, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		return ParseZenQuotes(body)
	}
	var v struct {
		Content string `json:"content"`
		Text    string `json:"text"`
		Quote   string `json:"quote"`
		Author  string `json:"author"`
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return Quote{}, err
	}
	for _, text := range []string{v.Content, v.Text, v.Quote} {
		if strings.TrimSpace(text) != "" {
			return Quote{Text: text, Author: v.Author}, nil
		}
	}
	return Quote{}, ErrNoQuote
}
