package kamkom

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-kit/log/level"
	"github.com/robotomize/gorates/internal/logging"
	"github.com/robotomize/gorates/provider"
	"github.com/robotomize/gorates/provider/httputil"
	"github.com/robotomize/gorates/ratetable"
)

const hostname = "www.kamkombank.ru"

const (
	// NamePrimary is the rates page listing every branch
	NamePrimary = "kamkom"
	// NameFallback is the Moscow course page
	NameFallback = "kamkom_msk"
)

var (
	PrimaryURL = url.URL{
		Scheme: "https",
		Host:   hostname,
		Path:   "/rus/rates/",
	}
	FallbackURL = url.URL{
		Scheme: "https",
		Host:   hostname,
		Path:   "/rus/course_msk/",
	}
)

type Option func(*source)

// WithScope restricts extraction to the elements matching a CSS selector.
// A selector that matches nothing leaves the whole page in scope.
func WithScope(selector string) Option {
	return func(s *source) {
		s.scope = selector
	}
}

// WithURL overrides the page address
func WithURL(u url.URL) Option {
	return func(s *source) {
		s.u = u
	}
}

var _ provider.Source = (*source)(nil)

// NewSource returns a source for the page at u
func NewSource(name string, u url.URL, client httputil.SourceHTTPClient, opts ...Option) *source {
	s := &source{name: name, u: u, client: client}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Mirrors returns the primary and the fallback pages in the order they are tried
func Mirrors(client httputil.SourceHTTPClient, opts ...Option) []provider.Source {
	return []provider.Source{
		NewSource(NamePrimary, PrimaryURL, client, opts...),
		NewSource(NameFallback, FallbackURL, client, opts...),
	}
}

type source struct {
	name   string
	u      url.URL
	scope  string
	client httputil.SourceHTTPClient
}

func (s *source) Name() string {
	return s.name
}

func (s *source) FetchLatest(ctx context.Context) (provider.Page, error) {
	logger := logging.FromContext(ctx)
	page := provider.Page{URL: s.u.String()}

	text, resp, err := s.client.GetText(ctx, s.u)
	if err != nil {
		return page, fmt.Errorf("fetching %s: %w", page.URL, err)
	}

	page.Raw = resp.Body

	markup, err := scoped(text, s.scope)
	if err != nil {
		return page, fmt.Errorf("scope %q: %w", s.scope, err)
	}

	page.Result = ratetable.Extract(markup)

	_ = level.Debug(logger).Log(
		"msg", "page parsed",
		"source", s.name,
		"url", page.URL,
		"bytes", len(resp.Body),
		"branches", len(page.Result.Branches),
	)

	return page, nil
}
