package httputil

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/htmlindex"
)

const DefaultUserAgent = "Mozilla/5.0 (CurrencyCalculator/1.0)"

var (
	ErrStatusCode      = errors.New("http status != 200")
	ErrUnknownEncoding = errors.New("unknown encoding")
)

// DefaultSourceHTTPClient return preconfigured HTTP client
func DefaultSourceHTTPClient(opts ...Option) SourceHTTPClient {
	return NewHTTPClient(
		&http.Client{
			Transport: &http.Transport{
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   10,
				DisableCompression:    true,
				IdleConnTimeout:       5 * time.Minute,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
				ResponseHeaderTimeout: 10 * time.Second,
			},
		}, opts...,
	)
}

type Option func(*SourceHTTPClient)

// WithUserAgent overrides the User-Agent header sent with every request
func WithUserAgent(ua string) Option {
	return func(c *SourceHTTPClient) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithCharset forces the body encoding, e.g. "windows-1251", instead of
// detecting it from the Content-Type header and <meta> tags
func WithCharset(name string) Option {
	return func(c *SourceHTTPClient) {
		c.charset = name
	}
}

// NewHTTPClient return prepared SourceHTTPClient
func NewHTTPClient(client *http.Client, opts ...Option) SourceHTTPClient {
	c := SourceHTTPClient{client: client, userAgent: DefaultUserAgent}
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

type SourceHTTPClient struct {
	client    *http.Client
	userAgent string
	charset   string
}

func (f SourceHTTPClient) UserAgent() string {
	return f.userAgent
}

// Response is a fetched body after transfer decompression
type Response struct {
	Body        []byte
	ContentType string
}

// Get implements HTTP method GET client and returns the slice byte from the body
func (f SourceHTTPClient) Get(ctx context.Context, u url.URL) ([]byte, error) {
	resp, err := f.fetch(ctx, u)
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}

// GetText fetches u and decodes the body to UTF-8 text
func (f SourceHTTPClient) GetText(ctx context.Context, u url.URL) (string, Response, error) {
	resp, err := f.fetch(ctx, u)
	if err != nil {
		return "", resp, err
	}

	text, err := Decode(resp.Body, resp.ContentType, f.charset)
	if err != nil {
		return "", resp, fmt.Errorf("decode body: %w", err)
	}

	return text, resp, nil
}

// Decode converts b to UTF-8. A non-empty forced encoding name wins; otherwise
// the encoding is taken from contentType, a BOM or <meta> tags, defaulting to UTF-8.
func Decode(b []byte, contentType, forced string) (string, error) {
	var r io.Reader
	if forced != "" {
		enc, err := htmlindex.Get(forced)
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrUnknownEncoding, forced)
		}

		r = enc.NewDecoder().Reader(bytes.NewReader(b))
	} else {
		cr, err := charset.NewReader(bytes.NewReader(b), contentType)
		if err != nil {
			return "", fmt.Errorf("charset.NewReader: %w", err)
		}

		r = cr
	}

	out, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read: %w", err)
	}

	return string(out), nil
}

func (f SourceHTTPClient) fetch(ctx context.Context, u url.URL) (Response, error) {
	var out Response

	req, err := f.prepareRequest(ctx, u)
	if err != nil {
		return out, fmt.Errorf("build HTTP request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return out, fmt.Errorf("make HTTP request: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return out, fmt.Errorf("http status: %d, %s: %w", resp.StatusCode, resp.Status, ErrStatusCode)
	}

	var reader io.ReadCloser
	contentType := resp.Header.Get("Content-Type")
	contentEncoding := resp.Header.Get("Content-Encoding")
	switch {
	case strings.Contains(contentType, "application/x-gzip"), strings.Contains(contentEncoding, "gzip"):
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return out, fmt.Errorf("unable create gzip.NewReader: %w", err)
		}
		reader = gz
		defer reader.Close()

	default:
		reader = resp.Body
	}

	b, err := io.ReadAll(reader)
	if err != nil {
		if !errors.Is(err, io.ErrUnexpectedEOF) {
			return out, fmt.Errorf("read body: %w", err)
		}
	}

	out.Body = b
	out.ContentType = contentType

	return out, nil
}

func (f SourceHTTPClient) prepareRequest(ctx context.Context, u url.URL) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Encoding", "gzip")

	return req, nil
}
