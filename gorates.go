package gorates

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-kit/log/level"
	"github.com/hashicorp/go-multierror"
	"github.com/robotomize/gorates/internal/hashio"
	"github.com/robotomize/gorates/internal/logging"
	"github.com/robotomize/gorates/provider"
	"github.com/robotomize/gorates/provider/httputil"
	"github.com/robotomize/gorates/provider/kamkom"
	"github.com/robotomize/gorates/ratetable"
	"github.com/sethvargo/go-retry"
)

var (
	ErrNoSources  = errors.New("no rate sources configured")
	ErrNoBranches = errors.New("page has no rate tables")
)

const (
	DefaultRequestTimeout = 15 * time.Second
	DefaultRetryNum       = 1
	DefaultRetryDuration  = 2 * time.Second
)

type Option func(*loader)

type Options struct {
	RetryNum       uint64
	RetryDuration  time.Duration
	RequestTimeout time.Duration
}

// WithRetryNum set number of repeated requests for data retrieval errors from the source
func WithRetryNum(n uint64) Option {
	return func(l *loader) {
		l.opts.RetryNum = n
	}
}

// WithRetryDuration constant pause between retries
func WithRetryDuration(t time.Duration) Option {
	return func(l *loader) {
		l.opts.RetryDuration = t
	}
}

// WithRequestTimeout set a timeout for every single request
func WithRequestTimeout(t time.Duration) Option {
	return func(l *loader) {
		l.opts.RequestTimeout = t
	}
}

// WithSources replaces the mirrors. Sources are tried in the given order.
func WithSources(sources ...provider.Source) Option {
	return func(l *loader) {
		// non-nil even when empty, so New does not fall back to the default mirrors
		l.sources = append(make([]provider.Source, 0, len(sources)), sources...)
	}
}

// New return loader reading the bank mirrors through client
func New(client *http.Client, opts ...Option) *loader {
	l := &loader{
		opts: Options{
			RetryNum:       DefaultRetryNum,
			RetryDuration:  DefaultRetryDuration,
			RequestTimeout: DefaultRequestTimeout,
		},
		now: time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.sources == nil {
		l.sources = kamkom.Mirrors(httputil.NewHTTPClient(client))
	}

	return l
}

type loader struct {
	opts    Options
	sources []provider.Source
	now     func() time.Time
}

// Snapshot is the outcome of a successful Load
type Snapshot struct {
	Result    ratetable.Result
	Source    string
	URL       string
	FetchedAt time.Time
	// Checksum is the hex SHA-1 of the page as served
	Checksum string
	// Errors holds the failures of the mirrors tried before Source
	Errors []error
}

// Branch returns the first branch whose name contains marker and that quotes every code
func (s Snapshot) Branch(marker string, codes ...string) (ratetable.BranchRates, error) {
	return FindBranch(s.Result.Branches, marker, codes...)
}

// Load tries the sources in order and returns the first page that has at least one branch.
// Each source is retried on fetch errors; a page without branches moves on to the next source
// immediately. When every source fails the error aggregates all failures.
func (l *loader) Load(ctx context.Context) (Snapshot, error) {
	logger := logging.FromContext(ctx)

	if len(l.sources) == 0 {
		return Snapshot{}, ErrNoSources
	}

	var errs *multierror.Error
	for _, source := range l.sources {
		page, err := l.fetch(ctx, source)
		if err != nil {
			_ = level.Warn(logger).Log("msg", "source failed", "source", source.Name(), "err", err)
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", source.Name(), err))
			if ctx.Err() != nil {
				break
			}
			continue
		}

		checksum, err := hashio.HexSum(page.Raw, hashio.SHA1HashFunc())
		if err != nil {
			return Snapshot{}, fmt.Errorf("checksum: %w", err)
		}

		_ = level.Info(logger).Log(
			"msg", "rates loaded",
			"source", source.Name(),
			"branches", len(page.Result.Branches),
			"date", page.Result.Date,
		)

		return Snapshot{
			Result:    page.Result,
			Source:    source.Name(),
			URL:       page.URL,
			FetchedAt: l.now().UTC(),
			Checksum:  checksum,
			Errors:    errs.WrappedErrors(),
		}, nil
	}

	errs.ErrorFormat = formatLoadErrors

	return Snapshot{}, errs
}

func (l *loader) fetch(ctx context.Context, source provider.Source) (provider.Page, error) {
	var page provider.Page

	b, err := retry.NewConstant(l.opts.RetryDuration)
	if err != nil {
		return page, fmt.Errorf("retry.NewConstant: %w", err)
	}

	b = retry.WithMaxRetries(l.opts.RetryNum, b)

	if err := retry.Do(ctx, b, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, l.opts.RequestTimeout)
		defer cancel()

		p, err := source.FetchLatest(ctx)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("fetch latest: %w", err))
		}

		if len(p.Result.Branches) == 0 {
			return fmt.Errorf("%s: %w", p.URL, ErrNoBranches)
		}

		page = p

		return nil
	}); err != nil {
		return page, err
	}

	return page, nil
}

func formatLoadErrors(errs []error) string {
	if len(errs) == 0 {
		return "unable to load rates"
	}

	points := make([]string, len(errs))
	for i, err := range errs {
		points[i] = err.Error()
	}

	return fmt.Sprintf(
		"unable to load rates, last error: %s (%d attempts: %s)",
		errs[len(errs)-1], len(errs), strings.Join(points, "; "),
	)
}
