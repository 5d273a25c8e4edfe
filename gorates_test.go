package gorates

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/robotomize/gorates/provider"
	"github.com/robotomize/gorates/provider/kamkom"
	"github.com/robotomize/gorates/ratetable"
)

var errFetch = errors.New("connection refused")

func ptr(v float64) *float64 {
	return &v
}

func testPage(url string, branches ...ratetable.BranchRates) provider.Page {
	return provider.Page{
		URL: url,
		Raw: []byte("hello world"),
		Result: ratetable.Result{
			Branches: branches,
			Date:     "12.03.2024",
			HasDate:  true,
		},
	}
}

var moscow = ratetable.BranchRates{
	Branch: "Москва, ул. Тверская, 18",
	Rates: map[string]ratetable.CurrencyRate{
		"USD": {Code: "USD", Units: 1, Name: "Доллар США", Buy: ptr(76.75), Sell: ptr(76.95)},
		"EUR": {Code: "EUR", Units: 1, Name: "Евро", Buy: ptr(89.10), Sell: ptr(90.10)},
	},
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	l := New(http.DefaultClient)

	expected := Options{
		RetryNum:       DefaultRetryNum,
		RetryDuration:  DefaultRetryDuration,
		RequestTimeout: DefaultRequestTimeout,
	}
	if diff := cmp.Diff(expected, l.opts); diff != "" {
		t.Errorf("bad options (-want, +got): %s", diff)
	}

	var names []string
	for _, s := range l.sources {
		names = append(names, s.Name())
	}

	if diff := cmp.Diff([]string{kamkom.NamePrimary, kamkom.NameFallback}, names); diff != "" {
		t.Errorf("bad sources (-want, +got): %s", diff)
	}
}

func TestNew_WithSourcesReplacesMirrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		custom   []string
		expected []string
	}{
		{name: "test_single_source", custom: []string{"custom"}, expected: []string{"custom"}},
		{name: "test_two_sources", custom: []string{"a", "b"}, expected: []string{"a", "b"}},
		{name: "test_no_sources", custom: nil, expected: nil},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)

			var sources []provider.Source
			for _, name := range tc.custom {
				source := provider.NewMockSource(ctrl)
				source.EXPECT().Name().Return(name).AnyTimes()
				sources = append(sources, source)
			}

			// the client is never used when the mirrors are replaced
			l := New(nil, WithSources(sources...))
			var names []string
			for _, s := range l.sources {
				names = append(names, s.Name())
			}

			if diff := cmp.Diff(tc.expected, names); diff != "" {
				t.Errorf("bad sources (-want, +got): %s", diff)
			}
		})
	}
}

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	fetchedAt := time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC)

	type call struct {
		page provider.Page
		err  error
	}

	testCases := []struct {
		name      string
		primary   []call
		fallback  []call
		expected  Snapshot
		errCount  int
		loadErr   []error
		lastError string
	}{
		{
			name:    "test_primary_ok",
			primary: []call{{page: testPage("https://primary", moscow)}},
			expected: Snapshot{
				Result:    testPage("", moscow).Result,
				Source:    "primary",
				URL:       "https://primary",
				FetchedAt: fetchedAt,
				Checksum:  "2aae6c35c94fcfb415dbe95f408b9ce91ee846ed",
			},
		},
		{
			name:    "test_primary_recovers_on_retry",
			primary: []call{{err: errFetch}, {page: testPage("https://primary", moscow)}},
			expected: Snapshot{
				Result:    testPage("", moscow).Result,
				Source:    "primary",
				URL:       "https://primary",
				FetchedAt: fetchedAt,
				Checksum:  "2aae6c35c94fcfb415dbe95f408b9ce91ee846ed",
			},
		},
		{
			name:     "test_fallback_after_fetch_errors",
			primary:  []call{{err: errFetch}, {err: errFetch}},
			fallback: []call{{page: testPage("https://fallback", moscow)}},
			expected: Snapshot{
				Result:    testPage("", moscow).Result,
				Source:    "fallback",
				URL:       "https://fallback",
				FetchedAt: fetchedAt,
				Checksum:  "2aae6c35c94fcfb415dbe95f408b9ce91ee846ed",
			},
			errCount: 1,
		},
		{
			name:     "test_fallback_after_empty_page",
			primary:  []call{{page: testPage("https://primary")}},
			fallback: []call{{page: testPage("https://fallback", moscow)}},
			expected: Snapshot{
				Result:    testPage("", moscow).Result,
				Source:    "fallback",
				URL:       "https://fallback",
				FetchedAt: fetchedAt,
				Checksum:  "2aae6c35c94fcfb415dbe95f408b9ce91ee846ed",
			},
			errCount: 1,
		},
		{
			name:      "test_all_sources_failed",
			primary:   []call{{page: testPage("https://primary")}},
			fallback:  []call{{err: errFetch}, {err: errFetch}},
			loadErr:   []error{ErrNoBranches, errFetch},
			lastError: "last error: fallback: fetch latest: connection refused",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)

			primary := provider.NewMockSource(ctrl)
			primary.EXPECT().Name().Return("primary").AnyTimes()
			for _, c := range tc.primary {
				primary.EXPECT().FetchLatest(gomock.Any()).Return(c.page, c.err)
			}

			fallback := provider.NewMockSource(ctrl)
			fallback.EXPECT().Name().Return("fallback").AnyTimes()
			for _, c := range tc.fallback {
				fallback.EXPECT().FetchLatest(gomock.Any()).Return(c.page, c.err)
			}

			l := New(
				http.DefaultClient,
				WithSources(primary, fallback),
				WithRetryNum(1),
				WithRetryDuration(time.Millisecond),
				WithRequestTimeout(time.Second),
			)
			l.now = func() time.Time { return fetchedAt }

			got, err := l.Load(context.Background())
			if tc.loadErr != nil {
				if err == nil {
					t.Fatalf("expected error, got snapshot %+v", got)
				}

				for _, want := range tc.loadErr {
					if !errors.Is(err, want) {
						t.Errorf("error %q does not wrap %v", err, want)
					}
				}

				if !strings.Contains(err.Error(), tc.lastError) {
					t.Errorf("error %q does not name %q", err, tc.lastError)
				}
				return
			}

			if err != nil {
				t.Fatalf("load: %v", err)
			}

			if diff := cmp.Diff(tc.errCount, len(got.Errors)); diff != "" {
				t.Errorf("bad errors count (-want, +got): %s", diff)
			}

			if diff := cmp.Diff(tc.expected, got, cmpopts.IgnoreFields(Snapshot{}, "Errors")); diff != "" {
				t.Errorf("bad snapshot (-want, +got): %s", diff)
			}
		})
	}
}

func TestLoader_LoadNoSources(t *testing.T) {
	t.Parallel()

	_, err := New(http.DefaultClient, WithSources()).Load(context.Background())
	if !errors.Is(err, ErrNoSources) {
		t.Errorf("expected %v, got %v", ErrNoSources, err)
	}
}

func TestLoader_LoadCanceled(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)

	primary := provider.NewMockSource(ctrl)
	primary.EXPECT().Name().Return("primary").AnyTimes()
	primary.EXPECT().FetchLatest(gomock.Any()).Return(provider.Page{}, errFetch).MaxTimes(1)

	fallback := provider.NewMockSource(ctrl)
	fallback.EXPECT().Name().Return("fallback").AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(http.DefaultClient, WithSources(primary, fallback), WithRetryDuration(time.Millisecond)).Load(ctx)
	if err == nil {
		t.Fatalf("expected error on canceled context")
	}
}

func TestSnapshot_Branch(t *testing.T) {
	t.Parallel()

	kazan := ratetable.BranchRates{
		Branch: "Казань, отделение №2",
		Rates: map[string]ratetable.CurrencyRate{
			"USD": {Code: "USD", Units: 1, Buy: ptr(76.60), Sell: ptr(77.20)},
		},
	}
	moscowUSD := ratetable.BranchRates{
		Branch: "Москва, отделение 5",
		Rates: map[string]ratetable.CurrencyRate{
			"USD": {Code: "USD", Units: 1, Buy: ptr(76.60), Sell: ptr(77.20)},
		},
	}

	snapshot := Snapshot{Result: ratetable.Result{Branches: []ratetable.BranchRates{kazan, moscowUSD, moscow}}}

	testCases := []struct {
		name     string
		marker   string
		codes    []string
		expected string
		err      error
	}{
		{
			name:     "test_first_match_with_all_codes",
			marker:   MoscowMarker,
			codes:    []string{"USD", "EUR"},
			expected: moscow.Branch,
		},
		{
			name:     "test_first_match_in_page_order",
			marker:   MoscowMarker,
			codes:    []string{"USD"},
			expected: moscowUSD.Branch,
		},
		{
			name:     "test_no_codes",
			marker:   "Казань",
			expected: kazan.Branch,
		},
		{
			name:   "test_missing_code",
			marker: "Казань",
			codes:  []string{"EUR"},
			err:    ErrBranchNotFound,
		},
		{
			name:   "test_missing_marker",
			marker: "Новосибирск",
			err:    ErrBranchNotFound,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := snapshot.Branch(tc.marker, tc.codes...)
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("expected %v, got %v", tc.err, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("branch: %v", err)
			}

			if diff := cmp.Diff(tc.expected, got.Branch); diff != "" {
				t.Errorf("bad branch (-want, +got): %s", diff)
			}
		})
	}
}
