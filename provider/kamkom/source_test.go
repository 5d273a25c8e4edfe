package kamkom

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/robotomize/gorates/provider/httputil"
	"github.com/robotomize/gorates/ratetable"
	"golang.org/x/text/encoding/charmap"
)

const ratesPage = `<html><body>
<p>Курсы валют, установленные банком на 12.03.2024</p>
<div id="msk">
    <h3>Москва, офис 1</h3>
    <table>
        <tr><td>USD</td><td>1</td><td>Доллар США</td><td>76,75</td><td>76,95</td></tr>
    </table>
</div>
<div id="kzn">
    <h3>Казань, офис 2</h3>
    <table>
        <tr><td>EUR</td><td>1</td><td>Евро</td><td>89,10</td><td>90,10</td></tr>
    </table>
</div>
</body></html>`

func ptr(v float64) *float64 {
	return &v
}

var (
	moscow = ratetable.BranchRates{
		Branch: "Москва, офис 1",
		Rates: map[string]ratetable.CurrencyRate{
			"USD": {Code: "USD", Units: 1, Name: "Доллар США", Buy: ptr(76.75), Sell: ptr(76.95)},
		},
	}
	kazan = ratetable.BranchRates{
		Branch: "Казань, офис 2",
		Rates: map[string]ratetable.CurrencyRate{
			"EUR": {Code: "EUR", Units: 1, Name: "Евро", Buy: ptr(89.10), Sell: ptr(90.10)},
		},
	}
)

func TestSource_FetchLatest(t *testing.T) {
	t.Parallel()

	cp1251, err := charmap.Windows1251.NewEncoder().String(ratesPage)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	testCases := []struct {
		name        string
		opts        []Option
		handlerFunc http.HandlerFunc
		expected    ratetable.Result
		err         error
	}{
		{
			name: "test_fetch_latest_utf8",
			handlerFunc: func(w http.ResponseWriter, req *http.Request) {
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				_, _ = w.Write([]byte(ratesPage))
			},
			expected: ratetable.Result{
				Branches: []ratetable.BranchRates{moscow, kazan},
				Date:     "12.03.2024",
				HasDate:  true,
			},
		},
		{
			name: "test_fetch_latest_windows_1251",
			handlerFunc: func(w http.ResponseWriter, req *http.Request) {
				w.Header().Set("Content-Type", "text/html; charset=windows-1251")
				_, _ = w.Write([]byte(cp1251))
			},
			expected: ratetable.Result{
				Branches: []ratetable.BranchRates{moscow, kazan},
				Date:     "12.03.2024",
				HasDate:  true,
			},
		},
		{
			name: "test_fetch_latest_scoped",
			opts: []Option{WithScope("#kzn")},
			handlerFunc: func(w http.ResponseWriter, req *http.Request) {
				_, _ = w.Write([]byte(ratesPage))
			},
			expected: ratetable.Result{
				Branches: []ratetable.BranchRates{kazan},
			},
		},
		{
			name: "test_fetch_latest_scope_without_matches",
			opts: []Option{WithScope("#spb")},
			handlerFunc: func(w http.ResponseWriter, req *http.Request) {
				_, _ = w.Write([]byte(ratesPage))
			},
			expected: ratetable.Result{
				Branches: []ratetable.BranchRates{moscow, kazan},
				Date:     "12.03.2024",
				HasDate:  true,
			},
		},
		{
			name: "test_fetch_latest_status_error",
			handlerFunc: func(w http.ResponseWriter, req *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			err: httputil.ErrStatusCode,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tc.handlerFunc)
			defer srv.Close()

			u, _ := url.Parse(srv.URL + "/rus/rates/")
			opts := append([]Option{WithURL(*u)}, tc.opts...)
			source := NewSource(NamePrimary, PrimaryURL, httputil.NewHTTPClient(srv.Client()), opts...)

			page, err := source.FetchLatest(context.Background())
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("expected %v, got %v", tc.err, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("fetch latest: %v", err)
			}

			if diff := cmp.Diff(u.String(), page.URL); diff != "" {
				t.Errorf("mismatch (-want, +got):\n%s", diff)
			}

			if len(page.Raw) == 0 {
				t.Errorf("raw body is empty")
			}

			if diff := cmp.Diff(tc.expected, page.Result); diff != "" {
				t.Errorf("mismatch (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestMirrors(t *testing.T) {
	t.Parallel()

	mirrors := Mirrors(httputil.NewHTTPClient(http.DefaultClient))

	var got []string
	for _, m := range mirrors {
		got = append(got, m.Name())
	}

	if diff := cmp.Diff([]string{NamePrimary, NameFallback}, got); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}

	if diff := cmp.Diff("https://www.kamkombank.ru/rus/course_msk/", mirrors[1].(*source).u.String()); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}
}

func TestScoped(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		text     string
		selector string
		expected string
	}{
		{
			name:     "test_empty_selector",
			text:     "<p>x</p>",
			expected: "<p>x</p>",
		},
		{
			name:     "test_multiple_matches_in_order",
			text:     `<div class="t">a</div><p>skip</p><div class="t">b</div>`,
			selector: ".t",
			expected: "<div class=\"t\">a</div>\n<div class=\"t\">b</div>\n",
		},
		{
			name:     "test_invalid_selector",
			text:     "<p>x</p>",
			selector: "[[",
			expected: "<p>x</p>",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := scoped(tc.text, tc.selector)
			if err != nil {
				t.Fatalf("scoped: %v", err)
			}

			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Errorf("mismatch (-want, +got):\n%s", diff)
			}
		})
	}
}
