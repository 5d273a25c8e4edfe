package ratetable

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ptr(v float64) *float64 {
	return &v
}

func TestParseRow(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		cells []string
		want  CurrencyRate
		ok    bool
	}{
		{
			name:  "test_full_row",
			cells: []string{"USD", "1", "Доллар США", "76,75", "76,95"},
			want:  CurrencyRate{Code: "USD", Units: 1, Name: "Доллар США", Buy: ptr(76.75), Sell: ptr(76.95)},
			ok:    true,
		},
		{
			name:  "test_empty_buy",
			cells: []string{"EUR", "1", "Евро", "", "90.10"},
			want:  CurrencyRate{Code: "EUR", Units: 1, Name: "Евро", Sell: ptr(90.10)},
			ok:    true,
		},
		{
			name:  "test_lower_case_code",
			cells: []string{"cny", "10", "Юань", "105,20", "110,40"},
			want:  CurrencyRate{Code: "CNY", Units: 10, Name: "Юань", Buy: ptr(105.20), Sell: ptr(110.40)},
			ok:    true,
		},
		{
			name:  "test_bad_units_default",
			cells: []string{"JPY", "сто", "Иена", "50,1"},
			want:  CurrencyRate{Code: "JPY", Units: 1, Name: "Иена", Buy: ptr(50.1)},
			ok:    true,
		},
		{
			name:  "test_zero_units_default",
			cells: []string{"JPY", "0", "Иена"},
			want:  CurrencyRate{Code: "JPY", Units: 1, Name: "Иена"},
			ok:    true,
		},
		{
			name:  "test_three_cells",
			cells: []string{"GBP", "1", "Фунт"},
			want:  CurrencyRate{Code: "GBP", Units: 1, Name: "Фунт"},
			ok:    true,
		},
		{
			name:  "test_unparsable_rates",
			cells: []string{"CHF", "1", "Франк", "—", "n/a"},
			want:  CurrencyRate{Code: "CHF", Units: 1, Name: "Франк"},
			ok:    true,
		},
		{
			name:  "test_extra_cells_ignored",
			cells: []string{"USD", "1", "Доллар", "70", "71", "72"},
			want:  CurrencyRate{Code: "USD", Units: 1, Name: "Доллар", Buy: ptr(70), Sell: ptr(71)},
			ok:    true,
		},
		{
			name:  "test_two_cells",
			cells: []string{"USD", "1"},
		},
		{
			name: "test_no_cells",
		},
		{
			name:  "test_header_row",
			cells: []string{"Код", "Ед.", "Валюта", "Покупка", "Продажа"},
		},
		{
			name:  "test_long_code",
			cells: []string{"USDT", "1", "Tether", "90", "91"},
		},
		{
			name:  "test_code_with_digit",
			cells: []string{"US1", "1", "Доллар", "90", "91"},
		},
		{
			name:  "test_code_with_spaces",
			cells: []string{" USD", "1", "Доллар", "90", "91"},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := parseRow(tc.cells)
			if diff := cmp.Diff(tc.ok, ok); diff != "" {
				t.Fatalf("bad ok (-want, +got): %s", diff)
			}

			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("bad rate (-want, +got): %s", diff)
			}
		})
	}
}

func TestParseDecimal(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		value string
		want  *float64
	}{
		{name: "test_comma", value: "76,75", want: ptr(76.75)},
		{name: "test_point", value: "90.10", want: ptr(90.10)},
		{name: "test_spaces", value: "  12,5 ", want: ptr(12.5)},
		{name: "test_integer", value: "100", want: ptr(100)},
		{name: "test_zero", value: "0", want: ptr(0)},
		{name: "test_empty", value: ""},
		{name: "test_blank", value: "   "},
		{name: "test_dash", value: "-"},
		{name: "test_text", value: "нет"},
		{name: "test_two_separators", value: "1,234.5"},
		{name: "test_negative", value: "-1,5"},
		{name: "test_nan", value: "NaN"},
		{name: "test_inf", value: "inf"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tc.want, parseDecimal(tc.value)); diff != "" {
				t.Errorf("bad value (-want, +got): %s", diff)
			}
		})
	}
}
