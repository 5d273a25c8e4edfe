package ratetable

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLooksLikeBranchTitle(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		text string
		want bool
	}{
		{name: "test_moscow_office", text: "Москва, отделение 5", want: true},
		{name: "test_spb_address", text: "Санкт-Петербург, Невский пр., 28", want: true},
		{name: "test_nizhny", text: "Нижний Новгород, ул. Большая Покровская 1", want: true},
		{name: "test_city_without_digit", text: "Москва", want: false},
		{name: "test_digit_without_city", text: "Отделение №7", want: false},
		{name: "test_unknown_city", text: "Набережные Челны, пр. Мира 3", want: false},
		{name: "test_lower_case_city", text: "москва 5", want: false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tc.want, looksLikeBranchTitle(tc.text)); diff != "" {
				t.Errorf("bad heuristic (-want, +got): %s", diff)
			}
		})
	}
}
