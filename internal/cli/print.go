package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/robotomize/gorates"
	"github.com/robotomize/gorates/ratetable"
)

const noData = "нет данных"

var defaultCodes = []string{"USD", "EUR"}

func printRates(w io.Writer, snapshot gorates.Snapshot, branch ratetable.BranchRates, codes []string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Курсы валют (Камкомбанк) ===")
	fmt.Fprintf(w, "Отделение: %s\n", branch.Branch)
	if snapshot.Result.HasDate {
		fmt.Fprintf(w, "Дата на сайте: %s\n", snapshot.Result.Date)
	}
	fmt.Fprintf(w, "Источник: %s\n", snapshot.URL)
	fmt.Fprintln(w)

	for _, code := range codes {
		rate, ok := branch.Rate(code)
		if !ok {
			continue
		}

		label := rate.Code
		if rate.Units > 1 {
			label += " (за " + strconv.Itoa(rate.Units) + ")"
		}

		fmt.Fprintf(w, "%s: покупка=%s, продажа=%s\n", label, quote(rate.Buy), quote(rate.Sell))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Подсказка: если вы сдаете валюту в банк (валюта -> RUB), используется 'покупка'.")
	fmt.Fprintln(w, "Если покупаете валюту за рубли (RUB -> валюта), используется 'продажа'.")
}

func quote(v *float64) string {
	if v == nil {
		return noData
	}
	return fmt.Sprintf("%.2f %s", *v, gorates.LocalCurrency)
}

func printConversion(w io.Writer, resp gorates.ConversionResponse) {
	kind := "покупки"
	if resp.Direction == gorates.DirectionFromLocal {
		kind = "продажи"
	}

	fmt.Fprintf(
		w, "%.2f %s = %.2f %s (по курсу %s %.2f)\n",
		resp.Value, resp.From, resp.Amount, resp.To, kind, resp.Quote,
	)
}

// parseAmount accepts a decimal comma as well as a point
func parseAmount(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
}

func splitCodes(s string) []string {
	var codes []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
			codes = append(codes, c)
		}
	}
	return codes
}
