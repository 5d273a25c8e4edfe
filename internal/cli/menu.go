package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/robotomize/gorates"
	"github.com/robotomize/gorates/calc"
	"github.com/robotomize/gorates/ratetable"
	"github.com/spf13/cobra"
)

type menuChoice struct {
	code string
	dir  gorates.Direction
}

var conversionChoices = map[string]menuChoice{
	"1": {code: "USD", dir: gorates.DirectionToLocal},
	"2": {code: "USD", dir: gorates.DirectionFromLocal},
	"3": {code: "EUR", dir: gorates.DirectionToLocal},
	"4": {code: "EUR", dir: gorates.DirectionFromLocal},
}

func (a *app) menuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Start the interactive menu",
		Args:  cobra.NoArgs,
		RunE:  a.runMenu,
	}
}

func (a *app) runMenu(cmd *cobra.Command, _ []string) error {
	snapshot, err := a.load(cmd.Context())
	if err != nil {
		return err
	}

	branch, err := snapshot.Branch(gorates.MoscowMarker, defaultCodes...)
	if err != nil {
		return err
	}

	m := menu{
		in:       bufio.NewScanner(cmd.InOrStdin()),
		out:      cmd.OutOrStdout(),
		snapshot: snapshot,
		branch:   branch,
	}

	m.run()

	return nil
}

type menu struct {
	in       *bufio.Scanner
	out      io.Writer
	snapshot gorates.Snapshot
	branch   ratetable.BranchRates
}

// ask prints prompt and reads one trimmed line. ok is false once input is exhausted.
func (m *menu) ask(prompt string) (string, bool) {
	fmt.Fprint(m.out, prompt)
	if !m.in.Scan() {
		fmt.Fprintln(m.out)
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *menu) run() {
	for {
		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, "=== Меню ===")
		fmt.Fprintln(m.out, "1. Калькулятор")
		fmt.Fprintln(m.out, "2. Показать курсы USD/EUR (Москва)")
		fmt.Fprintln(m.out, "3. Конвертер USD/EUR <-> RUB")
		fmt.Fprintln(m.out, "0. Выход")

		choice, ok := m.ask("Ваш выбор: ")
		if !ok {
			return
		}

		switch choice {
		case "1":
			if !m.calculator() {
				return
			}
		case "2":
			printRates(m.out, m.snapshot, m.branch, defaultCodes)
		case "3":
			printRates(m.out, m.snapshot, m.branch, defaultCodes)
			if !m.convert() {
				return
			}
		case "0":
			fmt.Fprintln(m.out, "Выход.")
			return
		default:
			fmt.Fprintln(m.out, "Неверный пункт меню.")
		}
	}
}

func (m *menu) calculator() bool {
	expr, ok := m.ask("Введите выражение (например 2+2*5): ")
	if !ok {
		return false
	}

	if expr == "" {
		fmt.Fprintln(m.out, "Пустое выражение.")
		return true
	}

	v, err := calc.Evaluate(expr)
	if err != nil {
		fmt.Fprintf(m.out, "Ошибка вычисления: %v\n", err)
		return true
	}

	fmt.Fprintf(m.out, "Результат: %s\n", calc.Format(v))

	return true
}

func (m *menu) convert() bool {
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, "Выберите направление:")
	fmt.Fprintln(m.out, "1. USD -> RUB")
	fmt.Fprintln(m.out, "2. RUB -> USD")
	fmt.Fprintln(m.out, "3. EUR -> RUB")
	fmt.Fprintln(m.out, "4. RUB -> EUR")

	choice, ok := m.ask("Ваш выбор: ")
	if !ok {
		return false
	}

	c, found := conversionChoices[choice]
	if !found {
		fmt.Fprintln(m.out, "Неверный выбор.")
		return true
	}

	if _, found := m.branch.Rate(c.code); !found {
		fmt.Fprintf(m.out, "Курс %s не найден.\n", c.code)
		return true
	}

	raw, ok := m.ask("Введите сумму: ")
	if !ok {
		return false
	}

	amount, err := parseAmount(raw)
	if err != nil {
		fmt.Fprintln(m.out, "Сумма должна быть числом.")
		return true
	}

	resp, err := gorates.Convert(m.branch, c.code, c.dir, amount)
	switch {
	case errors.Is(err, gorates.ErrNegativeAmount):
		fmt.Fprintln(m.out, "Сумма не может быть отрицательной.")
	case errors.Is(err, gorates.ErrRateNotFound) && c.dir == gorates.DirectionToLocal:
		fmt.Fprintln(m.out, "Нет курса 'покупка' для этой валюты.")
	case errors.Is(err, gorates.ErrRateNotFound):
		fmt.Fprintln(m.out, "Нет курса 'продажа' для этой валюты.")
	case err != nil:
		fmt.Fprintf(m.out, "Ошибка конвертации: %v\n", err)
	default:
		printConversion(m.out, resp)
	}

	return true
}
