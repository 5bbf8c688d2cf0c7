package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"savings/internal/core"
	"savings/internal/currency"
	"savings/internal/i18n"
	"savings/internal/params"
	"savings/internal/services"
)

// defaultMaxMonths matches the MAX_MONTHS default of the server.
const defaultMaxMonths = 1200

type projectOptions struct {
	initial   string
	monthly   string
	rate      string
	years     string
	months    int
	maxMonths int
	rounding  string
	currency  string
	lang      string
	yearly    bool
	format    string
}

func newProjectCmd() *cobra.Command {
	defaults := params.Defaults()
	opts := &projectOptions{}

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Print a projection",
		Long: `Print the month-by-month (or year-by-year) growth of an initial
investment plus a monthly contribution at a fixed annual rate.

Amounts accept grouping separators and currency symbols, e.g. "¥1,000".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runProject(ctx, cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.initial, "initial", defaults.InitialAmount, "initial investment")
	f.StringVar(&opts.monthly, "monthly", defaults.MonthlyAmount, "monthly contribution")
	f.StringVar(&opts.rate, "rate", defaults.AnnualRate, "expected annual return in percent")
	f.StringVar(&opts.years, "years", defaults.Years, "period in years")
	f.IntVar(&opts.months, "months", 0, "extra months added to the period")
	f.IntVar(&opts.maxMonths, "max-months", defaultMaxMonths, "longest horizon in months; longer periods are clamped")
	f.StringVar(&opts.rounding, "rounding", string(core.RoundingPrecise), "rounding mode (precise, rounded)")
	f.StringVar(&opts.currency, "currency", "", "display currency (JPY, USD); defaults by language")
	f.StringVar(&opts.lang, "lang", "en", "display language (en, ja)")
	f.BoolVar(&opts.yearly, "yearly", false, "print one row per year instead of per month")
	f.StringVar(&opts.format, "format", "table", "output format (table, json, yaml)")
	return cmd
}

// projectionRow is one line of output. Period is a month or a year number
// depending on --yearly.
type projectionRow struct {
	Period    int     `json:"period"    yaml:"period"`
	Principal float64 `json:"principal" yaml:"principal"`
	Interest  float64 `json:"interest"  yaml:"interest"`
	Total     float64 `json:"total"     yaml:"total"`
}

type projectionOutput struct {
	Ready       bool              `json:"ready"        yaml:"ready"`
	Clamped     bool              `json:"clamped"      yaml:"clamped"`
	TotalMonths int               `json:"total_months" yaml:"total_months"`
	Rounding    core.RoundingMode `json:"rounding"     yaml:"rounding"`
	Currency    string            `json:"currency"     yaml:"currency"`
	Yearly      bool              `json:"yearly"       yaml:"yearly"`
	Rows        []projectionRow   `json:"rows"         yaml:"rows"`
}

func runProject(ctx context.Context, out io.Writer, opts *projectOptions) error {
	if _, err := i18n.Load(); err != nil {
		return fmt.Errorf("load message catalogs: %w", err)
	}

	mode, err := core.ParseRoundingMode(opts.rounding)
	if err != nil {
		return fmt.Errorf("%w %q", err, opts.rounding)
	}
	tag, ok := i18n.Parse(opts.lang)
	if !ok {
		return fmt.Errorf("unsupported language %q", opts.lang)
	}
	cur := i18n.CurrencyFor(tag)
	if opts.currency != "" {
		if cur, err = currency.Parse(opts.currency); err != nil {
			return fmt.Errorf("%w %q", err, opts.currency)
		}
	}
	if opts.months < 0 {
		return fmt.Errorf("months must not be negative, got %d", opts.months)
	}
	if opts.maxMonths < 1 {
		return fmt.Errorf("max-months must be at least 1, got %d", opts.maxMonths)
	}

	form := params.Saved{
		InitialAmount: opts.initial,
		MonthlyAmount: opts.monthly,
		AnnualRate:    opts.rate,
		Years:         opts.years,
	}
	in := form.Inputs()
	in.Months = opts.months

	svc := services.NewProjectionService(services.ProjectionOptions{Mode: mode, MaxMonths: opts.maxMonths})
	res := svc.Project(ctx, services.ProjectionRequest{Inputs: in, Mode: mode})

	output := projectionOutput{
		Ready:       res.Ready,
		Clamped:     res.Clamped,
		TotalMonths: res.Params.TotalMonths,
		Rounding:    res.Mode,
		Currency:    cur.String(),
		Yearly:      opts.yearly,
		Rows:        rows(res, opts.yearly),
	}

	switch opts.format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(output)
	case "yaml":
		enc := yaml.NewEncoder(out)
		if err := enc.Encode(output); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		return writeTable(out, output, res, cur, tag)
	default:
		return fmt.Errorf("unsupported format %q", opts.format)
	}
}

func rows(res services.Result, yearly bool) []projectionRow {
	out := []projectionRow{}
	if yearly {
		for _, b := range res.Yearly {
			out = append(out, projectionRow{Period: b.Year, Principal: b.Principal, Interest: b.Interest, Total: b.Total})
		}
		return out
	}
	for _, s := range res.Monthly {
		out = append(out, projectionRow{Period: s.Month, Principal: s.Principal, Interest: s.Interest, Total: s.Total})
	}
	return out
}

func writeTable(out io.Writer, output projectionOutput, res services.Result, cur currency.Currency, tag language.Tag) error {
	if !output.Ready {
		_, err := fmt.Fprintln(out, i18n.T(tag, "chart.empty"))
		return err
	}

	if output.Clamped {
		if _, err := fmt.Fprintln(out, i18n.Printer(tag).Sprintf("result.clamped", output.TotalMonths)); err != nil {
			return err
		}
	}

	period := i18n.T(tag, "table.month")
	if output.Yearly {
		period = i18n.T(tag, "chart.year")
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", period,
		i18n.T(tag, "result.principal"), i18n.T(tag, "result.interest"), i18n.T(tag, "result.total"))
	for _, r := range output.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", strconv.Itoa(r.Period),
			currency.Format(r.Principal, cur, tag),
			currency.Format(r.Interest, cur, tag),
			currency.Format(r.Total, cur, tag))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if res.HasFinal {
		_, err := fmt.Fprintf(out, "\n%s: %s\n", i18n.T(tag, "result.total"), currency.Format(res.Final.Total, cur, tag))
		return err
	}
	return nil
}
