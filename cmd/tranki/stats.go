package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/juanfelareal/tranki/internal/cli"
	"github.com/juanfelareal/tranki/internal/service"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/wcharczuk/go-chart/v2"
)

func statsCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
		chartPath string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show spending totals by category",
		Long: `Aggregate saved expense transactions by category over an optional date
range. With --chart the breakdown is also written as a PNG pie chart.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			start, end, err := parseDateRange(startDate, endDate)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			spending, err := store.GetSpendingByCategory(ctx, currentTenant(), start, end)
			if err != nil {
				return fmt.Errorf("failed to load spending stats: %w", err)
			}
			if len(spending) == 0 {
				fmt.Println(cli.WarningStyle.Render("No expense transactions in range."))
				return nil
			}

			var total float64
			for _, s := range spending {
				total += s.Total
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(cli.PrimaryColor)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				headerStyle.Render("Category"),
				headerStyle.Render("Total"),
				headerStyle.Render("Count"),
				headerStyle.Render("Share"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 24),
				strings.Repeat("-", 14),
				strings.Repeat("-", 6),
				strings.Repeat("-", 6))
			for _, s := range spending {
				fmt.Fprintf(w, "%s %s\t%.2f\t%d\t%.1f%%\n",
					s.Icon, s.Name, s.Total, s.Count, 100*s.Total/total)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Printf("\n%s %.2f\n", cli.BoldStyle.Render("Total:"), total)

			if chartPath != "" {
				if err := writeSpendingChart(chartPath, spending); err != nil {
					return fmt.Errorf("failed to write chart: %w", err)
				}
				fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Chart written to %s", chartPath)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&chartPath, "chart", "", "write a PNG pie chart to this path")
	return cmd
}

func parseDateRange(startDate, endDate string) (start, end *time.Time, err error) {
	if startDate != "" {
		t, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid --start date %q: %w", startDate, err)
		}
		start = &t
	}
	if endDate != "" {
		t, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid --end date %q: %w", endDate, err)
		}
		end = &t
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, nil, fmt.Errorf("--end date is before --start date")
	}
	return start, end, nil
}

func writeSpendingChart(path string, spending []service.CategorySpend) error {
	values := make([]chart.Value, 0, len(spending))
	for _, s := range spending {
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%.0f)", s.Name, s.Total),
			Value: s.Total,
		})
	}

	pie := chart.PieChart{
		Width:  800,
		Height: 800,
		Values: values,
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return pie.Render(chart.PNG, f)
}
