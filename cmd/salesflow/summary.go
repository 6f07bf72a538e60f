package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikhith-dev/salesflow/internal/service"
)

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the daily per-product sales summary",
		RunE:  runSummary,
	}

	cmd.Flags().String("date", "", "filter by summary date (YYYY-MM-DD)")
	cmd.Flags().String("product", "", "filter by product id")
	cmd.Flags().Int("limit", 50, "maximum rows to show (0 for all)")

	return cmd
}

func runSummary(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	dateStr, _ := cmd.Flags().GetString("date")
	product, _ := cmd.Flags().GetString("product")
	limit, _ := cmd.Flags().GetInt("limit")

	// Product IDs are stored upper-cased.
	filter := service.SummaryFilter{ProductID: strings.ToUpper(product), Limit: limit}
	if dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", dateStr, err)
		}
		filter.Date = &date
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	summaries, err := store.GetSummaries(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to load summaries: %w", err)
	}

	if len(summaries) == 0 {
		fmt.Println("No summary rows found. Run `salesflow run` first.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tPRODUCT\tQTY\tSALES\tAVG PRICE\tHIGH VALUE\tWEEKEND SALES\tREPEAT")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%.2f\t%d\t%.2f\t%d\n",
			s.SummaryDate.Format("2006-01-02"), s.ProductID,
			s.TotalQuantity, s.TotalSales, s.AveragePrice,
			s.HighValueOrders, s.WeekendSales, s.RepeatBuyerOrders)
	}

	return w.Flush()
}
