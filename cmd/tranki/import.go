package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/juanfelareal/tranki/internal/cli"
	"github.com/juanfelareal/tranki/internal/common"
	"github.com/juanfelareal/tranki/internal/importer"
	"github.com/juanfelareal/tranki/internal/model"
	"github.com/juanfelareal/tranki/internal/service"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a bank statement and suggest categories",
		Long: `Parse a CSV or OFX/QFX statement, run every transaction through the
categorization engine, and show the suggestions. With --save the
transactions are persisted with their suggested categories.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			saveFlag := save

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open statement: %w", err)
			}
			defer func() { _ = file.Close() }()

			candidates, err := importer.ParseFile(args[0], file)
			if err != nil {
				return err
			}
			if len(candidates) == 0 {
				fmt.Println(cli.WarningStyle.Render("No transactions found in statement."))
				return nil
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			eng := initEngine(store)
			tenantID := currentTenant()

			results, err := eng.SuggestAll(ctx, tenantID, candidates)
			if err != nil {
				return fmt.Errorf("failed to match transactions: %w", err)
			}

			printSuggestions(candidates, results)

			if !saveFlag {
				fmt.Println(cli.SubtleStyle.Render("Run again with --save to persist these transactions."))
				return nil
			}

			transactions := buildTransactions(tenantID, candidates, results, false)
			err = common.WithRetry(ctx, func() error {
				return store.SaveTransactions(ctx, transactions)
			}, service.RetryOptions{MaxAttempts: 3})
			if err != nil {
				return fmt.Errorf("failed to save transactions: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Saved %d transactions", len(transactions))))
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "persist transactions with their suggested categories")
	return cmd
}

// printSuggestions renders one row per candidate with its suggestion.
func printSuggestions(candidates []model.MatchCandidate, results []model.MatchResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(cli.PrimaryColor)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("Description"),
		headerStyle.Render("Amount"),
		headerStyle.Render("Type"),
		headerStyle.Render("Suggested"),
		headerStyle.Render("Source"))
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		strings.Repeat("-", 32),
		strings.Repeat("-", 12),
		strings.Repeat("-", 8),
		strings.Repeat("-", 20),
		strings.Repeat("-", 8))

	for i, candidate := range candidates {
		result := results[i]
		source := string(result.Provenance)
		if result.Provenance == model.ProvenanceNone {
			source = cli.SubtleStyle.Render("none")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			candidate.Text(),
			candidate.Amount.StringFixed(2),
			candidate.Direction,
			result.CategoryName,
			source)
	}
}

// buildTransactions converts matched candidates into transactions ready to
// save. Only learned matches carry a concrete category id.
func buildTransactions(tenantID string, candidates []model.MatchCandidate, results []model.MatchResult, aiExtracted bool) []model.Transaction {
	transactions := make([]model.Transaction, 0, len(candidates))
	for i, candidate := range candidates {
		date := time.Now()
		if candidate.Date != "" {
			if parsed, err := time.Parse("2006-01-02", candidate.Date); err == nil {
				date = parsed
			}
		}

		transactions = append(transactions, model.Transaction{
			TenantID:    tenantID,
			Description: candidate.Text(),
			Direction:   candidate.Direction,
			Amount:      candidate.Amount,
			Date:        date,
			CategoryID:  results[i].CategoryID,
			AIExtracted: aiExtracted,
		})
	}
	return transactions
}
