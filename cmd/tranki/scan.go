package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/juanfelareal/tranki/internal/cli"
	"github.com/juanfelareal/tranki/internal/common"
	"github.com/juanfelareal/tranki/internal/service"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func scanCmd() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "scan <image>",
		Short: "Extract transactions from a statement photo or screenshot",
		Long: `Send an image of a bank statement, receipt, or SMS notification to the
Gemini vision model, extract the transactions it finds, and suggest a
category for each one. Requires a Gemini API key (gemini.api_key in
config or the GEMINI_API_KEY environment variable).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			saveFlag := save

			image, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}
			mimeType := http.DetectContentType(image)

			extractor, err := initExtractor(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = extractor.Close() }()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			eng := initEngine(store)
			tenantID := currentTenant()

			spinner := progressbar.NewOptions(-1,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSpinnerType(14),
				progressbar.OptionSetDescription("Analyzing image..."),
			)
			done := make(chan struct{})
			go func() {
				for {
					select {
					case <-done:
						return
					case <-time.After(100 * time.Millisecond):
						_ = spinner.Add(1)
					}
				}
			}()

			extraction, err := extractor.ExtractTransactions(ctx, image, mimeType)
			close(done)
			_ = spinner.Finish()
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return err
			}

			if extraction.BankDetected != "" {
				fmt.Printf("Bank: %s (%s)\n\n", cli.BoldStyle.Render(extraction.BankDetected), extraction.SourceType)
			}
			if len(extraction.Transactions) == 0 {
				fmt.Println(cli.WarningStyle.Render("No transactions detected in image."))
				return nil
			}

			results, err := eng.SuggestAll(ctx, tenantID, extraction.Transactions)
			if err != nil {
				return fmt.Errorf("failed to match transactions: %w", err)
			}

			printSuggestions(extraction.Transactions, results)

			if !saveFlag {
				fmt.Println(cli.SubtleStyle.Render("Run again with --save to persist these transactions."))
				return nil
			}

			transactions := buildTransactions(tenantID, extraction.Transactions, results, true)
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

	cmd.Flags().BoolVar(&save, "save", false, "persist extracted transactions with their suggested categories")
	return cmd
}
