package main

import (
	"fmt"

	"github.com/juanfelareal/tranki/internal/cli"
	"github.com/juanfelareal/tranki/internal/model"

	"github.com/spf13/cobra"
)

func matchCmd() *cobra.Command {
	var direction string

	cmd := &cobra.Command{
		Use:   "match <text>",
		Short: "Suggest a category for a description",
		Long: `Run the categorization engine against one description and show
what it would suggest, and why.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			eng := initEngine(store)
			result, err := eng.Suggest(ctx, currentTenant(), args[0], model.CategoryDirection(direction))
			if err != nil {
				return fmt.Errorf("failed to match: %w", err)
			}

			switch result.Provenance {
			case model.ProvenanceLearned:
				fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("→ %s", result.CategoryName)),
					cli.SubtleStyle.Render(fmt.Sprintf("(learned rule %q, category id %d)", result.MatchedKeyword, *result.CategoryID)))
			case model.ProvenanceDefault:
				fmt.Println(cli.InfoStyle.Render(fmt.Sprintf("→ %s", result.CategoryName)),
					cli.SubtleStyle.Render("(default lexicon)"))
			default:
				fmt.Println(cli.WarningStyle.Render(fmt.Sprintf("→ %s", result.CategoryName)),
					cli.SubtleStyle.Render("(no match)"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&direction, "type", "expense", "direction (income, expense)")
	return cmd
}
