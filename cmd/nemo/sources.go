package main

import (
	"fmt"
	"path/filepath"

	"github.com/Nati35/NEMO/internal/domain"
	"github.com/spf13/cobra"
)

var (
	sourceDeck string
	deckUser   string
)

func init() {
	sourceAddCmd.Flags().StringVar(&sourceDeck, "deck", "", "deck the source feeds (required)")
	_ = sourceAddCmd.MarkFlagRequired("deck")
	sourceCmd.AddCommand(sourceAddCmd)

	deckCreateCmd.Flags().StringVar(&deckUser, "user", "", "owner of the deck (required)")
	_ = deckCreateCmd.MarkFlagRequired("user")
	deckCmd.AddCommand(deckCreateCmd)

	rootCmd.AddCommand(syncCmd, sourceCmd, deckCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile all sources with their decks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		reports, err := a.syncer(nil).RunAll(cmd.Context())
		for _, r := range reports {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d parsed, %d inserted, %d deleted, %d errors\n",
				r.SourceID, r.Parsed, r.Inserted, r.Deleted, len(r.Errors))
			for _, e := range r.Errors {
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", e)
			}
		}
		return err
	},
}

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage deck sources",
}

var sourceAddCmd = &cobra.Command{
	Use:   "add <path|git-url>",
	Short: "Bind a local directory or git repository to a deck",
	Long: `Bind a local directory or git repository to a deck. The next sync
imports its .md and .xlsx files.

Examples:
  nemo source add ./notes --deck 1b4e28ba-2fa1-11d2-883f-0016d3cca427
  nemo source add git@github.com:me/decks.git --deck 1b4e28ba-2fa1-11d2-883f-0016d3cca427`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()
		ctx := cmd.Context()

		path := args[0]
		kind := domain.KindOf(path)
		if kind == domain.SourceLocal {
			if path, err = filepath.Abs(path); err != nil {
				return fmt.Errorf("failed to resolve %s: %w", args[0], err)
			}
		}

		if _, err := a.store.FindDeck(ctx, sourceDeck); err != nil {
			return err
		}
		src, err := a.store.InsertSource(ctx, path, kind, sourceDeck)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %s source %s (%s)\n", src.Kind, src.Path, src.ID)
		return nil
	},
}

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Manage decks",
}

var deckCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an empty deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		d, err := a.store.CreateDeck(cmd.Context(), deckUser, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created deck %s (%s)\n", d.Name, d.ID)
		return nil
	},
}
