package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"
)

func init() {
	dueCmd.Flags().StringVar(&dueUser, "user", "", "count due cards across this user's decks")
	rootCmd.AddCommand(dueCmd)
}

var dueUser string

var dueCmd = &cobra.Command{
	Use:   "due [deck-id]",
	Short: "List the cards a session would start with",
	Long: `List the due cards of a deck, or with --user count the due cards
across every deck the user owns.`,
	Args: cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		now := time.Now()
		if dueUser != "" {
			n, err := a.store.CountDueCards(cmd.Context(), dueUser, now)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s due\n", english.Plural(n, "card", "cards"))
			return nil
		}
		if len(args) == 0 {
			return errors.New("a deck id or --user is required")
		}

		cards, err := a.store.LoadDueCards(cmd.Context(), args[0], now, a.cfg.Study.SessionSize)
		if err != nil {
			return err
		}
		if len(cards) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "nothing due")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tFRONT\tINTERVAL\tDUE")
		for _, c := range cards {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, truncate(c.Front, 40),
				english.Plural(c.Interval, "day", "days"), humanize.RelTime(c.NextReview, now, "ago", "from now"))
		}
		return w.Flush()
	},
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
