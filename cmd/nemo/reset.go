package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	resetCmd.AddCommand(resetUserCmd, resetDeckCmd)
	rootCmd.AddCommand(resetCmd)
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset review progress",
}

var resetUserCmd = &cobra.Command{
	Use:   "user <user-id>",
	Short: "Delete a user's review history and reset all their cards",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.store.ResetUserProgress(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "reset progress of user %s\n", args[0])
		return nil
	},
}

var resetDeckCmd = &cobra.Command{
	Use:   "deck <deck-id>",
	Short: "Put every card of a deck back to new",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		n, err := a.store.ResetDeck(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "reset %d cards\n", n)
		return nil
	},
}
