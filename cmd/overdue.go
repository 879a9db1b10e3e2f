package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

var overdueCmd = &cobra.Command{
	Use:   "overdue",
	Short: "Mark pending invoices past their due date as overdue",
	RunE:  runOverdue,
}

func init() {
	rootCmd.AddCommand(overdueCmd)
	overdueCmd.Flags().String("as-of", "", "Reference date (format: YYYY-MM-DD, default: now)")
}

func runOverdue(cmd *cobra.Command, args []string) error {
	asOf := time.Now()
	if v, _ := cmd.Flags().GetString("as-of"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return fmt.Errorf("invalid as-of date format. Use YYYY-MM-DD: %w", err)
		}
		asOf = t
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.store.MarkOverdue(cmd.Context(), asOf)
	if err != nil {
		return err
	}
	slog.Info("overdue sweep finished", "as_of", asOf.Format("2006-01-02"), "updated", n)
	fmt.Fprintf(cmd.OutOrStdout(), "%d invoice(s) marked overdue\n", n)
	return nil
}
