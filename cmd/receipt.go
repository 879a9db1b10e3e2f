package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var receiptCmd = &cobra.Command{
	Use:   "receipt <payment-id>",
	Short: "Make sure a payment has its PDF receipt and print the path",
	Example: `  # Generate the receipt of payment 12 if it is missing
  condo receipt 12

  # Render it again even when the file exists
  condo receipt 12 --force`,
	Args: cobra.ExactArgs(1),
	RunE: runReceipt,
}

func init() {
	rootCmd.AddCommand(receiptCmd)
	receiptCmd.Flags().Bool("force", false, "Render the document even if it already exists")
}

func runReceipt(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid payment id %q", args[0])
	}
	force, _ := cmd.Flags().GetBool("force")

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	var path string
	if force {
		path, err = a.receipts.Generate(cmd.Context(), id)
	} else {
		path, err = a.receipts.Ensure(cmd.Context(), id)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
