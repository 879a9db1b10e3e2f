package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satheeshds/condo/auth"
	"github.com/satheeshds/condo/models"
)

var createAdminCmd = &cobra.Command{
	Use:     "create-admin",
	Short:   "Create the first administrator account",
	Example: `  condo create-admin --email admin@example.com --password 'change-me' --first-name Root --last-name Admin`,
	RunE:    runCreateAdmin,
}

func init() {
	rootCmd.AddCommand(createAdminCmd)
	createAdminCmd.Flags().String("email", "", "Login email")
	createAdminCmd.Flags().String("password", "", "Initial password")
	createAdminCmd.Flags().String("first-name", "Admin", "First name")
	createAdminCmd.Flags().String("last-name", "Admin", "Last name")
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	first, _ := cmd.Flags().GetString("first-name")
	last, _ := cmd.Flags().GetString("last-name")
	if email == "" || password == "" {
		return errors.New("--email and --password are required")
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	acct, err := auth.NewAccounts(a.store, nil, nil).Bootstrap(cmd.Context(), models.RegisterInput{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Password:  password,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "admin %s created (id %d)\n", acct.Email, acct.ID)
	return nil
}
