package admincmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"dreamdesign/internal/domain/models"

	"github.com/spf13/cobra"
)

func newAccountsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Inspect accounts and adjust credits",
	}

	cmd.AddCommand(newAccountsListCmd(rt), newAccountsGrantCmd(rt))

	return cmd
}

func newAccountsListCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts with their balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			current, _ := rt.core.Accounts.CurrentAccount()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCREDITS\tSESSION")

			for _, a := range rt.core.Accounts.List() {
				session := ""
				if a.ID == current.ID {
					session = "*"
				}
				fmt.Fprintf(w, "%s\t%s %s\t%d\t%s\n", a.ID, a.FirstName, a.LastName, a.Credits, session)
			}

			return w.Flush()
		},
	}
}

func newAccountsGrantCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:     "grant <email> <credits>",
		Short:   "Add credits to an account",
		Example: `  dreamdesign-admin accounts grant demo@gmail.com 10`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("credits must be a number: %w", err)
			}

			account, err := rt.core.Accounts.CreditCredits(cmd.Context(), models.AccountID(args[0]), amount)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s now has %d credits\n", account.ID, account.Credits)
			return nil
		},
	}
}
