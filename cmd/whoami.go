package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the account behind the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := authedClient()
		if err != nil {
			return err
		}

		user, err := client.Me(cmd.Context())
		if err != nil {
			return err
		}

		name := strings.TrimSpace(user.FirstName + " " + user.LastName)
		if name == "" {
			name = user.Email
		}
		cmd.Printf("%s <%s>\n", name, user.Email)
		cmd.Printf("Role: %s\n", user.Role)
		if user.Organization != "" {
			cmd.Printf("Organization: %s\n", user.Organization)
		}
		cmd.Printf("Calls handled: %d\n", user.CallsCount)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
