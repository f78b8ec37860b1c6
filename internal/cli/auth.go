package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comsierge/comsierge/internal/credential"
)

func init() {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the Claude API key for message analysis",
	}

	setCmd := &cobra.Command{
		Use:   "set <api-key>",
		Short: "Store the API key in the system keyring",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := credential.Set(credential.APIKeyName, args[0]); err != nil {
				exitErr("store api key", err)
			}
			fmt.Println("api key stored")
		},
	}

	rmCmd := &cobra.Command{
		Use:   "rm",
		Short: "Remove the stored API key",
		Run: func(cmd *cobra.Command, args []string) {
			if err := credential.Delete(credential.APIKeyName); err != nil {
				exitErr("remove api key", err)
			}
			fmt.Println("api key removed")
		},
	}

	authCmd.AddCommand(setCmd, rmCmd)
	RootCmd.AddCommand(authCmd)
}
