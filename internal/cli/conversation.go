package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	pinCmd := &cobra.Command{
		Use:   "pin <conversation>",
		Short: "Pin a conversation",
		Args:  cobra.ExactArgs(1),
		Run:   func(cmd *cobra.Command, args []string) { setConvFlag(cmd, args[0], "pin", true) },
	}
	unpinCmd := &cobra.Command{
		Use:   "unpin <conversation>",
		Short: "Unpin a conversation",
		Args:  cobra.ExactArgs(1),
		Run:   func(cmd *cobra.Command, args []string) { setConvFlag(cmd, args[0], "pin", false) },
	}
	archiveCmd := &cobra.Command{
		Use:   "archive <conversation>",
		Short: "Archive a conversation",
		Args:  cobra.ExactArgs(1),
		Run:   func(cmd *cobra.Command, args []string) { setConvFlag(cmd, args[0], "archive", true) },
	}
	unarchiveCmd := &cobra.Command{
		Use:   "unarchive <conversation>",
		Short: "Unarchive a conversation",
		Args:  cobra.ExactArgs(1),
		Run:   func(cmd *cobra.Command, args []string) { setConvFlag(cmd, args[0], "archive", false) },
	}

	RootCmd.AddCommand(pinCmd, unpinCmd, archiveCmd, unarchiveCmd)
}

func setConvFlag(cmd *cobra.Command, arg, flag string, value bool) {
	s, _, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	ctx := cmd.Context()
	conv, err := resolveConversation(ctx, s, arg)
	if err != nil {
		exitErr("resolve conversation", err)
	}

	switch flag {
	case "pin":
		err = s.SetPinned(ctx, conv.ID, value)
	case "archive":
		err = s.SetArchived(ctx, conv.ID, value)
	}
	if err != nil {
		exitErr("update conversation", err)
	}
	fmt.Printf("updated %s\n", conv.DisplayName())
}
