package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/comsierge/comsierge/internal/ingest"
)

func init() {
	cmd := &cobra.Command{
		Use:   "reply <conversation> <text>...",
		Short: "Record an outgoing reply in a conversation",
		Args:  cobra.MinimumNArgs(2),
		Run:   runReply,
	}

	RootCmd.AddCommand(cmd)
}

func runReply(cmd *cobra.Command, args []string) {
	s, _, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	ctx := cmd.Context()
	conv, err := resolveConversation(ctx, s, args[0])
	if err != nil {
		exitErr("resolve conversation", err)
	}

	msg, err := ingest.New(s).RecordReply(ctx, conv.ID, strings.Join(args[1:], " "))
	if err != nil {
		exitErr("reply", err)
	}
	fmt.Printf("recorded reply %s to %s\n", msg.ID, conv.DisplayName())
}
