package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comsierge/comsierge/internal/ingest"
	"github.com/comsierge/comsierge/internal/model"
	"github.com/comsierge/comsierge/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "read <conversation>",
		Short: "Show a conversation and mark it read",
		Args:  cobra.ExactArgs(1),
		Run:   runRead,
	}

	cmd.Flags().Bool("keep-unread", false, "Show messages without marking them read")

	RootCmd.AddCommand(cmd)
}

func runRead(cmd *cobra.Command, args []string) {
	keepUnread, _ := cmd.Flags().GetBool("keep-unread")

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

	msgs, err := s.GetMessages(ctx, store.MessageFilter{ConversationID: &conv.ID})
	if err != nil {
		exitErr("load messages", err)
	}

	fmt.Printf("%s (%s)\n", conv.DisplayName(), conv.ContactPhone)
	for _, m := range msgs {
		who := conv.DisplayName()
		if m.Direction == model.DirectionOutgoing {
			who = "me"
		}
		fmt.Printf("[%s] %s: %s\n", m.CreatedAt.Local().Format("Jan 2 15:04"), who, m.Body)
	}

	if keepUnread {
		return
	}
	if err := ingest.New(s).MarkRead(ctx, conv.ID); err != nil {
		exitErr("mark read", err)
	}
}
