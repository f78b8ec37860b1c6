package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comsierge/comsierge/internal/ingest"
	"github.com/comsierge/comsierge/internal/model"
)

func init() {
	contactCmd := &cobra.Command{
		Use:   "contact",
		Short: "Manage saved contacts",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved contacts",
		Run:   runContactList,
	}

	blockCmd := &cobra.Command{
		Use:   "block <address>",
		Short: "Block a sender; their messages are dropped on ingest",
		Args:  cobra.ExactArgs(1),
		Run:   runContactBlock,
	}

	unblockCmd := &cobra.Command{
		Use:   "unblock <address>",
		Short: "Unblock a sender",
		Args:  cobra.ExactArgs(1),
		Run:   runContactUnblock,
	}

	contactCmd.AddCommand(listCmd, blockCmd, unblockCmd)
	RootCmd.AddCommand(contactCmd)
}

func runContactList(cmd *cobra.Command, args []string) {
	s, _, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	contacts, err := s.GetContacts(cmd.Context())
	if err != nil {
		exitErr("list contacts", err)
	}
	for _, c := range contacts {
		flag := ""
		if c.Blocked {
			flag = " [blocked]"
		}
		fmt.Printf("%-20s %s%s\n", c.Name, c.Phone, flag)
	}
}

func setBlocked(cmd *cobra.Command, addr string, blocked bool) {
	s, _, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	ctx := cmd.Context()
	phone := ingest.NormalizeAddress(addr)
	contact, err := s.GetContactByPhone(ctx, phone)
	if err != nil {
		exitErr("look up contact", err)
	}
	if contact == nil {
		contact = &model.Contact{Phone: phone}
	}
	contact.Blocked = blocked

	if _, err := s.UpsertContact(ctx, *contact); err != nil {
		exitErr("save contact", err)
	}
	verb := "unblocked"
	if blocked {
		verb = "blocked"
	}
	fmt.Printf("%s %s\n", verb, phone)
}

func runContactBlock(cmd *cobra.Command, args []string) {
	setBlocked(cmd, args[0], true)
}

func runContactUnblock(cmd *cobra.Command, args []string) {
	setBlocked(cmd, args[0], false)
}
