package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/comsierge/comsierge/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "ingest <from> <text>...",
		Short: "Ingest a single inbound message",
		Args:  cobra.MinimumNArgs(2),
		Run:   runIngest,
	}

	cmd.Flags().String("name", "", "Sender display name")
	cmd.Flags().String("priority", "", "Upstream priority hint (high, medium, low)")
	cmd.Flags().String("category", "", "Upstream category hint (e.g. meeting)")

	RootCmd.AddCommand(cmd)
}

func runIngest(cmd *cobra.Command, args []string) {
	name, _ := cmd.Flags().GetString("name")
	prio, _ := cmd.Flags().GetString("priority")
	category, _ := cmd.Flags().GetString("category")

	s, cfg, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	in := model.InboundMessage{
		Sender:     args[0],
		SenderName: name,
		Body:       strings.Join(args[1:], " "),
	}
	if prio != "" || category != "" {
		in.Analysis = &model.Analysis{Priority: prio, Category: category}
	}

	msg, err := newPipeline(s, cfg).Ingest(cmd.Context(), in)
	if err != nil {
		exitErr("ingest", err)
	}
	if msg == nil {
		fmt.Println("dropped (blocked sender)")
		return
	}
	fmt.Printf("stored message %s in conversation %s\n", msg.ID, msg.ConversationID)
}
