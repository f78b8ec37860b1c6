package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comsierge/comsierge/internal/ingest"
	"github.com/comsierge/comsierge/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "List conversations, most recent first",
		Run:   runInbox,
	}

	cmd.Flags().BoolP("all", "a", false, "Include archived conversations")
	cmd.Flags().Bool("priority", false, "Only conversations with an active priority")
	cmd.Flags().StringP("query", "q", "", "Search contact name, number, or last message")
	cmd.Flags().IntP("limit", "l", 0, "Max results (default: display.page_size)")

	RootCmd.AddCommand(cmd)
}

func runInbox(cmd *cobra.Command, args []string) {
	all, _ := cmd.Flags().GetBool("all")
	priorityOnly, _ := cmd.Flags().GetBool("priority")
	query, _ := cmd.Flags().GetString("query")
	limit, _ := cmd.Flags().GetInt("limit")

	s, cfg, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if limit == 0 {
		limit = cfg.Display.PageSize
	}

	filter := store.ConversationFilter{
		SortBy:   "last_message_at",
		SortDesc: true,
		Limit:    limit,
	}
	if !all && !cfg.Display.ShowArchived {
		archived := false
		filter.Archived = &archived
	}
	if query != "" {
		filter.Query = &query
	}

	pipe := ingest.New(s)
	entries, err := pipe.Inbox(cmd.Context(), filter)
	if err != nil {
		exitErr("inbox", err)
	}

	if priorityOnly {
		filtered := entries[:0]
		for _, e := range entries {
			if e.PriorityActive {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	if formatFlag == "json" {
		b, _ := json.MarshalIndent(entries, "", "  ")
		fmt.Println(string(b))
		return
	}

	for _, e := range entries {
		marker := " "
		if e.PriorityActive {
			marker = "!"
		}
		pin := " "
		if e.Pinned {
			pin = "*"
		}
		unread := ""
		if e.UnreadCount > 0 {
			unread = fmt.Sprintf(" (%d)", e.UnreadCount)
		}
		fmt.Printf("%s%s %-20s%s  %s\n", marker, pin, e.DisplayName(), unread, e.LastMessage)
	}
}
