package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/comsierge/comsierge/internal/priority"
)

func init() {
	cmd := &cobra.Command{
		Use:   "classify <text>...",
		Short: "Classify message text without storing anything",
		Args:  cobra.MinimumNArgs(1),
		Run:   runClassify,
	}

	cmd.Flags().String("priority", "", "Upstream priority hint (high, medium, low)")
	cmd.Flags().String("category", "", "Upstream category hint (e.g. meeting)")

	RootCmd.AddCommand(cmd)
}

func runClassify(cmd *cobra.Command, args []string) {
	prio, _ := cmd.Flags().GetString("priority")
	category, _ := cmd.Flags().GetString("category")

	pc := priority.Classify(
		strings.Join(args, " "),
		priority.Hints{Category: category, AIPriority: prio},
		time.Now(),
	)
	if pc == nil {
		fmt.Println("null")
		return
	}

	b, _ := json.MarshalIndent(pc, "", "  ")
	fmt.Println(string(b))
}
