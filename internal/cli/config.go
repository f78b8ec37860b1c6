package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/comsierge/comsierge/internal/model"
)

func init() {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Run:   runConfigInit,
	}
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Run:   runConfigShow,
	}

	configCmd.AddCommand(initCmd, showCmd)
	RootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	force, _ := cmd.Flags().GetBool("force")

	path := configPath
	if path == "" {
		path = model.DefaultConfigPath()
	}
	if _, err := os.Stat(path); err == nil && !force {
		exitErr("config init", fmt.Errorf("%s already exists (use --force to overwrite)", path))
	}

	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	if err := model.SaveConfig(path, cfg); err != nil {
		exitErr("write config", err)
	}
	fmt.Printf("wrote %s\n", path)
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	fmt.Printf("db_path: %s\n", cfg.DBPath)
	fmt.Printf("display: page_size=%d show_archived=%t\n", cfg.Display.PageSize, cfg.Display.ShowArchived)
	fmt.Printf("ai: enabled=%t model=%s\n", cfg.AI.Enabled, cfg.AI.Model)
	for _, sc := range cfg.Sources {
		fmt.Printf("source: %s (%s) enabled=%t every %ds\n", sc.ID, sc.Type, sc.Enabled, sc.PollIntervalSec)
	}
}
