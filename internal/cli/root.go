// Package cli implements the comsierge CLI commands.
package cli

import (
	"context"
	"fmt"
	log "log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/comsierge/comsierge/internal/analyze"
	"github.com/comsierge/comsierge/internal/credential"
	"github.com/comsierge/comsierge/internal/ingest"
	"github.com/comsierge/comsierge/internal/model"
	"github.com/comsierge/comsierge/internal/store"
)

var (
	configPath string
	dbPath     string
	formatFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "comsierge",
	Short: "Message concierge for your inbox",
	Long:  "Ingests messages from configured sources, classifies their urgency, and tracks what actually needs your attention. SQLite-backed, single binary.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: ~/.config/comsierge/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: from config)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: json or text")
}

func loadConfig() (*model.AppConfig, error) {
	path := configPath
	if path == "" {
		path = model.DefaultConfigPath()
	}
	return model.LoadConfig(path)
}

func openStore() (*store.SQLiteStore, *model.AppConfig, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	path := dbPath
	if path == "" {
		path = cfg.DBPath
	}
	s, err := store.NewSQLiteStore(path)
	if err != nil {
		return nil, nil, err
	}
	return s, cfg, nil
}

// newPipeline builds the ingest pipeline, attaching the analyzer when the
// config enables it and an API key is stored.
func newPipeline(s *store.SQLiteStore, cfg *model.AppConfig) *ingest.Pipeline {
	pipe := ingest.New(s)
	if cfg.AI.Enabled {
		apiKey, err := credential.Get(credential.APIKeyName)
		if err != nil {
			log.Warn("analyzer disabled", "error", err)
			return pipe
		}
		pipe = pipe.WithAnalyzer(analyze.New(apiKey, cfg.AI.Model, cfg.AI.MaxTokens))
	}
	return pipe
}

// resolveConversation accepts a conversation ID or a raw sender address.
func resolveConversation(ctx context.Context, s *store.SQLiteStore, arg string) (*model.Conversation, error) {
	conv, err := s.GetConversationByID(ctx, arg)
	if err == nil {
		return conv, nil
	}
	if !store.IsNotFound(err) {
		return nil, err
	}

	conv, err = s.GetConversationByPhone(ctx, ingest.NormalizeAddress(arg))
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, fmt.Errorf("no conversation matches %q", arg)
	}
	return conv, nil
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
