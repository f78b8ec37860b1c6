package cli

import (
	"fmt"
	log "log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/comsierge/comsierge/internal/credential"
	"github.com/comsierge/comsierge/internal/ingest"
	"github.com/comsierge/comsierge/internal/model"
	"github.com/comsierge/comsierge/internal/source"
	"github.com/comsierge/comsierge/internal/source/email"
)

func init() {
	cmd := &cobra.Command{
		Use:   "poll",
		Short: "Fetch new messages from configured sources",
		Run:   runPoll,
	}

	cmd.Flags().BoolP("watch", "w", false, "Keep polling on each source's interval until interrupted")

	RootCmd.AddCommand(cmd)
}

func runPoll(cmd *cobra.Command, args []string) {
	watch, _ := cmd.Flags().GetBool("watch")

	s, cfg, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stored, err := s.GetSources(cmd.Context())
	if err != nil {
		exitErr("load sources", err)
	}

	poller := ingest.NewPoller(newPipeline(s, cfg))
	registered := 0
	for _, sc := range append(cfg.Sources, stored...) {
		if !sc.Enabled {
			continue
		}
		src, err := buildSource(sc)
		if err != nil {
			log.Warn("skipping source", "id", sc.ID, "error", err)
			continue
		}
		poller.RegisterSource(src, sc)
		registered++
	}
	if registered == 0 {
		fmt.Println("no enabled sources configured")
		return
	}

	poller.Start()
	defer poller.Stop()

	if watch {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		for {
			select {
			case r := <-poller.Results():
				printResult(r)
			case <-sigCh:
				return
			}
		}
	}

	// One result per registered source, then stop.
	for i := 0; i < registered; i++ {
		printResult(<-poller.Results())
	}
}

// buildSource constructs the adapter for a source config, pulling its
// password from the system keyring.
func buildSource(sc model.SourceConfig) (source.Source, error) {
	switch source.Type(sc.Type) {
	case source.TypeEmail:
		password, err := credential.Get(credential.SourceKey(sc.ID))
		if err != nil {
			return nil, fmt.Errorf("loading credential for %s: %w", sc.ID, err)
		}
		return email.NewAdapter(sc, password), nil
	default:
		return nil, fmt.Errorf("unknown source type %q", sc.Type)
	}
}

func printResult(r ingest.Result) {
	switch {
	case r.AuthError:
		fmt.Printf("%s: authentication failed: %v\n", r.Source, r.Error)
	case r.Error != nil:
		fmt.Printf("%s: %v\n", r.Source, r.Error)
	default:
		fmt.Printf("%s: %d new messages\n", r.Source, r.Ingested)
	}
}
