package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/unclebandit/outreach-console/internal/api"
	"github.com/unclebandit/outreach-console/internal/apperr"
	"github.com/unclebandit/outreach-console/internal/config"
	"github.com/unclebandit/outreach-console/internal/orchestrator"
	"github.com/unclebandit/outreach-console/internal/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var apiURL string

	cmd := &cobra.Command{
		Use:           "outreach-console",
		Short:         "Terminal dashboard for reviewing and scheduling outreach drafts",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if apiURL != "" {
				cfg.APIBaseURL = apiURL
			}

			logger, err := cfg.Logger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			client := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, logger)
			orch := orchestrator.New(client, logger)
			model := ui.New(orch)

			p := tea.NewProgram(model, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return err
			}
			if err := model.FatalErr(); err != nil {
				if errors.Is(err, apperr.ErrNotAuthenticated) {
					return fmt.Errorf("not signed in: authenticate against %s and retry", cfg.APIBaseURL)
				}
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&apiURL, "api-url", "", "review collaborator base URL (overrides OUTREACH_API_URL)")
	return cmd
}
