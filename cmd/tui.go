package cmd

import (
	"github.com/spf13/cobra"

	"github.com/stemlab/exploratorium/internal/app"
)

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	rt, err := setup(cmd, surfaceTUI)
	if err != nil {
		return err
	}
	defer rt.Close()

	skipWelcome, _ := cmd.Flags().GetBool("skip-welcome")
	opts := app.Options{
		Runner:      rt.generator,
		Status:      rt.modelStatus(),
		SkipWelcome: skipWelcome,
	}
	if rt.history {
		opts.Events = rt.events
	}

	rt.log.Info("starting terminal UI", "models", opts.Status)
	return app.Run(opts)
}
