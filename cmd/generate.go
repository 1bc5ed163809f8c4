package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/stemlab/exploratorium/internal/explore"
	"github.com/stemlab/exploratorium/internal/observability"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate content for one topic and stream it to stdout",
	Example: `  exploratorium generate --activity diy --topic "solar energy" --count 5
  exploratorium generate -a challenge -t bridges`,
	RunE: func(cmd *cobra.Command, args []string) error {
		activityName, _ := cmd.Flags().GetString("activity")
		topic, _ := cmd.Flags().GetString("topic")
		count, _ := cmd.Flags().GetInt("count")

		activity, err := explore.ParseActivity(activityName)
		if err != nil {
			return err
		}
		req, err := explore.NewRequest(activity, topic, count)
		if errors.Is(err, explore.ErrEmptyTopic) {
			return errors.New(explore.PromptForInput)
		}
		if err != nil {
			return err
		}

		rt, err := setup(cmd, surfaceCLI)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		out := cmd.OutOrStdout()
		res, err := rt.generator.Run(ctx, req, func(p explore.Phase) {
			if p == explore.PhaseFallbackCalled {
				fmt.Fprintln(cmd.ErrOrStderr(), explore.ShortResponseNotice)
			}
		})
		if err != nil {
			if ctx.Err() == nil {
				observability.CaptureError(ctx, err, map[string]string{
					"surface":  "cli",
					"activity": req.Activity.Slug(),
				})
			}
			return fmt.Errorf("generation failed: %w", err)
		}

		for w := range res.Words() {
			fmt.Fprint(out, w)
		}
		fmt.Fprintln(out)
		if ctx.Err() != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "stopped")
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringP("activity", "a", explore.DIYProject.Slug(), "Activity type: diy, field-trip or challenge")
	generateCmd.Flags().StringP("topic", "t", "", "STEM topic or project name")
	generateCmd.Flags().IntP("count", "n", explore.DefaultCount, fmt.Sprintf("Number of DIY project ideas (%d-%d)", explore.MinCount, explore.MaxCount))
}
