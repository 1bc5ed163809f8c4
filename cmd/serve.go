package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/stemlab/exploratorium/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		rt, err := setup(cmd, surfaceServer)
		if err != nil {
			return err
		}
		defer rt.Close()

		if os.Getenv("EXPLORATORIUM_ENV") == "production" {
			gin.SetMode(gin.ReleaseMode)
		}

		router, err := web.NewRouter(rt.generator, rt.log, web.Options{
			Version:       version,
			PrimaryModel:  modelFor(rt.llmConfig, rt.llmConfig.Primary),
			FallbackModel: modelFor(rt.llmConfig, rt.llmConfig.Fallback),
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return web.Serve(ctx, addr, router, rt.log)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8501", "Address to listen on")
}
