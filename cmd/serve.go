package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/gitclawd/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves repository analysis over HTTP",
	Long: `Starts an HTTP API exposing GET /v1/repositories/{owner}/{repo}/analysis
and GET /healthz. The listen address comes from --addr, GITCLAWD_ADDR or the config file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := newLogger(cmd, true)
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		analyzer, err := newAnalyzer(cfg, logger)
		if err != nil {
			return err
		}
		return server.New(analyzer, logger).ListenAndServe(ctx, cfg.Server.Addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides GITCLAWD_ADDR)")
}
