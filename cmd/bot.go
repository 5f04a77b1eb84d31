package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/gitclawd/internal/bot"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Runs the Discord bot serving /analyze",
	Long: `Connects to Discord with DISCORD_BOT_TOKEN, registers the /analyze slash command
(in DISCORD_GUILD_ID when set, globally otherwise) and answers it until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := newLogger(cmd, true)
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.ValidateBot(); err != nil {
			return err
		}
		if cfg.GitHub.Token == "" {
			logger.Println("Warning: GITHUB_TOKEN is not set; anonymous requests are heavily rate limited.")
		}

		analyzer, err := newAnalyzer(cfg, logger)
		if err != nil {
			return err
		}
		b, err := bot.New(cfg.Discord.Token, cfg.Discord.GuildID, analyzer, logger)
		if err != nil {
			return err
		}
		return b.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(botCmd)
}
