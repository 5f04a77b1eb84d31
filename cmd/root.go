// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/gitclawd/internal/config"
	"github.com/naka-gawa/gitclawd/internal/gateway"
	"github.com/naka-gawa/gitclawd/internal/narrative"
	"github.com/naka-gawa/gitclawd/internal/usecase"
)

// Version is set by main.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "gitclawd",
	Short: "An AI-assisted GitHub repository analyzer.",
	Long: `gitclawd analyzes a public GitHub repository: it gathers metadata and
activity history, derives health metrics and an authenticity score, and asks
Claude for a short verdict. Run it as a Discord bot, an HTTP API or a one-shot CLI.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = Version
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file (optional)")
	rootCmd.PersistentFlags().String("env-file", "", "Path to a .env file (default: ./.env when present)")
}

// newLogger discards logs unless verbose output is requested or always is set.
func newLogger(cmd *cobra.Command, always bool) *log.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
	if verbose || always {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

// loadConfig reads the .env file and the optional YAML config named by the flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadEnv(envFile); err != nil {
		return nil, err
	}
	configPath, _ := cmd.Flags().GetString("config")
	return config.Load(configPath)
}

// newAnalyzer wires the GitHub gateway, the narrative client and the pipeline.
func newAnalyzer(cfg *config.Config, logger *log.Logger) (*usecase.Analyzer, error) {
	githubGateway, err := gateway.NewGitHubGateway(cfg.GitHub.Token, logger,
		gateway.WithBaseURL(cfg.GitHub.APIURL),
		gateway.WithGraphQLURL(cfg.GitHub.GraphQLURL),
		gateway.WithRequestTimeout(cfg.GitHub.RequestTimeout),
		gateway.WithSleepLimit(cfg.GitHub.SleepLimit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}

	var opts []usecase.CollectorOption
	if githubGateway.HasTotals() {
		opts = append(opts, usecase.WithTotals(githubGateway))
	}
	collector := usecase.NewCollector(githubGateway, logger, opts...)

	narrativeOpts := []narrative.Option{
		narrative.WithTimeout(cfg.Anthropic.Timeout),
		narrative.WithRetries(cfg.Anthropic.Attempts),
		narrative.WithMaxTokens(cfg.Anthropic.MaxTokens),
	}
	if cfg.Anthropic.BaseURL != "" {
		narrativeOpts = append(narrativeOpts, narrative.WithBaseURL(cfg.Anthropic.BaseURL))
	}
	narrator := narrative.New(cfg.Anthropic.APIKey, cfg.Anthropic.Model, narrativeOpts...)

	return usecase.NewAnalyzer(collector, narrator, logger), nil
}
