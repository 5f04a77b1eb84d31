package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/gitclawd/internal/report"
	"github.com/naka-gawa/gitclawd/internal/usecase"
	apperrors "github.com/naka-gawa/gitclawd/pkg/errors"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <github-url>",
	Short: "Analyzes one GitHub repository and prints the report",
	Long: `Analyzes a public GitHub repository once and prints the report to standard output,
either as colored text or as JSON including per-collection coverage.`,
	Example: "  gitclawd analyze https://github.com/octocat/Hello-World --output json",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := newLogger(cmd, false)
		output, _ := cmd.Flags().GetString("output")
		if output != report.FormatText && output != report.FormatJSON {
			return fmt.Errorf("invalid --output %q: use %s or %s", output, report.FormatText, report.FormatJSON)
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		analyzer, err := newAnalyzer(cfg, logger)
		if err != nil {
			return err
		}

		result, err := analyzer.Analyze(ctx, args[0], func(p usecase.Progress) {
			logger.Printf("CLI: %s done (%d/%d)", p.Label, p.Completed, p.Total)
		})
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), apperrors.UserMessage(err))
			cmd.SilenceErrors = true
			return err
		}

		return report.Write(cmd.OutOrStdout(), output, result)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringP("output", "o", report.FormatText, "Output format: text or json")
}
