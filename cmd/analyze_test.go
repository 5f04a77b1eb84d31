package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/gitclawd/internal/domain"
	apperrors "github.com/naka-gawa/gitclawd/pkg/errors"
)

func runRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		analyzeCmd.Flags().Set("output", "text")
		analyzeCmd.SilenceErrors = false
	})
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestAnalyzeCmd_InvalidOutput(t *testing.T) {
	_, _, err := runRoot(t, "analyze", "https://github.com/octocat/Hello-World", "--output", "yaml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid --output "yaml"`)
}

func TestAnalyzeCmd_InvalidURL(t *testing.T) {
	stdout, stderr, err := runRoot(t, "analyze", "https://example.com/octocat/Hello-World")

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.RefInvalidURL))
	assert.Contains(t, stderr, domain.InvalidURLMessage)
	assert.Empty(t, stdout)
}

func TestAnalyzeCmd_RequiresURL(t *testing.T) {
	_, _, err := runRoot(t, "analyze")

	assert.Error(t, err)
}
