package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/dotcommander/geolint/internal/config"
	"github.com/dotcommander/geolint/internal/llm"
)

// resetFlags restores every flag of c and its children to its default.
// Cobra keeps parsed values between Execute calls.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with args and returns the exit code passed
// to exitFunc, or 0 when it was not called.
func execute(t *testing.T, args ...string) int {
	t.Helper()

	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GEOLINT_LLM_APIKEY", "")
	viper.Reset()
	resetFlags(rootCmd)

	code := 0
	originalExitFunc := exitFunc
	exitFunc = func(c int) { code = c }
	defer func() { exitFunc = originalExitFunc }()

	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		return 1
	}
	return code
}

func TestExecute_Help(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	defer rootCmd.SetOut(nil)

	assert.Equal(t, 0, execute(t, "--help"))
	assert.Contains(t, out.String(), "geolint")
	assert.Contains(t, out.String(), "validate")
}

func TestExecute_Version(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	defer rootCmd.SetOut(nil)

	assert.Equal(t, 0, execute(t, "--version"))
	assert.Contains(t, out.String(), Version)
}

func TestExecute_ErrorPath(t *testing.T) {
	originalExitFunc := exitFunc
	exitCode := -1
	exitFunc = func(code int) { exitCode = code }
	defer func() { exitFunc = originalExitFunc }()

	rootCmd.SetArgs([]string{"--invalid-flag-that-does-not-exist"})
	defer rootCmd.SetArgs(nil)
	rootCmd.SetErr(&bytes.Buffer{})
	defer rootCmd.SetErr(nil)

	Execute()

	assert.Equal(t, 1, exitCode, "Exit code should be 1")
}

func TestRootCmdFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	for _, name := range []string{
		"root", "quiet", "verbose", "format", "output", "fail-on",
		"concurrency", "baseline", "create-baseline", "baseline-path",
		"staged", "diff",
	} {
		t.Run(name, func(t *testing.T) {
			assert.NotNil(t, flags.Lookup(name), "flag %s should exist", name)
		})
	}

	assert.NotNil(t, scoreCmd.Flags().Lookup("min-grade"))
	assert.NotNil(t, readabilityCmd.Flags().Lookup("faq"))
	assert.NotNil(t, initCmd.Flags().Lookup("force"))
}

func TestRootCmdSubcommands(t *testing.T) {
	commandNames := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		commandNames[c.Name()] = true
	}

	for _, name := range []string{"score", "readability", "validate", "entities", "generate", "summary", "init"} {
		assert.True(t, commandNames[name], "subcommand %s should be registered", name)
	}
}

func TestValidateHelpListsStructuralRules(t *testing.T) {
	for _, rule := range []string{"FAQ questions", "HowTo steps", "Product offers", "LocalBusiness address", "Article author"} {
		assert.Contains(t, validateCmd.Long, rule)
	}
	assert.NotContains(t, validateCmd.Long, "rating")
}

func TestBindFlags(t *testing.T) {
	viper.Reset()
	resetFlags(rootCmd)
	defer resetFlags(rootCmd)

	require.NoError(t, rootCmd.PersistentFlags().Set("fail-on", "warning"))
	bindFlags()

	assert.Equal(t, "warning", viper.GetString("failOn"))
}

func TestProjectRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0755))
	sub := filepath.Join(root, "content", "posts")
	require.NoError(t, os.MkdirAll(sub, 0755))
	t.Chdir(sub)

	rootPath = ""
	got, err := projectRoot()
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	gotResolved, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	assert.Equal(t, want, gotResolved)

	// A config file in the working directory keeps its own root
	require.NoError(t, os.WriteFile(filepath.Join(sub, ".geolintrc.json"), []byte("{}"), 0644))
	got, err = projectRoot()
	require.NoError(t, err)
	assert.Empty(t, got)

	rootPath = "elsewhere"
	defer func() { rootPath = "" }()
	got, err = projectRoot()
	require.NoError(t, err)
	assert.Equal(t, "elsewhere", got)
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.Config
		wantDebug bool
		wantWarn  bool
	}{
		{"quiet logs nothing", config.Config{Quiet: true}, false, false},
		{"default logs warnings", config.Config{}, false, true},
		{"verbose logs debug", config.Config{Verbose: true}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := newLogger(&tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDebug, logger.Core().Enabled(zapcore.DebugLevel))
			assert.Equal(t, tt.wantWarn, logger.Core().Enabled(zapcore.WarnLevel))
		})
	}
}

func TestNewTextAnalyzer_Offline(t *testing.T) {
	for _, provider := range []string{config.ProviderNone, config.ProviderAuto} {
		t.Run(provider, func(t *testing.T) {
			a, err := newTextAnalyzer(context.Background(), config.LLMConfig{Provider: provider})
			require.NoError(t, err)
			assert.IsType(t, llm.NopAnalyzer{}, a)
		})
	}
}

func TestNewTextAnalyzer_GeminiNeedsKey(t *testing.T) {
	_, err := newTextAnalyzer(context.Background(), config.LLMConfig{Provider: config.ProviderGemini})
	assert.ErrorIs(t, err, llm.ErrNoAPIKey)
}
