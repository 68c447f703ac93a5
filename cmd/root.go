package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dotcommander/geolint/internal/output"
	"github.com/dotcommander/geolint/internal/project"
)

var (
	rootPath       string
	quiet          bool
	verbose        bool
	outputFormat   string
	outputFile     string
	failOn         string
	concurrency    int
	useBaseline    bool
	createBaseline bool
	baselinePath   string
	stagedOnly     bool
	diffOnly       bool
)

// Version is set at build time.
var Version = "dev"

// exitFunc is os.Exit, replaced in tests.
var exitFunc = os.Exit

// errChecksFailed reports that analysis finished but the results are below
// the configured threshold. The findings were already printed.
var errChecksFailed = errors.New("checks failed")

var rootCmd = &cobra.Command{
	Use:   "geolint",
	Short: "GEO Lint - Content analysis for generative-engine optimization",
	Long: `geolint scores web pages for citation by AI answer engines and validates
their Schema.org JSON-LD.

Pages are markdown files with YAML frontmatter or HTML files; schema files are
JSON-LD documents (.jsonld, .json, .yaml). Arguments may be files, directories
or globs relative to --root. With no arguments the whole root is analysed.

COMMANDS:
  score         Composite GEO score, grade, percentile and recommendations
  readability   Readability profile for AI extraction
  validate      Schema.org JSON-LD validation
  entities      Entity coverage and sameAs linking
  generate      Generate JSON-LD for pages
  summary       One line per page with score and schema status

GIT INTEGRATION:
  --staged analyses only staged content files (for pre-commit hooks) and
  --diff every content file with uncommitted changes.

EXAMPLES:
  geolint score docs/
  geolint validate --staged
  geolint validate 'schemas/**/*.jsonld' --fail-on warning
  geolint summary --format json --output geo-report.json`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitFunc(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootPath, "root", "r", "", "Project root directory (default: nearest directory with .geolintrc, .git, package.json or go.mod)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "console", "Output format for reports (console|compact|json|markdown)")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "Output file for json and markdown reports")
	rootCmd.PersistentFlags().StringVar(&failOn, "fail-on", "error", "Fail on specified level (error|warning|none)")
	rootCmd.PersistentFlags().IntVarP(&concurrency, "concurrency", "j", 4, "Pages analysed in parallel")
	rootCmd.PersistentFlags().BoolVar(&useBaseline, "baseline", false, "Ignore findings recorded in the baseline file")
	rootCmd.PersistentFlags().BoolVar(&createBaseline, "create-baseline", false, "Record current findings in the baseline file")
	rootCmd.PersistentFlags().StringVar(&baselinePath, "baseline-path", ".geolintbaseline.json", "Baseline file, relative to the root")
	rootCmd.PersistentFlags().BoolVar(&stagedOnly, "staged", false, "Only analyse content files staged in git")
	rootCmd.PersistentFlags().BoolVar(&diffOnly, "diff", false, "Only analyse content files with uncommitted changes")

	output.Version = Version
}

// bindFlags binds the persistent flags to their config keys. Flags only
// override config values when set on the command line.
func bindFlags() {
	flags := rootCmd.PersistentFlags()
	_ = viper.BindPFlag("quiet", flags.Lookup("quiet"))
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("format", flags.Lookup("format"))
	_ = viper.BindPFlag("output", flags.Lookup("output"))
	_ = viper.BindPFlag("failOn", flags.Lookup("fail-on"))
	_ = viper.BindPFlag("concurrency", flags.Lookup("concurrency"))
}

// projectRoot returns the --root flag, or the nearest enclosing project
// root when it is unset. A config file in the working directory keeps its
// own root setting.
func projectRoot() (string, error) {
	if rootPath != "" {
		return rootPath, nil
	}
	if info, err := project.Detect("."); err == nil && info.HasConfig {
		return "", nil
	}
	return project.FindProjectRoot(".")
}

// runAndExit runs fn and exits non-zero when it fails.
func runAndExit(fn func() error) {
	err := fn()
	if err == nil {
		return
	}
	if !errors.Is(err, errChecksFailed) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	exitFunc(1)
}
