package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotcommander/geolint/internal/config"
	"github.com/dotcommander/geolint/internal/project"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a .geolintrc.json with the current settings",
	Long: `The init command writes the effective configuration (defaults, config file,
environment and flags) to .geolintrc.json in the project root.

Without an existing config file, init recognises Hugo, Jekyll, Astro,
Docusaurus and MkDocs sites: include patterns are limited to the content
directories and the build output directory is excluded.

The API key is never written; set GEMINI_API_KEY instead.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runAndExit(runInit)
	},
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

func runInit() error {
	bindFlags()
	root, err := projectRoot()
	if err != nil {
		return fmt.Errorf("error finding project root: %w", err)
	}
	cfg, err := config.LoadConfig(root)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	path := filepath.Join(cfg.Root, config.ConfigFiles[0])
	if _, err := os.Stat(path); err == nil && !forceInit {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if cfg.ConfigFile == "" {
		if err := scopeToSite(cfg); err != nil {
			return err
		}
	}

	// Root is relative to the config file.
	cfg.Root = "."
	if err := config.SaveConfig(cfg, path); err != nil {
		return err
	}

	if !cfg.Quiet {
		fmt.Printf("Created %s\n", path)
	}
	return nil
}

// scopeToSite narrows the include patterns to the detected generator's
// content directories and excludes its build output.
func scopeToSite(cfg *config.Config) error {
	info, err := project.Detect(cfg.Root)
	if err != nil {
		return fmt.Errorf("error detecting project: %w", err)
	}
	if info.Generator == project.GeneratorUnknown {
		return nil
	}

	var extensions []string
	for _, pattern := range cfg.Include {
		if ext, ok := strings.CutPrefix(pattern, "**/*"); ok {
			extensions = append(extensions, ext)
		}
	}
	if include := info.Include(extensions); include != nil {
		cfg.Include = include
	}
	if info.OutputDir != "" {
		exclude := info.OutputDir + "/**"
		if !slices.Contains(cfg.Exclude, exclude) {
			cfg.Exclude = append(cfg.Exclude, exclude)
		}
	}

	if !cfg.Quiet {
		fmt.Printf("Detected %s site\n", info.Generator)
	}
	return nil
}
