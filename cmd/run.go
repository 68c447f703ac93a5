package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dotcommander/geolint/internal/analysis"
	"github.com/dotcommander/geolint/internal/baseline"
	"github.com/dotcommander/geolint/internal/config"
	"github.com/dotcommander/geolint/internal/discovery"
	"github.com/dotcommander/geolint/internal/frontend"
	"github.com/dotcommander/geolint/internal/git"
	"github.com/dotcommander/geolint/internal/llm"
	"github.com/dotcommander/geolint/internal/output"
	"github.com/dotcommander/geolint/internal/outputters"
	"github.com/dotcommander/geolint/internal/schema"
	"github.com/dotcommander/geolint/internal/types"
)

// session holds what every analysis command needs.
type session struct {
	cfg       *config.Config
	logger    *zap.Logger
	service   *analysis.Service
	startTime time.Time
}

// newSession loads configuration and builds the analysis service.
func newSession(ctx context.Context) (*session, error) {
	start := time.Now()

	bindFlags()
	root, err := projectRoot()
	if err != nil {
		return nil, fmt.Errorf("error finding project root: %w", err)
	}
	cfg, err := config.LoadConfig(root)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating logger: %w", err)
	}

	analyzer, err := newTextAnalyzer(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}

	validator, err := schema.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("error loading schema tables: %w", err)
	}

	svc := analysis.New(analyzer, validator,
		analysis.WithLogger(logger),
		analysis.WithBenchmark(cfg.Benchmark))

	logger.Debug("session ready",
		zap.String("root", cfg.Root),
		zap.String("config_file", cfg.ConfigFile),
		zap.String("llm_provider", cfg.LLM.ResolvedProvider()))

	return &session{cfg: cfg, logger: logger, service: svc, startTime: start}, nil
}

// newLogger builds a production JSON logger on stderr. Quiet runs log
// nothing; verbose runs log at debug level.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Quiet {
		return zap.NewNop(), nil
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if cfg.Verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zc.Build()
}

// newTextAnalyzer returns the text-analysis collaborator for the configured
// provider.
func newTextAnalyzer(ctx context.Context, cfg config.LLMConfig) (analysis.TextAnalyzer, error) {
	switch cfg.ResolvedProvider() {
	case config.ProviderGemini:
		c, err := llm.NewGeminiCompleter(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return llm.NewAnalyzer(llm.WithTimeout(c, cfg.Timeout)), nil
	default:
		return llm.NopAnalyzer{}, nil
	}
}

func (s *session) close() {
	_ = s.logger.Sync()
}

// documents is the loaded input, split by kind.
type documents struct {
	pages   []*types.ContentUnit
	schemas []*frontend.Document
	// failed holds a report for each file that could not be loaded.
	failed []analysis.PageReport
}

// load resolves args against the root and parses every file. With --staged
// or --diff the changed files replace args.
func (s *session) load(args []string) (*documents, error) {
	docs := &documents{}
	fd := discovery.NewFileDiscovery(s.cfg.Root, s.cfg.Include, s.cfg.Exclude)

	var files []discovery.File
	var err error
	if stagedOnly || diffOnly {
		var changed []string
		changed, err = s.changedFiles()
		if err != nil {
			return nil, err
		}
		files, err = fd.Select(changed)
	} else {
		files, err = fd.Resolve(args)
	}
	if err != nil {
		return nil, fmt.Errorf("error discovering files: %w", err)
	}

	for _, f := range files {
		doc, err := frontend.Load(f)
		if err != nil {
			s.logger.Info("cannot load file", zap.String("path", f.RelPath), zap.Error(err))
			docs.failed = append(docs.failed, analysis.PageReport{Source: f.RelPath, Error: err.Error()})
			continue
		}
		if doc.Unit != nil {
			docs.pages = append(docs.pages, doc.Unit)
		} else {
			docs.schemas = append(docs.schemas, doc)
		}
	}
	s.logger.Debug("loaded input",
		zap.Int("files", len(files)),
		zap.Int("pages", len(docs.pages)),
		zap.Int("schema_files", len(docs.schemas)))
	return docs, nil
}

func (s *session) changedFiles() ([]string, error) {
	if !git.IsGitRepo(s.cfg.Root) {
		return nil, fmt.Errorf("--staged and --diff need a git repository: %s", s.cfg.Root)
	}
	if stagedOnly {
		return git.GetStagedFiles(s.cfg.Root)
	}
	return git.GetChangedFiles(s.cfg.Root)
}

// analyzePages runs the batch over the loaded pages.
func (s *session) analyzePages(ctx context.Context, docs *documents, opts analysis.BatchOptions) ([]analysis.PageReport, error) {
	opts.Concurrency = s.cfg.Concurrency
	pages, err := s.service.AnalyzePages(ctx, docs.pages, opts)
	if err != nil {
		return nil, err
	}
	return append(pages, docs.failed...), nil
}

// finish applies the baseline, prints the report and checks the fail-on
// level. A non-empty format is used in place of the console format.
func (s *session) finish(command string, pages []analysis.PageReport, format string) error {
	baselineFile := baselinePath
	if !filepath.IsAbs(baselineFile) {
		baselineFile = filepath.Join(s.cfg.Root, baselineFile)
	}

	var b *baseline.Baseline
	if useBaseline && !createBaseline {
		if _, err := os.Stat(baselineFile); err == nil {
			b, err = baseline.LoadBaseline(baselineFile)
			if err != nil && !s.cfg.Quiet {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load baseline: %v\n", err)
				b = nil
			}
		}
	}

	ignored := 0
	if b != nil {
		pages, ignored = b.Filter(pages)
	}

	if format == "" || s.cfg.Format != "console" {
		format = s.cfg.Format
	}
	report := &output.Report{Command: command, Root: s.cfg.Root, StartTime: s.startTime, Pages: pages}
	if err := outputters.NewOutputter(s.cfg).Format(report, format); err != nil {
		return fmt.Errorf("error formatting output: %w", err)
	}

	// Create the baseline before checking the level: creating it accepts
	// the current state.
	if createBaseline {
		b = baseline.CreateBaseline(baseline.Findings(pages))
		if err := b.SaveBaseline(baselineFile); err != nil {
			return fmt.Errorf("failed to save baseline: %w", err)
		}
		if !s.cfg.Quiet {
			fmt.Printf("\nBaseline created: %s (%d findings)\n", baselineFile, len(b.Fingerprints))
		}
		return nil
	}

	if ignored > 0 && !s.cfg.Quiet {
		fmt.Printf("\n%d baseline findings ignored\n", ignored)
	}

	if output.Summarize(pages).Fails(s.cfg.FailOn) {
		return errChecksFailed
	}
	return nil
}
