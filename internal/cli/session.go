package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/rootmodel/internal/assembler"
	"github.com/vvka-141/rootmodel/internal/config"
	"github.com/vvka-141/rootmodel/internal/dates"
	"github.com/vvka-141/rootmodel/internal/document"
	"github.com/vvka-141/rootmodel/internal/files/filesystem"
	"github.com/vvka-141/rootmodel/internal/files/scanner"
	"github.com/vvka-141/rootmodel/internal/logging"
	"github.com/vvka-141/rootmodel/pkg/rootmodel"
)

// session carries what every command resolves before doing work.
type session struct {
	cfg     *config.ProjectConfig
	logger  rootmodel.Logger
	fs      filesystem.FileSystemProvider
	cleanup func()
}

func (s *session) Close() {
	if s.cleanup != nil {
		s.cleanup()
	}
}

// newSession loads .env and rootmodel.yaml, applies environment overrides
// and builds the logger and the file system for inputs.
func newSession(ctx context.Context, cmd *cobra.Command, inputs []string) (*session, error) {
	_ = godotenv.Load()

	cfg, err := loadProjectConfig(cmd)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)

	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat, _ = cmd.Flags().GetString("log-format")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &session{cfg: cfg}
	verbose := getVerboseFlag(cmd)
	if strings.EqualFold(cfg.LogFormat, "json") {
		zl, err := logging.NewZapLogger(verbose)
		if err != nil {
			return nil, fmt.Errorf("create logger: %w", err)
		}
		s.logger = zl
		s.cleanup = func() { _ = zl.Sync() }
	} else {
		s.logger = logging.NewConsoleLoggerTo(cmd.ErrOrStderr(), verbose)
	}

	s.fs, err = fileSystemFor(ctx, cfg, inputs)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// loadProjectConfig reads --config, or rootmodel.yaml in the working
// directory. A missing default file is not an error; a missing explicit
// file is.
func loadProjectConfig(cmd *cobra.Command) (*config.ProjectConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		cfg, err := config.LoadFile(path)
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("%w: config file %s not found", rootmodel.ErrInvalidConfig, path)
		}
		return cfg, err
	}

	cfg, err := config.Load(".")
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// fileSystemFor returns the OS file system, routed through S3 when any
// input is an s3:// URI.
func fileSystemFor(ctx context.Context, cfg *config.ProjectConfig, inputs []string) (filesystem.FileSystemProvider, error) {
	osfs := filesystem.NewOSFileSystem()
	needsS3 := false
	for _, in := range inputs {
		if filesystem.IsS3Path(in) {
			needsS3 = true
			break
		}
	}
	if !needsS3 {
		return osfs, nil
	}

	s3fs, err := filesystem.NewS3FileSystem(ctx, filesystem.S3Config{
		Region:    cfg.S3.Region,
		Endpoint:  cfg.S3.Endpoint,
		PathStyle: cfg.S3.PathStyle,
	})
	if err != nil {
		return nil, err
	}
	return filesystem.NewRouter(osfs, s3fs), nil
}

// runFlags are the assembly flags shared by load and export.
type runFlags struct {
	temporal bool
	strict   bool
}

func addRunFlags(cmd *cobra.Command, f *runFlags) {
	cmd.Flags().BoolVar(&f.temporal, "temporal", false,
		"Keep one entry per file keyed by its capture date and read time-annotated points\n"+
			"(default: merge every file into one snapshot of plain x/y points)")
	cmd.Flags().BoolVar(&f.strict, "strict", false,
		"Abort on a missing or malformed input instead of skipping it")
}

// options merges flags over the project configuration.
func (f runFlags) options(cmd *cobra.Command, cfg *config.ProjectConfig) assembler.Options {
	mode := cfg.AssemblyMode()
	if cmd.Flags().Changed("temporal") {
		mode = rootmodel.ModeFromFlag(f.temporal)
	}
	strict := cfg.Strict
	if cmd.Flags().Changed("strict") {
		strict = f.strict
	}
	return assembler.Options{Mode: mode, Strict: strict}
}

// assemble expands inputs into RSML paths and runs the assembler.
func (s *session) assemble(ctx context.Context, inputs []string, opts assembler.Options) (*assembler.Result, error) {
	found, err := scanner.NewScannerWithFS(s.fs).Expand(inputs)
	if err != nil {
		return nil, err
	}
	for _, ignored := range found.Ignored {
		s.logger.Warn("ignoring %s: not an RSML file or directory", ignored)
	}
	if len(found.Files) == 0 {
		return nil, fmt.Errorf("%w: no RSML files found in %s", rootmodel.ErrNoInput, strings.Join(inputs, ", "))
	}
	s.logger.Verbose("assembling %d files in %s mode", len(found.Files), opts.Mode)

	asm := assembler.New(document.NewLoaderWithFS(s.fs), s.resolver(), s.logger)
	return asm.Assemble(ctx, found.Files, opts)
}

func (s *session) resolver() *dates.Resolver {
	return dates.NewResolver(dates.SystemClock{}, s.cfg.ExtraDateLayouts...)
}
