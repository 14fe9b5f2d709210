package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vvka-141/rootmodel/internal/metrics"
	"github.com/vvka-141/rootmodel/internal/report"
	"github.com/vvka-141/rootmodel/pkg/rootmodel"
)

type loadFlagValues struct {
	runFlags
	output      string
	metricsFile string
}

func newLoadCmd() *cobra.Command {
	var flags loadFlagValues

	cmd := &cobra.Command{
		Use:   "load <path>...",
		Short: "Assemble RSML files into a root model and report it",
		Long: `Load assembles RSML files into a root model and prints a report.

Arguments may be .rsml/.rsmlNN files, directories (scanned recursively) or
s3://bucket/prefix URIs.

Snapshot mode (default) merges every file into one scene dated by the
earliest capture date. --temporal keeps one entry per file and reads
time-annotated points (coord_t, coord_th, coord_x, coord_y, diameter,
vx, vy).

Examples:
  # Summary of one plate
  rootmodel load 13_05_2018_HA01_R004_h053.rsml

  # Time series as JSON
  rootmodel load ./series --temporal --output json

  # Read from S3 and write node-exporter metrics
  rootmodel load s3://scans/2018/ --metrics-file /var/lib/node_exporter/rootmodel.prom`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, args, flags)
		},
	}

	addRunFlags(cmd, &flags.runFlags)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"Report format: summary|json|yaml (default: summary, or output in rootmodel.yaml)")
	cmd.Flags().StringVar(&flags.metricsFile, "metrics-file", "",
		"Write run metrics in Prometheus text format to this file")
	return cmd
}

func runLoad(cmd *cobra.Command, args []string, flags loadFlagValues) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	s, err := newSession(ctx, cmd, args)
	if err != nil {
		return err
	}
	defer s.Close()

	output := s.cfg.Output
	if cmd.Flags().Changed("output") {
		output = flags.output
	}
	format, err := report.ParseFormat(output)
	if err != nil {
		return fmt.Errorf("%w: %v", rootmodel.ErrInvalidConfig, err)
	}
	metricsFile := s.cfg.MetricsFile
	if cmd.Flags().Changed("metrics-file") {
		metricsFile = flags.metricsFile
	}

	opts := flags.options(cmd, s.cfg)
	started := time.Now()
	result, runErr := s.assemble(ctx, args, opts)

	if metricsFile != "" {
		rec := metrics.NewRecorder()
		rec.Observe(result, time.Since(started), time.Now())
		if err := rec.WriteTextfile(metricsFile); err != nil {
			s.logger.Error("%v", err)
		}
	}

	// ErrNoUsableFiles still carries a result worth reporting
	if runErr != nil && (result == nil || !errors.Is(runErr, rootmodel.ErrNoUsableFiles)) {
		return runErr
	}

	out := cmd.OutOrStdout()
	if err := report.Write(out, format, report.Build(result, opts.Mode), report.ColorEnabled(out, nil)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return runErr
}
