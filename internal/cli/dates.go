package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vvka-141/rootmodel/internal/document"
	"github.com/vvka-141/rootmodel/internal/files/scanner"
)

func newDatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dates <path>...",
		Short: "Print the inferred capture date of each RSML file",
		Long: `Dates prints the capture date inferred for every RSML file, with the text it
was parsed from. Files whose date falls back to the current time are
marked "fallback". Unreadable files are reported and skipped.

Example:
  rootmodel dates ./series`,
		Args: cobra.MinimumNArgs(1),
		RunE: runDates,
	}
}

func runDates(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	s, err := newSession(ctx, cmd, args)
	if err != nil {
		return err
	}
	defer s.Close()

	found, err := scanner.NewScannerWithFS(s.fs).Expand(args)
	if err != nil {
		return err
	}

	loader := document.NewLoaderWithFS(s.fs)
	resolver := s.resolver()

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, path := range found.Files {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc, err := loader.Load(path)
		if err != nil {
			s.logger.Warn("skipping %s: %v", path, err)
			continue
		}
		res := resolver.InferEarliest(doc, nil)
		source := fmt.Sprintf("from %q", res.Candidate)
		if res.Fallback {
			source = "fallback"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", path, res.Date.Format(time.RFC3339), source)
	}
	return tw.Flush()
}
