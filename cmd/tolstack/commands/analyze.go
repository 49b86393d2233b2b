package commands

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/alexshd/tolerance"
	"github.com/alexshd/tolerance/internal/stackfile"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Run worst-case, RSS and Monte Carlo analysis on stackups",
		Long: `Analyze every stackup in the document, or only the one named by --stackup.

The Monte Carlo seed is printed with the results; pass it back with --seed to
reproduce a run exactly. Results do not depend on --workers.`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().String("stackup", "", "Analyze only this stackup id")
	cmd.Flags().Int("iterations", tolerance.DefaultIterations, "Monte Carlo iterations")
	cmd.Flags().Uint64("seed", 0, "Monte Carlo seed (default: drawn and reported)")
	cmd.Flags().Float64("marginal", tolerance.DefaultMarginalFraction, "Worst-case marginal threshold as a fraction of the target band")
	cmd.Flags().Int("workers", 0, "Monte Carlo goroutines (0 = GOMAXPROCS)")
	cmd.Flags().Int("chunk-size", tolerance.DefaultChunkSize, "Iterations per sampling chunk")
	cmd.Flags().Bool("strict-sigma", false, "Reject stackups whose contributors all have zero tolerance")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	settings, logger, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	doc, err := stackfile.Load(args[0])
	if err != nil {
		return err
	}

	ids := doc.StackupIDs()
	if only, _ := cmd.Flags().GetString("stackup"); only != "" {
		ids = []string{only}
	}
	if len(ids) == 0 {
		return errors.Newf("%s defines no stackups", args[0])
	}

	cfg := settings.Analysis.Engine(logger)

	reports := make([]stackupReport, 0, len(ids))
	for _, id := range ids {
		s, err := doc.Stackup(id)
		if err != nil {
			return err
		}
		r, err := tolerance.Analyze(cmd.Context(), s, cfg)
		if err != nil {
			return errors.Wrapf(err, "stackup %q", id)
		}
		logger.Debug("stackup done",
			"stackup", id,
			"verdict", r.WorstCase.Verdict,
			"seed", r.MonteCarlo.Seed)
		reports = append(reports, newStackupReport(id, s, r))
	}

	logger.Info("analysis complete", "file", args[0], "stackups", len(reports))
	return render(cmd.OutOrStdout(), settings.Output.Format, reports, renderStackups)
}
