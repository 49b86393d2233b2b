package commands

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/alexshd/tolerance/internal/stackfile"
)

func newFitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fit <file>",
		Short: "Compute fits for mates",
		Long: `Compute clearance, interference or transition fits for every mate in the
document, or only the one named by --mate, and check each against its
designed mate type.`,
		Args: cobra.ExactArgs(1),
		RunE: runFit,
	}
	cmd.Flags().String("mate", "", "Compute only this mate id")
	return cmd
}

func runFit(cmd *cobra.Command, args []string) error {
	settings, logger, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	doc, err := stackfile.Load(args[0])
	if err != nil {
		return err
	}

	ids := doc.MateIDs()
	if only, _ := cmd.Flags().GetString("mate"); only != "" {
		ids = []string{only}
	}
	if len(ids) == 0 {
		return errors.Newf("%s defines no mates", args[0])
	}

	reports := make([]fitReport, 0, len(ids))
	for _, id := range ids {
		m, err := doc.Mate(id)
		if err != nil {
			return err
		}
		fit, err := m.Fit()
		if err != nil {
			return err
		}
		reports = append(reports, newFitReport(m, fit))
	}

	logger.Info("fits computed", "file", args[0], "mates", len(reports))
	return render(cmd.OutOrStdout(), settings.Output.Format, reports, renderFits)
}
