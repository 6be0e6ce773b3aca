package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sizescope/sizescope/internal/dashboard"
)

// reportFileMode is the permission for written report files.
const reportFileMode = 0o644

// ReportCommand holds configuration for the report command.
type ReportCommand struct {
	metric    string
	threshold int64
	output    string
	hideDebug bool
}

// NewReportCommand creates the report command.
func NewReportCommand() *cobra.Command {
	rc := &ReportCommand{}

	cmd := &cobra.Command{
		Use:   "report <platform> <version1> <version2>",
		Short: "Write a standalone HTML comparison report",
		Long:  "Render the comparison dashboard page for a version pair into a self-contained HTML file.",
		Args:  cobra.ExactArgs(3),
		RunE:  rc.run,
	}

	addDataFlags(cmd)
	cmd.Flags().StringVarP(&rc.metric, "metric", "m", "", "Size metric column (default from config)")
	cmd.Flags().Int64VarP(&rc.threshold, "threshold", "t", -1, "Change classification threshold in bytes (default from config)")
	cmd.Flags().StringVarP(&rc.output, "output", "o", "sizescope-report.html", "Output file path (- for stdout)")
	cmd.Flags().BoolVar(&rc.hideDebug, "hide-debug", false, "Hide debug sections on the configured platform family")

	return cmd
}

func (rc *ReportCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, true)
	if err != nil {
		return err
	}

	loader, err := buildLoader(cfg)
	if err != nil {
		return err
	}

	sel := dashboard.Selection{
		Platform:  args[0],
		Version1:  args[1],
		Version2:  args[2],
		Metric:    rc.metric,
		Threshold: cfg.Compare.Threshold,
		Filter: dashboard.Filter{
			ExcludeDebugSections: rc.hideDebug || cfg.Sections.ExcludeDebug,
		},
	}

	if sel.Metric == "" {
		sel.Metric = cfg.Compare.Metric
	}

	if rc.threshold >= 0 {
		sel.Threshold = rc.threshold
	}

	service := dashboard.NewService(loader, cfg)

	view, err := service.BuildView(cmd.Context(), sel)
	if err != nil {
		return err
	}

	page := service.RenderReportPage(view)

	if rc.output == "-" {
		return page.Render(cmd.OutOrStdout())
	}

	file, err := os.OpenFile(rc.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, reportFileMode)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}

	err = page.Render(file)
	if err != nil {
		_ = file.Close()

		return fmt.Errorf("rendering report: %w", err)
	}

	err = file.Close()
	if err != nil {
		return fmt.Errorf("closing report file: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "report written to %s\n", rc.output)

	return nil
}
