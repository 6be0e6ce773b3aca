package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/sizescope/sizescope/internal/compare"
	"github.com/sizescope/sizescope/internal/dashboard"
)

// Output formats.
const (
	formatTable = "table"
	formatJSON  = "json"
)

// CompareCommand holds configuration for the compare command.
type CompareCommand struct {
	metric    string
	threshold int64
	format    string
	limit     int
	contains  string
	hideDebug bool
	noColor   bool
}

// NewCompareCommand creates the compare command.
func NewCompareCommand() *cobra.Command {
	cc := &CompareCommand{}

	cmd := &cobra.Command{
		Use:   "compare <platform> <version1> <version2>",
		Short: "Compare two versions' size tables",
		Long:  "Compare per-file sizes between two versions of a platform's build.",
		Args:  cobra.ExactArgs(3),
		RunE:  cc.run,
	}

	addDataFlags(cmd)
	cmd.Flags().StringVarP(&cc.metric, "metric", "m", "", "Size metric column (default from config)")
	cmd.Flags().Int64VarP(&cc.threshold, "threshold", "t", -1, "Change classification threshold in bytes (default from config)")
	cmd.Flags().StringVar(&cc.format, "format", formatTable, "Output format: table, json")
	cmd.Flags().IntVar(&cc.limit, "limit", 0, "Show only the N largest changes (0 = all)")
	cmd.Flags().StringVar(&cc.contains, "contains", "", "Show only files whose name contains the substring")
	cmd.Flags().BoolVar(&cc.hideDebug, "hide-debug", false, "Hide debug sections on the configured platform family")
	cmd.Flags().BoolVar(&cc.noColor, "no-color", false, "Disable colored output")

	return cmd
}

func (cc *CompareCommand) run(cmd *cobra.Command, args []string) error {
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
		Metric:    cc.metric,
		Threshold: cfg.Compare.Threshold,
		Filter: dashboard.Filter{
			NameContains:         cc.contains,
			ExcludeDebugSections: cc.hideDebug || cfg.Sections.ExcludeDebug,
		},
	}

	if sel.Metric == "" {
		sel.Metric = cfg.Compare.Metric
	}

	if cc.threshold >= 0 {
		sel.Threshold = cc.threshold
	}

	service := dashboard.NewService(loader, cfg)

	view, err := service.BuildView(cmd.Context(), sel)
	if err != nil {
		return err
	}

	switch cc.format {
	case formatJSON:
		return writeCompareJSON(cmd.OutOrStdout(), view, cc.limit)
	case formatTable:
		return cc.writeCompareTable(cmd.OutOrStdout(), view)
	default:
		return fmt.Errorf("unknown format %q", cc.format)
	}
}

func writeCompareJSON(w io.Writer, view *dashboard.View, limit int) error {
	comparisons := view.Comparisons
	if limit > 0 && len(comparisons) > limit {
		comparisons = comparisons[:limit]
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(struct {
		Metric      string               `json:"metric"`
		Threshold   int64                `json:"threshold"`
		Summary     compare.Summary      `json:"summary"`
		Comparisons []compare.Comparison `json:"comparisons"`
	}{
		Metric:      view.Selection.Metric,
		Threshold:   view.Selection.Threshold,
		Summary:     view.Summary,
		Comparisons: comparisons,
	})
}

func (cc *CompareCommand) writeCompareTable(w io.Writer, view *dashboard.View) error {
	grown := color.New(color.FgRed)
	shrunk := color.New(color.FgGreen)

	if cc.noColor {
		grown.DisableColor()
		shrunk.DisableColor()
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"File", "Before", "After", "Change", "Percent", "Type"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	comparisons := view.Comparisons
	if cc.limit > 0 && len(comparisons) > cc.limit {
		comparisons = comparisons[:cc.limit]
	}

	for _, c := range comparisons {
		change := dashboard.SignedBytes(c.Difference)

		switch c.ChangeType {
		case compare.Increased:
			change = grown.Sprint(change)
		case compare.Decreased:
			change = shrunk.Sprint(change)
		}

		tw.AppendRow(table.Row{
			c.CompileUnit,
			humanize.IBytes(uint64(c.Size1)),
			humanize.IBytes(uint64(c.Size2)),
			change,
			dashboard.PercentLabel(c),
			string(c.ChangeType),
		})
	}

	sum := view.Summary
	tw.AppendFooter(table.Row{
		fmt.Sprintf("%d files", sum.Total), "", "",
		dashboard.SignedBytes(sum.NetDifference),
		"",
		fmt.Sprintf("%d up / %d down", sum.Increased, sum.Decreased),
	})

	tw.Render()

	if len(comparisons) < view.TotalUnfiltered {
		fmt.Fprintf(w, "showing %d of %d files\n", len(comparisons), view.TotalUnfiltered)
	}

	return nil
}

