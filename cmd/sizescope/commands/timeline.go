package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/sizescope/sizescope/internal/dashboard"
)

// TimelineCommand holds configuration for the timeline command.
type TimelineCommand struct {
	metric string
	from   string
	to     string
	format string
}

// NewTimelineCommand creates the timeline command.
func NewTimelineCommand() *cobra.Command {
	tc := &TimelineCommand{}

	cmd := &cobra.Command{
		Use:   "timeline <platform> <file>",
		Short: "Chart one file's size across versions",
		Long:  "Print one file's size in every released version of a platform, oldest first.",
		Args:  cobra.ExactArgs(2),
		RunE:  tc.run,
	}

	addDataFlags(cmd)
	cmd.Flags().StringVarP(&tc.metric, "metric", "m", "", "Size metric column (default from config)")
	cmd.Flags().StringVar(&tc.from, "from", "", "Oldest version to include (default: all)")
	cmd.Flags().StringVar(&tc.to, "to", "", "Newest version to include (default: all)")
	cmd.Flags().StringVar(&tc.format, "format", formatTable, "Output format: table, json")

	return cmd
}

func (tc *TimelineCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, true)
	if err != nil {
		return err
	}

	loader, err := buildLoader(cfg)
	if err != nil {
		return err
	}

	metric := tc.metric
	if metric == "" {
		metric = cfg.Compare.Metric
	}

	service := dashboard.NewService(loader, cfg)

	view, err := service.BuildTimeline(cmd.Context(), args[0], args[1], tc.from, tc.to, metric)
	if err != nil {
		return err
	}

	switch tc.format {
	case formatJSON:
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")

		return enc.Encode(view)
	case formatTable:
		return writeTimelineTable(cmd.OutOrStdout(), view)
	default:
		return fmt.Errorf("unknown format %q", tc.format)
	}
}

func writeTimelineTable(w io.Writer, view *dashboard.TimelineView) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Version", "Size", "Change"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})

	var previous int64

	for i, p := range view.Points {
		size := "absent"
		change := ""

		if p.Exists {
			size = humanize.IBytes(uint64(p.Size))
		}

		if i > 0 {
			change = dashboard.SignedBytes(p.Size - previous)
		}

		tw.AppendRow(table.Row{p.Version, size, change})

		previous = p.Size
	}

	tw.Render()

	return nil
}
