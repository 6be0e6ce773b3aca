package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/sizescope/sizescope/internal/sizetable"
)

// SnapshotCommand holds configuration for the snapshot command.
type SnapshotCommand struct {
	out       string
	platforms []string
}

// NewSnapshotCommand creates the snapshot command.
func NewSnapshotCommand() *cobra.Command {
	sc := &SnapshotCommand{}

	cmd := &cobra.Command{
		Use:   "snapshot [platform...]",
		Short: "Mirror remote size tables into a local snapshot directory",
		Long: `Fetch every table listed in the platform index and store it as a
compressed local snapshot, so comparisons keep working offline.

Positional arguments restrict the snapshot to the named platforms.`,
		Args: cobra.ArbitraryArgs,
		RunE: sc.run,
	}

	addDataFlags(cmd)
	cmd.Flags().StringVarP(&sc.out, "out", "o", "", "Snapshot directory (required)")
	cmd.Flags().StringSliceVar(&sc.platforms, "platform", nil, "Only snapshot the listed platforms (default: all)")

	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func (sc *SnapshotCommand) run(cmd *cobra.Command, args []string) error {
	sc.platforms = append(sc.platforms, args...)

	cfg, err := loadConfig(cmd, true)
	if err != nil {
		return err
	}

	loader, err := buildLoader(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	idx, err := loader.LoadIndex(ctx)
	if err != nil {
		return err
	}

	err = sc.writeIndex(ctx, loader.Source())
	if err != nil {
		return err
	}

	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		quiet = false
	}

	var written int

	for _, platform := range idx.Platforms() {
		if len(sc.platforms) > 0 && !slices.Contains(sc.platforms, platform) {
			continue
		}

		for _, version := range idx[platform].Versions {
			err = sc.snapshotTable(ctx, loader.Source(), platform, version)
			if err != nil {
				return err
			}

			written++

			if !quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "snapshot %s/%s\n", platform, version)
			}
		}
	}

	if !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d tables written to %s\n", written, sc.out)
	}

	return nil
}

func (sc *SnapshotCommand) snapshotTable(ctx context.Context, src sizetable.Source, platform, version string) error {
	raw, err := src.Table(ctx, platform, version)
	if err != nil {
		return fmt.Errorf("fetching %s/%s: %w", platform, version, err)
	}

	err = sizetable.WriteSnapshot(sc.out, platform, version, raw)
	if err != nil {
		return fmt.Errorf("writing snapshot %s/%s: %w", platform, version, err)
	}

	return nil
}

// writeIndex mirrors the index document so the snapshot directory is a
// complete standalone source.
func (sc *SnapshotCommand) writeIndex(ctx context.Context, src sizetable.Source) error {
	raw, err := src.Index(ctx)
	if err != nil {
		return err
	}

	err = os.MkdirAll(sc.out, 0o755)
	if err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}

	err = os.WriteFile(filepath.Join(sc.out, "index.json"), raw, reportFileMode)
	if err != nil {
		return fmt.Errorf("writing index: %w", err)
	}

	return nil
}
