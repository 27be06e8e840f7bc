package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/partsbin/internal/backup"
	"github.com/mesh-intelligence/partsbin/internal/paths"
	"github.com/mesh-intelligence/partsbin/pkg/partsbin"
)

// sink delivers and reopens backup documents.
type sink interface {
	backup.Deliverer
	backup.Opener
}

// backupSink builds the sink for target, falling back to config.yaml.
func (a *app) backupSink(ctx context.Context, target, dir string) (sink, string, error) {
	if target == "" {
		target = a.cfg.Backup.Target
	}
	switch target {
	case targetFile:
		if dir == "" {
			dataDir, err := a.dataDir()
			if err != nil {
				return nil, "", err
			}
			if dir, err = paths.ResolveBackupDir(a.cfg.Backup.Dir, dataDir); err != nil {
				return nil, "", sysErr(err)
			}
		}
		return backup.Filesystem{Dir: dir}, dir, nil
	case targetS3:
		s3, err := backup.NewS3(ctx, a.cfg.Backup.S3)
		if err != nil {
			return nil, "", sysErr(fmt.Errorf("s3 backup target: %w", err))
		}
		return s3, "s3://" + a.cfg.Backup.S3.Bucket, nil
	default:
		return nil, "", fmt.Errorf("unknown backup target %q (want %s or %s)", target, targetFile, targetS3)
	}
}

func newBackupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or import a full backup document",
	}

	var target, dir, name string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write every collection and the settings to a backup document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, where, err := a.backupSink(ctx, target, dir)
			if err != nil {
				return err
			}
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				res, err := backup.Export(ctx, ws, s, name, a.now())
				a.recorder.ObserveBackup("export", err, res.Bytes)
				if err != nil {
					return err
				}
				a.log.Info("backup exported", "name", res.Name, "bytes", res.Bytes, "target", where)
				out := map[string]any{"name": res.Name, "bytes": res.Bytes, "cancelled": res.Cancelled, "target": where}
				return a.emit(out, func(w io.Writer) {
					if res.Cancelled {
						fmt.Fprintln(w, "Export cancelled")
						return
					}
					fmt.Fprintf(w, "Exported %s (%d bytes) to %s\n", res.Name, res.Bytes, where)
				})
			})
		},
	}
	export.Flags().StringVar(&target, "target", "", "file or s3 (default: backup.target in config.yaml)")
	export.Flags().StringVar(&dir, "dir", "", "directory for file backups")
	export.Flags().StringVar(&name, "name", "", "document name (default: partsbin-backup-<date>.json)")

	imp := &cobra.Command{
		Use:   "import <name>",
		Short: "Replace every collection with the contents of a backup document",
		Long:  "Import validates the document first. An invalid document leaves the\nstore untouched and names each missing or malformed field.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, where, err := a.backupSink(ctx, target, dir)
			if err != nil {
				return err
			}
			return a.withWorkshop(func(ws *partsbin.Workshop) error {
				doc, err := backup.Import(ctx, s, ws, args[0])
				a.recorder.ObserveBackup("import", err, 0)
				if err != nil {
					return fmt.Errorf("import %s: %w", args[0], err)
				}
				a.log.Info("backup imported", "name", args[0], "target", where, "version", doc.Version)
				counts := ws.Summary()
				out := map[string]any{
					"name":      args[0],
					"version":   doc.Version,
					"timestamp": doc.Timestamp,
					"summary":   counts,
				}
				return a.emit(out, func(w io.Writer) {
					fmt.Fprintf(w, "Imported %s (format %s, taken %s)\n", args[0], doc.Version, doc.Timestamp.Format("2006-01-02 15:04"))
					fmt.Fprintf(w, "  %d parts, %d categories, %d locations, %d builds\n",
						counts.TotalParts, counts.TotalCategories, counts.TotalLocations, counts.TotalBuilds)
				})
			})
		},
	}
	imp.Flags().StringVar(&target, "target", "", "file or s3 (default: backup.target in config.yaml)")
	imp.Flags().StringVar(&dir, "dir", "", "directory for file backups")

	cmd.AddCommand(export, imp)
	return cmd
}
