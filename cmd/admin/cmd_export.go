package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"bloodlink/internal/export"
	"bloodlink/internal/storage"
)

func newExportCmd() *cobra.Command {
	var (
		out          string
		dir          string
		locale       string
		escapeQuotes bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every donor as CSV",
		Long:  `Writes the same CSV the dashboard's download button produces, to a file, stdout or a dated archive directory.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			rt, err := openRuntime(ctx, false)
			if err != nil {
				return err
			}
			defer rt.close()

			if locale == "" {
				locale = rt.cfg.DefaultLocale
			}
			tag, err := language.Parse(locale)
			if err != nil {
				return fmt.Errorf("invalid locale %q: %w", locale, err)
			}
			writer := export.CSVWriter{
				EscapeQuotes: escapeQuotes || rt.cfg.CSVEscapeQuotes,
				Location:     rt.cfg.Location,
			}

			if dir != "" {
				store, err := storage.NewExportStore(dir)
				if err != nil {
					return err
				}
				var n int
				path, err := store.Save(ctx, storage.SnapshotKey(time.Now()), func(w io.Writer) error {
					var err error
					n, err = rt.service.ExportDonors(ctx, w, writer, export.MatchLocale(tag))
					return err
				})
				if err != nil {
					return err
				}
				rt.logger.Info().Int("rows", n).Str("path", path).Msg("donors exported")
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}
			n, err := rt.service.ExportDonors(ctx, w, writer, export.MatchLocale(tag))
			if err != nil {
				return err
			}
			rt.logger.Info().Int("rows", n).Str("out", out).Msg("donors exported")
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", export.Filename(), `Output file ("-" for stdout)`)
	cmd.Flags().StringVar(&dir, "dir", "", "Archive a timestamped snapshot under this directory instead of --out")
	cmd.Flags().StringVar(&locale, "locale", "", "Locale for the Registered column (default DEFAULT_LOCALE)")
	cmd.Flags().BoolVar(&escapeQuotes, "escape-quotes", false, "Double embedded quotes (RFC 4180)")
	return cmd
}
